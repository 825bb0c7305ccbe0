package sheetimport

import (
	"strings"

	"github.com/Datavoxx/daglig-rad-sub001/internal/domain"
)

// Placeholders for required fields the source export left empty.
const (
	placeholderCustomer = "Ukjent kunde"
	placeholderLine     = "Importert linje"
)

// Grouped is the output of GroupRows: estimates in first-seen order plus
// the count of rows excluded for lacking a resolvable estimate number.
type Grouped struct {
	Estimates    []*domain.Estimate
	SkippedNoKey int
}

// GroupRows turns raw rows into estimates according to the detected
// structure.
//
// Grouped sheets yield one estimate per row, no lines. Flat sheets are
// partitioned by normalized estimate number: the first row seen for a key
// seeds the estimate's metadata, and every row for the key (including the
// first) contributes one line, in file order. Metadata on later rows of the
// same key is not merged; the export repeats it identically, so first
// writer wins.
//
// Rows with an empty estimate number are counted and excluded under either
// structure. Required-field backfills run after grouping so they apply
// uniformly regardless of structure.
func GroupRows(sheet *Sheet, estimateCols, lineCols map[string]CanonicalField, structure Structure) *Grouped {
	keyHeader := headerFor(sheet.Headers, estimateCols, FieldNumber)

	out := &Grouped{}
	seen := make(map[string]*domain.Estimate)

	for _, row := range sheet.Rows {
		key := ""
		if keyHeader != "" {
			key = strings.TrimSpace(row[keyHeader])
		}
		if key == "" {
			out.SkippedNoKey++
			continue
		}

		if structure == StructureGrouped {
			out.Estimates = append(out.Estimates, buildEstimate(row, estimateCols))
			continue
		}

		norm := domain.NormalizeNumber(key)
		est, ok := seen[norm]
		if !ok {
			est = buildEstimate(row, estimateCols)
			seen[norm] = est
			out.Estimates = append(out.Estimates, est)
		}
		est.Lines = append(est.Lines, buildLine(row, lineCols, len(est.Lines)))
	}

	for _, est := range out.Estimates {
		backfill(est)
	}
	return out
}

func buildEstimate(row RawRow, cols map[string]CanonicalField) *domain.Estimate {
	est := &domain.Estimate{Status: domain.StatusDraft}

	for header, field := range cols {
		val := strings.TrimSpace(row[header])
		if val == "" {
			continue
		}
		switch field {
		case FieldNumber:
			est.Number = val
		case FieldName:
			est.Name = val
		case FieldCustomer:
			est.CustomerName = val
		case FieldAddress:
			est.Address = val
		case FieldPostalCode:
			est.PostalCode = val
		case FieldCity:
			est.City = val
		case FieldStatus:
			est.Status = domain.ParseEstimateStatus(val)
		case FieldTotal:
			est.Total = parseOptional(val)
		}
	}
	return est
}

func buildLine(row RawRow, cols map[string]CanonicalField, position int) domain.EstimateLine {
	line := domain.EstimateLine{Position: position}

	for header, field := range cols {
		val := strings.TrimSpace(row[header])
		if val == "" {
			continue
		}
		switch field {
		case FieldCategory:
			line.Category = val
		case FieldDescription:
			line.Description = val
		case FieldQuantity:
			line.Quantity = parseOptional(val)
		case FieldUnit:
			line.Unit = val
		case FieldUnitPrice:
			line.UnitPrice = parseOptional(val)
		case FieldSubtotal:
			line.Subtotal = parseOptional(val)
		case FieldHours:
			line.Hours = parseOptional(val)
		}
	}

	if line.Subtotal == nil && line.Quantity != nil && line.UnitPrice != nil {
		sub := *line.Quantity * *line.UnitPrice
		line.Subtotal = &sub
	}
	return line
}

func backfill(est *domain.Estimate) {
	if est.Name == "" {
		est.Name = est.Number
	}
	if est.CustomerName == "" {
		est.CustomerName = placeholderCustomer
	}
	for i := range est.Lines {
		if est.Lines[i].Description == "" {
			est.Lines[i].Description = placeholderLine
		}
	}
}
