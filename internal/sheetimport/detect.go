package sheetimport

import (
	"strings"

	"github.com/Datavoxx/daglig-rad-sub001/internal/domain"
)

// repeatThreshold is the distinct-to-nonempty ratio below which a business
// key column is considered to repeat substantially. Carried over from the
// original import heuristic; boundary behavior for small sheets is pinned
// in detect_test.go.
const repeatThreshold = 0.8

// DetectStructure decides whether a sheet is flat (one row per line item)
// or grouped (one row per estimate).
//
// The heuristic is conservative toward flat: losing line detail is worse
// than spuriously grouping unrelated rows, since each such row still makes
// a valid, if thin, estimate.
func DetectStructure(sheet *Sheet, estimateCols, lineCols map[string]CanonicalField) Structure {
	hasItemColumns := false
	for _, field := range lineCols {
		switch field {
		case FieldQuantity, FieldUnitPrice, FieldDescription:
			hasItemColumns = true
		}
	}

	keyHeader := headerFor(sheet.Headers, estimateCols, FieldNumber)

	if keyHeader != "" && hasItemColumns {
		nonEmpty := 0
		distinct := make(map[string]struct{})
		for _, row := range sheet.Rows {
			key := strings.TrimSpace(row[keyHeader])
			if key == "" {
				continue
			}
			nonEmpty++
			distinct[domain.NormalizeNumber(key)] = struct{}{}
		}
		if nonEmpty > 0 && float64(len(distinct)) < repeatThreshold*float64(nonEmpty) {
			return StructureFlat
		}
	}

	if hasItemColumns {
		return StructureFlat
	}
	return StructureGrouped
}
