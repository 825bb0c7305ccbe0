// Package sheetdecode turns an uploaded spreadsheet file into the header
// row and string-keyed data rows the import pipeline consumes. Only the
// first worksheet of a workbook is read; later sheets are ignored.
package sheetdecode

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Datavoxx/daglig-rad-sub001/internal/sheetimport"
)

// Sentinel errors. Both are fatal for the run: nothing downstream executes.
var (
	ErrUnsupportedType = errors.New("unsupported file type, expected .csv or .xlsx")
	ErrEmptySheet      = errors.New("sheet is empty or has no header row")
)

// acceptedContentTypes are the MIME types clients may upload.
var acceptedContentTypes = map[string]bool{
	"text/csv": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// Accepted reports whether a filename/content-type pair names a file we can
// decode. Either signal is enough; browsers are unreliable about both.
func Accepted(filename, contentType string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx":
		return true
	}
	mt := contentType
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	return acceptedContentTypes[strings.TrimSpace(mt)]
}

// Decode reads the file and returns the decoded first sheet.
func Decode(r io.Reader, filename string) (*sheetimport.Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return decodeCSV(r)
	case ".xlsx":
		return decodeXLSX(r)
	default:
		return nil, ErrUnsupportedType
	}
}

func decodeCSV(r io.Reader) (*sheetimport.Sheet, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, row)
	}
	return buildSheet(records)
}

func decodeXLSX(r io.Reader) (*sheetimport.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}
	return buildSheet(rows)
}

// buildSheet converts raw records into a Sheet: first row becomes the
// headers, the rest become string-keyed rows. Rows with no content at all
// are dropped here so trailing blank spreadsheet rows don't show up as
// skipped records.
func buildSheet(records [][]string) (*sheetimport.Sheet, error) {
	if len(records) == 0 {
		return nil, ErrEmptySheet
	}

	headers := make([]string, 0, len(records[0]))
	for _, h := range records[0] {
		headers = append(headers, strings.TrimSpace(h))
	}

	sheet := &sheetimport.Sheet{Headers: headers}
	for _, cells := range records[1:] {
		row := make(sheetimport.RawRow, len(headers))
		empty := true
		for i, h := range headers {
			if h == "" || i >= len(cells) {
				continue
			}
			val := strings.TrimSpace(cells[i])
			if val == "" {
				continue
			}
			row[h] = val
			empty = false
		}
		if empty {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	if len(sheet.Headers) == 0 {
		return nil, ErrEmptySheet
	}
	return sheet, nil
}

// stripBOM wraps a reader to strip a UTF-8 BOM if present.
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := r.Read(buf)
	if err != nil || n < 3 {
		return io.MultiReader(strings.NewReader(string(buf[:n])), r)
	}
	if buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}
