package sheetimport

// RawRow is one decoded spreadsheet row, keyed by the raw header text of
// each column. Values are the cell contents as strings; empty cells may be
// missing from the map entirely. A RawRow is never mutated after decoding.
type RawRow map[string]string

// Sheet is the decoded first worksheet of an uploaded file: the header row
// plus every data row in file order.
type Sheet struct {
	Headers []string
	Rows    []RawRow
}

// Structure describes the detected layout of a sheet.
type Structure string

const (
	// StructureFlat means one row per line item, with estimate metadata
	// repeated across rows sharing an estimate number.
	StructureFlat Structure = "flat"

	// StructureGrouped means one row per estimate, with no line detail.
	StructureGrouped Structure = "grouped"
)

// Outcome tracks the result of one import run. It is reporting data only;
// nothing downstream branches on it.
type Outcome struct {
	Imported      int `json:"imported"`
	ImportedLines int `json:"imported_lines"`
	Duplicates    int `json:"duplicates"`
	SkippedNoKey  int `json:"skipped_no_key"`
	Failed        int `json:"failed"`
}
