package sheetimport

import (
	"strconv"
	"strings"
)

// ParseNumber converts a loosely formatted numeric cell into a float.
// The second return value is false when the cell is absent or unparseable;
// that is a normal condition, never an error.
//
// The source exports use space thousands separators, a decimal comma, and
// currency suffixes ("1 234,56 kr"), so the parse is deliberately lax:
// whitespace is stripped, the first comma becomes a decimal point, and
// everything that is not a digit, '.' or '-' is dropped before ParseFloat.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	s = strings.Join(strings.Fields(s), "")
	s = strings.Replace(s, ",", ".", 1)

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseOptional is ParseNumber for optional struct fields.
func parseOptional(raw string) *float64 {
	if v, ok := ParseNumber(raw); ok {
		return &v
	}
	return nil
}
