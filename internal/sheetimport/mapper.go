package sheetimport

// MapColumns resolves a sheet's header row against one dictionary and
// returns raw header -> canonical field for every header the dictionary
// knows. Unknown headers are skipped, never an error.
//
// A sheet is mapped twice, once per dictionary, because a header like "pris"
// reads differently depending on whether the sheet is flat or grouped. Both
// mappings are computed up front; DetectStructure decides which one is
// authoritative.
func MapColumns(headers []string, dict Dictionary) map[string]CanonicalField {
	mapped := make(map[string]CanonicalField, len(headers))
	for _, h := range headers {
		if field, ok := dict.Lookup(h); ok {
			mapped[h] = field
		}
	}
	return mapped
}

// headerFor returns the first raw header mapped to the given canonical
// field, preserving header-row order, or "" if none is.
func headerFor(headers []string, mapped map[string]CanonicalField, field CanonicalField) string {
	for _, h := range headers {
		if mapped[h] == field {
			return h
		}
	}
	return ""
}
