package sheetimport

import "strings"

// CanonicalField is a normalized field name used across all import sources.
type CanonicalField string

// Estimate-level fields.
const (
	FieldNumber     CanonicalField = "number"
	FieldName       CanonicalField = "name"
	FieldCustomer   CanonicalField = "customer"
	FieldAddress    CanonicalField = "address"
	FieldPostalCode CanonicalField = "postal_code"
	FieldCity       CanonicalField = "city"
	FieldStatus     CanonicalField = "status"
	FieldTotal      CanonicalField = "total"
)

// Line-level fields.
const (
	FieldCategory    CanonicalField = "category"
	FieldDescription CanonicalField = "description"
	FieldQuantity    CanonicalField = "quantity"
	FieldUnit        CanonicalField = "unit"
	FieldUnitPrice   CanonicalField = "unit_price"
	FieldSubtotal    CanonicalField = "subtotal"
	FieldHours       CanonicalField = "hours"
)

// Dictionary maps normalized header text to a canonical field. Lookups are
// many-to-one: several raw spellings resolve to the same field. A header
// with no entry is simply ignored for that dictionary.
//
// Dictionaries are injected into the pipeline rather than read from package
// globals so alternate locales can be substituted without code changes.
type Dictionary map[string]CanonicalField

// NormalizeHeader canonicalizes a raw column header for dictionary lookup:
// lowercased, trimmed, internal whitespace runs collapsed to one space.
func NormalizeHeader(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// Lookup resolves a raw header against the dictionary.
func (d Dictionary) Lookup(rawHeader string) (CanonicalField, bool) {
	f, ok := d[NormalizeHeader(rawHeader)]
	return f, ok
}

// DefaultEstimateDictionary returns the synonym table for estimate-level
// columns as they appear in exports from the systems we import from,
// Norwegian spellings first.
func DefaultEstimateDictionary() Dictionary {
	return Dictionary{
		// Estimate number (the business key)
		"tilbudsnummer": FieldNumber,
		"tilbudsnr":     FieldNumber,
		"tilbud nr":     FieldNumber,
		"tilbud":        FieldNumber,
		"nummer":        FieldNumber,
		"nr":            FieldNumber,
		"offer number":  FieldNumber,
		"quote number":  FieldNumber,
		"estimate no":   FieldNumber,

		// Estimate name / title
		"navn":         FieldName,
		"tittel":       FieldName,
		"prosjekt":     FieldName,
		"prosjektnavn": FieldName,
		"title":        FieldName,
		"project":      FieldName,

		// Customer
		"kunde":      FieldCustomer,
		"kundenavn":  FieldCustomer,
		"oppdragsgiver": FieldCustomer,
		"customer":   FieldCustomer,
		"client":     FieldCustomer,

		// Address
		"adresse":      FieldAddress,
		"gateadresse":  FieldAddress,
		"address":      FieldAddress,

		// Postal code and city
		"postnummer": FieldPostalCode,
		"postnr":     FieldPostalCode,
		"zip":        FieldPostalCode,
		"poststed":   FieldCity,
		"sted":       FieldCity,
		"by":         FieldCity,
		"city":       FieldCity,

		// Status
		"status":   FieldStatus,
		"tilstand": FieldStatus,

		// Totals. "pris" also appears in the line dictionary; the structure
		// detector decides which reading is authoritative for a sheet.
		"totalsum":    FieldTotal,
		"total":       FieldTotal,
		"totalbeløp":  FieldTotal,
		"sum eks mva": FieldTotal,
		"pris":        FieldTotal,
		"beløp":       FieldTotal,
	}
}

// DefaultLineDictionary returns the synonym table for line-item columns.
func DefaultLineDictionary() Dictionary {
	return Dictionary{
		// Category
		"kategori": FieldCategory,
		"type":     FieldCategory,
		"fag":      FieldCategory,
		"category": FieldCategory,

		// Description
		"beskrivelse": FieldDescription,
		"moment":      FieldDescription,
		"oppgave":     FieldDescription,
		"arbeid":      FieldDescription,
		"tekst":       FieldDescription,
		"description": FieldDescription,

		// Quantity
		"antall":   FieldQuantity,
		"mengde":   FieldQuantity,
		"qty":      FieldQuantity,
		"quantity": FieldQuantity,

		// Unit
		"enhet": FieldUnit,
		"unit":  FieldUnit,

		// Unit price: three spellings in the wild plus English
		"enhetspris":     FieldUnitPrice,
		"pris per enhet": FieldUnitPrice,
		"stykkpris":      FieldUnitPrice,
		"unit price":     FieldUnitPrice,
		"pris":           FieldUnitPrice,

		// Line subtotal
		"sum":      FieldSubtotal,
		"delsum":   FieldSubtotal,
		"linjesum": FieldSubtotal,
		"beløp":    FieldSubtotal,
		"subtotal": FieldSubtotal,

		// Hours
		"timer":        FieldHours,
		"timeforbruk":  FieldHours,
		"antall timer": FieldHours,
		"hours":        FieldHours,
	}
}
