package logger

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// customerKeys are log field names whose values identify a customer.
var customerKeys = []string{"customer", "kunde", "email", "address", "phone"}

func redactValue(key, val string) string {
	lower := strings.ToLower(key)
	for _, k := range customerKeys {
		if strings.Contains(lower, k) {
			return Mask(val)
		}
	}
	// Redact any embedded emails in generic fields.
	return emailRegex.ReplaceAllStringFunc(val, Mask)
}

// Mask hides all but the first two characters of a customer value.
// "Hansen Bygg AS" → "Ha***". Values of two characters or fewer are fully
// masked.
func Mask(val string) string {
	v := strings.TrimSpace(val)
	if len(v) <= 2 {
		return "***"
	}
	return v[:2] + "***"
}
