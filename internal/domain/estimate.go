package domain

import (
	"strings"
	"time"
)

// EstimateStatus enumerates the lifecycle states of an estimate.
type EstimateStatus string

const (
	StatusDraft    EstimateStatus = "draft"
	StatusSent     EstimateStatus = "sent"
	StatusAccepted EstimateStatus = "accepted"
	StatusDeclined EstimateStatus = "declined"
)

// ParseEstimateStatus maps a raw status label from an external export to an
// EstimateStatus. Unrecognized labels fall back to StatusDraft so imported
// records always carry a valid status.
func ParseEstimateStatus(raw string) EstimateStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "draft", "utkast", "kladd":
		return StatusDraft
	case "sent", "sendt":
		return StatusSent
	case "accepted", "akseptert", "godkjent", "vunnet":
		return StatusAccepted
	case "declined", "avslått", "avslatt", "tapt":
		return StatusDeclined
	default:
		return StatusDraft
	}
}

// Estimate is a priced offer to a customer. Number is the natural identifier
// from the source system and is used for grouping and deduplication on
// import; ID is assigned by the store on insert.
type Estimate struct {
	ID             string         `json:"id" db:"id"`
	OrganizationID string         `json:"organization_id" db:"organization_id"`
	Number         string         `json:"number" db:"number"`
	Name           string         `json:"name" db:"name"`
	CustomerName   string         `json:"customer_name" db:"customer_name"`
	Address        string         `json:"address,omitempty" db:"address"`
	PostalCode     string         `json:"postal_code,omitempty" db:"postal_code"`
	City           string         `json:"city,omitempty" db:"city"`
	Status         EstimateStatus `json:"status" db:"status"`
	Total          *float64       `json:"total,omitempty" db:"total"`
	Lines          []EstimateLine `json:"lines,omitempty" db:"-"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// NormalizedNumber returns the estimate number in the canonical form used
// for identity comparison: trimmed and lowercased. The stored Number keeps
// its original casing.
func (e *Estimate) NormalizedNumber() string {
	return NormalizeNumber(e.Number)
}

// NormalizeNumber canonicalizes a business key for grouping and dedup.
func NormalizeNumber(number string) string {
	return strings.ToLower(strings.TrimSpace(number))
}

// EstimateLine is a single priced line item belonging to an estimate.
// Position preserves source file order within the estimate.
type EstimateLine struct {
	ID          string   `json:"id" db:"id"`
	EstimateID  string   `json:"estimate_id" db:"estimate_id"`
	Position    int      `json:"position" db:"position"`
	Category    string   `json:"category,omitempty" db:"category"`
	Description string   `json:"description" db:"description"`
	Quantity    *float64 `json:"quantity,omitempty" db:"quantity"`
	Unit        string   `json:"unit,omitempty" db:"unit"`
	UnitPrice   *float64 `json:"unit_price,omitempty" db:"unit_price"`
	Subtotal    *float64 `json:"subtotal,omitempty" db:"subtotal"`
	Hours       *float64 `json:"hours,omitempty" db:"hours"`
}
