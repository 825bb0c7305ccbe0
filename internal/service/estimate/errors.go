package estimate

import "errors"

// Sentinel errors for the estimate service layer.
var (
	ErrNotFound      = errors.New("estimate not found")
	ErrMissingNumber = errors.New("estimate number is required")
)
