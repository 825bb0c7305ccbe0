package estimate

import (
	"context"

	"github.com/Datavoxx/daglig-rad-sub001/internal/domain"
)

// Repository defines the data access contract for estimates.
type Repository interface {
	// InsertEstimate persists a new estimate and returns its assigned id.
	InsertEstimate(ctx context.Context, est *domain.Estimate) (string, error)

	// InsertLines persists the lines of one estimate as a single batch.
	InsertLines(ctx context.Context, estimateID string, lines []domain.EstimateLine) error

	// ExistingNumbers returns every estimate number stored for the org,
	// in original casing.
	ExistingNumbers(ctx context.Context, orgID string) ([]string, error)

	// List returns estimates for the org, newest first, with the total count.
	List(ctx context.Context, orgID string, filter ListFilter) ([]domain.Estimate, int, error)

	// Get returns one estimate with its lines. Returns ErrNotFound if absent.
	Get(ctx context.Context, orgID, id string) (*domain.Estimate, error)
}

// ListFilter controls pagination and filtering for estimate lists.
type ListFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}
