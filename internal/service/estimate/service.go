package estimate

import (
	"context"
	"fmt"
	"strings"

	"github.com/Datavoxx/daglig-rad-sub001/internal/domain"
	"github.com/Datavoxx/daglig-rad-sub001/internal/sheetimport"
)

// Service implements estimate business logic. It is safe for concurrent use.
type Service struct {
	repo Repository
}

// NewService creates an estimate service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ExistingNumberSet fetches the dedup snapshot for one import run: every
// stored estimate number for the org, normalized for case-insensitive
// comparison. A failure here is fatal for the run; nothing gets committed.
func (s *Service) ExistingNumberSet(ctx context.Context, orgID string) (map[string]struct{}, error) {
	numbers, err := s.repo.ExistingNumbers(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("fetch existing estimate numbers: %w", err)
	}
	set := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		set[domain.NormalizeNumber(n)] = struct{}{}
	}
	return set, nil
}

// ImportStore returns a persistence adapter for the import orchestrator
// that stamps every estimate with the organization before insert.
func (s *Service) ImportStore(orgID string) sheetimport.Store {
	return &importStore{svc: s, orgID: orgID}
}

type importStore struct {
	svc   *Service
	orgID string
}

func (st *importStore) InsertEstimate(ctx context.Context, est *domain.Estimate) (string, error) {
	if strings.TrimSpace(est.Number) == "" {
		return "", ErrMissingNumber
	}
	est.OrganizationID = st.orgID
	return st.svc.repo.InsertEstimate(ctx, est)
}

func (st *importStore) InsertEstimateLines(ctx context.Context, estimateID string, lines []domain.EstimateLine) error {
	return st.svc.repo.InsertLines(ctx, estimateID, lines)
}

// List returns estimates matching the given filter.
func (s *Service) List(ctx context.Context, orgID string, filter ListFilter) ([]domain.Estimate, int, error) {
	return s.repo.List(ctx, orgID, filter)
}

// Get returns one estimate with its lines.
func (s *Service) Get(ctx context.Context, orgID, id string) (*domain.Estimate, error) {
	return s.repo.Get(ctx, orgID, id)
}
