package sheetimport

import (
	"context"

	"github.com/Datavoxx/daglig-rad-sub001/internal/domain"
	"github.com/Datavoxx/daglig-rad-sub001/internal/pkg/logger"
)

// Store is the narrow persistence contract the orchestrator needs. The
// estimate service satisfies it; tests use in-memory fakes.
type Store interface {
	// InsertEstimate persists one estimate and returns its assigned id.
	InsertEstimate(ctx context.Context, est *domain.Estimate) (string, error)

	// InsertEstimateLines persists all lines of one estimate as a batch.
	InsertEstimateLines(ctx context.Context, estimateID string, lines []domain.EstimateLine) error
}

// Batch is everything the orchestrator needs to run one commit: the
// estimates that survived dedup plus the counts accumulated upstream.
type Batch struct {
	NewEstimates []*domain.Estimate
	Duplicates   int
	SkippedNoKey int
}

// Importer sequences persistence for one import run.
type Importer struct {
	store Store
}

func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// ImportAll persists the batch one estimate at a time, in grouper order.
// A failing estimate is logged and counted, never aborts the batch, and its
// lines are not attempted. A failing line batch is logged but the already
// persisted estimate stays; its lines are simply missing from the counts.
//
// Records are imported sequentially on purpose: failure attribution stays
// per-record and the store's generated identifiers keep their ordering.
// The context is checked at the loop boundary, so a cancelled run returns
// the counts accumulated so far together with ctx.Err().
func (imp *Importer) ImportAll(ctx context.Context, batch *Batch) (Outcome, error) {
	outcome := Outcome{
		Duplicates:   batch.Duplicates,
		SkippedNoKey: batch.SkippedNoKey,
	}

	for _, est := range batch.NewEstimates {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		id, err := imp.store.InsertEstimate(ctx, est)
		if err != nil {
			logger.Warn("estimate insert failed, continuing batch",
				"number", est.Number, "error", err.Error())
			outcome.Failed++
			continue
		}
		outcome.Imported++

		if len(est.Lines) == 0 {
			continue
		}
		if err := imp.store.InsertEstimateLines(ctx, id, est.Lines); err != nil {
			logger.Warn("estimate lines insert failed, estimate kept",
				"number", est.Number, "lines", len(est.Lines), "error", err.Error())
			continue
		}
		outcome.ImportedLines += len(est.Lines)
	}

	return outcome, nil
}
