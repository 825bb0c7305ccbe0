package sheetimport

import (
	"testing"

	"github.com/Datavoxx/daglig-rad-sub001/internal/domain"
)

func TestPartitionByExisting(t *testing.T) {
	ests := []*domain.Estimate{
		{Number: "T-100"},
		{Number: " t-200 "},
		{Number: "T-300"},
	}
	existing := map[string]struct{}{
		"t-200": {},
	}

	p := PartitionByExisting(ests, existing)
	if len(p.New) != 2 || len(p.Duplicate) != 1 {
		t.Fatalf("partition = %d new / %d duplicate, want 2/1", len(p.New), len(p.Duplicate))
	}
	if p.Duplicate[0].Number != " t-200 " {
		t.Errorf("duplicate kept original casing/whitespace: %q", p.Duplicate[0].Number)
	}
}

func TestPartitionByExisting_SecondRunIsAllDuplicates(t *testing.T) {
	ests := []*domain.Estimate{{Number: "A-1"}, {Number: "A-2"}}

	// First run: empty store, everything is new.
	first := PartitionByExisting(ests, map[string]struct{}{})
	if len(first.New) != 2 {
		t.Fatalf("first run: %d new, want 2", len(first.New))
	}

	// Second run against a snapshot reflecting the first run's output.
	existing := make(map[string]struct{})
	for _, e := range first.New {
		existing[e.NormalizedNumber()] = struct{}{}
	}
	second := PartitionByExisting(ests, existing)
	if len(second.New) != 0 || len(second.Duplicate) != 2 {
		t.Errorf("second run = %d new / %d duplicate, want 0/2", len(second.New), len(second.Duplicate))
	}
}
