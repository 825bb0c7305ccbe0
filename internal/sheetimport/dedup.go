package sheetimport

import "github.com/Datavoxx/daglig-rad-sub001/internal/domain"

// Partition splits grouped estimates into those not yet present in the
// store and those whose number is already taken.
type Partition struct {
	New       []*domain.Estimate
	Duplicate []*domain.Estimate
}

// PartitionByExisting compares each estimate's normalized number against
// the snapshot of numbers already stored for the account. The snapshot is
// fetched once per import run and not re-validated against concurrent
// writers; that staleness window is accepted.
func PartitionByExisting(estimates []*domain.Estimate, existing map[string]struct{}) Partition {
	var p Partition
	for _, est := range estimates {
		if _, dup := existing[est.NormalizedNumber()]; dup {
			p.Duplicate = append(p.Duplicate, est)
		} else {
			p.New = append(p.New, est)
		}
	}
	return p
}
