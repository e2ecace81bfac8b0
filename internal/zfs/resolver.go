package zfs

import (
	"github.com/hevel86/zfs-scripts/internal/devid"
)

// Classify splits pools into degraded and healthy, preserving report order.
func Classify(pools []*PoolStatus) (degraded, healthy []*PoolStatus) {
	for _, p := range pools {
		if p.IsDegraded() {
			degraded = append(degraded, p)
		} else {
			healthy = append(healthy, p)
		}
	}
	return degraded, healthy
}

// AnyResilvering returns the first pool with a resilver in progress,
// or nil. Replacing a disk while another rebuild is running competes
// for the same I/O, so callers stop when this is non-nil.
func AnyResilvering(pools []*PoolStatus) *PoolStatus {
	for _, p := range pools {
		if p.Resilvering() {
			return p
		}
	}
	return nil
}

// MissingMember returns the first member whose state appears in
// missingStates, scanning members in report order.
func (p *PoolStatus) MissingMember(missingStates []string) (Member, bool) {
	for _, m := range p.Members {
		for _, state := range missingStates {
			if m.State == state {
				return m, true
			}
		}
	}
	return Member{}, false
}

// ClaimedSet collects the normalized identifiers of every member of
// every pool, healthy or not. A disk in this set must never be offered
// as a replacement candidate.
func ClaimedSet(pools []*PoolStatus) map[string]bool {
	claimed := make(map[string]bool)
	for _, p := range pools {
		for _, m := range p.Members {
			claimed[devid.Normalize(m.Name)] = true
		}
	}
	return claimed
}
