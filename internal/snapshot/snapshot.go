// Package snapshot captures the system view a single run works from.
// Pool status is read exactly once, up front. The device catalog is read
// at most once, and only if the flow gets far enough to need candidates.
// Every decision in one run is therefore based on the same reading of
// the system.
package snapshot

import (
	"sync"

	"github.com/hevel86/zfs-scripts/internal/catalog"
	"github.com/hevel86/zfs-scripts/internal/zfs"
)

// swappable in tests
var (
	queryStatus      = zfs.QueryStatus
	enumerateCatalog = catalog.Enumerate
)

// Snapshot is the fixed view of pools and candidate disks for one run.
type Snapshot struct {
	Pools []*zfs.PoolStatus

	catalogOnce sync.Once
	entries     []catalog.Entry
	catalogErr  error
}

// Take queries pool status and returns the snapshot built on it.
func Take() (*Snapshot, error) {
	pools, err := queryStatus()
	if err != nil {
		return nil, err
	}
	return &Snapshot{Pools: pools}, nil
}

// Catalog enumerates candidate disks on first call and replays the same
// result afterwards. Runs that stop before needing candidates never
// touch the catalog at all.
func (s *Snapshot) Catalog(dir string, prefixes []string) ([]catalog.Entry, error) {
	s.catalogOnce.Do(func() {
		s.entries, s.catalogErr = enumerateCatalog(dir, prefixes)
	})
	return s.entries, s.catalogErr
}
