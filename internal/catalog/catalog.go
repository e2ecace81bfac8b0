// Package catalog discovers candidate replacement disks through the
// stable identifier links the kernel publishes under /dev/disk/by-id.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hevel86/zfs-scripts/internal/devid"
)

// DefaultDir is where stable disk identifier links live.
const DefaultDir = "/dev/disk/by-id"

// Entry is one whole-disk identifier link.
type Entry struct {
	Name string // link basename, e.g. ata-ST8000VN004-2M2101_WSD123
	Path string // full link path, the string handed to zpool replace
}

// Enumerate lists whole-disk links in dir whose names carry one of the
// given identifier prefixes. Partition links (-partN) are skipped:
// offering a partition as a replacement would eat another disk's slice.
// os.ReadDir sorts by name, so repeated runs list candidates in the
// same order.
func Enumerate(dir string, prefixes []string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if !hasAnyPrefix(name, prefixes) {
			continue
		}
		if strings.Contains(name, "-part") {
			continue
		}
		if de.Type()&os.ModeSymlink == 0 {
			continue
		}
		entries = append(entries, Entry{Name: name, Path: filepath.Join(dir, name)})
	}
	return entries, nil
}

// Unclaimed filters entries down to disks no pool has recorded,
// preserving enumeration order. claimed holds normalized identifiers as
// built by zfs.ClaimedSet.
func Unclaimed(entries []Entry, claimed map[string]bool) []Entry {
	var free []Entry
	for _, e := range entries {
		if !claimed[devid.Normalize(e.Name)] {
			free = append(free, e)
		}
	}
	return free
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
