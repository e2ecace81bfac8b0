package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hevel86/zfs-scripts/internal/zfs"
)

// fakeByIDDir builds a directory that looks like /dev/disk/by-id: the
// given names are symlinks, plus one regular file and one foreign-prefix
// link that Enumerate must ignore.
func fakeByIDDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()

	target := filepath.Join(dir, ".target")
	require.NoError(t, os.WriteFile(target, nil, 0o600))

	for _, name := range names {
		require.NoError(t, os.Symlink(target, filepath.Join(dir, name)))
	}
	return dir
}

func TestEnumerate(t *testing.T) {
	dir := fakeByIDDir(t,
		"ata-ST8000VN004-2M2101_WSD11111",
		"ata-ST8000VN004-2M2101_WSD11111-part1",
		"ata-ST8000VN004-2M2101_WSD11111-part9",
		"scsi-35000c500a1b2c3d4",
		"wwn-0x5000c500a1b2c3d4",
		"usb-Kingston_DataTraveler_3.0",
	)
	// regular files are not identifier links
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ata-not-a-link"), nil, 0o600))

	entries, err := Enumerate(dir, []string{"ata-", "scsi-"})
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "ata-ST8000VN004-2M2101_WSD11111", entries[0].Name)
	assert.Equal(t, filepath.Join(dir, "ata-ST8000VN004-2M2101_WSD11111"), entries[0].Path)
	assert.Equal(t, "scsi-35000c500a1b2c3d4", entries[1].Name)
}

func TestEnumeratePrefixFamilies(t *testing.T) {
	dir := fakeByIDDir(t,
		"ata-DISK_A",
		"wwn-0x5000c500a1b2c3d4",
	)

	entries, err := Enumerate(dir, []string{"wwn-"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "wwn-0x5000c500a1b2c3d4", entries[0].Name)
}

func TestEnumerateMissingDir(t *testing.T) {
	_, err := Enumerate("/nonexistent/by-id", []string{"ata-"})
	assert.Error(t, err)
}

func TestEnumerateEmpty(t *testing.T) {
	entries, err := Enumerate(t.TempDir(), []string{"ata-"})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnclaimed(t *testing.T) {
	entries := []Entry{
		{Name: "ata-AAA"},
		{Name: "ata-BBB"},
		{Name: "ata-CCC"},
	}
	claimed := map[string]bool{"ata-BBB": true}

	free := Unclaimed(entries, claimed)

	require.Len(t, free, 2)
	assert.Equal(t, "ata-AAA", free[0].Name)
	assert.Equal(t, "ata-CCC", free[1].Name)
}

// A pool records its members with partition suffixes while the catalog
// lists whole disks. The claimed filter must still match them up.
func TestUnclaimedPartitionSuffix(t *testing.T) {
	pools := []*zfs.PoolStatus{
		{
			Name:  "tank",
			State: zfs.StateDegraded,
			Members: []zfs.Member{
				{Name: "ata-AAA-part1", State: zfs.StateOnline},
				{Name: "ata-BBB-part1", State: zfs.StateRemoved},
			},
		},
		{
			Name:    "backup",
			State:   zfs.StateOnline,
			Members: []zfs.Member{{Name: "scsi-DDD", State: zfs.StateOnline}},
		},
	}

	entries := []Entry{
		{Name: "ata-AAA"},
		{Name: "ata-BBB"},
		{Name: "ata-CCC"},
		{Name: "scsi-DDD"},
	}

	free := Unclaimed(entries, zfs.ClaimedSet(pools))

	// only the disk no pool knows about survives; members of healthy
	// pools are just as claimed as members of degraded ones
	require.Len(t, free, 1)
	assert.Equal(t, "ata-CCC", free[0].Name)
}

func TestUnclaimedNothingClaimed(t *testing.T) {
	entries := []Entry{{Name: "ata-AAA"}, {Name: "ata-BBB"}}

	free := Unclaimed(entries, map[string]bool{})
	assert.Equal(t, entries, free)
}

// Every attached disk already belonging to a pool leaves nothing to offer.
func TestUnclaimedAllClaimed(t *testing.T) {
	entries := []Entry{{Name: "ata-AAA"}, {Name: "ata-BBB"}}
	claimed := map[string]bool{"ata-AAA": true, "ata-BBB": true}

	assert.Empty(t, Unclaimed(entries, claimed))
}
