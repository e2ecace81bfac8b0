package zfs

import (
	"bufio"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Pool and member state tokens reported by zpool status
const (
	StateOnline   = "ONLINE"
	StateDegraded = "DEGRADED"
	StateFaulted  = "FAULTED"
	StateOffline  = "OFFLINE"
	StateRemoved  = "REMOVED"
	StateUnavail  = "UNAVAIL"
)

// ErrNoPools is returned when no pools are imported or the status query
// itself fails.
var ErrNoPools = errors.New("no pools found")

// PoolStatus is one pool section of zpool status output
type PoolStatus struct {
	Name    string
	State   string // ONLINE, DEGRADED, FAULTED, ...
	Scan    string // full scan line, empty if none
	Errors  string // error summary line
	Members []Member
}

// Member is a leaf device row from the config section. Group vdev rows
// (mirror-N, raidz*-N, ...) and the pool root row are not members.
type Member struct {
	Name  string
	State string
}

// QueryStatus runs zpool status once and parses every pool section.
func QueryStatus() ([]*PoolStatus, error) {
	log.Debug("running zpool status")
	out, err := exec.Command("zpool", "status").CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("zpool status failed: %s: %w", msg, ErrNoPools)
	}

	pools := ParseStatus(string(out))
	if len(pools) == 0 {
		return nil, ErrNoPools
	}
	return pools, nil
}

// IsDegraded returns true if the pool is not fully healthy
func (p *PoolStatus) IsDegraded() bool {
	return p.State != StateOnline
}

// Resilvering returns true while a rebuild onto a replacement or spare
// device is running. Scrubs do not count.
func (p *PoolStatus) Resilvering() bool {
	return strings.Contains(p.Scan, "resilver") && strings.Contains(p.Scan, "in progress")
}

// ParseStatus parses the output of zpool status into pool sections.
func ParseStatus(output string) []*PoolStatus {
	var pools []*PoolStatus
	var current *PoolStatus
	var inConfig bool

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		// New pool section starts with "  pool:"
		if strings.HasPrefix(line, "  pool:") {
			if current != nil {
				pools = append(pools, current)
			}
			current = &PoolStatus{
				Name: strings.TrimSpace(strings.TrimPrefix(line, "  pool:")),
			}
			inConfig = false
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case strings.HasPrefix(line, " state:"):
			current.State = strings.TrimSpace(strings.TrimPrefix(line, " state:"))
		case strings.HasPrefix(line, "  scan:"):
			current.Scan = strings.TrimSpace(strings.TrimPrefix(line, "  scan:"))
		case strings.HasPrefix(line, "errors:"):
			current.Errors = strings.TrimSpace(strings.TrimPrefix(line, "errors:"))
			inConfig = false
		case strings.HasPrefix(line, "config:"):
			inConfig = true
		case inConfig:
			if m, ok := parseConfigRow(current.Name, line); ok {
				current.Members = append(current.Members, m)
			}
		}
	}

	if current != nil {
		pools = append(pools, current)
	}
	return pools
}

// parseConfigRow extracts a member device from one config section line.
// Header, pool root and group vdev rows report ok=false.
func parseConfigRow(poolName, line string) (Member, bool) {
	if line == "" || (line[0] != '\t' && line[0] != ' ') {
		return Member{}, false
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		// blank line, or a bare section header like "logs" or "spares"
		return Member{}, false
	}

	name, state := fields[0], fields[1]
	if name == "NAME" && state == "STATE" {
		return Member{}, false
	}
	if name == poolName || isGroupVdev(name) {
		return Member{}, false
	}

	return Member{Name: name, State: state}, true
}

// groupPrefixes match grouping rows in the config section: raidz1-0,
// mirror-2, draid1:4d:5c:1s-0, replacing-1, the spares/logs/cache/special
// sections and so on. Device identifiers (ata-*, scsi-*, wwn-*, nvme-*,
// sdX, GUIDs) never start with these.
var groupPrefixes = []string{
	"mirror", "raidz", "draid", "replacing", "spare",
	"logs", "log", "cache", "special", "dedup", "indirect",
}

func isGroupVdev(name string) bool {
	for _, prefix := range groupPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
