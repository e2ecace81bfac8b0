package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hevel86/zfs-scripts/internal/catalog"
	"github.com/hevel86/zfs-scripts/internal/config"
	"github.com/hevel86/zfs-scripts/internal/prompt"
	"github.com/hevel86/zfs-scripts/internal/snapshot"
	"github.com/hevel86/zfs-scripts/internal/version"
	"github.com/hevel86/zfs-scripts/internal/zfs"
)

// runIDHook stamps every log line with a short id so lines from
// different runs can be told apart in a shared log.
type runIDHook struct{ id string }

func (h runIDHook) Levels() []log.Level { return log.AllLevels }

func (h runIDHook) Fire(e *log.Entry) error {
	e.Data["run"] = h.id
	return nil
}

// setupLogging sends diagnostics to stderr; stdout belongs to the
// interactive flow.
func setupLogging(level string) {
	log.SetOutput(os.Stderr)
	log.AddHook(runIDHook{id: uuid.NewString()[:8]})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// swappable in tests
var (
	takeSnapshot = snapshot.Take
	describeDisk = catalog.Describe
	zpoolReplace = zfs.Replace
	catalogDir   = catalog.DefaultDir
)

func runReplace(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)
	log.Debugf("zreplace %s", version.Version)

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		fmt.Fprintln(os.Stderr, "zreplace prompts on stdin and needs a terminal; run it interactively")
		os.Exit(1)
	}

	os.Exit(replaceFlow(cfg, bufio.NewReader(os.Stdin), os.Stdout, os.Stderr))
}

// replaceFlow runs the whole interactive sequence and returns the exit
// code. Terminal outcomes that mean "nothing to do" or "operator
// declined" exit 0; bad operator input, an empty candidate list and a
// failed replace exit 1. Nothing before the final zpool replace mutates
// any system state. Status and prompt text goes to out, errors to errOut.
func replaceFlow(cfg *config.Config, in *bufio.Reader, out, errOut io.Writer) int {
	snap, err := takeSnapshot()
	if err != nil {
		log.WithError(err).Debug("pool status unavailable")
		// a bare ErrNoPools means zpool ran and reported no pools;
		// anything else carries the failure cause
		if err != zfs.ErrNoPools {
			fmt.Fprintf(errOut, "Pool status unavailable: %v\n", err)
		}
		fmt.Fprintln(out, "No pools found. Nothing to repair.")
		return 0
	}

	// A running resilver competes for the same disks; adding a
	// replacement mid-rebuild helps nobody.
	if busy := zfs.AnyResilvering(snap.Pools); busy != nil {
		fmt.Fprintf(out, "Pool '%s' is resilvering:\n  %s\n", busy.Name, busy.Scan)
		fmt.Fprintln(out, "Wait for it to finish before replacing disks.")
		return 0
	}

	degraded, _ := zfs.Classify(snap.Pools)
	if len(degraded) == 0 {
		fmt.Fprintln(out, "All pools are healthy. Nothing to do.")
		return 0
	}

	pool := degraded[0]
	if len(degraded) > 1 {
		items := make([]string, len(degraded))
		for i, p := range degraded {
			items[i] = fmt.Sprintf("%s (%s)", p.Name, p.State)
		}
		idx, err := prompt.Choose(in, out, "Multiple degraded pools found:", items)
		if err != nil {
			fmt.Fprintln(errOut, "Invalid selection.")
			return 1
		}
		pool = degraded[idx]
	} else {
		fmt.Fprintf(out, "Pool '%s' is %s.\n", pool.Name, pool.State)
	}

	member, ok := pool.MissingMember(cfg.MissingStates)
	if !ok {
		fmt.Fprintf(out, "Pool '%s' is %s, but no member is in a missing state (%s).\n",
			pool.Name, pool.State, strings.Join(cfg.MissingStates, ", "))
		fmt.Fprintln(out, "Check zpool status for the cause; there is no disk to replace.")
		return 0
	}
	fmt.Fprintf(out, "Missing member: %s (%s)\n", member.Name, member.State)

	entries, err := snap.Catalog(catalogDir, cfg.IDPrefixes)
	if err != nil {
		fmt.Fprintf(errOut, "Error reading device catalog: %v\n", err)
		return 1
	}

	free := catalog.Unclaimed(entries, zfs.ClaimedSet(snap.Pools))
	log.WithFields(log.Fields{"catalog": len(entries), "unclaimed": len(free)}).Debug("resolved candidates")
	if len(free) == 0 {
		fmt.Fprintln(out, "No unclaimed disks found. Attach a replacement disk and rerun.")
		return 1
	}

	rows := make([]string, len(free))
	for i, e := range free {
		d := describeDisk(e.Path)
		rows[i] = fmt.Sprintf("%-45s %-22s %-18s %s",
			e.Name, orUnknown(d.Model), orUnknown(d.Serial), sizeString(d.Size))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Disks not claimed by any pool:")
	header := fmt.Sprintf("      %-45s %-22s %-18s %s", "DEVICE", "MODEL", "SERIAL", "SIZE")
	idx, err := prompt.Choose(in, out, header, rows)
	if err != nil {
		fmt.Fprintln(errOut, "Invalid selection.")
		return 1
	}
	chosen := free[idx]

	fmt.Fprintf(out, "\nAbout to run: zpool replace %s %s %s\n", pool.Name, member.Name, chosen.Path)
	if !prompt.Confirm(in, out, "Proceed?") {
		fmt.Fprintln(out, "Cancelled. Nothing changed.")
		return 0
	}

	cmdOut, err := zpoolReplace(pool.Name, member.Name, chosen.Path)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if strings.TrimSpace(cmdOut) != "" {
		fmt.Fprint(out, cmdOut)
	}
	fmt.Fprintln(out, "Replacement started; the pool will resilver onto the new disk.")
	fmt.Fprintf(out, "Watch progress with: zpool status %s\n", pool.Name)
	return 0
}

func orUnknown(s *string) string {
	if s == nil {
		return "Unknown"
	}
	return *s
}

func sizeString(size *uint64) string {
	if size == nil {
		return "Unknown"
	}
	return humanize.IBytes(*size)
}
