package zfs

import (
	"fmt"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Replace runs zpool replace, attaching newDevice in place of oldDevice.
// Both identifier strings are passed to zpool verbatim; oldDevice must be
// the member name exactly as zpool status reported it. The command output
// is returned either way so callers can show it to the operator.
func Replace(pool, oldDevice, newDevice string) (string, error) {
	log.WithFields(log.Fields{
		"pool": pool,
		"old":  oldDevice,
		"new":  newDevice,
	}).Info("running zpool replace")

	out, err := exec.Command("zpool", "replace", pool, oldDevice, newDevice).CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("zpool replace failed: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}
