package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	// an empty file sets nothing, so every default applies
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, []string{"REMOVED", "MISSING", "UNAVAIL", "DEGRADED"}, cfg.MissingStates)
	assert.Equal(t, []string{"ata-", "scsi-"}, cfg.IDPrefixes)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFullFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
missing_states: [OFFLINE, FAULTED]
id_prefixes: ["wwn-", "nvme-"]
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"OFFLINE", "FAULTED"}, cfg.MissingStates)
	assert.Equal(t, []string{"wwn-", "nvme-"}, cfg.IDPrefixes)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadPartialFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log_level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, []string{"REMOVED", "MISSING", "UNAVAIL", "DEGRADED"}, cfg.MissingStates)
	assert.Equal(t, []string{"ata-", "scsi-"}, cfg.IDPrefixes)
}

func TestLoadUppercasesStates(t *testing.T) {
	cfg, err := Load(writeConfig(t, "missing_states: [removed, unavail]\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"REMOVED", "UNAVAIL"}, cfg.MissingStates)
}

func TestLoadBadYaml(t *testing.T) {
	_, err := Load(writeConfig(t, "missing_states: [unterminated\n"))
	assert.Error(t, err)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
