package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config tunes the replacement flow. Every field has a default, so the
// tool runs fine with no config file at all.
type Config struct {
	// MissingStates are the member state tokens treated as "this disk
	// needs replacing".
	MissingStates []string `yaml:"missing_states"`
	// IDPrefixes are the /dev/disk/by-id name families offered as
	// replacement candidates.
	IDPrefixes []string `yaml:"id_prefixes"`
	// LogLevel is a logrus level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

var defaultConfig = Config{
	MissingStates: []string{"REMOVED", "MISSING", "UNAVAIL", "DEGRADED"},
	IDPrefixes:    []string{"ata-", "scsi-"},
	LogLevel:      "info",
}

// Load reads the config file at path, or the first existing default
// location when path is empty. No file found means compiled-in defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		candidates := []string{
			"/etc/zreplace/config.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/zreplace/config.yaml"),
			"config.yaml",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	cfg := defaultConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	// Apply defaults for anything the file left out
	if len(cfg.MissingStates) == 0 {
		cfg.MissingStates = defaultConfig.MissingStates
	}
	if len(cfg.IDPrefixes) == 0 {
		cfg.IDPrefixes = defaultConfig.IDPrefixes
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultConfig.LogLevel
	}

	// zpool prints state tokens in upper case
	states := make([]string, len(cfg.MissingStates))
	for i, s := range cfg.MissingStates {
		states[i] = strings.ToUpper(s)
	}
	cfg.MissingStates = states

	return &cfg, nil
}
