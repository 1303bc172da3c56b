package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/portotpc/mantemos/internal/ledger"
)

// Config is the YAML configuration file for the application.
//
// Every field has a working default; a missing file means defaults.
type Config struct {
	// Database is the path to the SQLite database.
	Database string `yaml:"database"`

	// Listen is the HTTP listen address for the serve command.
	Listen string `yaml:"listen"`

	// PushLatencyMS and PullLatencyMS set the simulated cloud latencies in
	// milliseconds. Tests set them to zero.
	PushLatencyMS int `yaml:"push_latency_ms"`
	PullLatencyMS int `yaml:"pull_latency_ms"`

	// IDDerivation selects how the next order id is derived:
	// "head" (historical behavior) or "max" (hardened scan).
	IDDerivation string `yaml:"id_derivation"`

	// AdminPasswords is the master-password list guarding admin operations.
	// Compared case-insensitively.
	AdminPasswords []string `yaml:"admin_passwords"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Database:       "mantemos.db",
		Listen:         ":8090",
		PushLatencyMS:  800,
		PullLatencyMS:  1000,
		IDDerivation:   "head",
		AdminPasswords: []string{"portotpc"},
	}
}

// LoadConfig reads a YAML config file, layering it over the defaults.
// A missing path returns the defaults without error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.IDDerivation {
	case "head", "max":
	default:
		return fmt.Errorf("invalid id_derivation %q: must be \"head\" or \"max\"", c.IDDerivation)
	}
	return nil
}

// Derivation maps the config string to the ledger mode.
func (c Config) Derivation() ledger.Derivation {
	if c.IDDerivation == "max" {
		return ledger.DeriveFromMax
	}
	return ledger.DeriveFromHead
}

// PushLatency returns the configured push latency as a duration.
func (c Config) PushLatency() time.Duration {
	return time.Duration(c.PushLatencyMS) * time.Millisecond
}

// PullLatency returns the configured pull latency as a duration.
func (c Config) PullLatency() time.Duration {
	return time.Duration(c.PullLatencyMS) * time.Millisecond
}
