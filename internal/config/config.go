package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Config holds runtime settings of the hydro CLI.
//
// Fields:
//   - DBPath: SQLite database file.
//   - LogLevel / LogFormat: slog level (debug, info, warn, error) and handler (text, json).
//   - Timezone: IANA zone that defines calendar days; empty means the system zone.
//   - OperationTimeout: deadline for one service call, including retries.
//   - Retries: extra attempts after a storage failure.
//   - MetricsTextfile: if set, metrics are written there in text exposition format on exit.
type Config struct {
	DBPath           string
	LogLevel         string
	LogFormat        string
	Timezone         string
	OperationTimeout time.Duration
	Retries          int
	MetricsTextfile  string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = DefaultDBPath()
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.Timezone = ""
	c.OperationTimeout = 5 * time.Second
	c.Retries = 2
	c.MetricsTextfile = ""
}

// DefaultDBPath returns ~/.hydrokeeper/hydrokeeper.db, or a file in the
// working directory if the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "hydrokeeper.db"
	}
	return filepath.Join(home, ".hydrokeeper", "hydrokeeper.db")
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db path is empty"))
	}
	if c.OperationTimeout <= 0 {
		errs = append(errs, fmt.Errorf("operation timeout must be positive, got %s", c.OperationTimeout))
	}
	if c.Retries < 0 {
		errs = append(errs, fmt.Errorf("retries must not be negative, got %d", c.Retries))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Load builds a Config from defaults, the config file, the environment and
// the flags in fs that were set explicitly. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, configPath(fs)); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, fs); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
