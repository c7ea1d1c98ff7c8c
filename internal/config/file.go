package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/hydrokeeper/internal/common"
	"github.com/dmitrijs2005/hydrokeeper/internal/timex"
	"github.com/spf13/pflag"
)

// FileConfig is the DTO decoded from JSON or TOML files. Keys missing from
// the file keep their previous values.
type FileConfig struct {
	DBPath           string         `json:"db_path" toml:"db_path"`
	LogLevel         string         `json:"log_level" toml:"log_level"`
	LogFormat        string         `json:"log_format" toml:"log_format"`
	Timezone         string         `json:"timezone" toml:"timezone"`
	OperationTimeout timex.Duration `json:"operation_timeout" toml:"operation_timeout"`
	Retries          int            `json:"retries" toml:"retries"`
	MetricsTextfile  string         `json:"metrics_textfile" toml:"metrics_textfile"`
}

// configPath returns the --config flag value, falling back to HYDRO_CONFIG.
func configPath(fs *pflag.FlagSet) string {
	if fs != nil {
		if f := fs.Lookup(FlagConfig); f != nil && f.Value.String() != "" {
			return f.Value.String()
		}
	}
	return os.Getenv(common.EnvPrefix + "_CONFIG")
}

// parseFile overlays cfg with the file at path. An empty path is a no-op.
func parseFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	fc := FileConfig{
		DBPath:           cfg.DBPath,
		LogLevel:         cfg.LogLevel,
		LogFormat:        cfg.LogFormat,
		Timezone:         cfg.Timezone,
		OperationTimeout: timex.Duration{Duration: cfg.OperationTimeout},
		Retries:          cfg.Retries,
		MetricsTextfile:  cfg.MetricsTextfile,
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.Decode(string(data), &fc)
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return fmt.Errorf("decode %s: unknown keys %v", path, keys)
		}
	} else {
		dec := json.NewDecoder(strings.NewReader(string(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&fc); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}

	cfg.DBPath = fc.DBPath
	cfg.LogLevel = fc.LogLevel
	cfg.LogFormat = fc.LogFormat
	cfg.Timezone = fc.Timezone
	cfg.OperationTimeout = fc.OperationTimeout.Duration
	cfg.Retries = fc.Retries
	cfg.MetricsTextfile = fc.MetricsTextfile
	return nil
}
