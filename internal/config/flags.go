package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flag names.
const (
	FlagConfig           = "config"
	FlagDBPath           = "db"
	FlagLogLevel         = "log-level"
	FlagLogFormat        = "log-format"
	FlagTimezone         = "timezone"
	FlagOperationTimeout = "timeout"
	FlagRetries          = "retries"
	FlagMetricsTextfile  = "metrics-textfile"
)

// RegisterFlags adds the configuration flags to fs. Flag defaults are only
// shown in help; values reach the Config only when set explicitly.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(FlagConfig, "c", "", "path to a JSON or TOML config file")
	fs.String(FlagDBPath, d.DBPath, "SQLite database file")
	fs.String(FlagLogLevel, d.LogLevel, "log level: debug, info, warn, error")
	fs.String(FlagLogFormat, d.LogFormat, "log format: text or json")
	fs.String(FlagTimezone, d.Timezone, "IANA time zone for calendar days (default: system)")
	fs.Duration(FlagOperationTimeout, d.OperationTimeout, "deadline for a single operation")
	fs.Int(FlagRetries, d.Retries, "retries after a storage failure")
	fs.String(FlagMetricsTextfile, d.MetricsTextfile, "write metrics to this file on exit")
}

// parseFlags overlays cfg with the flags of fs that were changed.
func parseFlags(cfg *Config, fs *pflag.FlagSet) error {
	if fs == nil {
		return nil
	}

	var err error
	str := func(name string, dst *string) {
		if err == nil && fs.Changed(name) {
			*dst, err = fs.GetString(name)
		}
	}
	str(FlagDBPath, &cfg.DBPath)
	str(FlagLogLevel, &cfg.LogLevel)
	str(FlagLogFormat, &cfg.LogFormat)
	str(FlagTimezone, &cfg.Timezone)
	str(FlagMetricsTextfile, &cfg.MetricsTextfile)

	if err == nil && fs.Changed(FlagOperationTimeout) {
		cfg.OperationTimeout, err = fs.GetDuration(FlagOperationTimeout)
	}
	if err == nil && fs.Changed(FlagRetries) {
		cfg.Retries, err = fs.GetInt(FlagRetries)
	}
	if err != nil {
		return fmt.Errorf("read flags: %w", err)
	}
	return nil
}
