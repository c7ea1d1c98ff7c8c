// Package config loads runtime configuration for the hydro CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c/--config or HYDRO_CONFIG.
//     Files ending in .toml are decoded as TOML, everything else as JSON.
//  3. Environment variables with the HYDRO_ prefix (HYDRO_DB_PATH,
//     HYDRO_LOG_LEVEL, HYDRO_OPERATION_TIMEOUT, ...).
//  4. Command-line flags that were set explicitly.
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "5s" or integer
// nanoseconds:
//
//	{
//	  "db_path": "/home/me/.hydrokeeper/hydrokeeper.db",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "timezone": "Europe/Riga",
//	  "operation_timeout": "5s",
//	  "retries": 3,
//	  "metrics_textfile": ""
//	}
package config
