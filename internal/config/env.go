package config

import (
	"os"
	"strconv"
)

// FromEnv overlays ILOGGER_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("ILOGGER_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("ILOGGER_KEY"); v != "" {
		cfg.Key = v
	}
	if v := os.Getenv("ILOGGER_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxEntries = n
		}
	}
	if v := os.Getenv("ILOGGER_FLUSH_WINDOW_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FlushWindowMs = n
		}
	}
	if v := os.Getenv("ILOGGER_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("ILOGGER_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ILOGGER_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
