// Package config provides loading and environment overlay for the ilogger
// CLI configuration. It exposes a Default() baseline, file loading (JSON or
// YAML by extension), and an ILOGGER_* env overlay.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/ilogger.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
package config
