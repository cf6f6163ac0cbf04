package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the CLI-facing configuration loaded from file/env. The store
// library itself takes these values through store.Options; nothing in the
// core reads the environment.
type Config struct {
	DataDir       string `json:"dataDir" yaml:"dataDir"`
	Key           string `json:"key" yaml:"key"`
	MaxEntries    int    `json:"maxEntries" yaml:"maxEntries"`
	FlushWindowMs int    `json:"flushWindowMs" yaml:"flushWindowMs"`
	Fsync         string `json:"fsync" yaml:"fsync"`
	LogLevel      string `json:"logLevel" yaml:"logLevel"`
	LogFormat     string `json:"logFormat" yaml:"logFormat"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		DataDir:       DefaultDataDir(),
		Key:           "default",
		MaxEntries:    5000,
		FlushWindowMs: 100,
		Fsync:         "always",
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
