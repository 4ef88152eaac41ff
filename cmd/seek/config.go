package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fwojciec/seek"
	"github.com/fwojciec/seek/toml"
	"github.com/fwojciec/seek/yaml"
)

// overrides holds the flag and environment values layered over the config
// file. Empty fields leave the underlying value alone.
type overrides struct {
	apiURL    string
	logLevel  string
	logFormat string
	logFile   string
}

// resolveConfig loads the config file (if any) and applies environment then
// flag overrides. Env values are passed in; env is only read in main().
func resolveConfig(configPath string, flags, env overrides) (seek.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return seek.Config{}, err
	}
	apply(&cfg, env)
	apply(&cfg, flags)
	if err := cfg.Validate(); err != nil {
		return seek.Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// loadConfig picks the loader by file extension. No path means defaults.
func loadConfig(path string) (seek.Config, error) {
	if path == "" {
		return seek.DefaultConfig(), nil
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Load(path)
	case ".toml":
		return toml.Load(path)
	default:
		return seek.Config{}, fmt.Errorf("unsupported config file extension %q: use .yaml, .yml or .toml", ext)
	}
}

func apply(cfg *seek.Config, o overrides) {
	if o.apiURL != "" {
		cfg.APIURL = o.apiURL
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
}
