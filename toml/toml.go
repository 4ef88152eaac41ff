// Package toml loads seek configuration from TOML files.
package toml

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/seek"
)

// Load reads a TOML config file over the defaults. ${VAR} references are
// expanded from the environment before parsing.
func Load(path string) (seek.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return seek.Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML config data over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (seek.Config, error) {
	cfg := seek.DefaultConfig()
	md, err := toml.Decode(seek.ExpandEnv(string(data)), &cfg)
	if err != nil {
		return seek.Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return seek.Config{}, fmt.Errorf("parsing config file: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return seek.Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
