// Package yaml loads seek configuration from YAML files.
package yaml

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/seek"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads a YAML config file over the defaults. ${VAR} references are
// expanded from the environment before parsing.
func Load(path string) (seek.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return seek.Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data over the defaults and validates the result.
// Unknown keys are rejected; an empty document yields the defaults.
func Parse(data []byte) (seek.Config, error) {
	cfg := seek.DefaultConfig()
	dec := yamlv3.NewDecoder(strings.NewReader(seek.ExpandEnv(string(data))))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return seek.Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return seek.Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
