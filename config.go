package seek

import (
	"os"
	"regexp"
)

// Default configuration values.
const (
	DefaultAPIURL     = "http://localhost:8000"
	DefaultGreeting   = "Hi there, how can I help you?"
	DefaultMaxSources = 3
)

// Config holds client settings. Zero fields are filled by DefaultConfig
// before file, environment and flag overrides are applied.
type Config struct {
	APIURL     string    `yaml:"api_url" toml:"api_url"`
	Greeting   string    `yaml:"greeting" toml:"greeting"`
	MaxSources int       `yaml:"max_sources" toml:"max_sources"` // sources shown per turn
	Log        LogConfig `yaml:"log" toml:"log"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text or json
	File   string `yaml:"file" toml:"file"`     // empty = stderr (discarded in the TUI)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		APIURL:     DefaultAPIURL,
		Greeting:   DefaultGreeting,
		MaxSources: DefaultMaxSources,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// ExpandEnv replaces ${VAR} references in s with the values of the named
// environment variables. Unset variables expand to the empty string.
func ExpandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envRef.FindStringSubmatch(match)[1])
	})
}
