package seek

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the request can be sent.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("turn text must not be blank: %w", ErrValidation)
	}
	return nil
}

// Validate checks universal constraints on Config.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api_url %q: %v: %w", c.APIURL, err, ErrValidation)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url must use http or https, got %q: %w", c.APIURL, ErrValidation)
	}
	if u.Host == "" {
		return fmt.Errorf("api_url must include a host, got %q: %w", c.APIURL, ErrValidation)
	}
	if c.MaxSources < 0 {
		return fmt.Errorf("max_sources must be non-negative, got %d: %w", c.MaxSources, ErrValidation)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q: %w", c.Log.Level, ErrValidation)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q: %w", c.Log.Format, ErrValidation)
	}
	return nil
}
