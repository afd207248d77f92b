package openai

import (
	"fmt"
)

// Config holds the connection settings for an OpenAI-compatible endpoint.
// SystemMode selects one of the two provider variants required by spec.md
// §4.4: "separate" sends system messages unchanged, with role "system" and
// in their original positions in the Messages slice (they are not extracted
// or sent out-of-band); "inline" re-tags them as user messages prefixed with
// "[system] ". The variant is fixed at construction time — nothing
// downstream inspects which one is in use.
type Config struct {
	APIKey      string
	BaseURL     string // empty = provider default
	Model       string
	MaxRetries  int // HTTP-level retry for transient errors, default 2
	HTTPTimeout int // seconds, default 300

	SystemMode string // "separate" | "inline"
}

// Validate checks that required fields are present and SystemMode is a
// recognized value.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.SystemMode != "separate" && c.SystemMode != "inline" {
		return fmt.Errorf("SystemMode must be %q or %q, got %q", "separate", "inline", c.SystemMode)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MaxRetries cannot be negative, got %d", c.MaxRetries)
	}
	return nil
}

func (c *Config) maxRetries() int {
	if c.MaxRetries > 0 {
		return c.MaxRetries
	}
	return 2
}

func (c *Config) httpTimeoutSeconds() int {
	if c.HTTPTimeout > 0 {
		return c.HTTPTimeout
	}
	return 300
}
