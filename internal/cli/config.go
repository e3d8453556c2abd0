package cli

import (
	"fmt"
	"strings"
	"time"
)

// Config holds CLI configuration
type Config struct {
	ServerURL      string        `json:"server_url"`
	Format         string        `json:"format"`
	Quiet          bool          `json:"quiet"`
	NoColor        bool          `json:"no_color"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ServerURL:      "http://localhost:8080",
		Format:         "table",
		Quiet:          false,
		RequestTimeout: 60 * time.Second,
	}
}

// Validate checks the configuration for usable values
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server URL cannot be empty")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("invalid server URL format")
	}
	if c.Format != "table" && c.Format != "json" {
		return fmt.Errorf("unsupported format: %s", c.Format)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	return nil
}
