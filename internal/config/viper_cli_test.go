package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadCLIConfigDefaults(t *testing.T) {
	v := viper.New()

	cfg, err := LoadCLIConfigWithViper(v)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.ServerURL != "http://localhost:8080" {
		t.Errorf("Expected default server URL, got %q", cfg.ServerURL)
	}
	if cfg.Format != "table" {
		t.Errorf("Expected default format 'table', got %q", cfg.Format)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("Expected default timeout 60s, got %v", cfg.RequestTimeout)
	}
}

func TestLoadCLIConfigEnvOverrides(t *testing.T) {
	t.Setenv("LABEL_MATCHER_SERVER", "http://api.example.com:9090")
	t.Setenv("LABEL_MATCHER_FORMAT", "json")
	t.Setenv("LABEL_MATCHER_TIMEOUT", "30s")

	v := viper.New()

	cfg, err := LoadCLIConfigWithViper(v)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.ServerURL != "http://api.example.com:9090" {
		t.Errorf("Expected env server URL, got %q", cfg.ServerURL)
	}
	if cfg.Format != "json" {
		t.Errorf("Expected format 'json', got %q", cfg.Format)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", cfg.RequestTimeout)
	}
}

func TestLoadCLIConfigInvalid(t *testing.T) {
	t.Setenv("LABEL_MATCHER_FORMAT", "xml")

	v := viper.New()

	if _, err := LoadCLIConfigWithViper(v); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestLoadCLIConfigTimeoutSeconds(t *testing.T) {
	t.Setenv("LABEL_MATCHER_TIMEOUT", "45")

	v := viper.New()

	cfg, err := LoadCLIConfigWithViper(v)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("Expected timeout 45s, got %v", cfg.RequestTimeout)
	}
}
