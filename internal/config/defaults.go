package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            "8080",
		Mode:            "debug",
		LogLevel:        "info",
		LogFormat:       "text",
		MaxUploadBytes:  100 << 20,
		Workers:         1,
		ShutdownTimeout: 10 * time.Second,
		Rasterizer: RasterizerConfig{
			Binary:  "pdftoppm",
			DPI:     200,
			Timeout: 2 * time.Minute,
		},
		Recognizer: RecognizerConfig{
			Languages: []string{"eng"},
		},
	}
}

// Validate reports configuration values the service cannot run with.
func (c *Config) Validate() error {
	switch c.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid mode %q: want debug, release or test", c.Mode)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: want text or json", c.LogFormat)
	}
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// normalizeMode maps deployment aliases onto gin modes.
func normalizeMode(mode string) string {
	switch m := strings.ToLower(strings.TrimSpace(mode)); m {
	case "prod", "production":
		return "release"
	case "":
		return "debug"
	default:
		return m
	}
}
