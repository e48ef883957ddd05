package diagnosis

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/JaimeStill/casebook/pkg/formatting"
)

// Config holds generator endpoint settings.
type Config struct {
	BaseURL         string `toml:"base_url"`
	Token           string `toml:"token"`
	Timeout         string `toml:"timeout"`
	DiagnosesPath   string `toml:"diagnoses_path"`
	ContentPath     string `toml:"content_path"`
	MaxResponseSize string `toml:"max_response_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL         string
	Token           string
	Timeout         string
	DiagnosesPath   string
	ContentPath     string
	MaxResponseSize string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MaxResponseBytes returns MaxResponseSize in bytes.
func (c *Config) MaxResponseBytes() int64 {
	n, err := formatting.ParseBytes(c.MaxResponseSize)
	if err != nil {
		return 4 * 1024 * 1024
	}
	return n
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.DiagnosesPath != "" {
		c.DiagnosesPath = overlay.DiagnosesPath
	}
	if overlay.ContentPath != "" {
		c.ContentPath = overlay.ContentPath
	}
	if overlay.MaxResponseSize != "" {
		c.MaxResponseSize = overlay.MaxResponseSize
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8090"
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
	if c.DiagnosesPath == "" {
		c.DiagnosesPath = "/diagnoses"
	}
	if c.ContentPath == "" {
		c.ContentPath = "/content"
	}
	if c.MaxResponseSize == "" {
		c.MaxResponseSize = "4MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Token != "" {
		if v := os.Getenv(env.Token); v != "" {
			c.Token = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.DiagnosesPath != "" {
		if v := os.Getenv(env.DiagnosesPath); v != "" {
			c.DiagnosesPath = v
		}
	}
	if env.ContentPath != "" {
		if v := os.Getenv(env.ContentPath); v != "" {
			c.ContentPath = v
		}
	}
	if env.MaxResponseSize != "" {
		if v := os.Getenv(env.MaxResponseSize); v != "" {
			c.MaxResponseSize = v
		}
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https: %s", c.BaseURL)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := formatting.ParseBytes(c.MaxResponseSize); err != nil {
		return fmt.Errorf("invalid max_response_size: %w", err)
	}
	return nil
}
