package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Drivers supported by New.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config holds cache driver settings.
type Config struct {
	Driver          string `toml:"driver"`
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	Prefix          string `toml:"prefix"`
	TTL             string `toml:"ttl"`
	CleanupInterval string `toml:"cleanup_interval"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Driver          string
	Addr            string
	Password        string
	DB              string
	Prefix          string
	TTL             string
	CleanupInterval string
}

// TTLDuration returns TTL as a time.Duration.
func (c *Config) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// CleanupIntervalDuration returns CleanupInterval as a time.Duration.
func (c *Config) CleanupIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.CleanupInterval)
	return d
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
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.DB != 0 {
		c.DB = overlay.DB
	}
	if overlay.Prefix != "" {
		c.Prefix = overlay.Prefix
	}
	if overlay.TTL != "" {
		c.TTL = overlay.TTL
	}
	if overlay.CleanupInterval != "" {
		c.CleanupInterval = overlay.CleanupInterval
	}
}

func (c *Config) loadDefaults() {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.Prefix == "" {
		c.Prefix = "casebook"
	}
	if c.TTL == "" {
		c.TTL = "15m"
	}
	if c.CleanupInterval == "" {
		c.CleanupInterval = "30m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Driver != "" {
		if v := os.Getenv(env.Driver); v != "" {
			c.Driver = v
		}
	}
	if env.Addr != "" {
		if v := os.Getenv(env.Addr); v != "" {
			c.Addr = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.DB != "" {
		if v := os.Getenv(env.DB); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.DB = n
			}
		}
	}
	if env.Prefix != "" {
		if v := os.Getenv(env.Prefix); v != "" {
			c.Prefix = v
		}
	}
	if env.TTL != "" {
		if v := os.Getenv(env.TTL); v != "" {
			c.TTL = v
		}
	}
	if env.CleanupInterval != "" {
		if v := os.Getenv(env.CleanupInterval); v != "" {
			c.CleanupInterval = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("unsupported driver: %s", c.Driver)
	}
	if _, err := time.ParseDuration(c.TTL); err != nil {
		return fmt.Errorf("invalid ttl: %w", err)
	}
	if _, err := time.ParseDuration(c.CleanupInterval); err != nil {
		return fmt.Errorf("invalid cleanup_interval: %w", err)
	}
	if c.DB < 0 {
		return fmt.Errorf("invalid db: %d", c.DB)
	}
	return nil
}
