package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/casebook/internal/diagnosis"
	"github.com/JaimeStill/casebook/pkg/cache"
	"github.com/JaimeStill/casebook/pkg/database"
	"github.com/JaimeStill/casebook/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCasebookEnv             = "CASEBOOK_ENV"
	EnvCasebookShutdownTimeout = "CASEBOOK_SHUTDOWN_TIMEOUT"
	EnvCasebookVersion         = "CASEBOOK_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CASEBOOK_DB_HOST",
	Port:            "CASEBOOK_DB_PORT",
	Name:            "CASEBOOK_DB_NAME",
	User:            "CASEBOOK_DB_USER",
	Password:        "CASEBOOK_DB_PASSWORD",
	SSLMode:         "CASEBOOK_DB_SSL_MODE",
	MaxOpenConns:    "CASEBOOK_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CASEBOOK_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CASEBOOK_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CASEBOOK_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "CASEBOOK_STORAGE_CONTAINER_NAME",
	ConnectionString: "CASEBOOK_STORAGE_CONNECTION_STRING",
	KeyPrefix:        "CASEBOOK_STORAGE_KEY_PREFIX",
}

var cacheEnv = &cache.Env{
	Driver:          "CASEBOOK_CACHE_DRIVER",
	Addr:            "CASEBOOK_CACHE_ADDR",
	Password:        "CASEBOOK_CACHE_PASSWORD",
	DB:              "CASEBOOK_CACHE_DB",
	Prefix:          "CASEBOOK_CACHE_PREFIX",
	TTL:             "CASEBOOK_CACHE_TTL",
	CleanupInterval: "CASEBOOK_CACHE_CLEANUP_INTERVAL",
}

var generatorEnv = &diagnosis.Env{
	BaseURL:         "CASEBOOK_GENERATOR_BASE_URL",
	Token:           "CASEBOOK_GENERATOR_TOKEN",
	Timeout:         "CASEBOOK_GENERATOR_TIMEOUT",
	DiagnosesPath:   "CASEBOOK_GENERATOR_DIAGNOSES_PATH",
	ContentPath:     "CASEBOOK_GENERATOR_CONTENT_PATH",
	MaxResponseSize: "CASEBOOK_GENERATOR_MAX_RESPONSE_SIZE",
}

// Config is the root configuration for the Casebook service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	Cache           cache.Config     `toml:"cache"`
	Generator       diagnosis.Config `toml:"generator"`
	Logging         LoggingConfig    `toml:"logging"`
	API             APIConfig        `toml:"api"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the CASEBOOK_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCasebookEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Cache.Merge(&overlay.Cache)
	c.Generator.Merge(&overlay.Generator)
	c.Logging.Merge(&overlay.Logging)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Generator.Finalize(generatorEnv); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCasebookShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCasebookVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCasebookEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
