package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/casebook/internal/config"
	"github.com/JaimeStill/casebook/pkg/cache"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "casebook"
user = "casebook"
password = "casebook"
ssl_mode = "disable"

[storage]
container_name = "reports"
connection_string = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"
key_prefix = "casebook"

[cache]
driver = "memory"
ttl = "10m"

[generator]
base_url = "http://localhost:8090"
timeout = "45s"

[logging]
level = "debug"
format = "json"

[api]
base_path = "/api"
max_body_size = "2MB"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "db.staging"

[cache]
driver = "redis"
addr = "redis.staging:6379"

[generator]
base_url = "https://generator.staging"
`

const minimalConfig = `
[database]
name = "casebook"
user = "casebook"

[storage]
connection_string = "conn"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644))
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
}

func minimalDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, minimalConfig)
	chdir(t, dir)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "casebook", cfg.Database.Name)
	assert.Equal(t, "reports", cfg.Storage.ContainerName)
	assert.Equal(t, cache.DriverMemory, cfg.Cache.Driver)
	assert.Equal(t, "10m", cfg.Cache.TTL)
	assert.Equal(t, "45s", cfg.Generator.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 25, cfg.API.Pagination.DefaultPageSize)
	assert.Equal(t, 50, cfg.API.Pagination.MaxPageSize)
	assert.Equal(t, int64(2*1024*1024), cfg.API.MaxBodySizeBytes())
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)
	t.Setenv(config.EnvCasebookEnv, "staging")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.staging", cfg.Database.Host)
	assert.Equal(t, "casebook", cfg.Database.Name)
	assert.Equal(t, cache.DriverRedis, cfg.Cache.Driver)
	assert.Equal(t, "redis.staging:6379", cfg.Cache.Addr)
	assert.Equal(t, "10m", cfg.Cache.TTL)
	assert.Equal(t, "https://generator.staging", cfg.Generator.BaseURL)
	assert.Equal(t, "45s", cfg.Generator.Timeout)
}

func TestLoadMissingOverlayIgnored(t *testing.T) {
	minimalDir(t)
	t.Setenv(config.EnvCasebookEnv, "production")

	_, err := config.Load()
	assert.NoError(t, err)
}

func TestLoadEnvVarOverrides(t *testing.T) {
	minimalDir(t)
	t.Setenv(config.EnvServerPort, "7070")
	t.Setenv("CASEBOOK_DB_HOST", "db.env")
	t.Setenv("CASEBOOK_STORAGE_CONTAINER_NAME", "exports")
	t.Setenv("CASEBOOK_CACHE_PREFIX", "cb-test")
	t.Setenv("CASEBOOK_GENERATOR_TOKEN", "secret")
	t.Setenv(config.EnvLoggingLevel, "warn")
	t.Setenv(config.EnvCasebookVersion, "2.0.0")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "db.env", cfg.Database.Host)
	assert.Equal(t, "exports", cfg.Storage.ContainerName)
	assert.Equal(t, "cb-test", cfg.Cache.Prefix)
	assert.Equal(t, "secret", cfg.Generator.Token)
	assert.Equal(t, slog.LevelWarn, cfg.Logging.SlogLevel())
	assert.Equal(t, "2.0.0", cfg.Version)
}

func TestLoadDefaults(t *testing.T) {
	minimalDir(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeoutDuration())
	assert.Equal(t, "0.1.0", cfg.Version)
	assert.Equal(t, cache.DriverMemory, cfg.Cache.Driver)
	assert.Equal(t, "casebook", cfg.Cache.Prefix)
	assert.Equal(t, "http://localhost:8090", cfg.Generator.BaseURL)
	assert.Equal(t, "/diagnoses", cfg.Generator.DiagnosesPath)
	assert.Equal(t, "/content", cfg.Generator.ContentPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "/api", cfg.API.BasePath)
	assert.Equal(t, int64(1024*1024), cfg.API.MaxBodySizeBytes())
	assert.Equal(t, 20, cfg.API.Pagination.DefaultPageSize)
	assert.Equal(t, 100, cfg.API.Pagination.MaxPageSize)
	assert.Equal(t, "Casebook API", cfg.API.OpenAPI.Title)
}

func TestLoadNoConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CASEBOOK_DB_NAME", "casebook")
	t.Setenv("CASEBOOK_DB_USER", "casebook")
	t.Setenv("CASEBOOK_STORAGE_CONNECTION_STRING", "conn")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "casebook", cfg.Database.Name)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, "[server\nport = ")
	chdir(t, dir)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		value   string
		wantErr string
	}{
		{"shutdown timeout", config.EnvCasebookShutdownTimeout, "soon", "invalid shutdown_timeout"},
		{"server port", config.EnvServerPort, "70000", "server: invalid port"},
		{"server read timeout", config.EnvServerReadTimeout, "bad", "server: invalid read_timeout"},
		{"cache driver", "CASEBOOK_CACHE_DRIVER", "memcached", "cache: unsupported driver"},
		{"cache ttl", "CASEBOOK_CACHE_TTL", "forever", "cache: invalid ttl"},
		{"generator url", "CASEBOOK_GENERATOR_BASE_URL", "ftp://generator", "generator: base_url must be http or https"},
		{"generator timeout", "CASEBOOK_GENERATOR_TIMEOUT", "bad", "generator: invalid timeout"},
		{"logging level", config.EnvLoggingLevel, "loud", "logging: invalid level"},
		{"logging format", config.EnvLoggingFormat, "xml", "logging: invalid format"},
		{"body size", config.EnvAPIMaxBodySize, "lots", "api: invalid max_body_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minimalDir(t)
			t.Setenv(tt.env, tt.value)

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRequiresDatabaseAndStorage(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, config.BaseConfigFile, "[database]\nname = \"casebook\"\nuser = \"casebook\"\n")
	chdir(t, dir)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage: connection_string required")
}

func TestEnv(t *testing.T) {
	cfg := &config.Config{}
	t.Setenv(config.EnvCasebookEnv, "")
	assert.Equal(t, "local", cfg.Env())

	t.Setenv(config.EnvCasebookEnv, "staging")
	assert.Equal(t, "staging", cfg.Env())
}

func TestMerge(t *testing.T) {
	base := &config.Config{
		ShutdownTimeout: "30s",
		Logging:         config.LoggingConfig{Level: "info", Format: "text"},
		API:             config.APIConfig{BasePath: "/api", MaxBodySize: "1MB"},
	}
	base.Merge(&config.Config{
		Logging: config.LoggingConfig{Format: "json"},
		API:     config.APIConfig{MaxBodySize: "8MB"},
	})

	assert.Equal(t, "30s", base.ShutdownTimeout)
	assert.Equal(t, "info", base.Logging.Level)
	assert.Equal(t, "json", base.Logging.Format)
	assert.Equal(t, "/api", base.API.BasePath)
	assert.Equal(t, "8MB", base.API.MaxBodySize)
}

func TestLoggingSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := config.LoggingConfig{Level: tt.level}
			assert.Equal(t, tt.want, cfg.SlogLevel())
		})
	}
}

func TestMaxBodySizeBytesFallback(t *testing.T) {
	cfg := config.APIConfig{MaxBodySize: "not-a-size"}
	assert.Equal(t, int64(1024*1024), cfg.MaxBodySizeBytes())
}
