package infrastructure_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/casebook/internal/config"
	"github.com/JaimeStill/casebook/internal/infrastructure"
	"github.com/JaimeStill/casebook/pkg/cache"
	"github.com/JaimeStill/casebook/pkg/database"
	"github.com/JaimeStill/casebook/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "casebook",
			User:            "casebook",
			Password:        "casebook",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			ContainerName:    "reports",
			ConnectionString: azuriteConnString,
			KeyPrefix:        "casebook",
		},
		Cache: cache.Config{
			Driver:          cache.DriverMemory,
			Prefix:          "casebook",
			TTL:             "15m",
			CleanupInterval: "30m",
		},
		Logging: config.LoggingConfig{Level: "info", Format: "text"},
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	require.NoError(t, err)

	assert.NotNil(t, infra.Lifecycle)
	assert.NotNil(t, infra.Logger)
	assert.NotNil(t, infra.Database)
	assert.NotNil(t, infra.Storage)
	assert.NotNil(t, infra.Cache)

	conn := infra.Database.Connection()
	require.NotNil(t, conn)
	conn.Close()
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.ConnectionString = "not-a-connection-string"

	_, err := infrastructure.New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage init failed")
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := infrastructure.NewLogger(&config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("filtered")
	logger.Warn("session stale", "id", "abc")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "session stale", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "abc", entry["id"])
}

func TestNewLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := infrastructure.NewLogger(&config.LoggingConfig{Level: "debug", Format: "text"}, &buf)

	logger.Debug("catalog cached", "regions", 5)

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, `msg="catalog cached"`)
	assert.Contains(t, out, "regions=5")
}
