package database_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/casebook/pkg/database"
	"github.com/JaimeStill/casebook/pkg/lifecycle"
)

func unreachableConfig() database.Config {
	return database.Config{
		Host:            "127.0.0.1",
		Port:            1,
		Name:            "casebook",
		User:            "casebook",
		Password:        "casebook",
		SSLMode:         "disable",
		MaxOpenConns:    42,
		MaxIdleConns:    7,
		ConnMaxLifetime: "10m",
		ConnTimeout:     "500ms",
	}
}

func TestNewIsLazy(t *testing.T) {
	cfg := unreachableConfig()

	sys, err := database.New(&cfg, slog.Default())
	require.NoError(t, err)
	require.NotNil(t, sys)

	conn := sys.Connection()
	require.NotNil(t, conn)
	defer conn.Close()

	assert.Equal(t, 42, conn.Stats().MaxOpenConnections)
	assert.False(t, sys.Ready())
}

func TestPingUnreachable(t *testing.T) {
	cfg := unreachableConfig()

	sys, err := database.New(&cfg, slog.Default())
	require.NoError(t, err)
	defer sys.Connection().Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = sys.Ping(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrNotReady)
	assert.False(t, sys.Ready())
}

func TestErrNotReady(t *testing.T) {
	assert.EqualError(t, database.ErrNotReady, "database not ready")
}

func TestStartRegistersReadinessCheck(t *testing.T) {
	cfg := unreachableConfig()

	sys, err := database.New(&cfg, slog.Default())
	require.NoError(t, err)

	lc := lifecycle.New()
	require.NoError(t, sys.Start(lc))
	lc.WaitForStartup()

	assert.False(t, lc.Ready())
	require.NoError(t, lc.Shutdown(5*time.Second))
}
