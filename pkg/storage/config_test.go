package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/casebook/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: "test-connection"}
	require.NoError(t, cfg.Finalize(nil))

	assert.Equal(t, "reports", cfg.ContainerName)
	assert.Equal(t, "casebook", cfg.KeyPrefix)
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CONTAINER", "exports")
	t.Setenv("TEST_CONN", "override-connection")
	t.Setenv("TEST_PREFIX", "staging")

	env := &storage.Env{
		ContainerName:    "TEST_CONTAINER",
		ConnectionString: "TEST_CONN",
		KeyPrefix:        "TEST_PREFIX",
	}

	cfg := storage.Config{}
	require.NoError(t, cfg.Finalize(env))

	assert.Equal(t, "exports", cfg.ContainerName)
	assert.Equal(t, "override-connection", cfg.ConnectionString)
	assert.Equal(t, "staging", cfg.KeyPrefix)
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{"missing connection_string", storage.Config{ContainerName: "reports"}, "connection_string required"},
		{"traversal in key_prefix", storage.Config{ConnectionString: "conn", KeyPrefix: "../escape"}, "invalid key_prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{ContainerName: "reports", ConnectionString: "base-conn", KeyPrefix: "casebook"}
	base.Merge(&storage.Config{ConnectionString: "overlay-conn"})

	assert.Equal(t, "reports", base.ContainerName)
	assert.Equal(t, "overlay-conn", base.ConnectionString)
	assert.Equal(t, "casebook", base.KeyPrefix)
}
