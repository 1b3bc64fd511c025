package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sqlpulse.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.ListenAddr)
	assert.Empty(t, cfg.APIKey)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"listen_addr": "127.0.0.1:9000",
		"api_key": "sekrit",
		"logging": {"level": "debug"},
		"handshake": {"max_attempts": 7, "connect_grace": 100000000}
	}`)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, "sekrit", cfg.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 7, cfg.Handshake.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Handshake.ConnectGrace)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `{"listen_addr": "127.0.0.1:9000"}`)

	t.Setenv("SQLPULSE_LISTEN_ADDR", "127.0.0.1:9999")
	t.Setenv("SQLPULSE_API_KEY", "from-env")

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.ListenAddr)
	assert.Equal(t, "from-env", cfg.APIKey)
}

func TestLoadBadFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeConfigFile(t, `{not json`)

	_, err = Load(context.Background(), path)
	assert.Error(t, err)
}
