package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
drivers:
  directory: /opt/drivers
execution:
  max_rows: 500
`))
	require.NoError(t, err)
	assert.Equal(t, "/opt/drivers", cfg.Drivers.Directory)
	assert.Equal(t, DefaultSymbol, cfg.Drivers.Symbol)
	assert.Equal(t, 500, cfg.Execution.MaxRows)
	assert.Equal(t, 30*time.Second, cfg.Connections.ConnectTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestParseProfiles(t *testing.T) {
	cfg, err := Parse([]byte(`
connections:
  idle_timeout: 5m
profiles:
  orders:
    engine: postgres
    host: db.internal
    port: 5433
    database: orders
    username: app
    password: keyring:orders
    timeout_seconds: 10
`))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Connections.IdleTimeout)

	p, err := cfg.Profile("orders")
	require.NoError(t, err)
	assert.Equal(t, "postgres", p.Engine)
	assert.Equal(t, "db.internal", p.Connection.Host)
	assert.Equal(t, 5433, p.Connection.Port)
	assert.Equal(t, "keyring:orders", p.Connection.Password)
	assert.Equal(t, 10, p.Connection.TimeoutSeconds)

	_, err = cfg.Profile("missing")
	assert.Error(t, err)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"negative max rows":   "execution:\n  max_rows: -1\n",
		"empty symbol":        "drivers:\n  symbol: \"\"\n",
		"profile sans engine": "profiles:\n  x:\n    host: h\n",
		"malformed yaml":      "drivers: [",
		"connect timeout":     "connections:\n  connect_timeout: 301s\n",
		"profile timeout":     "profiles:\n  x:\n    engine: demo\n    timeout_seconds: 301\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestInitWritesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "driverhub.yaml")

	written, err := Init(path)
	require.NoError(t, err)
	assert.True(t, written)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Drivers, cfg.Drivers)

	require.NoError(t, os.WriteFile(path, []byte("execution:\n  max_rows: 7\n"), 0o644))
	written, err = Init(path)
	require.NoError(t, err)
	assert.False(t, written)

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Execution.MaxRows)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
