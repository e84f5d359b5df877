package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driverhub.log")
	log := NewWithOptions("driverhub", "test", Options{Level: "debug", File: path, Quiet: true})

	log.Debug("loaded %d plugins", 3)
	log.WithFields(map[string]string{"engine": "mysql"}).Warn("ping failed")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "loaded 3 plugins")
	assert.Contains(t, string(data), `"engine":"mysql"`)
	assert.Contains(t, string(data), `"version":"test"`)
}

func TestSetLevel(t *testing.T) {
	log := NewWithOptions("driverhub", "", Options{Level: "warn", Quiet: true})
	assert.False(t, log.Enabled("info"))

	require.NoError(t, log.SetLevel("debug"))
	assert.True(t, log.Enabled("debug"))

	assert.Error(t, log.SetLevel("loud"))
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Info("nothing %s", "here")
	log.Rotate()
	assert.NoError(t, log.Named("sub").Sync())
}
