package timescaledb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
)

func TestBand(t *testing.T) {
	_, ok := plugin.SelectBand(plugin.Resolve("timescale"), "11.9")
	assert.False(t, ok)

	p, ok := plugin.SelectBand(plugin.Resolve("timescaledb"), "16.2 (Debian 16.2-1.pgdg120+2)")
	require.True(t, ok)
	assert.Equal(t, "timescaledb", p.Descriptor().ID)
}

func TestAddress(t *testing.T) {
	cfg := connbuilder.Config{Host: "tsdb", Database: "metrics", Username: "ts", TimeoutSeconds: 3}
	address := connbuilder.BuildAddress(cfg, dbcapabilities.MustGet(dbcapabilities.TimescaleDB).AddressTemplate, 5432)
	assert.Equal(t, "postgres://tsdb:5432/metrics", address)

	d := Plugin().Descriptor()
	assert.Equal(t, plugin.DefaultDSNSymbol, d.DSNSymbol)
	assert.Equal(t, "pgx-driver-5.7.5.so", d.Artifact.FileName())
}
