package cockroach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/database/postgres"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

func TestPlugin(t *testing.T) {
	p, ok := plugin.SelectBand(plugin.Resolve("crdb"), "CockroachDB CCL v23.1.11 (x86_64-pc-linux-gnu)")
	require.True(t, ok)
	assert.Equal(t, "cockroach", p.Descriptor().ID)
	assert.Equal(t, `USE "bank"`, p.Dialect().UseStatement("bank", ""))

	cfg := connbuilder.Config{Host: "crdb", Database: "bank", Username: "root"}
	address := connbuilder.BuildAddress(cfg, dbcapabilities.MustGet(dbcapabilities.CockroachDB).AddressTemplate, 26257)
	assert.Equal(t, "postgres://crdb:26257/bank", address)
	assert.Equal(t, plugin.DefaultDSNSymbol, p.Descriptor().DSNSymbol)
	assert.True(t, p.Descriptor().SameLibrary(postgres.Plugins()[0].Descriptor()), "served by the pgx library")
}

func TestDialectLeavesPostgresUntouched(t *testing.T) {
	assert.Empty(t, postgres.Dialect.UseDatabase)
	assert.Equal(t, "SHOW server_version", postgres.Dialect.VersionSQL)
}

func TestCatalog(t *testing.T) {
	assert.Same(t, Catalog, metadata.Lookup(dbcapabilities.CockroachDB))
	assert.Equal(t, metadata.Generic.Tables, Catalog.Tables)
	assert.Nil(t, metadata.Generic.DDL)
}
