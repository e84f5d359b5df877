package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
)

func TestDialect(t *testing.T) {
	assert.Equal(t, ":2", Dialect.Placeholder(2))
	assert.Equal(t, `ALTER SESSION SET CURRENT_SCHEMA = "HR"`, Dialect.UseStatement("", "HR"))
}

func TestBand(t *testing.T) {
	p, ok := plugin.SelectBand(plugin.Resolve("oracle"), "19.0.0.0.0")
	require.True(t, ok)
	assert.Equal(t, "oracle", p.Descriptor().ID)

	_, ok = plugin.SelectBand(plugin.Resolve("oracle"), "11.2.0.4.0")
	assert.False(t, ok)
}

func TestCatalogDDLCoversEveryKind(t *testing.T) {
	for _, kind := range []plugin.ObjectKind{plugin.KindTable, plugin.KindView, plugin.KindIndex, plugin.KindFunction, plugin.KindProcedure, plugin.KindTrigger} {
		assert.Contains(t, Catalog.DDL[kind].SQL, "DBMS_METADATA.GET_DDL", kind)
	}
}

func TestAddress(t *testing.T) {
	cfg := connbuilder.Config{Host: "ora.internal", Database: "ORCLPDB1"}
	address := connbuilder.BuildAddress(cfg, dbcapabilities.MustGet(dbcapabilities.Oracle).AddressTemplate, 1521)
	assert.Equal(t, "ora.internal:1521/ORCLPDB1", address)
	assert.Equal(t, plugin.DefaultDSNSymbol, Plugin().Descriptor().DSNSymbol)
}
