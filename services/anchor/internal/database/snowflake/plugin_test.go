package snowflake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
)

func TestCatalogUsesGetDDL(t *testing.T) {
	q, ok := Catalog.DDL[plugin.KindView]
	require.True(t, ok)
	assert.Contains(t, q.SQL, "GET_DDL")
	assert.Empty(t, Catalog.Triggers)
	assert.False(t, Plugin().Descriptor().Supports(plugin.FeatureTriggers))
}

func TestAddress(t *testing.T) {
	cfg := connbuilder.Config{Host: "xy12345.eu-central-1.snowflakecomputing.com", Database: "ANALYTICS"}
	address := connbuilder.BuildAddress(cfg, dbcapabilities.MustGet(dbcapabilities.Snowflake).AddressTemplate, 443)
	assert.Equal(t, "xy12345.eu-central-1.snowflakecomputing.com:443/ANALYTICS", address)
	assert.Equal(t, plugin.DefaultDSNSymbol, Plugin().Descriptor().DSNSymbol)
}
