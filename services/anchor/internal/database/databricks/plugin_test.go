package databricks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
)

func TestDSN(t *testing.T) {
	cfg := connbuilder.Config{
		Host:           "dbc-123.cloud.databricks.com",
		Database:       "main",
		Password:       "dapi0123",
		TimeoutSeconds: 20,
		Properties:     map[string]string{PropHTTPPath: "/sql/1.0/warehouses/abc"},
	}
	address := connbuilder.BuildAddress(cfg, dbcapabilities.MustGet(dbcapabilities.Databricks).AddressTemplate, 443)

	dsn, err := DSN(address, connbuilder.BuildProperties(cfg))
	require.NoError(t, err)
	assert.Equal(t, "token:dapi0123@dbc-123.cloud.databricks.com:443/sql/1.0/warehouses/abc?catalog=main&timeout=20", dsn)
}

func TestDSNRequirements(t *testing.T) {
	_, err := DSN("h:443/main", connbuilder.Properties{connbuilder.PropPassword: "x"})
	assert.ErrorIs(t, err, plugin.ErrInvalidConfiguration)

	_, err = DSN("h:443/main", connbuilder.Properties{PropHTTPPath: "sql/1.0/warehouses/abc"})
	assert.ErrorIs(t, err, plugin.ErrInvalidConfiguration)
}

func TestCapabilities(t *testing.T) {
	desc := Plugin().Descriptor()
	assert.False(t, desc.Supports(plugin.FeatureTransaction))
	assert.False(t, desc.Supports(plugin.FeatureTriggers))
	assert.Empty(t, Catalog.Triggers)
}
