package redshift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

func TestAddress(t *testing.T) {
	cfg := connbuilder.Config{
		Host:     "cluster.abc.us-east-1.redshift.amazonaws.com",
		Database: "dev",
		Username: "awsuser",
		Password: "pw",
	}
	address := connbuilder.BuildAddress(cfg, dbcapabilities.MustGet(dbcapabilities.Redshift).AddressTemplate, 5439)
	assert.Equal(t, "postgres://cluster.abc.us-east-1.redshift.amazonaws.com:5439/dev", address)

	d := Plugin().Descriptor()
	assert.Equal(t, plugin.DefaultDSNSymbol, d.DSNSymbol)
	assert.Equal(t, "pq-driver-1.10.9.so", d.Artifact.FileName())
}

func TestRegistered(t *testing.T) {
	plugins := plugin.Resolve("aws-redshift")
	require.Len(t, plugins, 1)
	d := plugins[0].Descriptor()
	assert.Equal(t, "redshift", d.ID)
	assert.False(t, d.Supports(plugin.FeatureTriggers))
}

func TestConverter(t *testing.T) {
	v := Converter.Convert([]byte(`{"a":1}`), valueconv.Column{TypeName: "SUPER"})
	assert.IsType(t, map[string]interface{}{}, v)
}
