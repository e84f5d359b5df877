package db2

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

func address(cfg connbuilder.Config) string {
	return connbuilder.BuildAddress(cfg, dbcapabilities.MustGet(dbcapabilities.DB2).AddressTemplate, 50000)
}

func TestDSN(t *testing.T) {
	cfg := connbuilder.Config{
		Host:           "db2.internal",
		Database:       "SAMPLE",
		Username:       "db2inst1",
		Password:       "secret",
		TimeoutSeconds: 5,
		Properties:     map[string]string{"CurrentSchema": "APP"},
	}

	dsn, err := DSN(address(cfg), connbuilder.BuildProperties(cfg))
	require.NoError(t, err)
	assert.Equal(t,
		"HOSTNAME=db2.internal;PORT=50000;DATABASE=SAMPLE;UID=db2inst1;PWD=secret;CONNECTTIMEOUT=5;CurrentSchema=APP",
		dsn)
}

func TestDSNRejectsSemicolon(t *testing.T) {
	cfg := connbuilder.Config{Host: "h", Database: "SAMPLE", Username: "u", Password: "a;b"}

	_, err := DSN(address(cfg), connbuilder.BuildProperties(cfg))
	require.Error(t, err)
	assert.True(t, errors.Is(err, plugin.ErrInvalidConfiguration))
}

func TestBandAndAlias(t *testing.T) {
	p, ok := plugin.SelectBand(plugin.Resolve("ibmdb2"), "11.5.8.0")
	require.True(t, ok)
	assert.Equal(t, "db2", p.Descriptor().ID)
}

func TestConverter(t *testing.T) {
	assert.Equal(t, "12.50", Converter.Convert([]byte("12.50"), valueconv.Column{TypeName: "DECFLOAT"}))

	_, ok := Converter.Handler("ENUM")
	assert.False(t, ok)
}
