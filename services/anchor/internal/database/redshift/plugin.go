// Package redshift serves Amazon Redshift through lib/pq. Redshift speaks
// the PostgreSQL 8.0 wire protocol but has no indexes or triggers.
package redshift

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
	"github.com/redbco/redb-driverhub/services/anchor/internal/database/postgres"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

// Dialect reads the full version banner; SHOW server_version reports the
// frozen 8.0.2 protocol version.
var Dialect = func() plugin.SQLDialect {
	d := postgres.Dialect
	d.VersionSQL = "SELECT version()"
	return d
}()

var Converter = postgres.Converter.Extend("redshift", map[string]valueconv.Handler{
	"SUPER":     valueconv.JSON,
	"GEOMETRY":  valueconv.PrefixedBinary(`\x`),
	"HLLSKETCH": valueconv.Text,
})

// Catalog is information_schema; table DDL is regenerated from records.
var Catalog = func() *metadata.Catalog {
	c := *metadata.Generic
	c.Name = "redshift"
	c.Triggers = ""
	return &c
}()

// Plugin serves Redshift through the lib/pq library, which formats the
// keyword DSN.
func Plugin() *plugin.Definition {
	return &plugin.Definition{
		Desc: plugin.Descriptor{
			ID:           "redshift",
			Name:         "Amazon Redshift (lib/pq)",
			Version:      postgres.PqVersion,
			Engine:       dbcapabilities.Redshift,
			Capabilities: plugin.FeatureAll &^ plugin.FeatureTriggers,
			Artifact:     postgres.PqArtifact,
			DSNSymbol:    plugin.DefaultDSNSymbol,
		},
		SQL:    Dialect,
		Values: Converter,
	}
}
