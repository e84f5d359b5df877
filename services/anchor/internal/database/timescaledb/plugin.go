// Package timescaledb serves TimescaleDB, which is PostgreSQL 12+ with the
// timescaledb extension, over pgx.
package timescaledb

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/database/postgres"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

// Catalog is the PostgreSQL catalog. Hypertables are ordinary tables to it;
// their chunks live in _timescaledb_internal and are hidden by the default
// schema filter.
var Catalog = func() *metadata.Catalog {
	c := *metadata.Postgres
	c.Name = "timescaledb"
	return &c
}()

func Plugin() *plugin.Definition {
	return &plugin.Definition{
		Desc: plugin.Descriptor{
			ID:           "timescaledb",
			Name:         "TimescaleDB (pgx)",
			Version:      postgres.PgxVersion,
			Engine:       dbcapabilities.TimescaleDB,
			Capabilities: plugin.FeatureAll,
			MinVersion:   "12",
			Artifact:     postgres.PgxArtifact,
			DSNSymbol:    plugin.DefaultDSNSymbol,
		},
		SQL:    postgres.Dialect,
		Values: postgres.Converter,
	}
}
