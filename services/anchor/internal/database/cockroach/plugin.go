package cockroach

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/database/postgres"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

// Dialect is the PostgreSQL dialect plus USE, which CockroachDB accepts.
var Dialect = func() plugin.SQLDialect {
	d := postgres.Dialect
	d.VersionSQL = "SELECT version()"
	d.UseDatabase = "USE %s"
	return d
}()

// Catalog is information_schema with SHOW CREATE for tables and views.
var Catalog = func() *metadata.Catalog {
	c := *metadata.Generic
	c.Name = "cockroach"
	c.DDL = map[plugin.ObjectKind]metadata.DDLQuery{
		plugin.KindTable: {SQL: "SHOW CREATE TABLE [[object]]", Column: 1},
		plugin.KindView:  {SQL: "SHOW CREATE VIEW [[object]]", Column: 1},
	}
	return &c
}()

// Plugin serves CockroachDB 22.1+ over pgx. Stored procedures and triggers
// arrived late and are not described.
func Plugin() *plugin.Definition {
	return &plugin.Definition{
		Desc: plugin.Descriptor{
			ID:           "cockroach",
			Name:         "CockroachDB",
			Version:      postgres.PgxVersion,
			Engine:       dbcapabilities.CockroachDB,
			Capabilities: plugin.FeatureAll &^ (plugin.FeatureRoutines | plugin.FeatureTriggers),
			MinVersion:   "22.1",
			Artifact:     postgres.PgxArtifact,
			DSNSymbol:    plugin.DefaultDSNSymbol,
		},
		SQL:    Dialect,
		Values: postgres.Converter,
	}
}
