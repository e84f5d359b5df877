package databricks

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

// DriverVersion is the databricks/databricks-sql-go release.
const DriverVersion = "1.9.0"

// Dialect is the Databricks SQL dialect. Catalogs are addressed with USE
// CATALOG through the catalog connection property.
var Dialect = plugin.SQLDialect{
	OpenQuote:    "`",
	CloseQuote:   "`",
	Placeholders: plugin.PlaceholderQuestion,
	VersionSQL:   "SELECT version()",
	UseSchema:    "USE SCHEMA %s",
	Unsupported:  []plugin.ObjectKind{plugin.KindTrigger, plugin.KindIndex, plugin.KindProcedure},
}

// Converter maps the Spark type names the driver reports.
var Converter = valueconv.Reference().Extend("databricks", map[string]valueconv.Handler{
	"STRING":    valueconv.Text,
	"BYTE":      valueconv.Integer,
	"SHORT":     valueconv.Integer,
	"LONG":      valueconv.Integer,
	"BOOLEAN":   valueconv.Boolean,
	"TIMESTAMP": valueconv.TimestampTZ,
	"ARRAY":     valueconv.Structured,
	"MAP":       valueconv.Structured,
	"STRUCT":    valueconv.Structured,
	"INTERVAL":  valueconv.Text,
})

// Catalog is information_schema of the current catalog with SHOW CREATE
// TABLE for tables and views.
var Catalog = func() *metadata.Catalog {
	c := *metadata.Generic
	c.Name = "databricks"
	c.Triggers = ""
	c.DDL = map[plugin.ObjectKind]metadata.DDLQuery{
		plugin.KindTable: {SQL: "SHOW CREATE TABLE [[object]]"},
		plugin.KindView:  {SQL: "SHOW CREATE TABLE [[object]]"},
	}
	return &c
}()

// Plugin serves Databricks SQL warehouses. Statements autocommit; there is
// no transaction or trigger support.
func Plugin() *plugin.Definition {
	return &plugin.Definition{
		Desc: plugin.Descriptor{
			ID:      "databricks",
			Name:    "Databricks SQL",
			Version: DriverVersion,
			Engine:  dbcapabilities.Databricks,
			Capabilities: plugin.FeatureConnection | plugin.FeatureQuery | plugin.FeatureMetadata |
				plugin.FeatureRoutines | plugin.FeatureDDL | plugin.FeatureDrop,
			Artifact: plugin.Artifact{
				Group:    "github.com/databricks",
				Artifact: "databricks-driver",
				Version:  plugin.Ver(DriverVersion),
			},
		},
		SQL:      Dialect,
		Values:   Converter,
		BuildDSN: DSN,
	}
}
