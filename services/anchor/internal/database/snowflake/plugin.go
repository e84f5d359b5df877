package snowflake

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

// DriverVersion is the snowflakedb/gosnowflake release.
const DriverVersion = "1.15.0"

// Dialect is the Snowflake dialect.
var Dialect = plugin.SQLDialect{
	OpenQuote:    `"`,
	CloseQuote:   `"`,
	Placeholders: plugin.PlaceholderQuestion,
	VersionSQL:   "SELECT CURRENT_VERSION()",
	UseDatabase:  "USE DATABASE %s",
	UseSchema:    "USE SCHEMA %s",
	Unsupported:  []plugin.ObjectKind{plugin.KindTrigger, plugin.KindIndex},
}

// Converter maps the type names gosnowflake reports.
var Converter = valueconv.Reference().Extend("snowflake", map[string]valueconv.Handler{
	"FIXED":         valueconv.Decimal,
	"TEXT":          valueconv.Text,
	"BOOLEAN":       valueconv.Boolean,
	"TIMESTAMP_NTZ": valueconv.DateTime,
	"TIMESTAMP_LTZ": valueconv.TimestampTZ,
	"TIMESTAMP_TZ":  valueconv.TimestampTZ,
	"VARIANT":       valueconv.JSON,
	"OBJECT":        valueconv.JSON,
	"ARRAY":         valueconv.JSON,
	"BINARY":        valueconv.LargeBinary,
})

const schema = `COALESCE(NULLIF({{schema}}, ''), CURRENT_SCHEMA())`

// Catalog reads the current database's INFORMATION_SCHEMA and asks GET_DDL
// for native DDL.
var Catalog = func() *metadata.Catalog {
	c := *metadata.Generic
	c.Name = "snowflake"
	c.Tables = `
		SELECT table_catalog, table_schema, table_name,
			CASE table_type WHEN 'BASE TABLE' THEN 'TABLE' ELSE table_type END AS table_type,
			COALESCE(comment, '') AS remarks
		FROM information_schema.tables
		WHERE table_schema = ` + schema + `
		ORDER BY table_name`
	c.Columns = `
		SELECT table_catalog, table_schema, table_name, column_name,
			data_type, data_type AS column_type,
			is_nullable AS nullable,
			ordinal_position AS ordinal,
			column_default,
			character_maximum_length AS char_length,
			numeric_precision, numeric_scale,
			CASE WHEN is_identity = 'YES' THEN 'YES' ELSE 'NO' END AS auto_increment,
			COALESCE(comment, '') AS remarks
		FROM information_schema.columns
		WHERE table_schema = ` + schema + ` AND table_name = {{table}}
		ORDER BY ordinal_position`
	c.Triggers = ""
	c.DDL = map[plugin.ObjectKind]metadata.DDLQuery{
		plugin.KindTable:     {SQL: "SELECT GET_DDL({{type}}, {{object}})"},
		plugin.KindView:      {SQL: "SELECT GET_DDL({{type}}, {{object}})"},
		plugin.KindFunction:  {SQL: "SELECT GET_DDL({{type}}, {{object}})"},
		plugin.KindProcedure: {SQL: "SELECT GET_DDL({{type}}, {{object}})"},
	}
	return &c
}()

// Plugin serves Snowflake through gosnowflake. Snowflake has no triggers
// or user indexes.
func Plugin() *plugin.Definition {
	return &plugin.Definition{
		Desc: plugin.Descriptor{
			ID:           "snowflake",
			Name:         "Snowflake",
			Version:      DriverVersion,
			Engine:       dbcapabilities.Snowflake,
			Capabilities: plugin.FeatureAll &^ plugin.FeatureTriggers,
			Artifact: plugin.Artifact{
				Group:    "github.com/snowflakedb",
				Artifact: "snowflake-driver",
				Version:  plugin.Ver(DriverVersion),
			},
			DSNSymbol: plugin.DefaultDSNSymbol,
		},
		SQL:    Dialect,
		Values: Converter,
	}
}
