package clickhouse

import (
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

const database = `if({{schema}} = '', currentDatabase(), {{schema}})`

// Catalog reads the system database. Sorting keys stand in for primary keys;
// ClickHouse has no foreign keys.
var Catalog = &metadata.Catalog{
	Name:            "clickhouse",
	CatalogIsSchema: true,

	Tables: `
		SELECT database AS table_schema, name AS table_name,
			if(engine LIKE '%View', 'VIEW', 'TABLE') AS table_type,
			comment AS remarks
		FROM system.tables
		WHERE database = ` + database + `
		ORDER BY name`,

	Columns: `
		SELECT database AS table_schema, table AS table_name, name AS column_name,
			type AS data_type, type AS column_type,
			if(startsWith(type, 'Nullable('), 'YES', 'NO') AS nullable,
			position AS ordinal,
			nullIf(default_expression, '') AS column_default,
			numeric_precision, numeric_scale,
			comment AS remarks
		FROM system.columns
		WHERE database = ` + database + ` AND table = {{table}}
		ORDER BY position`,

	PrimaryKeys: `
		SELECT database AS table_schema, table AS table_name, '' AS constraint_name,
			name AS column_name, position AS seq
		FROM system.columns
		WHERE is_in_primary_key = 1
			AND database = ` + database + ` AND table = {{table}}
		ORDER BY position`,

	Views: `
		SELECT database AS table_schema, name AS view_name, as_select AS definition
		FROM system.tables
		WHERE engine IN ('View', 'MaterializedView')
			AND database = ` + database + `
			AND ({{name}} = '' OR name = {{name}})
		ORDER BY name`,

	DDL: map[plugin.ObjectKind]metadata.DDLQuery{
		plugin.KindTable: {SQL: "SHOW CREATE TABLE [[object]]"},
		plugin.KindView:  {SQL: "SHOW CREATE TABLE [[object]]"},
	},
}
