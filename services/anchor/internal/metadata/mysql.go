package metadata

import "github.com/redbco/redb-driverhub/pkg/plugin"

// mysqlSchema resolves an empty schema to the connection's database.
const mysqlSchema = `COALESCE(NULLIF({{schema}}, ''), DATABASE())`

// MySQL covers MySQL, MariaDB and TiDB. Databases are schemas there, so
// catalog scopes are folded into the schema.
var MySQL = &Catalog{
	Name:            "mysql",
	CatalogIsSchema: true,

	Tables: `
		SELECT table_catalog, table_schema, table_name,
			CASE table_type WHEN 'BASE TABLE' THEN 'TABLE' ELSE table_type END AS table_type,
			table_comment AS remarks
		FROM information_schema.tables
		WHERE table_schema = ` + mysqlSchema + `
		ORDER BY table_name`,

	Columns: `
		SELECT table_catalog, table_schema, table_name, column_name,
			data_type, column_type,
			is_nullable AS nullable,
			ordinal_position AS ordinal,
			column_default,
			character_maximum_length AS char_length,
			numeric_precision, numeric_scale,
			CASE WHEN extra LIKE '%auto_increment%' THEN 'YES' ELSE 'NO' END AS auto_increment,
			column_comment AS remarks
		FROM information_schema.columns
		WHERE table_schema = ` + mysqlSchema + ` AND table_name = {{table}}
		ORDER BY ordinal_position`,

	Indexes: `
		SELECT table_schema, table_name, index_name,
			CASE non_unique WHEN 0 THEN 1 ELSE 0 END AS is_unique,
			CASE index_name WHEN 'PRIMARY' THEN 1 ELSE 0 END AS is_primary,
			column_name, seq_in_index AS seq,
			CASE collation WHEN 'D' THEN 1 ELSE 0 END AS descending,
			index_type
		FROM information_schema.statistics
		WHERE table_schema = ` + mysqlSchema + ` AND table_name = {{table}}
		ORDER BY index_name, seq_in_index`,

	PrimaryKeys: `
		SELECT table_schema, table_name, constraint_name, column_name, ordinal_position AS seq
		FROM information_schema.key_column_usage
		WHERE constraint_name = 'PRIMARY'
			AND table_schema = ` + mysqlSchema + ` AND table_name = {{table}}
		ORDER BY ordinal_position`,

	ForeignKeys: `
		SELECT k.table_schema, k.table_name, k.constraint_name,
			k.column_name, k.ordinal_position AS seq,
			k.referenced_table_schema AS ref_schema,
			k.referenced_table_name AS ref_table,
			k.referenced_column_name AS ref_column,
			r.update_rule AS on_update, r.delete_rule AS on_delete
		FROM information_schema.key_column_usage k
		JOIN information_schema.referential_constraints r
			ON r.constraint_schema = k.constraint_schema
			AND r.constraint_name = k.constraint_name
			AND r.table_name = k.table_name
		WHERE k.referenced_table_name IS NOT NULL
			AND k.table_schema = ` + mysqlSchema + ` AND k.table_name = {{table}}
		ORDER BY k.constraint_name, k.ordinal_position`,

	Views: `
		SELECT table_schema, table_name AS view_name, view_definition AS definition
		FROM information_schema.views
		WHERE table_schema = ` + mysqlSchema + `
			AND ({{name}} = '' OR table_name = {{name}})
		ORDER BY table_name`,

	Routines: `
		SELECT routine_schema, routine_name, dtd_identifier AS return_type,
			routine_body AS language, routine_definition AS definition
		FROM information_schema.routines
		WHERE routine_schema = ` + mysqlSchema + `
			AND routine_type = {{kind}}
			AND ({{name}} = '' OR routine_name = {{name}})
		ORDER BY routine_name`,

	Parameters: `
		SELECT specific_schema AS routine_schema, specific_name AS routine_name,
			parameter_name, parameter_mode, dtd_identifier AS data_type,
			ordinal_position AS seq
		FROM information_schema.parameters
		WHERE specific_schema = ` + mysqlSchema + `
			AND routine_type = {{kind}}
			AND ({{name}} = '' OR specific_name = {{name}})
		ORDER BY specific_name, ordinal_position`,

	Triggers: `
		SELECT trigger_schema, trigger_name, event_object_table AS table_name,
			action_timing AS timing, event_manipulation AS event,
			action_statement AS statement
		FROM information_schema.triggers
		WHERE trigger_schema = ` + mysqlSchema + `
			AND ({{table}} = '' OR event_object_table = {{table}})
		ORDER BY trigger_name`,

	DDL: map[plugin.ObjectKind]DDLQuery{
		plugin.KindTable:     {SQL: "SHOW CREATE TABLE [[object]]", Column: 1},
		plugin.KindView:      {SQL: "SHOW CREATE VIEW [[object]]", Column: 1},
		plugin.KindFunction:  {SQL: "SHOW CREATE FUNCTION [[object]]", Column: 2},
		plugin.KindProcedure: {SQL: "SHOW CREATE PROCEDURE [[object]]", Column: 2},
		plugin.KindTrigger:   {SQL: "SHOW CREATE TRIGGER [[object]]", Column: 2},
	},
}
