package metadata

import "github.com/redbco/redb-driverhub/pkg/plugin"

// pgSchema resolves an empty schema to the first schema on the search path.
const pgSchema = `COALESCE(NULLIF({{schema}}::text, ''), current_schema())`

// Postgres reads pg_catalog where information_schema loses detail (column
// types, index order) and information_schema elsewhere.
var Postgres = &Catalog{
	Name: "postgres",

	Tables: `
		SELECT table_catalog, table_schema, table_name,
			CASE table_type WHEN 'BASE TABLE' THEN 'TABLE' ELSE table_type END AS table_type,
			COALESCE(obj_description(to_regclass(quote_ident(table_schema) || '.' || quote_ident(table_name)), 'pg_class'), '') AS remarks
		FROM information_schema.tables
		WHERE table_schema = ` + pgSchema + `
		ORDER BY table_name`,

	Columns: `
		SELECT current_database() AS table_catalog, n.nspname AS table_schema, c.relname AS table_name,
			a.attname AS column_name,
			t.typname AS data_type,
			format_type(a.atttypid, a.atttypmod) AS column_type,
			NOT a.attnotnull AS nullable,
			a.attnum AS ordinal,
			pg_get_expr(d.adbin, d.adrelid) AS column_default,
			CASE WHEN t.typname IN ('varchar', 'bpchar') AND a.atttypmod > 4 THEN a.atttypmod - 4 END AS char_length,
			CASE WHEN t.typname = 'numeric' AND a.atttypmod > 4 THEN ((a.atttypmod - 4) >> 16) & 65535 END AS numeric_precision,
			CASE WHEN t.typname = 'numeric' AND a.atttypmod > 4 THEN (a.atttypmod - 4) & 65535 END AS numeric_scale,
			(a.attidentity <> '' OR COALESCE(pg_get_expr(d.adbin, d.adrelid), '') LIKE 'nextval(%') AS auto_increment,
			COALESCE(col_description(c.oid, a.attnum), '') AS remarks
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_type t ON t.oid = a.atttypid
		LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		WHERE a.attnum > 0 AND NOT a.attisdropped
			AND c.relkind IN ('r', 'p', 'v', 'm', 'f')
			AND n.nspname = ` + pgSchema + ` AND c.relname = {{table}}
		ORDER BY a.attnum`,

	Indexes: `
		SELECT n.nspname AS table_schema, t.relname AS table_name, i.relname AS index_name,
			ix.indisunique AS is_unique, ix.indisprimary AS is_primary,
			a.attname AS column_name, k.ord AS seq,
			(ix.indoption[k.ord - 1] & 1) = 1 AS descending,
			am.amname AS index_type
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_am am ON am.oid = i.relam
		CROSS JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord)
		LEFT JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
		WHERE n.nspname = ` + pgSchema + ` AND t.relname = {{table}}
		ORDER BY i.relname, k.ord`,

	PrimaryKeys: `
		SELECT tc.table_schema, tc.table_name, tc.constraint_name,
			kcu.column_name, kcu.ordinal_position AS seq
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON kcu.constraint_schema = tc.constraint_schema
			AND kcu.constraint_name = tc.constraint_name
			AND kcu.table_name = tc.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = ` + pgSchema + ` AND tc.table_name = {{table}}
		ORDER BY kcu.ordinal_position`,

	ForeignKeys: `
		SELECT kcu.table_schema, kcu.table_name, kcu.constraint_name,
			kcu.column_name, kcu.ordinal_position AS seq,
			ref.table_schema AS ref_schema, ref.table_name AS ref_table, ref.column_name AS ref_column,
			rc.update_rule AS on_update, rc.delete_rule AS on_delete
		FROM information_schema.referential_constraints rc
		JOIN information_schema.key_column_usage kcu
			ON kcu.constraint_schema = rc.constraint_schema
			AND kcu.constraint_name = rc.constraint_name
		JOIN information_schema.key_column_usage ref
			ON ref.constraint_schema = rc.unique_constraint_schema
			AND ref.constraint_name = rc.unique_constraint_name
			AND ref.ordinal_position = kcu.position_in_unique_constraint
		WHERE kcu.table_schema = ` + pgSchema + ` AND kcu.table_name = {{table}}
		ORDER BY kcu.constraint_name, kcu.ordinal_position`,

	Views: `
		SELECT table_schema, table_name AS view_name, view_definition AS definition
		FROM information_schema.views
		WHERE table_schema = ` + pgSchema + `
			AND ({{name}}::text = '' OR table_name = {{name}})
		ORDER BY table_name`,

	Routines: `
		SELECT routine_schema, routine_name, data_type AS return_type,
			external_language AS language, routine_definition AS definition
		FROM information_schema.routines
		WHERE routine_schema = ` + pgSchema + `
			AND routine_type = {{kind}}
			AND ({{name}}::text = '' OR routine_name = {{name}})
		ORDER BY routine_name`,

	Parameters: `
		SELECT r.routine_schema, r.routine_name, p.parameter_name, p.parameter_mode,
			p.data_type, p.ordinal_position AS seq
		FROM information_schema.parameters p
		JOIN information_schema.routines r
			ON r.specific_schema = p.specific_schema AND r.specific_name = p.specific_name
		WHERE r.routine_schema = ` + pgSchema + `
			AND r.routine_type = {{kind}}
			AND ({{name}}::text = '' OR r.routine_name = {{name}})
		ORDER BY r.routine_name, p.ordinal_position`,

	Triggers: `
		SELECT trigger_schema, trigger_name, event_object_table AS table_name,
			action_timing AS timing, event_manipulation AS event,
			action_statement AS statement
		FROM information_schema.triggers
		WHERE trigger_schema = ` + pgSchema + `
			AND ({{table}}::text = '' OR event_object_table = {{table}})
		ORDER BY trigger_name`,

	DDL: map[plugin.ObjectKind]DDLQuery{
		plugin.KindView: {SQL: `
			SELECT 'CREATE VIEW ' || {{object}}::text || ' AS ' || pg_get_viewdef(to_regclass({{object}}::text), true)
			WHERE to_regclass({{object}}::text) IS NOT NULL`},
		plugin.KindIndex: {SQL: `
			SELECT pg_get_indexdef(to_regclass({{object}}::text))
			WHERE to_regclass({{object}}::text) IS NOT NULL`},
		plugin.KindFunction: {SQL: `
			SELECT pg_get_functiondef(p.oid)
			FROM pg_proc p JOIN pg_namespace n ON n.oid = p.pronamespace
			WHERE n.nspname = ` + pgSchema + ` AND p.proname = {{name}}
			ORDER BY p.oid LIMIT 1`},
		plugin.KindProcedure: {SQL: `
			SELECT pg_get_functiondef(p.oid)
			FROM pg_proc p JOIN pg_namespace n ON n.oid = p.pronamespace
			WHERE n.nspname = ` + pgSchema + ` AND p.proname = {{name}}
			ORDER BY p.oid LIMIT 1`},
		plugin.KindTrigger: {SQL: `
			SELECT pg_get_triggerdef(t.oid, true)
			FROM pg_trigger t
			JOIN pg_class c ON c.oid = t.tgrelid
			JOIN pg_namespace n ON n.oid = c.relnamespace
			WHERE NOT t.tgisinternal AND n.nspname = ` + pgSchema + ` AND t.tgname = {{name}}
			LIMIT 1`},
	},
}
