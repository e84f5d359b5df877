package metadata

import "github.com/redbco/redb-driverhub/pkg/plugin"

// SQLite reads sqlite_master and the pragma table-valued functions
// (SQLite 3.16+). Only the main schema is described. SQLite has no stored
// routines.
var SQLite = &Catalog{
	Name: "sqlite",

	Tables: `
		SELECT 'main' AS table_catalog, 'main' AS table_schema, name AS table_name,
			upper(type) AS table_type, '' AS remarks
		FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite\_%' ESCAPE '\'
		ORDER BY name`,

	Columns: `
		SELECT 'main' AS table_schema, m.name AS table_name, p.name AS column_name,
			p.type AS data_type, p.type AS column_type,
			CASE WHEN p."notnull" = 0 AND p.pk = 0 THEN 'YES' ELSE 'NO' END AS nullable,
			p.cid + 1 AS ordinal,
			p.dflt_value AS column_default,
			CASE WHEN p.pk = 1 AND upper(p.type) = 'INTEGER'
				AND (SELECT COUNT(*) FROM pragma_table_info(m.name) k WHERE k.pk > 0) = 1
				THEN 'YES' ELSE 'NO' END AS auto_increment
		FROM sqlite_master m
		JOIN pragma_table_info(m.name) p
		WHERE m.type IN ('table', 'view') AND m.name = {{table}}
		ORDER BY p.cid`,

	Indexes: `
		SELECT 'main' AS table_schema, m.name AS table_name, il.name AS index_name,
			il."unique" AS is_unique,
			CASE il.origin WHEN 'pk' THEN 1 ELSE 0 END AS is_primary,
			ii.name AS column_name, ii.seqno + 1 AS seq, ii."desc" AS descending,
			'BTREE' AS index_type
		FROM sqlite_master m
		JOIN pragma_index_list(m.name) il
		JOIN pragma_index_xinfo(il.name) ii
		WHERE m.type = 'table' AND m.name = {{table}} AND ii.key = 1
		ORDER BY il.name, ii.seqno`,

	PrimaryKeys: `
		SELECT 'main' AS table_schema, m.name AS table_name, '' AS constraint_name,
			p.name AS column_name, p.pk AS seq
		FROM sqlite_master m
		JOIN pragma_table_info(m.name) p
		WHERE m.type = 'table' AND m.name = {{table}} AND p.pk > 0
		ORDER BY p.pk`,

	ForeignKeys: `
		SELECT 'main' AS table_schema, m.name AS table_name,
			'' AS constraint_name, f.id AS constraint_id,
			f."from" AS column_name, f.seq + 1 AS seq,
			'main' AS ref_schema, f."table" AS ref_table, f."to" AS ref_column,
			f.on_update, f.on_delete
		FROM sqlite_master m
		JOIN pragma_foreign_key_list(m.name) f
		WHERE m.type = 'table' AND m.name = {{table}}
		ORDER BY f.id, f.seq`,

	Views: `
		SELECT 'main' AS table_schema, name AS view_name,
			trim(substr(sql, instr(upper(sql), ' AS ') + 4)) AS definition
		FROM sqlite_master
		WHERE type = 'view' AND ({{name}} = '' OR name = {{name}})
		ORDER BY name`,

	Triggers: `
		SELECT 'main' AS trigger_schema, name AS trigger_name, tbl_name AS table_name,
			CASE
				WHEN norm LIKE '% INSTEAD OF %' THEN 'INSTEAD OF'
				WHEN norm LIKE '% BEFORE %' THEN 'BEFORE'
				ELSE 'AFTER'
			END AS timing,
			CASE
				WHEN norm LIKE '% INSERT ON %' THEN 'INSERT'
				WHEN norm LIKE '% DELETE ON %' THEN 'DELETE'
				ELSE 'UPDATE'
			END AS event,
			sql AS statement
		FROM (
			SELECT name, tbl_name, sql,
				' ' || replace(replace(replace(upper(sql), char(13), ' '), char(10), ' '), char(9), ' ') || ' ' AS norm
			FROM sqlite_master
			WHERE type = 'trigger'
		)
		WHERE {{table}} = '' OR tbl_name = {{table}}
		ORDER BY name`,

	DDL: map[plugin.ObjectKind]DDLQuery{
		plugin.KindTable:   {SQL: sqliteDDL},
		plugin.KindView:    {SQL: sqliteDDL},
		plugin.KindIndex:   {SQL: sqliteDDL},
		plugin.KindTrigger: {SQL: sqliteDDL},
	},
}

const sqliteDDL = `SELECT sql FROM sqlite_master WHERE type = {{type}} AND name = {{name}}`
