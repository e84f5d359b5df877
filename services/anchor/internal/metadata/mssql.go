package metadata

import "github.com/redbco/redb-driverhub/pkg/plugin"

const mssqlSchema = `COALESCE(NULLIF({{schema}}, ''), SCHEMA_NAME())`

// mssqlDefinition returns the module text of views, routines and triggers.
const mssqlDefinition = `SELECT OBJECT_DEFINITION(OBJECT_ID({{object}})) WHERE OBJECT_ID({{object}}) IS NOT NULL`

// SQLServer reads INFORMATION_SCHEMA where it is complete and the sys
// catalog views for indexes, foreign keys and triggers.
var SQLServer = &Catalog{
	Name: "sqlserver",

	Tables: `
		SELECT TABLE_CATALOG AS table_catalog, TABLE_SCHEMA AS table_schema, TABLE_NAME AS table_name,
			CASE TABLE_TYPE WHEN 'BASE TABLE' THEN 'TABLE' ELSE TABLE_TYPE END AS table_type,
			'' AS remarks
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = ` + mssqlSchema + `
		ORDER BY TABLE_NAME`,

	Columns: `
		SELECT TABLE_CATALOG AS table_catalog, TABLE_SCHEMA AS table_schema, TABLE_NAME AS table_name,
			COLUMN_NAME AS column_name, DATA_TYPE AS data_type,
			DATA_TYPE + CASE
				WHEN CHARACTER_MAXIMUM_LENGTH = -1 THEN '(max)'
				WHEN CHARACTER_MAXIMUM_LENGTH IS NOT NULL THEN '(' + CAST(CHARACTER_MAXIMUM_LENGTH AS varchar(10)) + ')'
				WHEN DATA_TYPE IN ('decimal', 'numeric') THEN '(' + CAST(NUMERIC_PRECISION AS varchar(10)) + ',' + CAST(NUMERIC_SCALE AS varchar(10)) + ')'
				ELSE ''
			END AS column_type,
			IS_NULLABLE AS nullable,
			ORDINAL_POSITION AS ordinal,
			COLUMN_DEFAULT AS column_default,
			CHARACTER_MAXIMUM_LENGTH AS char_length,
			NUMERIC_PRECISION AS numeric_precision, NUMERIC_SCALE AS numeric_scale,
			COLUMNPROPERTY(OBJECT_ID(QUOTENAME(TABLE_SCHEMA) + '.' + QUOTENAME(TABLE_NAME)), COLUMN_NAME, 'IsIdentity') AS auto_increment,
			'' AS remarks
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ` + mssqlSchema + ` AND TABLE_NAME = {{table}}
		ORDER BY ORDINAL_POSITION`,

	Indexes: `
		SELECT s.name AS table_schema, t.name AS table_name, i.name AS index_name,
			i.is_unique, i.is_primary_key AS is_primary,
			c.name AS column_name, ic.key_ordinal AS seq,
			ic.is_descending_key AS descending, i.type_desc AS index_type
		FROM sys.indexes i
		JOIN sys.tables t ON t.object_id = i.object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
		JOIN sys.columns c ON c.object_id = ic.object_id AND c.column_id = ic.column_id
		WHERE i.name IS NOT NULL AND ic.key_ordinal > 0
			AND s.name = ` + mssqlSchema + ` AND t.name = {{table}}
		ORDER BY i.name, ic.key_ordinal`,

	PrimaryKeys: `
		SELECT tc.TABLE_SCHEMA AS table_schema, tc.TABLE_NAME AS table_name,
			tc.CONSTRAINT_NAME AS constraint_name,
			kcu.COLUMN_NAME AS column_name, kcu.ORDINAL_POSITION AS seq
		FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
			ON kcu.CONSTRAINT_SCHEMA = tc.CONSTRAINT_SCHEMA
			AND kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
		WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
			AND tc.TABLE_SCHEMA = ` + mssqlSchema + ` AND tc.TABLE_NAME = {{table}}
		ORDER BY kcu.ORDINAL_POSITION`,

	ForeignKeys: `
		SELECT s.name AS table_schema, t.name AS table_name, fk.name AS constraint_name,
			pc.name AS column_name, fkc.constraint_column_id AS seq,
			rs.name AS ref_schema, rt.name AS ref_table, rc.name AS ref_column,
			REPLACE(fk.update_referential_action_desc, '_', ' ') AS on_update,
			REPLACE(fk.delete_referential_action_desc, '_', ' ') AS on_delete
		FROM sys.foreign_keys fk
		JOIN sys.foreign_key_columns fkc ON fkc.constraint_object_id = fk.object_id
		JOIN sys.tables t ON t.object_id = fk.parent_object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		JOIN sys.columns pc ON pc.object_id = fkc.parent_object_id AND pc.column_id = fkc.parent_column_id
		JOIN sys.tables rt ON rt.object_id = fk.referenced_object_id
		JOIN sys.schemas rs ON rs.schema_id = rt.schema_id
		JOIN sys.columns rc ON rc.object_id = fkc.referenced_object_id AND rc.column_id = fkc.referenced_column_id
		WHERE s.name = ` + mssqlSchema + ` AND t.name = {{table}}
		ORDER BY fk.name, fkc.constraint_column_id`,

	Views: `
		SELECT TABLE_SCHEMA AS table_schema, TABLE_NAME AS view_name, VIEW_DEFINITION AS definition
		FROM INFORMATION_SCHEMA.VIEWS
		WHERE TABLE_SCHEMA = ` + mssqlSchema + `
			AND ({{name}} = '' OR TABLE_NAME = {{name}})
		ORDER BY TABLE_NAME`,

	Routines: `
		SELECT ROUTINE_SCHEMA AS routine_schema, ROUTINE_NAME AS routine_name,
			DATA_TYPE AS return_type, ROUTINE_BODY AS language,
			ROUTINE_DEFINITION AS definition
		FROM INFORMATION_SCHEMA.ROUTINES
		WHERE ROUTINE_SCHEMA = ` + mssqlSchema + `
			AND ROUTINE_TYPE = {{kind}}
			AND ({{name}} = '' OR ROUTINE_NAME = {{name}})
		ORDER BY ROUTINE_NAME`,

	Parameters: `
		SELECT r.ROUTINE_SCHEMA AS routine_schema, r.ROUTINE_NAME AS routine_name,
			p.PARAMETER_NAME AS parameter_name, p.PARAMETER_MODE AS parameter_mode,
			p.DATA_TYPE AS data_type, p.ORDINAL_POSITION AS seq
		FROM INFORMATION_SCHEMA.PARAMETERS p
		JOIN INFORMATION_SCHEMA.ROUTINES r
			ON r.SPECIFIC_SCHEMA = p.SPECIFIC_SCHEMA AND r.SPECIFIC_NAME = p.SPECIFIC_NAME
		WHERE r.ROUTINE_SCHEMA = ` + mssqlSchema + `
			AND r.ROUTINE_TYPE = {{kind}}
			AND ({{name}} = '' OR r.ROUTINE_NAME = {{name}})
		ORDER BY r.ROUTINE_NAME, p.ORDINAL_POSITION`,

	Triggers: `
		SELECT s.name AS trigger_schema, tr.name AS trigger_name, t.name AS table_name,
			CASE WHEN tr.is_instead_of_trigger = 1 THEN 'INSTEAD OF' ELSE 'AFTER' END AS timing,
			te.type_desc AS event,
			OBJECT_DEFINITION(tr.object_id) AS statement
		FROM sys.triggers tr
		JOIN sys.tables t ON t.object_id = tr.parent_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		JOIN sys.trigger_events te ON te.object_id = tr.object_id
		WHERE s.name = ` + mssqlSchema + `
			AND ({{table}} = '' OR t.name = {{table}})
		ORDER BY tr.name`,

	DDL: map[plugin.ObjectKind]DDLQuery{
		plugin.KindView:      {SQL: mssqlDefinition},
		plugin.KindFunction:  {SQL: mssqlDefinition},
		plugin.KindProcedure: {SQL: mssqlDefinition},
		plugin.KindTrigger:   {SQL: mssqlDefinition},
	},
}
