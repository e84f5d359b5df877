package hana

import (
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

// inSchema matches column against the requested schema, defaulting to the
// session's current schema.
func inSchema(column string) string {
	return column + " = COALESCE(NULLIF({{schema}}, ''), CURRENT_SCHEMA)"
}

// Catalog reads the SYS catalog views.
var Catalog = &metadata.Catalog{
	Name: "hana",

	Tables: `
		SELECT SCHEMA_NAME AS table_schema, TABLE_NAME AS table_name, 'TABLE' AS table_type,
			COALESCE(COMMENTS, '') AS remarks
		FROM SYS.TABLES
		WHERE ` + inSchema("SCHEMA_NAME") + `
		UNION ALL
		SELECT SCHEMA_NAME, VIEW_NAME, 'VIEW', COALESCE(COMMENTS, '')
		FROM SYS.VIEWS
		WHERE ` + inSchema("SCHEMA_NAME") + `
		ORDER BY table_name`,

	Columns: `
		SELECT SCHEMA_NAME AS table_schema, TABLE_NAME AS table_name, COLUMN_NAME AS column_name,
			DATA_TYPE_NAME AS data_type,
			CASE WHEN DATA_TYPE_NAME IN ('DECIMAL') AND SCALE IS NOT NULL
				THEN DATA_TYPE_NAME || '(' || LENGTH || ',' || SCALE || ')'
				WHEN DATA_TYPE_NAME IN ('VARCHAR', 'NVARCHAR', 'VARBINARY', 'ALPHANUM')
				THEN DATA_TYPE_NAME || '(' || LENGTH || ')'
				ELSE DATA_TYPE_NAME END AS column_type,
			IS_NULLABLE AS nullable,
			POSITION AS ordinal,
			DEFAULT_VALUE AS column_default,
			CASE WHEN DATA_TYPE_NAME IN ('VARCHAR', 'NVARCHAR', 'ALPHANUM') THEN LENGTH END AS char_length,
			CASE WHEN DATA_TYPE_NAME = 'DECIMAL' THEN LENGTH END AS numeric_precision,
			CASE WHEN DATA_TYPE_NAME = 'DECIMAL' THEN SCALE END AS numeric_scale,
			CASE WHEN GENERATION_TYPE LIKE '%IDENTITY%' THEN 'YES' ELSE 'NO' END AS auto_increment,
			COALESCE(COMMENTS, '') AS remarks
		FROM SYS.TABLE_COLUMNS
		WHERE ` + inSchema("SCHEMA_NAME") + ` AND TABLE_NAME = {{table}}
		ORDER BY POSITION`,

	Indexes: `
		SELECT i.SCHEMA_NAME AS table_schema, i.TABLE_NAME AS table_name, i.INDEX_NAME AS index_name,
			CASE WHEN i.CONSTRAINT IN ('UNIQUE', 'PRIMARY KEY') THEN 1 ELSE 0 END AS is_unique,
			CASE WHEN i.CONSTRAINT = 'PRIMARY KEY' THEN 1 ELSE 0 END AS is_primary,
			c.COLUMN_NAME AS column_name, c.POSITION AS seq,
			CASE WHEN c.ASCENDING_ORDER = 'FALSE' THEN 1 ELSE 0 END AS descending,
			i.INDEX_TYPE AS index_type
		FROM SYS.INDEXES i
		JOIN SYS.INDEX_COLUMNS c
			ON c.SCHEMA_NAME = i.SCHEMA_NAME AND c.TABLE_NAME = i.TABLE_NAME AND c.INDEX_NAME = i.INDEX_NAME
		WHERE ` + inSchema("i.SCHEMA_NAME") + ` AND i.TABLE_NAME = {{table}}
		ORDER BY i.INDEX_NAME, c.POSITION`,

	PrimaryKeys: `
		SELECT SCHEMA_NAME AS table_schema, TABLE_NAME AS table_name, CONSTRAINT_NAME AS constraint_name,
			COLUMN_NAME AS column_name, POSITION AS seq
		FROM SYS.CONSTRAINTS
		WHERE IS_PRIMARY_KEY = 'TRUE'
			AND ` + inSchema("SCHEMA_NAME") + ` AND TABLE_NAME = {{table}}
		ORDER BY POSITION`,

	ForeignKeys: `
		SELECT SCHEMA_NAME AS table_schema, TABLE_NAME AS table_name, CONSTRAINT_NAME AS constraint_name,
			COLUMN_NAME AS column_name, POSITION AS seq,
			REFERENCED_SCHEMA_NAME AS ref_schema, REFERENCED_TABLE_NAME AS ref_table,
			REFERENCED_COLUMN_NAME AS ref_column,
			UPDATE_RULE AS on_update, DELETE_RULE AS on_delete
		FROM SYS.REFERENTIAL_CONSTRAINTS
		WHERE ` + inSchema("SCHEMA_NAME") + ` AND TABLE_NAME = {{table}}
		ORDER BY CONSTRAINT_NAME, POSITION`,

	Views: `
		SELECT SCHEMA_NAME AS table_schema, VIEW_NAME AS view_name, DEFINITION AS definition
		FROM SYS.VIEWS
		WHERE ` + inSchema("SCHEMA_NAME") + `
			AND ({{name}} = '' OR VIEW_NAME = {{name}})
		ORDER BY VIEW_NAME`,

	Routines: `
		SELECT SCHEMA_NAME AS routine_schema, PROCEDURE_NAME AS routine_name, '' AS return_type,
			PROCEDURE_TYPE AS language, DEFINITION AS definition
		FROM SYS.PROCEDURES
		WHERE {{kind}} = 'PROCEDURE'
			AND ` + inSchema("SCHEMA_NAME") + `
			AND ({{name}} = '' OR PROCEDURE_NAME = {{name}})
		UNION ALL
		SELECT SCHEMA_NAME, FUNCTION_NAME, FUNCTION_USAGE_TYPE, FUNCTION_TYPE, DEFINITION
		FROM SYS.FUNCTIONS
		WHERE {{kind}} = 'FUNCTION'
			AND ` + inSchema("SCHEMA_NAME") + `
			AND ({{name}} = '' OR FUNCTION_NAME = {{name}})
		ORDER BY routine_name`,

	Parameters: `
		SELECT SCHEMA_NAME AS routine_schema, PROCEDURE_NAME AS routine_name,
			PARAMETER_NAME AS parameter_name, PARAMETER_TYPE AS parameter_mode,
			DATA_TYPE_NAME AS data_type, POSITION AS seq
		FROM SYS.PROCEDURE_PARAMETERS
		WHERE {{kind}} = 'PROCEDURE'
			AND ` + inSchema("SCHEMA_NAME") + `
			AND ({{name}} = '' OR PROCEDURE_NAME = {{name}})
		UNION ALL
		SELECT SCHEMA_NAME, FUNCTION_NAME, PARAMETER_NAME, PARAMETER_TYPE, DATA_TYPE_NAME, POSITION
		FROM SYS.FUNCTION_PARAMETERS
		WHERE {{kind}} = 'FUNCTION'
			AND ` + inSchema("SCHEMA_NAME") + `
			AND ({{name}} = '' OR FUNCTION_NAME = {{name}})
		ORDER BY routine_name, seq`,

	Triggers: `
		SELECT SCHEMA_NAME AS trigger_schema, TRIGGER_NAME AS trigger_name,
			SUBJECT_TABLE_NAME AS table_name,
			TRIGGER_ACTION_TIME AS timing, TRIGGER_EVENT AS event,
			DEFINITION AS statement
		FROM SYS.TRIGGERS
		WHERE ` + inSchema("SCHEMA_NAME") + `
			AND ({{table}} = '' OR SUBJECT_TABLE_NAME = {{table}})
		ORDER BY TRIGGER_NAME`,

	DDL: map[plugin.ObjectKind]metadata.DDLQuery{
		plugin.KindView: {SQL: `
			SELECT 'CREATE VIEW ' || {{object}} || ' AS ' || DEFINITION
			FROM SYS.VIEWS
			WHERE ` + inSchema("SCHEMA_NAME") + ` AND VIEW_NAME = {{name}}`},
		plugin.KindProcedure: {SQL: `
			SELECT DEFINITION FROM SYS.PROCEDURES
			WHERE ` + inSchema("SCHEMA_NAME") + ` AND PROCEDURE_NAME = {{name}}`},
		plugin.KindFunction: {SQL: `
			SELECT DEFINITION FROM SYS.FUNCTIONS
			WHERE ` + inSchema("SCHEMA_NAME") + ` AND FUNCTION_NAME = {{name}}`},
		plugin.KindTrigger: {SQL: `
			SELECT DEFINITION FROM SYS.TRIGGERS
			WHERE ` + inSchema("SCHEMA_NAME") + ` AND TRIGGER_NAME = {{name}}`},
	},
}
