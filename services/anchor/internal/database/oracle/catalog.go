package oracle

import (
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

// Oracle binds "" as NULL, so defaults and optional filters test for NULL.
const owner = `NVL({{schema}}, SYS_CONTEXT('USERENV', 'CURRENT_SCHEMA'))`

const ddl = `SELECT DBMS_METADATA.GET_DDL(UPPER({{type}}), {{name}}, ` + owner + `) FROM DUAL`

// Catalog reads the ALL_* dictionary views. Routines are standalone
// functions and procedures; packaged members are not listed.
var Catalog = &metadata.Catalog{
	Name: "oracle",

	Tables: `
		SELECT OWNER AS table_schema, TABLE_NAME AS table_name, TABLE_TYPE AS table_type,
			COMMENTS AS remarks
		FROM ALL_TAB_COMMENTS
		WHERE OWNER = ` + owner + ` AND TABLE_NAME NOT LIKE 'BIN$%'
		ORDER BY TABLE_NAME`,

	Columns: `
		SELECT c.OWNER AS table_schema, c.TABLE_NAME AS table_name, c.COLUMN_NAME AS column_name,
			c.DATA_TYPE AS data_type,
			CASE
				WHEN c.DATA_TYPE IN ('VARCHAR2', 'NVARCHAR2', 'CHAR', 'NCHAR', 'RAW')
					THEN c.DATA_TYPE || '(' || c.CHAR_LENGTH || ')'
				WHEN c.DATA_TYPE = 'NUMBER' AND c.DATA_PRECISION IS NOT NULL
					THEN 'NUMBER(' || c.DATA_PRECISION || ',' || NVL(c.DATA_SCALE, 0) || ')'
				ELSE c.DATA_TYPE
			END AS column_type,
			c.NULLABLE AS nullable,
			c.COLUMN_ID AS ordinal,
			c.DATA_DEFAULT AS column_default,
			CASE WHEN c.CHAR_LENGTH > 0 THEN c.CHAR_LENGTH END AS char_length,
			c.DATA_PRECISION AS numeric_precision, c.DATA_SCALE AS numeric_scale,
			c.IDENTITY_COLUMN AS auto_increment,
			m.COMMENTS AS remarks
		FROM ALL_TAB_COLUMNS c
		LEFT JOIN ALL_COL_COMMENTS m
			ON m.OWNER = c.OWNER AND m.TABLE_NAME = c.TABLE_NAME AND m.COLUMN_NAME = c.COLUMN_NAME
		WHERE c.OWNER = ` + owner + ` AND c.TABLE_NAME = {{table}}
		ORDER BY c.COLUMN_ID`,

	Indexes: `
		SELECT i.TABLE_OWNER AS table_schema, i.TABLE_NAME AS table_name, i.INDEX_NAME AS index_name,
			CASE i.UNIQUENESS WHEN 'UNIQUE' THEN 1 ELSE 0 END AS is_unique,
			CASE WHEN EXISTS (
				SELECT 1 FROM ALL_CONSTRAINTS k
				WHERE k.OWNER = i.TABLE_OWNER AND k.INDEX_NAME = i.INDEX_NAME AND k.CONSTRAINT_TYPE = 'P'
			) THEN 1 ELSE 0 END AS is_primary,
			c.COLUMN_NAME AS column_name, c.COLUMN_POSITION AS seq,
			CASE c.DESCEND WHEN 'DESC' THEN 1 ELSE 0 END AS descending,
			i.INDEX_TYPE AS index_type
		FROM ALL_INDEXES i
		JOIN ALL_IND_COLUMNS c ON c.INDEX_OWNER = i.OWNER AND c.INDEX_NAME = i.INDEX_NAME
		WHERE i.TABLE_OWNER = ` + owner + ` AND i.TABLE_NAME = {{table}}
		ORDER BY i.INDEX_NAME, c.COLUMN_POSITION`,

	PrimaryKeys: `
		SELECT k.OWNER AS table_schema, k.TABLE_NAME AS table_name, k.CONSTRAINT_NAME AS constraint_name,
			c.COLUMN_NAME AS column_name, c.POSITION AS seq
		FROM ALL_CONSTRAINTS k
		JOIN ALL_CONS_COLUMNS c ON c.OWNER = k.OWNER AND c.CONSTRAINT_NAME = k.CONSTRAINT_NAME
		WHERE k.CONSTRAINT_TYPE = 'P' AND k.OWNER = ` + owner + ` AND k.TABLE_NAME = {{table}}
		ORDER BY c.POSITION`,

	ForeignKeys: `
		SELECT k.OWNER AS table_schema, k.TABLE_NAME AS table_name, k.CONSTRAINT_NAME AS constraint_name,
			c.COLUMN_NAME AS column_name, c.POSITION AS seq,
			r.OWNER AS ref_schema, r.TABLE_NAME AS ref_table, r.COLUMN_NAME AS ref_column,
			'NO ACTION' AS on_update, k.DELETE_RULE AS on_delete
		FROM ALL_CONSTRAINTS k
		JOIN ALL_CONS_COLUMNS c ON c.OWNER = k.OWNER AND c.CONSTRAINT_NAME = k.CONSTRAINT_NAME
		JOIN ALL_CONS_COLUMNS r
			ON r.OWNER = k.R_OWNER AND r.CONSTRAINT_NAME = k.R_CONSTRAINT_NAME AND r.POSITION = c.POSITION
		WHERE k.CONSTRAINT_TYPE = 'R' AND k.OWNER = ` + owner + ` AND k.TABLE_NAME = {{table}}
		ORDER BY k.CONSTRAINT_NAME, c.POSITION`,

	Views: `
		SELECT OWNER AS table_schema, VIEW_NAME AS view_name, TEXT AS definition
		FROM ALL_VIEWS
		WHERE OWNER = ` + owner + ` AND ({{name}} IS NULL OR VIEW_NAME = {{name}})
		ORDER BY VIEW_NAME`,

	Routines: `
		SELECT o.OWNER AS routine_schema, o.OBJECT_NAME AS routine_name,
			(SELECT a.DATA_TYPE FROM ALL_ARGUMENTS a
				WHERE a.OBJECT_ID = o.OBJECT_ID AND a.POSITION = 0 AND a.DATA_LEVEL = 0 AND ROWNUM = 1) AS return_type,
			'PLSQL' AS language
		FROM ALL_OBJECTS o
		WHERE o.OBJECT_TYPE = {{kind}} AND o.OWNER = ` + owner + `
			AND ({{name}} IS NULL OR o.OBJECT_NAME = {{name}})
		ORDER BY o.OBJECT_NAME`,

	Parameters: `
		SELECT o.OWNER AS routine_schema, o.OBJECT_NAME AS routine_name,
			a.ARGUMENT_NAME AS parameter_name, a.IN_OUT AS parameter_mode,
			a.DATA_TYPE AS data_type, a.POSITION AS seq
		FROM ALL_OBJECTS o
		JOIN ALL_ARGUMENTS a ON a.OBJECT_ID = o.OBJECT_ID
		WHERE o.OBJECT_TYPE = {{kind}} AND o.OWNER = ` + owner + ` AND a.DATA_LEVEL = 0
			AND ({{name}} IS NULL OR o.OBJECT_NAME = {{name}})
		ORDER BY o.OBJECT_NAME, a.POSITION`,

	Triggers: `
		SELECT OWNER AS trigger_schema, TRIGGER_NAME AS trigger_name, TABLE_NAME AS table_name,
			CASE
				WHEN TRIGGER_TYPE LIKE 'BEFORE%' THEN 'BEFORE'
				WHEN TRIGGER_TYPE LIKE 'AFTER%' THEN 'AFTER'
				ELSE 'INSTEAD OF'
			END AS timing,
			TRIGGERING_EVENT AS event,
			TRIGGER_BODY AS statement
		FROM ALL_TRIGGERS
		WHERE OWNER = ` + owner + ` AND ({{table}} IS NULL OR TABLE_NAME = {{table}})
		ORDER BY TRIGGER_NAME`,

	DDL: map[plugin.ObjectKind]metadata.DDLQuery{
		plugin.KindTable:     {SQL: ddl},
		plugin.KindView:      {SQL: ddl},
		plugin.KindIndex:     {SQL: ddl},
		plugin.KindFunction:  {SQL: ddl},
		plugin.KindProcedure: {SQL: ddl},
		plugin.KindTrigger:   {SQL: ddl},
	},
}
