package db2

import (
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

// Untyped parameter markers are not allowed in expressions, hence the casts.
const (
	schema = `COALESCE(NULLIF(CAST({{schema}} AS VARCHAR(128)), ''), CURRENT SCHEMA)`
	name   = `CAST({{name}} AS VARCHAR(128))`
	table  = `CAST({{table}} AS VARCHAR(128))`
)

// Catalog reads the SYSCAT views. Db2 has no server-side DDL generator
// reachable through SQL, so only routine, trigger and view text is native.
var Catalog = &metadata.Catalog{
	Name: "db2",

	Tables: `
		SELECT RTRIM(TABSCHEMA) AS table_schema, TABNAME AS table_name,
			CASE TYPE WHEN 'V' THEN 'VIEW' ELSE 'BASE TABLE' END AS table_type,
			REMARKS AS remarks
		FROM SYSCAT.TABLES
		WHERE TABSCHEMA = ` + schema + ` AND TYPE IN ('T', 'V')
		ORDER BY TABNAME`,

	Columns: `
		SELECT RTRIM(TABSCHEMA) AS table_schema, TABNAME AS table_name, COLNAME AS column_name,
			TYPENAME AS data_type,
			CASE
				WHEN TYPENAME IN ('VARCHAR', 'CHARACTER', 'VARGRAPHIC', 'GRAPHIC')
					THEN TYPENAME || '(' || VARCHAR(LENGTH) || ')'
				WHEN TYPENAME = 'DECIMAL'
					THEN 'DECIMAL(' || VARCHAR(LENGTH) || ',' || VARCHAR(SCALE) || ')'
				ELSE TYPENAME
			END AS column_type,
			NULLS AS nullable,
			COLNO + 1 AS ordinal,
			DEFAULT AS column_default,
			CASE WHEN TYPENAME IN ('VARCHAR', 'CHARACTER', 'VARGRAPHIC', 'GRAPHIC') THEN LENGTH END AS char_length,
			CASE WHEN TYPENAME = 'DECIMAL' THEN LENGTH END AS numeric_precision,
			CASE WHEN TYPENAME = 'DECIMAL' THEN SCALE END AS numeric_scale,
			IDENTITY AS auto_increment,
			REMARKS AS remarks
		FROM SYSCAT.COLUMNS
		WHERE TABSCHEMA = ` + schema + ` AND TABNAME = ` + table + `
		ORDER BY COLNO`,

	Indexes: `
		SELECT RTRIM(i.TABSCHEMA) AS table_schema, i.TABNAME AS table_name, i.INDNAME AS index_name,
			CASE WHEN i.UNIQUERULE IN ('U', 'P') THEN 1 ELSE 0 END AS is_unique,
			CASE i.UNIQUERULE WHEN 'P' THEN 1 ELSE 0 END AS is_primary,
			c.COLNAME AS column_name, c.COLSEQ AS seq,
			CASE c.COLORDER WHEN 'D' THEN 1 ELSE 0 END AS descending,
			i.INDEXTYPE AS index_type
		FROM SYSCAT.INDEXES i
		JOIN SYSCAT.INDEXCOLUSE c ON c.INDSCHEMA = i.INDSCHEMA AND c.INDNAME = i.INDNAME
		WHERE i.TABSCHEMA = ` + schema + ` AND i.TABNAME = ` + table + `
		ORDER BY i.INDNAME, c.COLSEQ`,

	PrimaryKeys: `
		SELECT RTRIM(k.TABSCHEMA) AS table_schema, k.TABNAME AS table_name, k.CONSTNAME AS constraint_name,
			k.COLNAME AS column_name, k.COLSEQ AS seq
		FROM SYSCAT.KEYCOLUSE k
		JOIN SYSCAT.TABCONST t ON t.CONSTNAME = k.CONSTNAME AND t.TABSCHEMA = k.TABSCHEMA AND t.TABNAME = k.TABNAME
		WHERE t.TYPE = 'P' AND k.TABSCHEMA = ` + schema + ` AND k.TABNAME = ` + table + `
		ORDER BY k.COLSEQ`,

	ForeignKeys: `
		SELECT RTRIM(r.TABSCHEMA) AS table_schema, r.TABNAME AS table_name, r.CONSTNAME AS constraint_name,
			fk.COLNAME AS column_name, fk.COLSEQ AS seq,
			RTRIM(r.REFTABSCHEMA) AS ref_schema, r.REFTABNAME AS ref_table, pk.COLNAME AS ref_column,
			CASE r.UPDATERULE WHEN 'R' THEN 'RESTRICT' ELSE 'NO ACTION' END AS on_update,
			CASE r.DELETERULE WHEN 'C' THEN 'CASCADE' WHEN 'N' THEN 'SET NULL' WHEN 'R' THEN 'RESTRICT' ELSE 'NO ACTION' END AS on_delete
		FROM SYSCAT.REFERENCES r
		JOIN SYSCAT.KEYCOLUSE fk
			ON fk.CONSTNAME = r.CONSTNAME AND fk.TABSCHEMA = r.TABSCHEMA AND fk.TABNAME = r.TABNAME
		JOIN SYSCAT.KEYCOLUSE pk
			ON pk.CONSTNAME = r.REFKEYNAME AND pk.TABSCHEMA = r.REFTABSCHEMA AND pk.TABNAME = r.REFTABNAME
			AND pk.COLSEQ = fk.COLSEQ
		WHERE r.TABSCHEMA = ` + schema + ` AND r.TABNAME = ` + table + `
		ORDER BY r.CONSTNAME, fk.COLSEQ`,

	Views: `
		SELECT RTRIM(VIEWSCHEMA) AS table_schema, VIEWNAME AS view_name, TEXT AS definition
		FROM SYSCAT.VIEWS
		WHERE VIEWSCHEMA = ` + schema + ` AND (` + name + ` = '' OR VIEWNAME = ` + name + `)
		ORDER BY VIEWNAME`,

	Routines: `
		SELECT RTRIM(r.ROUTINESCHEMA) AS routine_schema, r.ROUTINENAME AS routine_name,
			(SELECT p.TYPENAME FROM SYSCAT.ROUTINEPARMS p
				WHERE p.SPECIFICNAME = r.SPECIFICNAME AND p.ROUTINESCHEMA = r.ROUTINESCHEMA AND p.ROWTYPE = 'C'
				FETCH FIRST 1 ROW ONLY) AS return_type,
			r.LANGUAGE AS language, r.TEXT AS definition
		FROM SYSCAT.ROUTINES r
		WHERE r.ROUTINETYPE = CASE CAST({{kind}} AS VARCHAR(16)) WHEN 'FUNCTION' THEN 'F' ELSE 'P' END
			AND r.ROUTINESCHEMA = ` + schema + `
			AND (` + name + ` = '' OR r.ROUTINENAME = ` + name + `)
		ORDER BY r.ROUTINENAME`,

	Parameters: `
		SELECT RTRIM(p.ROUTINESCHEMA) AS routine_schema, p.ROUTINENAME AS routine_name,
			p.PARMNAME AS parameter_name,
			CASE p.ROWTYPE WHEN 'O' THEN 'OUT' WHEN 'B' THEN 'INOUT' ELSE 'IN' END AS parameter_mode,
			p.TYPENAME AS data_type, p.ORDINAL AS seq
		FROM SYSCAT.ROUTINEPARMS p
		JOIN SYSCAT.ROUTINES r ON r.SPECIFICNAME = p.SPECIFICNAME AND r.ROUTINESCHEMA = p.ROUTINESCHEMA
		WHERE r.ROUTINETYPE = CASE CAST({{kind}} AS VARCHAR(16)) WHEN 'FUNCTION' THEN 'F' ELSE 'P' END
			AND p.ROWTYPE IN ('P', 'O', 'B')
			AND p.ROUTINESCHEMA = ` + schema + `
			AND (` + name + ` = '' OR p.ROUTINENAME = ` + name + `)
		ORDER BY p.ROUTINENAME, p.ORDINAL`,

	Triggers: `
		SELECT RTRIM(TRIGSCHEMA) AS trigger_schema, TRIGNAME AS trigger_name, TABNAME AS table_name,
			CASE TRIGTIME WHEN 'B' THEN 'BEFORE' WHEN 'A' THEN 'AFTER' ELSE 'INSTEAD OF' END AS timing,
			CASE TRIGEVENT WHEN 'I' THEN 'INSERT' WHEN 'U' THEN 'UPDATE' ELSE 'DELETE' END AS event,
			TEXT AS statement
		FROM SYSCAT.TRIGGERS
		WHERE TRIGSCHEMA = ` + schema + ` AND (` + table + ` = '' OR TABNAME = ` + table + `)
		ORDER BY TRIGNAME`,

	DDL: map[plugin.ObjectKind]metadata.DDLQuery{
		plugin.KindView: {SQL: `SELECT TEXT FROM SYSCAT.VIEWS
			WHERE VIEWSCHEMA = ` + schema + ` AND VIEWNAME = ` + name},
		plugin.KindTrigger: {SQL: `SELECT TEXT FROM SYSCAT.TRIGGERS
			WHERE TRIGSCHEMA = ` + schema + ` AND TRIGNAME = ` + name},
		plugin.KindFunction: {SQL: `SELECT TEXT FROM SYSCAT.ROUTINES
			WHERE ROUTINETYPE = 'F' AND ROUTINESCHEMA = ` + schema + ` AND ROUTINENAME = ` + name},
		plugin.KindProcedure: {SQL: `SELECT TEXT FROM SYSCAT.ROUTINES
			WHERE ROUTINETYPE = 'P' AND ROUTINESCHEMA = ` + schema + ` AND ROUTINENAME = ` + name},
	},
}
