package metadata

// Generic reads the ANSI information_schema views. It has no index catalog
// and no native DDL. An empty schema lists every schema.
var Generic = &Catalog{
	Name: "information_schema",

	Tables: `
		SELECT table_catalog, table_schema, table_name,
			CASE table_type WHEN 'BASE TABLE' THEN 'TABLE' ELSE table_type END AS table_type,
			'' AS remarks
		FROM information_schema.tables
		WHERE ({{schema}} = '' OR table_schema = {{schema}})
		ORDER BY table_schema, table_name`,

	Columns: `
		SELECT table_catalog, table_schema, table_name, column_name,
			data_type, data_type AS column_type,
			is_nullable AS nullable,
			ordinal_position AS ordinal,
			column_default,
			character_maximum_length AS char_length,
			numeric_precision, numeric_scale,
			'NO' AS auto_increment,
			'' AS remarks
		FROM information_schema.columns
		WHERE ({{schema}} = '' OR table_schema = {{schema}}) AND table_name = {{table}}
		ORDER BY table_schema, ordinal_position`,

	PrimaryKeys: `
		SELECT tc.table_schema, tc.table_name, tc.constraint_name,
			kcu.column_name, kcu.ordinal_position AS seq
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON kcu.constraint_schema = tc.constraint_schema
			AND kcu.constraint_name = tc.constraint_name
			AND kcu.table_name = tc.table_name
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND ({{schema}} = '' OR tc.table_schema = {{schema}})
			AND tc.table_name = {{table}}
		ORDER BY tc.table_schema, kcu.ordinal_position`,

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
		WHERE ({{schema}} = '' OR kcu.table_schema = {{schema}}) AND kcu.table_name = {{table}}
		ORDER BY kcu.constraint_name, kcu.ordinal_position`,

	Views: `
		SELECT table_schema, table_name AS view_name, view_definition AS definition
		FROM information_schema.views
		WHERE ({{schema}} = '' OR table_schema = {{schema}})
			AND ({{name}} = '' OR table_name = {{name}})
		ORDER BY table_schema, table_name`,

	Routines: `
		SELECT routine_schema, routine_name, data_type AS return_type,
			routine_body AS language, routine_definition AS definition
		FROM information_schema.routines
		WHERE ({{schema}} = '' OR routine_schema = {{schema}})
			AND routine_type = {{kind}}
			AND ({{name}} = '' OR routine_name = {{name}})
		ORDER BY routine_schema, routine_name`,

	Parameters: `
		SELECT r.routine_schema, r.routine_name, p.parameter_name, p.parameter_mode,
			p.data_type, p.ordinal_position AS seq
		FROM information_schema.parameters p
		JOIN information_schema.routines r
			ON r.specific_schema = p.specific_schema AND r.specific_name = p.specific_name
		WHERE ({{schema}} = '' OR r.routine_schema = {{schema}})
			AND r.routine_type = {{kind}}
			AND ({{name}} = '' OR r.routine_name = {{name}})
		ORDER BY r.routine_name, p.ordinal_position`,

	Triggers: `
		SELECT trigger_schema, trigger_name, event_object_table AS table_name,
			action_timing AS timing, event_manipulation AS event, action_statement AS statement
		FROM information_schema.triggers
		WHERE ({{schema}} = '' OR trigger_schema = {{schema}})
			AND ({{table}} = '' OR event_object_table = {{table}})
		ORDER BY trigger_schema, trigger_name`,
}
