package metadata

import (
	"context"

	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

// reflectColumns describes table from the column types database/sql reports
// for an empty projection. Nullability, lengths and precision are only as
// good as the driver's ColumnType support.
func (x *Explorer) reflectColumns(ctx context.Context, r *request, scope Scope, table string) ([]Column, error) {
	schema := r.catalog.schema(scope)

	if r.catalog.Tables != "" {
		tables, err := r.query(ctx, r.catalog.Tables, r.catalog.values(scope, nil))
		if err != nil {
			return nil, err
		}
		found := false
		for _, t := range tables {
			if t.str("table_name") == table && (schema == "" || t.str("table_schema") == schema) {
				found = true
				break
			}
		}
		if !found {
			return []Column{}, nil
		}
	}

	q := "SELECT * FROM " + qualified(r.dialect, schema, table) + " WHERE 1 = 0"
	rows, err := r.session.QueryContext(ctx, q)
	if err != nil {
		// Without a table listing this is the only existence check we have.
		x.safeLog("debug", "[%s:metadata] Column reflection on %s failed: %v", r.desc.Engine, table, err)
		return []Column{}, nil
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	out := make([]Column, 0, len(types))
	for i, ct := range types {
		col := Column{
			Schema:     schema,
			Table:      table,
			Name:       ct.Name(),
			DataType:   valueconv.NormalizeTypeName(ct.DatabaseTypeName()),
			ColumnType: ct.DatabaseTypeName(),
			Nullable:   true,
			Ordinal:    i + 1,
		}
		if nullable, ok := ct.Nullable(); ok {
			col.Nullable = nullable
		}
		if length, ok := ct.Length(); ok {
			col.Length = &length
		}
		if precision, scale, ok := ct.DecimalSize(); ok {
			col.Precision, col.Scale = &precision, &scale
		}
		out = append(out, col)
	}
	return out, rows.Err()
}
