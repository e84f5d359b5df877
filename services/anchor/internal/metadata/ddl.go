package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/execution"
)

// DDL returns the statement that recreates an object. Engines without a
// native DDL call get table DDL regenerated from column and key records and
// view DDL from the view definition.
func (x *Explorer) DDL(ctx context.Context, s execution.Session, kind plugin.ObjectKind, ref plugin.ObjectRef) (string, error) {
	r, err := x.prepare(s, "get "+string(kind)+" ddl", plugin.FeatureDDL)
	if err != nil {
		return "", err
	}
	if err := requireName(r, "name", ref.Name); err != nil {
		return "", err
	}
	scope := Scope{Catalog: ref.Catalog, Schema: ref.Schema}

	if q, ok := r.catalog.DDL[kind]; ok {
		return r.nativeDDL(ctx, q, kind, scope, ref)
	}
	switch kind {
	case plugin.KindTable:
		return x.tableDDL(ctx, r, scope, ref.Name)
	case plugin.KindView:
		if r.catalog.Views == "" {
			break
		}
		views, err := r.views(ctx, scope, ref.Name)
		if err != nil {
			return "", err
		}
		if len(views) == 0 {
			return "", plugin.NewNotFoundError("view", ref.Name)
		}
		return fmt.Sprintf("CREATE VIEW %s AS %s", qualified(r.dialect, ref.Schema, ref.Name), views[0].Definition), nil
	}
	return "", r.unsupported()
}

func (r *request) nativeDDL(ctx context.Context, q DDLQuery, kind plugin.ObjectKind, scope Scope, ref plugin.ObjectRef) (string, error) {
	values := r.catalog.values(scope, map[string]string{
		"name":   ref.Name,
		"table":  ref.Table,
		"type":   string(kind),
		"object": qualified(r.dialect, r.catalog.schema(scope), ref.Name),
	})
	text, args := bind(q.SQL, r.dialect, values)
	rows, err := r.session.QueryContext(ctx, text, args...)
	if err != nil {
		return "", plugin.WrapError(r.desc.Engine, r.op, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}
	if q.Column >= len(cols) {
		return "", fmt.Errorf("ddl query returned %d columns, want column %d", len(cols), q.Column)
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", plugin.WrapError(r.desc.Engine, r.op, err)
		}
		return "", plugin.NewNotFoundError(string(kind), ref.Name)
	}
	raw := make([]interface{}, len(cols))
	dest := make([]interface{}, len(cols))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return "", err
	}
	ddl := record{"ddl": raw[q.Column]}.str("ddl")
	if ddl == "" {
		return "", plugin.NewNotFoundError(string(kind), ref.Name)
	}
	return ddl, nil
}

// tableDDL regenerates CREATE TABLE plus CREATE INDEX statements.
func (x *Explorer) tableDDL(ctx context.Context, r *request, scope Scope, table string) (string, error) {
	cols, err := x.Columns(ctx, r.session, scope, table)
	if err != nil {
		return "", err
	}
	if len(cols) == 0 {
		return "", plugin.NewNotFoundError("table", table)
	}

	var pks []PrimaryKey
	if r.catalog.PrimaryKeys != "" {
		if pks, err = r.primaryKeys(ctx, scope, table); err != nil {
			return "", err
		}
	}
	var fks []ForeignKey
	if r.catalog.ForeignKeys != "" {
		if fks, err = r.foreignKeys(ctx, scope, table); err != nil {
			return "", err
		}
	}
	var idxs []Index
	if r.catalog.Indexes != "" {
		if idxs, err = r.indexes(ctx, scope, table); err != nil {
			return "", err
		}
	}

	return renderTable(r.dialect, scope.Schema, table, cols, pks, fks, idxs), nil
}

func renderTable(d plugin.Dialect, schema, table string, cols []Column, pks []PrimaryKey, fks []ForeignKey, idxs []Index) string {
	name := qualified(d, schema, table)
	quoteAll := func(names []string) string {
		q := make([]string, len(names))
		for i, n := range names {
			q[i] = d.QuoteIdentifier(n)
		}
		return strings.Join(q, ", ")
	}

	var lines []string
	for _, c := range cols {
		line := d.QuoteIdentifier(c.Name) + " " + c.ColumnType
		if !c.Nullable {
			line += " NOT NULL"
		}
		if c.Default != nil {
			line += " DEFAULT " + *c.Default
		}
		lines = append(lines, line)
	}
	for _, pk := range pks {
		line := "PRIMARY KEY (" + quoteAll(pk.Columns) + ")"
		if pk.Name != "" {
			line = "CONSTRAINT " + d.QuoteIdentifier(pk.Name) + " " + line
		}
		lines = append(lines, line)
	}
	for _, fk := range fks {
		line := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s", quoteAll(fk.Columns), qualified(d, fk.RefSchema, fk.RefTable))
		if len(fk.RefColumns) > 0 && fk.RefColumns[0] != "" {
			line += " (" + quoteAll(fk.RefColumns) + ")"
		}
		if fk.Name != "" {
			line = "CONSTRAINT " + d.QuoteIdentifier(fk.Name) + " " + line
		}
		if fk.OnDelete != "" && fk.OnDelete != "NO ACTION" {
			line += " ON DELETE " + fk.OnDelete
		}
		if fk.OnUpdate != "" && fk.OnUpdate != "NO ACTION" {
			line += " ON UPDATE " + fk.OnUpdate
		}
		lines = append(lines, line)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n  %s\n);", name, strings.Join(lines, ",\n  "))
	for _, idx := range idxs {
		if idx.Primary || len(idx.Columns) == 0 {
			continue
		}
		names := make([]string, len(idx.Columns))
		for i, c := range idx.Columns {
			names[i] = c.Name
		}
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		fmt.Fprintf(&b, "\nCREATE %sINDEX %s ON %s (%s);", unique, d.QuoteIdentifier(idx.Name), name, quoteAll(names))
	}
	return b.String()
}
