package metadata_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/connection"
	"github.com/redbco/redb-driverhub/services/anchor/internal/connection/conntest"
	"github.com/redbco/redb-driverhub/services/anchor/internal/execution"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

func setup(t *testing.T) (*metadata.Explorer, *connection.Handle) {
	t.Helper()
	metadata.Register(conntest.Engine, metadata.SQLite)

	f := conntest.New(t)
	h := f.Open(t, "shop")
	conntest.Exec(t, h,
		"CREATE TABLE customers (id INTEGER PRIMARY KEY, email TEXT NOT NULL UNIQUE, name VARCHAR(40) DEFAULT 'anon')",
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			customer_id INTEGER NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			total NUMERIC(10,2),
			placed_at TEXT
		)`,
		"CREATE INDEX orders_by_customer ON orders (customer_id, placed_at DESC)",
		"CREATE VIEW big_orders AS SELECT id, total FROM orders WHERE total > 100",
		"CREATE TRIGGER orders_touch AFTER UPDATE ON orders BEGIN SELECT 1; END",
	)
	return metadata.NewExplorer(execution.NewEngine(), nil), h
}

// withCatalog swaps the demo engine's catalog for the duration of a test.
func withCatalog(t *testing.T, edit func(c *metadata.Catalog)) {
	t.Helper()
	c := *metadata.SQLite
	edit(&c)
	metadata.Register(conntest.Engine, &c)
	t.Cleanup(func() { metadata.Register(conntest.Engine, metadata.SQLite) })
}

func TestTables(t *testing.T) {
	x, h := setup(t)

	tables, err := x.Tables(context.Background(), h, metadata.Scope{})
	require.NoError(t, err)

	require.Len(t, tables, 3)
	assert.Equal(t, "big_orders", tables[0].Name)
	assert.Equal(t, "VIEW", tables[0].Type)
	assert.Equal(t, "customers", tables[1].Name)
	assert.Equal(t, "TABLE", tables[1].Type)
	assert.Equal(t, "main", tables[2].Schema)
}

func TestColumns(t *testing.T) {
	x, h := setup(t)

	cols, err := x.Columns(context.Background(), h, metadata.Scope{}, "orders")
	require.NoError(t, err)
	require.Len(t, cols, 4)

	id := cols[0]
	assert.Equal(t, "id", id.Name)
	assert.Equal(t, 1, id.Ordinal)
	assert.True(t, id.PrimaryKey)
	assert.True(t, id.AutoIncrement)
	assert.False(t, id.Nullable)

	assert.Equal(t, "customer_id", cols[1].Name)
	assert.False(t, cols[1].Nullable)
	assert.False(t, cols[1].PrimaryKey)

	assert.Equal(t, "NUMERIC(10,2)", cols[2].ColumnType)
	assert.True(t, cols[2].Nullable)
	assert.Nil(t, cols[2].Default)

	cust, err := x.Columns(context.Background(), h, metadata.Scope{}, "customers")
	require.NoError(t, err)
	require.NotNil(t, cust[2].Default)
	assert.Equal(t, "'anon'", *cust[2].Default)
}

func TestColumnsOfMissingTableIsEmpty(t *testing.T) {
	x, h := setup(t)

	cols, err := x.Columns(context.Background(), h, metadata.Scope{}, "nope")

	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestColumnsRequireTable(t *testing.T) {
	x, h := setup(t)

	_, err := x.Columns(context.Background(), h, metadata.Scope{}, "")

	assert.ErrorIs(t, err, plugin.ErrInvalidConfiguration)
}

func TestColumnsByReflection(t *testing.T) {
	x, h := setup(t)
	withCatalog(t, func(c *metadata.Catalog) { c.Columns = "" })

	cols, err := x.Columns(context.Background(), h, metadata.Scope{}, "customers")
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, []string{"id", "email", "name"}, []string{cols[0].Name, cols[1].Name, cols[2].Name})
	assert.Equal(t, 3, cols[2].Ordinal)
	assert.True(t, cols[0].PrimaryKey)

	missing, err := x.Columns(context.Background(), h, metadata.Scope{}, "nope")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestIndexes(t *testing.T) {
	x, h := setup(t)

	idx, err := x.Indexes(context.Background(), h, metadata.Scope{}, "orders")
	require.NoError(t, err)
	require.Len(t, idx, 1)

	assert.Equal(t, "orders_by_customer", idx[0].Name)
	assert.False(t, idx[0].Unique)
	require.Len(t, idx[0].Columns, 2)
	assert.Equal(t, "customer_id", idx[0].Columns[0].Name)
	assert.False(t, idx[0].Columns[0].Descending)
	assert.Equal(t, "placed_at", idx[0].Columns[1].Name)
	assert.True(t, idx[0].Columns[1].Descending)

	uniq, err := x.Indexes(context.Background(), h, metadata.Scope{}, "customers")
	require.NoError(t, err)
	require.Len(t, uniq, 1)
	assert.True(t, uniq[0].Unique)
	assert.Equal(t, "email", uniq[0].Columns[0].Name)
}

func TestKeys(t *testing.T) {
	x, h := setup(t)
	ctx := context.Background()

	pks, err := x.PrimaryKeys(ctx, h, metadata.Scope{}, "orders")
	require.NoError(t, err)
	require.Len(t, pks, 1)
	assert.Equal(t, []string{"id"}, pks[0].Columns)

	fks, err := x.ForeignKeys(ctx, h, metadata.Scope{}, "orders")
	require.NoError(t, err)
	require.Len(t, fks, 1)
	assert.Equal(t, []string{"customer_id"}, fks[0].Columns)
	assert.Equal(t, "customers", fks[0].RefTable)
	assert.Equal(t, []string{"id"}, fks[0].RefColumns)
	assert.Equal(t, "CASCADE", fks[0].OnDelete)

	none, err := x.ForeignKeys(ctx, h, metadata.Scope{}, "customers")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestViewsAndTriggers(t *testing.T) {
	x, h := setup(t)
	ctx := context.Background()

	views, err := x.Views(ctx, h, metadata.Scope{}, "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "big_orders", views[0].Name)
	assert.Contains(t, views[0].Definition, "total > 100")

	views, err = x.Views(ctx, h, metadata.Scope{}, "other")
	require.NoError(t, err)
	assert.Empty(t, views)

	triggers, err := x.Triggers(ctx, h, metadata.Scope{}, "orders")
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	assert.Equal(t, "orders_touch", triggers[0].Name)
	assert.Equal(t, "orders", triggers[0].Table)
	assert.Equal(t, "AFTER", triggers[0].Timing)
	assert.Equal(t, []string{"UPDATE"}, triggers[0].Events)

	triggers, err = x.Triggers(ctx, h, metadata.Scope{}, "customers")
	require.NoError(t, err)
	assert.Empty(t, triggers)
}

func TestRoutinesUnsupported(t *testing.T) {
	x, h := setup(t)

	_, err := x.Functions(context.Background(), h, metadata.Scope{}, "")

	assert.ErrorIs(t, err, plugin.ErrOperationNotSupported)
}

func TestListDispatches(t *testing.T) {
	x, h := setup(t)

	got, err := x.List(context.Background(), h, plugin.KindIndex, metadata.Scope{}, "orders")
	require.NoError(t, err)
	assert.IsType(t, []metadata.Index{}, got)

	_, err = x.List(context.Background(), h, plugin.ObjectKind("sequence"), metadata.Scope{}, "")
	assert.ErrorIs(t, err, plugin.ErrInvalidConfiguration)
}

func TestMetadataRequiresFeature(t *testing.T) {
	x, h := setup(t)
	desc := h.Plugin().Descriptor()
	desc.Capabilities &^= plugin.FeatureMetadata
	s := &session{Handle: h, p: plugin.WithDescriptor(h.Plugin().(*plugin.Definition), desc)}

	_, err := x.Tables(context.Background(), s, metadata.Scope{})

	assert.ErrorIs(t, err, plugin.ErrOperationNotSupported)
}

type session struct {
	*connection.Handle
	p plugin.Plugin
}

func (s *session) Plugin() plugin.Plugin { return s.p }

func TestNativeDDL(t *testing.T) {
	x, h := setup(t)
	ctx := context.Background()

	ddl, err := x.DDL(ctx, h, plugin.KindTable, plugin.ObjectRef{Name: "customers"})
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE TABLE customers")

	ddl, err = x.DDL(ctx, h, plugin.KindTrigger, plugin.ObjectRef{Name: "orders_touch"})
	require.NoError(t, err)
	assert.Contains(t, ddl, "CREATE TRIGGER orders_touch")

	_, err = x.DDL(ctx, h, plugin.KindTable, plugin.ObjectRef{Name: "nope"})
	assert.ErrorIs(t, err, plugin.ErrNotFound)

	_, err = x.DDL(ctx, h, plugin.KindFunction, plugin.ObjectRef{Name: "f"})
	assert.ErrorIs(t, err, plugin.ErrOperationNotSupported)
}

func TestRegeneratedDDL(t *testing.T) {
	x, h := setup(t)
	withCatalog(t, func(c *metadata.Catalog) { c.DDL = nil })
	ctx := context.Background()

	ddl, err := x.DDL(ctx, h, plugin.KindTable, plugin.ObjectRef{Name: "orders"})
	require.NoError(t, err)
	assert.Contains(t, ddl, `CREATE TABLE "orders" (`)
	assert.Contains(t, ddl, `"id" INTEGER NOT NULL`)
	assert.Contains(t, ddl, `"total" NUMERIC(10,2),`)
	assert.Contains(t, ddl, `PRIMARY KEY ("id")`)
	assert.Contains(t, ddl, `FOREIGN KEY ("customer_id") REFERENCES "main"."customers" ("id") ON DELETE CASCADE`)
	assert.Contains(t, ddl, `CREATE INDEX "orders_by_customer" ON "orders" ("customer_id", "placed_at");`)

	ddl, err = x.DDL(ctx, h, plugin.KindView, plugin.ObjectRef{Name: "big_orders"})
	require.NoError(t, err)
	assert.Contains(t, ddl, `CREATE VIEW "big_orders" AS`)

	_, err = x.DDL(ctx, h, plugin.KindTable, plugin.ObjectRef{Name: "nope"})
	assert.ErrorIs(t, err, plugin.ErrNotFound)
}

func TestDelete(t *testing.T) {
	x, h := setup(t)
	ctx := context.Background()

	res, err := x.Delete(ctx, h, plugin.KindView, plugin.ObjectRef{Name: "big_orders"})
	require.NoError(t, err)
	assert.True(t, res.Success, res.ErrorMessage)

	views, err := x.Views(ctx, h, metadata.Scope{}, "")
	require.NoError(t, err)
	assert.Empty(t, views)

	res, err = x.Delete(ctx, h, plugin.KindView, plugin.ObjectRef{Name: "big_orders"})
	require.NoError(t, err, "engine failures are reported in the result")
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.ErrorMessage)

	_, err = x.Delete(ctx, h, plugin.KindTable, plugin.ObjectRef{})
	assert.ErrorIs(t, err, plugin.ErrInvalidConfiguration)
}
