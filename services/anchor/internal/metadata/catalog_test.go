package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/redbco/redb-driverhub/pkg/plugin"
)

func TestBind(t *testing.T) {
	dollar := plugin.SQLDialect{OpenQuote: `"`, CloseQuote: `"`, Placeholders: plugin.PlaceholderDollar}
	values := map[string]string{"schema": "app", "table": "t", "object": `"app"."t"`}

	q, args := bind("SELECT 1 WHERE s = {{schema}} AND ({{table}} = '' OR t = {{table}}) AND o = [[object]]", dollar, values)

	assert.Equal(t, `SELECT 1 WHERE s = $1 AND ($2 = '' OR t = $3) AND o = "app"."t"`, q)
	assert.Equal(t, []interface{}{"app", "t", "t"}, args)

	q, args = bind("SELECT {{missing}}", plugin.SQLDialect{}, values)
	assert.Equal(t, "SELECT ?", q)
	assert.Equal(t, []interface{}{""}, args)
}

func TestCatalogSchema(t *testing.T) {
	assert.Equal(t, "db", MySQL.schema(Scope{Catalog: "db"}))
	assert.Equal(t, "s", MySQL.schema(Scope{Catalog: "db", Schema: "s"}))
	assert.Equal(t, "", Postgres.schema(Scope{Catalog: "db"}))
}

func TestLookupFallsBackToGeneric(t *testing.T) {
	assert.Same(t, Generic, Lookup("no-such-engine"))
	Register("catalog-test", MySQL)
	assert.Same(t, MySQL, Lookup("catalog-test"))
}

func TestRecordAccessors(t *testing.T) {
	rec := record{
		"s":     []byte("text"),
		"n":     int64(7),
		"ns":    "12",
		"nil":   nil,
		"yes":   "YES",
		"one":   int64(1),
		"zero":  "0",
		"truth": true,
	}

	assert.Equal(t, "text", rec.str("s"))
	assert.Equal(t, "", rec.str("nil"))
	assert.Nil(t, rec.optStr("nil"))
	assert.Equal(t, 7, rec.int("n"))
	assert.Equal(t, 12, rec.int("ns"))
	assert.Nil(t, rec.optInt("nil"))
	assert.EqualValues(t, 12, *rec.optInt("ns"))
	assert.True(t, rec.flag("yes"))
	assert.True(t, rec.flag("one"))
	assert.True(t, rec.flag("truth"))
	assert.False(t, rec.flag("zero"))
	assert.False(t, rec.flag("absent"))
}
