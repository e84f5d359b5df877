package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLDialect(t *testing.T) {
	mysqlish := SQLDialect{OpenQuote: "`", CloseQuote: "`", UseDatabase: "USE %s", DropIndexOnTable: true}
	pgish := SQLDialect{OpenQuote: `"`, CloseQuote: `"`, Placeholders: PlaceholderDollar, UseSchema: "SET search_path TO %s", DropTriggerOnTable: true}

	assert.Equal(t, "`a``b`", mysqlish.QuoteIdentifier("a`b"))
	assert.Equal(t, `"s"."t"`, pgish.Qualified("s", "t"))
	assert.Equal(t, "?", mysqlish.Placeholder(3))
	assert.Equal(t, "$3", pgish.Placeholder(3))
	assert.Equal(t, "@p2", SQLDialect{Placeholders: PlaceholderAtP}.Placeholder(2))
	assert.Equal(t, ":1", SQLDialect{Placeholders: PlaceholderColon}.Placeholder(1))

	assert.Equal(t, "USE `shop`", mysqlish.UseStatement("shop", ""))
	assert.Equal(t, `SET search_path TO "app"`, pgish.UseStatement("db", "app"))
	assert.Equal(t, "", pgish.UseStatement("db", ""))

	tests := []struct {
		name    string
		dialect SQLDialect
		kind    ObjectKind
		ref     ObjectRef
		want    string
	}{
		{"table", mysqlish, KindTable, ObjectRef{Schema: "shop", Name: "orders"}, "DROP TABLE `shop`.`orders`"},
		{"view", pgish, KindView, ObjectRef{Name: "v"}, `DROP VIEW "v"`},
		{"procedure", mysqlish, KindProcedure, ObjectRef{Name: "p"}, "DROP PROCEDURE `p`"},
		{"index on table", mysqlish, KindIndex, ObjectRef{Name: "ix", Table: "t"}, "DROP INDEX `ix` ON `t`"},
		{"index standalone", pgish, KindIndex, ObjectRef{Schema: "public", Name: "ix"}, `DROP INDEX "public"."ix"`},
		{"trigger on table", pgish, KindTrigger, ObjectRef{Schema: "public", Name: "trg", Table: "t"}, `DROP TRIGGER "trg" ON "public"."t"`},
		{"trigger standalone", mysqlish, KindTrigger, ObjectRef{Name: "trg"}, "DROP TRIGGER `trg`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.dialect.DropStatement(tt.kind, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := pgish.DropStatement(KindTrigger, ObjectRef{Name: "trg"})
	assert.True(t, IsConfigurationError(err))

	_, err = SQLDialect{Unsupported: []ObjectKind{KindProcedure}}.DropStatement(KindProcedure, ObjectRef{Name: "p"})
	assert.True(t, IsUnsupported(err))
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]ObjectKind{"tables": KindTable, "Index": KindIndex, "indexes": KindIndex, "trigger": KindTrigger} {
		got, ok := ParseKind(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParseKind("sequence")
	assert.False(t, ok)
}
