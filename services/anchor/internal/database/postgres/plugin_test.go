package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

func TestBands(t *testing.T) {
	tests := []struct {
		banner string
		want   string
	}{
		{"9.6.24", "postgres-pq"},
		{"10.23", "postgres-pgx"},
		{"16.2 (Debian 16.2-1.pgdg120+2)", "postgres-pgx"},
	}
	for _, tt := range tests {
		p, ok := plugin.SelectBand(plugin.Resolve("postgresql"), tt.banner)
		require.True(t, ok, tt.banner)
		assert.Equal(t, tt.want, p.Descriptor().ID, tt.banner)
	}
}

func TestPlugins(t *testing.T) {
	got := Plugins()
	require.Len(t, got, 2)
	assert.Equal(t, "postgres-pgx", got[0].Descriptor().ID, "the modern band is dialed first")
	assert.Equal(t, "pgx-driver-5.7.5.so", got[0].Descriptor().Artifact.FileName())
	assert.Equal(t, "pq-driver-1.10.9.so", got[1].Descriptor().Artifact.FileName())
	for _, p := range got {
		assert.Equal(t, plugin.DefaultDSNSymbol, p.Descriptor().DSNSymbol)
	}
	assert.False(t, got[0].Descriptor().SameLibrary(got[1].Descriptor()))
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "$2", Dialect.Placeholder(2))
	assert.Equal(t, `SET search_path TO "Sales"`, Dialect.UseStatement("app", "Sales"))
	assert.Empty(t, Dialect.UseStatement("app", ""))

	stmt, err := Dialect.DropStatement(plugin.KindTrigger, plugin.ObjectRef{Schema: "public", Name: "audit", Table: "orders"})
	require.NoError(t, err)
	assert.Equal(t, `DROP TRIGGER "audit" ON "public"."orders"`, stmt)
}

func TestConverter(t *testing.T) {
	assert.Equal(t, int64(42), Converter.Convert(int64(42), valueconv.Column{TypeName: "INT8"}))
	assert.Equal(t, true, Converter.Convert(true, valueconv.Column{TypeName: "BOOL"}))
	assert.Equal(t, `\xdead`, Converter.Convert([]byte{0xde, 0xad}, valueconv.Column{TypeName: "BYTEA"}))

	_, inherited := Converter.Handler("LONGTEXT")
	assert.False(t, inherited)
}
