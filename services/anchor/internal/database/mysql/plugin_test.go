package mysql

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"

	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple_table", "`simple_table`"},
		{"table`with`backticks", "`table``with``backticks`"},
		{"table-with-dashes", "`table-with-dashes`"},
		{"123table", "`123table`"},
		{"", "``"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, Dialect.QuoteIdentifier(test.input), test.input)
	}
}

func TestBands(t *testing.T) {
	var plugins []plugin.Plugin
	for _, p := range Plugins() {
		plugins = append(plugins, p)
	}

	tests := []struct {
		version string
		want    string
		ok      bool
	}{
		{"5.7.44-log", "mysql-5", true},
		{"8.0.35-0ubuntu0.22.04.1", "mysql-8", true},
		{"9.1.0", "mysql-8", true},
		{"5.1.73", "", false},
	}
	for _, tt := range tests {
		p, ok := plugin.SelectBand(plugins, tt.version)
		require.Equal(t, tt.ok, ok, tt.version)
		if ok {
			assert.Equal(t, tt.want, p.Descriptor().ID, tt.version)
		}
	}
}

func TestRegistered(t *testing.T) {
	got := plugin.Resolve("mysql")
	require.Len(t, got, 2)
	assert.Equal(t, "mysql-5", got[0].Descriptor().ID)
	assert.Equal(t, "mysql-driver-1.9.3.so", got[0].Descriptor().Artifact.FileName())
	for _, p := range got {
		assert.Equal(t, plugin.DefaultDSNSymbol, p.Descriptor().DSNSymbol)
	}
}

func TestConverter(t *testing.T) {
	col := valueconv.Column{Name: "n", TypeName: "DECIMAL", Precision: 10, Scale: 2, HasDecimal: true}
	assert.Equal(t, "12.50", Converter.Convert([]byte("12.5"), col))
	assert.Equal(t, int64(7), Converter.Convert([]byte("7"), valueconv.Column{TypeName: "INT"}))
}
