package valueconv

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTypeName(t *testing.T) {
	tests := map[string]string{
		"int(10) unsigned":            "INT",
		"UNSIGNED BIGINT":             "BIGINT",
		"varchar(255)":                "VARCHAR",
		"TIMESTAMP(6) WITH TIME ZONE": "TIMESTAMP WITH TIME ZONE",
		"  decimal(10, 2) zerofill  ": "DECIMAL",
		"":                            "",
		"_INT4":                       "_INT4",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeTypeName(in), in)
	}
}

func TestReferenceConversions(t *testing.T) {
	ref := Reference()
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	ts := time.Date(2024, 3, 9, 14, 5, 7, 120000000, time.UTC)

	tests := []struct {
		name string
		raw  interface{}
		col  Column
		want interface{}
	}{
		{"nil", nil, Column{TypeName: "INT"}, nil},
		{"int from text", []byte("42"), Column{TypeName: "INT"}, int64(42)},
		{"leading zero is decimal", []byte("08"), Column{TypeName: "INT"}, int64(8)},
		{"unsigned bigint overflow", []byte("18446744073709551615"), Column{TypeName: "UNSIGNED BIGINT"}, uint64(math.MaxUint64)},
		{"native int", int64(-7), Column{TypeName: "BIGINT"}, int64(-7)},
		{"year", int64(2024), Column{TypeName: "YEAR"}, int64(2024)},
		{"double", []byte("1.5"), Column{TypeName: "DOUBLE"}, 1.5},
		{"decimal keeps trailing zero", []byte("12.30"), Column{TypeName: "DECIMAL"}, "12.30"},
		{"decimal uses declared scale", float64(1.5), Column{TypeName: "DECIMAL", Scale: 3, HasDecimal: true}, "1.500"},
		{"decimal value", decimal.RequireFromString("-0.001"), Column{TypeName: "NUMERIC"}, "-0.001"},
		{"date", ts, Column{TypeName: "DATE"}, "2024-03-09"},
		{"datetime", ts, Column{TypeName: "DATETIME"}, "2024-03-09 14:05:07.12"},
		{"datetime text", []byte("2024-03-09 14:05:07"), Column{TypeName: "TIMESTAMP"}, "2024-03-09 14:05:07"},
		{"lenient date text", []byte("March 9, 2024"), Column{TypeName: "DATE"}, "2024-03-09"},
		{"zero date text", []byte("0000-00-00"), Column{TypeName: "DATE"}, "0000-00-00"},
		{"zero datetime value", time.Time{}, Column{TypeName: "DATETIME"}, "0000-00-00 00:00:00"},
		{"long time", []byte("838:59:59"), Column{TypeName: "TIME"}, "838:59:59"},
		{"varchar", []byte("héllo"), Column{TypeName: "VARCHAR"}, "héllo"},
		{"longtext invalid utf8", []byte{'a', 0xff}, Column{TypeName: "LONGTEXT"}, "a�"},
		{"varbinary", []byte{0x01, 0xab}, Column{TypeName: "VARBINARY"}, "0x01AB"},
		{"binary16 uuid", id[:], Column{TypeName: "BINARY", Length: 16, HasLength: true}, "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"varbinary digest", id[:], Column{TypeName: "VARBINARY", Length: 16, HasLength: true}, "0x6BA7B8109DAD11D180B400C04FD430C8"},
		{"binary of unknown width", id[:], Column{TypeName: "BINARY"}, "0x6BA7B8109DAD11D180B400C04FD430C8"},
		{"blob", []byte{0xde, 0xad}, Column{TypeName: "BLOB"}, "0xDEAD"},
		{"enum", []byte("small"), Column{TypeName: "ENUM"}, "small"},
		{"set", []byte("a,b"), Column{TypeName: "SET"}, []string{"a", "b"}},
		{"empty set", []byte(""), Column{TypeName: "SET"}, []string{}},
		{"bit(1)", []byte{1}, Column{TypeName: "BIT", Length: 1, HasLength: true}, true},
		{"bit(1) without width", []byte{1}, Column{TypeName: "BIT"}, true},
		{"bit(1) zero without width", []byte{0}, Column{TypeName: "BIT"}, false},
		{"bit(8) without width", []byte{5}, Column{TypeName: "BIT"}, uint64(5)},
		{"bit(16)", []byte{0x01, 0x02}, Column{TypeName: "BIT"}, uint64(258)},
		{"bool int", int64(0), Column{TypeName: "BOOLEAN"}, false},
		{"invalid json falls back", []byte("{oops"), Column{TypeName: "JSON"}, "{oops"},
		{"unknown type generic", []byte("x"), Column{TypeName: "MYSTERY"}, "x"},
		{"no type generic int", int64(1), Column{}, int64(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ref.Convert(tt.raw, tt.col))
		})
	}
}

func TestJSONIsStructured(t *testing.T) {
	got := Reference().Convert([]byte(`{"a":[1,2],"big":9007199254740993}`), Column{TypeName: "JSON"})
	m, ok := got.(map[string]interface{})
	require.True(t, ok, "got %T", got)
	assert.Equal(t, []interface{}{json.Number("1"), json.Number("2")}, m["a"])
	assert.Equal(t, json.Number("9007199254740993"), m["big"])
}

func TestLargeBinarySummary(t *testing.T) {
	big := make([]byte, LargeBinaryPreview+1)
	got := Reference().Convert(big, Column{TypeName: "LONGBLOB"})
	assert.Equal(t, "(LONGBLOB) 65537 bytes", got)
}

func TestExtendOverridesOnlyDivergentTypes(t *testing.T) {
	base := Reference()
	derived := base.Extend("pg", map[string]Handler{
		"BYTEA": PrefixedBinary(`\x`),
		"BIT":   nil,
	})

	assert.Equal(t, "pg", derived.Name())
	assert.Equal(t, `\x0102`, derived.Convert([]byte{1, 2}, Column{TypeName: "bytea"}))
	assert.Equal(t, int64(5), derived.Convert([]byte("5"), Column{TypeName: "INT"}))

	// removed entries fall back to the generic accessor
	_, ok := derived.Handler("BIT")
	assert.False(t, ok)
	_, ok = base.Handler("BIT")
	assert.True(t, ok, "base table must not be mutated")
}

func TestWithNormalizer(t *testing.T) {
	table := Reference().Extend("ch", map[string]Handler{"STRING": Text}).
		WithNormalizer(func(name string) string {
			name = strings.TrimSuffix(strings.TrimPrefix(name, "Nullable("), ")")
			return strings.ToUpper(name)
		})
	assert.Equal(t, "v", table.Convert([]byte("v"), Column{TypeName: "Nullable(String)"}))
}

func TestMixedEndianUUID(t *testing.T) {
	wire := []byte{0x10, 0xb8, 0xa7, 0x6b, 0xad, 0x9d, 0xd1, 0x11, 0x80, 0xb4, 0x00, 0xc0, 0x4f, 0xd4, 0x30, 0xc8}
	got, err := MixedEndianUUID(wire, Column{})
	require.NoError(t, err)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", got)
}

func TestHugeIntegerAndTime(t *testing.T) {
	got, err := HugeInteger([]byte("170141183460469231731687303715884105727"), Column{})
	require.NoError(t, err)
	assert.Equal(t, "170141183460469231731687303715884105727", got)

	got, err = Time(90*time.Minute+1500*time.Millisecond, Column{})
	require.NoError(t, err)
	assert.Equal(t, "01:30:01.5", got)
}

func TestConvertRow(t *testing.T) {
	cols := []Column{{Name: "id", TypeName: "INT"}, {Name: "n", TypeName: "VARCHAR"}}
	row := ConvertRow(Reference(), []interface{}{[]byte("1"), nil}, cols)
	assert.Equal(t, []interface{}{int64(1), nil}, row)
}
