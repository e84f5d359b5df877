package clickhouse

import (
	"strings"

	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

// DriverVersion is the ClickHouse/clickhouse-go release.
const DriverVersion = "2.39.0"

// Dialect is the ClickHouse dialect. Databases are the only namespace.
var Dialect = plugin.SQLDialect{
	OpenQuote:        "`",
	CloseQuote:       "`",
	Placeholders:     plugin.PlaceholderQuestion,
	VersionSQL:       "SELECT version()",
	UseDatabase:      "USE %s",
	UseSchema:        "USE %s",
	DropIndexOnTable: true,
	Unsupported:      []plugin.ObjectKind{plugin.KindFunction, plugin.KindProcedure, plugin.KindTrigger},
}

// Converter keys ClickHouse type names after unwrapping Nullable and
// LowCardinality.
var Converter = valueconv.NewTable("clickhouse", map[string]valueconv.Handler{
	"INT8":        valueconv.Integer,
	"INT16":       valueconv.Integer,
	"INT32":       valueconv.Integer,
	"INT64":       valueconv.Integer,
	"UINT8":       valueconv.Integer,
	"UINT16":      valueconv.Integer,
	"UINT32":      valueconv.Integer,
	"UINT64":      valueconv.Integer,
	"INT128":      valueconv.HugeInteger,
	"INT256":      valueconv.HugeInteger,
	"UINT128":     valueconv.HugeInteger,
	"UINT256":     valueconv.HugeInteger,
	"FLOAT32":     valueconv.Float,
	"FLOAT64":     valueconv.Float,
	"DECIMAL":     valueconv.Decimal,
	"BOOL":        valueconv.Boolean,
	"STRING":      valueconv.Text,
	"FIXEDSTRING": valueconv.Text,
	"DATE":        valueconv.Date,
	"DATE32":      valueconv.Date,
	"DATETIME":    valueconv.DateTime,
	"DATETIME64":  valueconv.DateTime,
	"UUID":        valueconv.UUID,
	"ENUM8":       valueconv.Enum,
	"ENUM16":      valueconv.Enum,
	"IPV4":        valueconv.Stringer,
	"IPV6":        valueconv.Stringer,
	"ARRAY":       valueconv.Structured,
	"MAP":         valueconv.Structured,
	"TUPLE":       valueconv.Structured,
	"JSON":        valueconv.JSON,
}).WithNormalizer(NormalizeType)

// NormalizeType reduces "LowCardinality(Nullable(String))" to "STRING" and
// "DateTime64(3, 'UTC')" to "DATETIME64".
func NormalizeType(name string) string {
	n := strings.TrimSpace(name)
	for {
		inner, ok := unwrap(n, "Nullable(")
		if !ok {
			inner, ok = unwrap(n, "LowCardinality(")
		}
		if !ok {
			break
		}
		n = inner
	}
	if i := strings.IndexByte(n, '('); i >= 0 {
		n = n[:i]
	}
	return strings.ToUpper(strings.TrimSpace(n))
}

func unwrap(name, prefix string) (string, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ")") {
		return name, false
	}
	return name[len(prefix) : len(name)-1], true
}

// Plugin serves ClickHouse 22.3+ through clickhouse-go's database/sql
// interface. ClickHouse has no transactions, routines or triggers.
func Plugin() *plugin.Definition {
	return &plugin.Definition{
		Desc: plugin.Descriptor{
			ID:      "clickhouse",
			Name:    "ClickHouse",
			Version: DriverVersion,
			Engine:  dbcapabilities.ClickHouse,
			Capabilities: plugin.FeatureConnection | plugin.FeatureQuery | plugin.FeatureMetadata |
				plugin.FeatureDDL | plugin.FeatureDrop,
			MinVersion: "22.3",
			Artifact: plugin.Artifact{
				Group:    "github.com/ClickHouse",
				Artifact: "clickhouse-driver",
				Version:  plugin.Ver(DriverVersion),
			},
			DSNSymbol: plugin.DefaultDSNSymbol,
		},
		SQL:    Dialect,
		Values: Converter,
	}
}
