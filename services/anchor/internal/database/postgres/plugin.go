package postgres

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

const (
	// PgxVersion is the jackc/pgx release behind the default plugin.
	PgxVersion = "5.7.5"
	// PqVersion is the lib/pq release kept for servers older than 10.
	PqVersion = "1.10.9"
)

var (
	// PgxArtifact is the pgx driver library, shared with CockroachDB and
	// TimescaleDB.
	PgxArtifact = plugin.Artifact{
		Group:    "github.com/jackc",
		Artifact: "pgx-driver",
		Version:  plugin.Ver(PgxVersion),
	}
	// PqArtifact is the lib/pq driver library, shared with Redshift.
	PqArtifact = plugin.Artifact{
		Group:    "github.com/lib",
		Artifact: "pq-driver",
		Version:  plugin.Ver(PqVersion),
	}
)

// Dialect is the PostgreSQL dialect. A schema switch rewrites search_path;
// the database is fixed at connect time.
var Dialect = plugin.SQLDialect{
	OpenQuote:          `"`,
	CloseQuote:         `"`,
	Placeholders:       plugin.PlaceholderDollar,
	VersionSQL:         "SHOW server_version",
	UseSchema:          "SET search_path TO %s",
	DropTriggerOnTable: true,
}

// Converter maps the PostgreSQL type names pgx and pq report.
var Converter = valueconv.Reference().Extend("postgres", map[string]valueconv.Handler{
	"INT2":        valueconv.Integer,
	"INT4":        valueconv.Integer,
	"INT8":        valueconv.Integer,
	"OID":         valueconv.Integer,
	"FLOAT4":      valueconv.Float,
	"FLOAT8":      valueconv.Float,
	"MONEY":       valueconv.Text,
	"BOOL":        valueconv.Boolean,
	"TIMESTAMPTZ": valueconv.TimestampTZ,
	"TIMETZ":      valueconv.Time,
	"INTERVAL":    valueconv.Stringer,
	"BPCHAR":      valueconv.Text,
	"NAME":        valueconv.Text,
	"CITEXT":      valueconv.Text,
	"XML":         valueconv.LongText,
	"BYTEA":       valueconv.PrefixedBinary(`\x`),
	"JSONB":       valueconv.JSON,
	"UUID":        valueconv.UUID,
	"INET":        valueconv.Stringer,
	"CIDR":        valueconv.Stringer,
	"MACADDR":     valueconv.Stringer,

	// MySQL names that mean something else, or nothing, here.
	"YEAR":       nil,
	"ENUM":       nil,
	"SET":        nil,
	"TINYTEXT":   nil,
	"MEDIUMTEXT": nil,
	"LONGTEXT":   nil,
	"TINYBLOB":   nil,
	"BLOB":       nil,
	"MEDIUMBLOB": nil,
	"LONGBLOB":   nil,
})

// Plugins returns the PostgreSQL bands: pgx from 10 on, lib/pq kept for
// 9.x servers. Both libraries format their own DSNs.
func Plugins() []*plugin.Definition {
	return []*plugin.Definition{
		{
			Desc: plugin.Descriptor{
				ID:           "postgres-pgx",
				Name:         "PostgreSQL 10+ (pgx)",
				Version:      PgxVersion,
				Engine:       dbcapabilities.PostgreSQL,
				Capabilities: plugin.FeatureAll,
				MinVersion:   "10",
				Artifact:     PgxArtifact,
				DSNSymbol:    plugin.DefaultDSNSymbol,
			},
			SQL:    Dialect,
			Values: Converter,
		},
		{
			Desc: plugin.Descriptor{
				ID:           "postgres-pq",
				Name:         "PostgreSQL 9.x (lib/pq)",
				Version:      PqVersion,
				Engine:       dbcapabilities.PostgreSQL,
				Capabilities: plugin.FeatureAll,
				MinVersion:   "9.0",
				MaxVersion:   "10",
				Artifact:     PqArtifact,
				DSNSymbol:    plugin.DefaultDSNSymbol,
			},
			SQL:    Dialect,
			Values: Converter,
		},
	}
}
