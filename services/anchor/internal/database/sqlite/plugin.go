package sqlite

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

const (
	// DriverVersion is the modernc.org/sqlite release, pure Go.
	DriverVersion = "1.44.3"
	// CgoDriverVersion is the mattn/go-sqlite3 release.
	CgoDriverVersion = "1.14.22"
)

// Dialect is the SQLite dialect. SQLite has no stored routines.
var Dialect = plugin.SQLDialect{
	OpenQuote:    `"`,
	CloseQuote:   `"`,
	Placeholders: plugin.PlaceholderQuestion,
	VersionSQL:   "SELECT sqlite_version()",
	Unsupported:  []plugin.ObjectKind{plugin.KindFunction, plugin.KindProcedure},
}

// Converter covers the affinity names SQLite drivers report on top of the
// declared MySQL-style names.
var Converter = valueconv.Reference().Extend("sqlite", map[string]valueconv.Handler{
	"CLOB":             valueconv.LongText,
	"DOUBLE PRECISION": valueconv.Float,
	"INT8":             valueconv.Integer,
	"INT2":             valueconv.Integer,
})

const capabilities = plugin.FeatureAll &^ plugin.FeatureRoutines

// Plugins returns the pure-Go plugin first; the cgo plugin is only chosen
// when a request pins it by id.
func Plugins() []*plugin.Definition {
	return []*plugin.Definition{
		{
			Desc: plugin.Descriptor{
				ID:           "sqlite",
				Name:         "SQLite (modernc)",
				Version:      DriverVersion,
				Engine:       dbcapabilities.SQLite,
				Capabilities: capabilities,
				MinVersion:   "3.16",
				Artifact: plugin.Artifact{
					Group:    "modernc.org",
					Artifact: "sqlite-driver",
					Version:  plugin.Ver(DriverVersion),
				},
			},
			SQL:      Dialect,
			Values:   Converter,
			BuildDSN: DSN,
		},
		{
			Desc: plugin.Descriptor{
				ID:           "sqlite-cgo",
				Name:         "SQLite (mattn, cgo)",
				Version:      CgoDriverVersion,
				Engine:       dbcapabilities.SQLite,
				Capabilities: capabilities,
				MinVersion:   "3.16",
				Artifact: plugin.Artifact{
					Group:    "github.com/mattn",
					Artifact: "sqlite3-driver",
					Version:  plugin.Ver(CgoDriverVersion),
				},
			},
			SQL:      Dialect,
			Values:   Converter,
			BuildDSN: CgoDSN,
		},
	}
}
