package mssql

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

const (
	// DriverVersion is the microsoft/go-mssqldb release.
	DriverVersion = "1.9.3"
	// LegacyDriverVersion is the denisenkom/go-mssqldb release kept for
	// SQL Server 2005-2008 R2.
	LegacyDriverVersion = "0.12.3"
)

// Dialect is the T-SQL dialect.
var Dialect = plugin.SQLDialect{
	OpenQuote:        "[",
	CloseQuote:       "]",
	Placeholders:     plugin.PlaceholderAtP,
	VersionSQL:       "SELECT CAST(SERVERPROPERTY('ProductVersion') AS nvarchar(128))",
	UseDatabase:      "USE %s",
	DropIndexOnTable: true,
}

// Converter maps the SQL Server type names go-mssqldb reports.
var Converter = valueconv.Reference().Extend("mssql", map[string]valueconv.Handler{
	"NCHAR":            valueconv.Text,
	"NVARCHAR":         valueconv.Text,
	"NTEXT":            valueconv.LongText,
	"UNIQUEIDENTIFIER": valueconv.MixedEndianUUID,
	"SMALLDATETIME":    valueconv.DateTime,
	"DATETIME2":        valueconv.DateTime,
	"DATETIMEOFFSET":   valueconv.TimestampTZ,
	"MONEY":            valueconv.Decimal,
	"SMALLMONEY":       valueconv.Decimal,
	"BIT":              valueconv.Boolean,
	"IMAGE":            valueconv.LargeBinary,
	"XML":              valueconv.LongText,

	"YEAR": nil,
	"ENUM": nil,
	"SET":  nil,
})

// Artifact is the microsoft/go-mssqldb library, shared with Synapse.
var Artifact = plugin.Artifact{
	Group:    "github.com/microsoft",
	Artifact: "mssql-driver",
	Version:  plugin.Ver(DriverVersion),
}

// Plugins returns the SQL Server bands, the current driver first. Both
// libraries format their own DSNs.
func Plugins() []*plugin.Definition {
	return []*plugin.Definition{
		{
			Desc: plugin.Descriptor{
				ID:           "mssql",
				Name:         "SQL Server 2012+",
				Version:      DriverVersion,
				Engine:       dbcapabilities.SQLServer,
				Capabilities: plugin.FeatureAll,
				MinVersion:   "11",
				Artifact:     Artifact,
				DSNSymbol:    plugin.DefaultDSNSymbol,
			},
			SQL:    Dialect,
			Values: Converter,
		},
		{
			Desc: plugin.Descriptor{
				ID:           "mssql-legacy",
				Name:         "SQL Server 2005-2008 R2",
				Version:      LegacyDriverVersion,
				Engine:       dbcapabilities.SQLServer,
				Capabilities: plugin.FeatureAll,
				MinVersion:   "9",
				MaxVersion:   "11",
				Artifact: plugin.Artifact{
					Group:    "github.com/denisenkom",
					Artifact: "mssql-legacy-driver",
					Version:  plugin.Ver(LegacyDriverVersion),
				},
				DSNSymbol: plugin.DefaultDSNSymbol,
			},
			SQL:    Dialect,
			Values: Converter,
		},
	}
}
