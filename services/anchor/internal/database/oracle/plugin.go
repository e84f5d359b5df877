package oracle

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

// DriverVersion is the godror/godror release. The library needs Oracle
// Instant Client at run time.
const DriverVersion = "0.49.0"

// Dialect is the Oracle dialect. Schemas are switched per session.
var Dialect = plugin.SQLDialect{
	OpenQuote:    `"`,
	CloseQuote:   `"`,
	Placeholders: plugin.PlaceholderColon,
	VersionSQL:   "SELECT version FROM product_component_version WHERE product LIKE 'Oracle%' AND ROWNUM = 1",
	UseSchema:    "ALTER SESSION SET CURRENT_SCHEMA = %s",
}

// Converter maps the Oracle type names godror reports.
var Converter = valueconv.Reference().Extend("oracle", map[string]valueconv.Handler{
	"NUMBER":                         valueconv.Decimal,
	"BINARY_FLOAT":                   valueconv.Float,
	"BINARY_DOUBLE":                  valueconv.Float,
	"VARCHAR2":                       valueconv.Text,
	"NVARCHAR2":                      valueconv.Text,
	"NCHAR":                          valueconv.Text,
	"ROWID":                          valueconv.Text,
	"CLOB":                           valueconv.LongText,
	"NCLOB":                          valueconv.LongText,
	"LONG":                           valueconv.LongText,
	"DATE":                           valueconv.DateTime,
	"TIMESTAMP WITH TIME ZONE":       valueconv.TimestampTZ,
	"TIMESTAMP WITH LOCAL TIME ZONE": valueconv.TimestampTZ,
	"INTERVAL DAY TO SECOND":         valueconv.Stringer,
	"INTERVAL YEAR TO MONTH":         valueconv.Stringer,
	"RAW":                            valueconv.Binary,
	"LONG RAW":                       valueconv.LargeBinary,
	"BFILE":                          valueconv.LargeBinary,

	"ENUM": nil,
	"SET":  nil,
	"YEAR": nil,
})

// Plugin serves Oracle Database 12.1+ through godror.
func Plugin() *plugin.Definition {
	return &plugin.Definition{
		Desc: plugin.Descriptor{
			ID:           "oracle",
			Name:         "Oracle Database 12c+",
			Version:      DriverVersion,
			Engine:       dbcapabilities.Oracle,
			Capabilities: plugin.FeatureAll,
			MinVersion:   "12.1",
			Artifact: plugin.Artifact{
				Group:    "github.com/godror",
				Artifact: "godror-driver",
				Version:  plugin.Ver(DriverVersion),
			},
			DSNSymbol: plugin.DefaultDSNSymbol,
		},
		SQL:    Dialect,
		Values: Converter,
	}
}
