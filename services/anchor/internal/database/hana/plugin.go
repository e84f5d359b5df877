package hana

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

// DriverVersion is the SAP/go-hdb release.
const DriverVersion = "1.14.6"

// Dialect is the SAP HANA dialect.
var Dialect = plugin.SQLDialect{
	OpenQuote:    `"`,
	CloseQuote:   `"`,
	Placeholders: plugin.PlaceholderQuestion,
	VersionSQL:   "SELECT VERSION FROM SYS.M_DATABASE",
	UseSchema:    "SET SCHEMA %s",
}

// Converter maps the HANA type names go-hdb reports.
var Converter = valueconv.Reference().Extend("hana", map[string]valueconv.Handler{
	"NVARCHAR":     valueconv.Text,
	"NCHAR":        valueconv.Text,
	"ALPHANUM":     valueconv.Text,
	"SHORTTEXT":    valueconv.Text,
	"NCLOB":        valueconv.LongText,
	"CLOB":         valueconv.LongText,
	"SECONDDATE":   valueconv.DateTime,
	"SMALLDECIMAL": valueconv.Decimal,
	"SMALLINT":     valueconv.Integer,
	"TINYINT":      valueconv.Integer,
	"BOOLEAN":      valueconv.Boolean,
	"VARBINARY":    valueconv.Binary,
	"ST_GEOMETRY":  valueconv.LargeBinary,
	"ST_POINT":     valueconv.LargeBinary,

	"ENUM": nil,
	"SET":  nil,
})

// Plugin serves SAP HANA 2.0+ through go-hdb.
func Plugin() *plugin.Definition {
	return &plugin.Definition{
		Desc: plugin.Descriptor{
			ID:           "hana",
			Name:         "SAP HANA 2.0+",
			Version:      DriverVersion,
			Engine:       dbcapabilities.HANA,
			Capabilities: plugin.FeatureAll,
			MinVersion:   "2.0",
			Artifact: plugin.Artifact{
				Group:    "github.com/SAP",
				Artifact: "hdb-driver",
				Version:  plugin.Ver(DriverVersion),
			},
			DSNSymbol: plugin.DefaultDSNSymbol,
		},
		SQL:    Dialect,
		Values: Converter,
	}
}
