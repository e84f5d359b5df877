package db2

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

// DriverVersion is the ibmdb/go_ibm_db release. It links against the IBM
// CLI driver (clidriver).
const DriverVersion = "0.5.2"

var Dialect = plugin.SQLDialect{
	OpenQuote:    `"`,
	CloseQuote:   `"`,
	Placeholders: plugin.PlaceholderQuestion,
	VersionSQL:   "SELECT service_level FROM sysibmadm.env_inst_info",
	UseSchema:    "SET SCHEMA %s",
}

var Converter = valueconv.Reference().Extend("db2", map[string]valueconv.Handler{
	"DECFLOAT":   valueconv.Decimal,
	"GRAPHIC":    valueconv.Text,
	"VARGRAPHIC": valueconv.Text,
	"DBCLOB":     valueconv.LongText,
	"CLOB":       valueconv.LongText,
	"XML":        valueconv.LongText,
	"BLOB":       valueconv.LargeBinary,
	"ROWID":      valueconv.Binary,

	"ENUM": nil,
	"SET":  nil,
	"YEAR": nil,
})

// Plugin serves Db2 for Linux, UNIX and Windows 11.1+.
func Plugin() *plugin.Definition {
	return &plugin.Definition{
		Desc: plugin.Descriptor{
			ID:           "db2",
			Name:         "IBM Db2 LUW",
			Version:      DriverVersion,
			Engine:       dbcapabilities.DB2,
			Capabilities: plugin.FeatureAll,
			MinVersion:   "11.1",
			Artifact: plugin.Artifact{
				Group:    "github.com/ibmdb",
				Artifact: "go_ibm_db-driver",
				Version:  plugin.Ver(DriverVersion),
			},
		},
		SQL:      Dialect,
		Values:   Converter,
		BuildDSN: DSN,
	}
}
