package mysql

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
)

// DriverVersion is the go-sql-driver/mysql release the plugin libraries are
// built from.
const DriverVersion = "1.9.3"

// Artifact is the driver library shared by MySQL, MariaDB and TiDB.
var Artifact = plugin.Artifact{
	Group:    "github.com/go-sql-driver",
	Artifact: "mysql-driver",
	Version:  plugin.Ver(DriverVersion),
}

// Dialect is the MySQL SQL dialect. Databases double as schemas.
var Dialect = plugin.SQLDialect{
	OpenQuote:        "`",
	CloseQuote:       "`",
	Placeholders:     plugin.PlaceholderQuestion,
	VersionSQL:       "SELECT VERSION()",
	UseDatabase:      "USE %s",
	UseSchema:        "USE %s",
	DropIndexOnTable: true,
}

// Converter is the MySQL value table. It is the reference table unchanged.
var Converter = valueconv.Reference()

// Definition builds a MySQL-protocol plugin for desc. DSNs are formatted by
// the driver library.
func Definition(desc plugin.Descriptor, values valueconv.Converter) *plugin.Definition {
	if values == nil {
		values = Converter
	}
	desc.DSNSymbol = plugin.DefaultDSNSymbol
	return &plugin.Definition{
		Desc:   desc,
		SQL:    Dialect,
		Values: values,
	}
}

// Plugins returns the MySQL version bands in selection order.
func Plugins() []*plugin.Definition {
	return []*plugin.Definition{
		Definition(plugin.Descriptor{
			ID:           "mysql-5",
			Name:         "MySQL 5.5-5.7",
			Version:      DriverVersion,
			Engine:       dbcapabilities.MySQL,
			Capabilities: plugin.FeatureAll,
			MinVersion:   "5.5",
			MaxVersion:   "8.0",
			Artifact:     Artifact,
		}, nil),
		Definition(plugin.Descriptor{
			ID:           "mysql-8",
			Name:         "MySQL 8+",
			Version:      DriverVersion,
			Engine:       dbcapabilities.MySQL,
			Capabilities: plugin.FeatureAll,
			MinVersion:   "8.0",
			Artifact:     Artifact,
		}, nil),
	}
}
