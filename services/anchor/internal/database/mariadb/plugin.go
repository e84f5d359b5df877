package mariadb

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
	"github.com/redbco/redb-driverhub/services/anchor/internal/database/mysql"
)

// Converter adds the MariaDB-only native types to the MySQL table.
var Converter = mysql.Converter.Extend("mariadb", map[string]valueconv.Handler{
	"UUID":  valueconv.UUID,
	"INET4": valueconv.Text,
	"INET6": valueconv.Text,
})

// Plugin speaks the MySQL protocol to MariaDB 10+.
func Plugin() *plugin.Definition {
	return mysql.Definition(plugin.Descriptor{
		ID:           "mariadb",
		Name:         "MariaDB 10+",
		Version:      mysql.DriverVersion,
		Engine:       dbcapabilities.MariaDB,
		Capabilities: plugin.FeatureAll,
		MinVersion:   "10.0",
		Artifact:     mysql.Artifact,
	}, Converter)
}
