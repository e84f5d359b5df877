package tidb

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/database/mysql"
)

// Plugin speaks the MySQL protocol to TiDB. TiDB reports a MySQL-compatible
// version ("8.0.11-TiDB-v7.5.0"), so the band is unbounded. It has no stored
// routines or triggers.
func Plugin() *plugin.Definition {
	return mysql.Definition(plugin.Descriptor{
		ID:           "tidb",
		Name:         "TiDB",
		Version:      mysql.DriverVersion,
		Engine:       dbcapabilities.TiDB,
		Capabilities: plugin.FeatureAll &^ (plugin.FeatureRoutines | plugin.FeatureTriggers),
		Artifact:     mysql.Artifact,
	}, nil)
}
