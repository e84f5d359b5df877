// Package synapse serves Azure Synapse dedicated SQL pools over
// microsoft/go-mssqldb. Synapse has no USE statement and no triggers.
package synapse

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/database/mssql"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

var Dialect = func() plugin.SQLDialect {
	d := mssql.Dialect
	d.UseDatabase = ""
	return d
}()

var Catalog = func() *metadata.Catalog {
	c := *metadata.SQLServer
	c.Name = "synapse"
	c.Triggers = ""
	c.DDL = make(map[plugin.ObjectKind]metadata.DDLQuery, len(metadata.SQLServer.DDL))
	for k, q := range metadata.SQLServer.DDL {
		if k != plugin.KindTrigger {
			c.DDL[k] = q
		}
	}
	return &c
}()

func Plugin() *plugin.Definition {
	return &plugin.Definition{
		Desc: plugin.Descriptor{
			ID:           "synapse",
			Name:         "Azure Synapse Analytics",
			Version:      mssql.DriverVersion,
			Engine:       dbcapabilities.Synapse,
			Capabilities: plugin.FeatureAll &^ plugin.FeatureTriggers,
			Artifact:     mssql.Artifact,
			DSNSymbol:    plugin.DefaultDSNSymbol,
		},
		SQL:    Dialect,
		Values: mssql.Converter,
	}
}
