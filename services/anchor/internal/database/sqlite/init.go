package sqlite

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

func init() {
	for _, p := range Plugins() {
		plugin.Register(p)
	}
	metadata.Register(dbcapabilities.SQLite, metadata.SQLite)
}
