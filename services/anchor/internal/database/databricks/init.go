package databricks

import (
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/services/anchor/internal/metadata"
)

func init() {
	plugin.Register(Plugin())
	metadata.Register(dbcapabilities.Databricks, Catalog)
}
