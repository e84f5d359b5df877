// Command databricks is the databricks/databricks-sql-go plugin.
package main

import (
	"database/sql/driver"

	_ "github.com/databricks/databricks-sql-go"

	"github.com/redbco/redb-driverhub/drivers/internal/export"
)

// Driver is resolved by the driver loader.
var Driver driver.Driver = export.Registered("databricks", "token:sample@127.0.0.1:443/sql/1.0/warehouses/sample")

func main() {}
