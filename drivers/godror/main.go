// Command godror is the godror/godror plugin for Oracle. It needs Oracle
// Instant Client on the library path at run time.
package main

import (
	"database/sql/driver"

	_ "github.com/godror/godror"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
	"github.com/redbco/redb-driverhub/drivers/internal/export"
)

// Driver is resolved by the driver loader.
var Driver driver.Driver = export.Registered("godror", `user="sample" password="sample" connectString="127.0.0.1:1521/sample"`)

// DSN formats data source names for Driver.
var DSN dsn.Func = formatDSN

func main() {}
