// Command mysql is the go-sql-driver/mysql plugin. Build with
// -buildmode=plugin as mysql-driver-<version>.so.
package main

import (
	"database/sql/driver"

	"github.com/go-sql-driver/mysql"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// Driver is resolved by the driver loader.
var Driver driver.Driver = mysql.MySQLDriver{}

// DSN formats data source names for Driver.
var DSN dsn.Func = formatDSN

func main() {}
