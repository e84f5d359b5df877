// Command mssql-legacy is the denisenkom/go-mssqldb plugin for SQL Server
// 2005 through 2008 R2.
package main

import (
	"database/sql/driver"

	mssql "github.com/denisenkom/go-mssqldb"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// Driver is resolved by the driver loader.
var Driver driver.Driver = &mssql.Driver{}

// DSN formats data source names for Driver.
var DSN dsn.Func = formatDSN

func main() {}
