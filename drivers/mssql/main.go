// Command mssql is the microsoft/go-mssqldb plugin for SQL Server 2012+.
package main

import (
	"database/sql/driver"

	mssql "github.com/microsoft/go-mssqldb"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// Driver is resolved by the driver loader.
var Driver driver.Driver = &mssql.Driver{}

// DSN formats data source names for Driver.
var DSN dsn.Func = formatDSN

func main() {}
