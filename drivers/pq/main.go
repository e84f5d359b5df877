// Command pq is the lib/pq plugin for PostgreSQL 9.x.
package main

import (
	"database/sql/driver"

	"github.com/lib/pq"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// Driver is resolved by the driver loader.
var Driver driver.Driver = &pq.Driver{}

// DSN formats data source names for Driver.
var DSN dsn.Func = formatDSN

func main() {}
