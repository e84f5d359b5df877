// Command pgx is the jackc/pgx plugin, used by PostgreSQL 10+ and
// CockroachDB.
package main

import (
	"database/sql/driver"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// Driver is resolved by the driver loader.
var Driver driver.Driver = stdlib.GetDefaultDriver()

// DSN formats data source names for Driver.
var DSN dsn.Func = formatDSN

func main() {}
