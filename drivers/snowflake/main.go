// Command snowflake is the snowflakedb/gosnowflake plugin.
package main

import (
	"database/sql/driver"

	"github.com/snowflakedb/gosnowflake"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// Driver is resolved by the driver loader.
var Driver driver.Driver = gosnowflake.SnowflakeDriver{}

// DSN formats data source names for Driver.
var DSN dsn.Func = formatDSN

func main() {}
