// Command clickhouse is the ClickHouse/clickhouse-go plugin. The std
// driver type is unexported, so it is taken from database/sql.
package main

import (
	"database/sql/driver"

	_ "github.com/ClickHouse/clickhouse-go/v2"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
	"github.com/redbco/redb-driverhub/drivers/internal/export"
)

// Driver is resolved by the driver loader.
var Driver driver.Driver = export.Registered("clickhouse", "clickhouse://127.0.0.1:9000/default")

// DSN formats data source names for Driver.
var DSN dsn.Func = formatDSN

func main() {}
