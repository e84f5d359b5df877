// Command sqlite is the pure Go modernc.org/sqlite plugin.
package main

import (
	"database/sql/driver"

	"modernc.org/sqlite"
)

// Driver is resolved by the driver loader.
var Driver driver.Driver = &sqlite.Driver{}

func main() {}
