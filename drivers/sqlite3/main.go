// Command sqlite3 is the cgo mattn/go-sqlite3 plugin.
package main

import (
	"database/sql/driver"

	"github.com/mattn/go-sqlite3"
)

// Driver is resolved by the driver loader.
var Driver driver.Driver = &sqlite3.SQLiteDriver{}

func main() {}
