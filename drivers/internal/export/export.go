// Package export pulls a driver.Driver out of database/sql for driver
// libraries that register themselves without exporting their driver type.
package export

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
)

// Registered returns the driver registered under name. sampleDSN must be
// accepted by the driver's DSN parser; nothing is dialed.
func Registered(name, sampleDSN string) driver.Driver {
	db, err := sql.Open(name, sampleDSN)
	if err != nil {
		panic(fmt.Sprintf("driver %s: %v", name, err))
	}
	drv := db.Driver()
	_ = db.Close()
	return drv
}
