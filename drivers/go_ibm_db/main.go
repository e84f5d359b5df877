// Command go_ibm_db is the ibmdb/go_ibm_db plugin for Db2. It links against
// the IBM CLI driver (clidriver).
package main

import (
	"database/sql/driver"

	_ "github.com/ibmdb/go_ibm_db"

	"github.com/redbco/redb-driverhub/drivers/internal/export"
)

// Driver is resolved by the driver loader.
var Driver driver.Driver = export.Registered("go_ibm_db", "HOSTNAME=127.0.0.1;PORT=50000;DATABASE=sample")

func main() {}
