package main

import (
	hdb "github.com/SAP/go-hdb/driver"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// formatDSN turns an "hdb://host:port?databaseName=db" address into a
// go-hdb DSN. NewDSNConnector parses it without dialing.
func formatDSN(address string, props map[string]string) (string, error) {
	u, err := dsn.URL(address, props, "timeout", dsn.Seconds)
	if err != nil {
		return "", err
	}
	out := u.String()
	if _, err := hdb.NewDSNConnector(out); err != nil {
		return "", err
	}
	return out, nil
}
