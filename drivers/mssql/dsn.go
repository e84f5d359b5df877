package main

import (
	"github.com/microsoft/go-mssqldb/msdsn"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// formatDSN turns a "sqlserver://host:port?database=db" address into a
// go-mssqldb URL and validates it with msdsn. An empty database is dropped
// so the login default applies.
func formatDSN(address string, props map[string]string) (string, error) {
	u, err := dsn.URL(address, props, "dial timeout", dsn.Seconds)
	if err != nil {
		return "", err
	}
	out := u.String()
	if _, err := msdsn.Parse(out); err != nil {
		return "", err
	}
	return out, nil
}
