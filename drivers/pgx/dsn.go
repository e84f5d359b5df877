package main

import (
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// formatDSN turns a "postgres://host:port/db" address into a connection URL
// with credentials, connect_timeout in whole seconds and the extra
// properties as query parameters. pgconn checks the result so malformed
// settings fail before anything is dialed.
func formatDSN(address string, props map[string]string) (string, error) {
	u, err := dsn.URL(address, props, "connect_timeout", dsn.Seconds)
	if err != nil {
		return "", err
	}
	out := u.String()
	if _, err := pgconn.ParseConfig(out); err != nil {
		return "", err
	}
	return out, nil
}
