package main

import (
	"github.com/lib/pq"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// formatDSN renders a "postgres://host:port/db" address as lib/pq
// key=value pairs, with connect_timeout in whole seconds.
func formatDSN(address string, props map[string]string) (string, error) {
	u, err := dsn.URL(address, props, "connect_timeout", dsn.Seconds)
	if err != nil {
		return "", err
	}
	return pq.ParseURL(u.String())
}
