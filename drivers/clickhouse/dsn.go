package main

import (
	"strconv"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// formatDSN turns a "clickhouse://host:port/db" address into a
// clickhouse-go DSN and validates it with clickhouse.ParseDSN.
func formatDSN(address string, props map[string]string) (string, error) {
	u, err := dsn.URL(address, props, "dial_timeout", func(d time.Duration) string {
		return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	})
	if err != nil {
		return "", err
	}
	out := u.String()
	if _, err := clickhouse.ParseDSN(out); err != nil {
		return "", err
	}
	return out, nil
}
