package main

import (
	"net"
	"strconv"
	"strings"

	"github.com/snowflakedb/gosnowflake"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// Properties read by formatDSN. Anything else not well-known is passed as a
// session parameter.
const (
	propAccount   = "account"
	propWarehouse = "warehouse"
	propRole      = "role"
	propSchema    = "schema"
)

// formatDSN turns a "host:port/database" address into a gosnowflake DSN.
// The account defaults to the first label of the host name.
func formatDSN(address string, props map[string]string) (string, error) {
	p := dsn.Props(props)
	hostPort, database, _ := strings.Cut(address, "/")
	host, portText, err := net.SplitHostPort(hostPort)
	if err != nil {
		return "", err
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		return "", err
	}

	account := p.Get(propAccount)
	if account == "" {
		account, _, _ = strings.Cut(host, ".")
	}
	cfg := &gosnowflake.Config{
		Account:      account,
		User:         p.Get(dsn.User),
		Password:     p.Get(dsn.Password),
		Host:         host,
		Port:         port,
		Protocol:     "https",
		Database:     database,
		Schema:       p.Get(propSchema),
		Warehouse:    p.Get(propWarehouse),
		Role:         p.Get(propRole),
		LoginTimeout: p.Timeout(),
	}
	for _, k := range p.Extra(propAccount, propSchema, propWarehouse, propRole) {
		if cfg.Params == nil {
			cfg.Params = map[string]*string{}
		}
		v := p.Get(k)
		cfg.Params[k] = &v
	}
	return gosnowflake.DSN(cfg)
}
