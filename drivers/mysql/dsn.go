package main

import (
	"net/url"

	"github.com/go-sql-driver/mysql"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// formatDSN turns a "tcp(host:port)/db" address into a go-sql-driver DSN.
// Extra properties are parsed as driver parameters, so known ones such as
// tls or charset are honored and the rest become session variables.
func formatDSN(address string, props map[string]string) (string, error) {
	p := dsn.Props(props)
	params := url.Values{}
	for _, k := range p.Extra() {
		params.Set(k, p.Get(k))
	}
	raw := address
	if len(params) > 0 {
		raw += "?" + params.Encode()
	}

	cfg, err := mysql.ParseDSN(raw)
	if err != nil {
		return "", err
	}
	cfg.User = p.Get(dsn.User)
	cfg.Passwd = p.Get(dsn.Password)
	if d := p.Timeout(); d > 0 {
		cfg.Timeout = d
	}
	// Temporal values are formatted by the converter from their wire text.
	cfg.ParseTime = false
	return cfg.FormatDSN(), nil
}
