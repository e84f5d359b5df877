package main

import (
	"strconv"
	"strings"

	godsn "github.com/godror/godror/dsn"

	"github.com/redbco/redb-driverhub/drivers/internal/dsn"
)

// formatDSN turns a "host:port/service" Easy Connect address into a godror
// logfmt DSN. Extra properties are appended as godror parameters and the
// whole string is checked with dsn.Parse.
func formatDSN(address string, props map[string]string) (string, error) {
	p := dsn.Props(props)
	var P godsn.ConnectionParams
	P.Username = p.Get(dsn.User)
	P.Password = godsn.NewPassword(p.Get(dsn.Password))
	P.ConnectString = address

	var b strings.Builder
	b.WriteString(P.StringWithPassword())
	for _, k := range p.Extra() {
		b.WriteString(" " + k + "=" + strconv.Quote(p.Get(k)))
	}
	out := b.String()

	if _, err := godsn.Parse(out); err != nil {
		return "", err
	}
	return out, nil
}
