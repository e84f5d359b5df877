package db2

import (
	"strconv"
	"strings"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
)

// DSN appends credentials and extra keywords to a CLI connection string
// ("HOSTNAME=h;PORT=p;DATABASE=d"). CLI keywords cannot carry a semicolon,
// so values containing one are rejected.
func DSN(address string, props connbuilder.Properties) (string, error) {
	parts := []string{strings.TrimSuffix(address, ";")}
	add := func(key, value string) error {
		if strings.ContainsRune(value, ';') {
			return plugin.NewConfigurationError(dbcapabilities.DB2, key, "value must not contain ';'")
		}
		parts = append(parts, key+"="+value)
		return nil
	}

	if user := props.Get(connbuilder.PropUser); user != "" {
		if err := add("UID", user); err != nil {
			return "", err
		}
		if err := add("PWD", props.Get(connbuilder.PropPassword)); err != nil {
			return "", err
		}
	}
	if ms := props.Int(connbuilder.PropConnectTimeout, 0); ms > 0 {
		_ = add("CONNECTTIMEOUT", strconv.Itoa((ms+999)/1000))
	}
	for _, k := range props.Extra() {
		if err := add(k, props.Get(k)); err != nil {
			return "", err
		}
	}
	return strings.Join(parts, ";"), nil
}
