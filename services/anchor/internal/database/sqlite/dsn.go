package sqlite

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
)

// DSN turns a "file:path" address into a modernc DSN. Foreign keys are on
// and the connect timeout becomes the busy timeout.
func DSN(address string, props connbuilder.Properties) (string, error) {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	if ms := props.Int(connbuilder.PropConnectTimeout, 0); ms > 0 {
		q.Add("_pragma", "busy_timeout("+strconv.Itoa(ms)+")")
	}
	return withQuery(address, q, props)
}

// CgoDSN is DSN in mattn/go-sqlite3 parameter spelling.
func CgoDSN(address string, props connbuilder.Properties) (string, error) {
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	if ms := props.Int(connbuilder.PropConnectTimeout, 0); ms > 0 {
		q.Set("_busy_timeout", strconv.Itoa(ms))
	}
	return withQuery(address, q, props)
}

func withQuery(address string, q url.Values, props connbuilder.Properties) (string, error) {
	path := strings.TrimPrefix(address, "file:")
	if path == "" {
		return "", plugin.NewConfigurationError(dbcapabilities.SQLite, "database", "database file path is required")
	}
	for _, k := range props.Extra() {
		q.Add(k, props.Get(k))
	}
	return "file:" + path + "?" + q.Encode(), nil
}
