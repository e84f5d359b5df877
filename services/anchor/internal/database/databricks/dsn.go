package databricks

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
)

// PropHTTPPath names the warehouse endpoint, e.g. /sql/1.0/warehouses/abc.
const PropHTTPPath = "httpPath"

// DSN turns a "host:port/catalog" address into a personal-access-token DSN
// ("token:<pat>@host:port/<httpPath>?catalog=..."). The password carries
// the token.
func DSN(address string, props connbuilder.Properties) (string, error) {
	hostPort, catalog, _ := strings.Cut(address, "/")
	httpPath := props.Get(PropHTTPPath)
	if httpPath == "" {
		return "", plugin.NewConfigurationError(dbcapabilities.Databricks, PropHTTPPath, "warehouse http path is required")
	}
	token := props.Get(connbuilder.PropPassword)
	if token == "" {
		return "", plugin.NewConfigurationError(dbcapabilities.Databricks, "password", "access token is required")
	}

	q := url.Values{}
	if catalog != "" {
		q.Set("catalog", catalog)
	}
	if ms := props.Int(connbuilder.PropConnectTimeout, 0); ms > 0 {
		q.Set("timeout", strconv.Itoa((ms+999)/1000))
	}
	for _, k := range props.Extra() {
		if k == PropHTTPPath {
			continue
		}
		q.Set(k, props.Get(k))
	}

	u := url.URL{
		User: url.UserPassword("token", token),
		Host: hostPort,
		Path: "/" + strings.TrimPrefix(httpPath, "/"),
	}
	u.RawQuery = q.Encode()
	return strings.TrimPrefix(u.String(), "//"), nil
}
