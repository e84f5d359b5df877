package dbcapabilities

import (
	"net/netip"
	"strings"
)

// NormalizeHost folds a host name for comparison: case and surrounding
// brackets are dropped, a trailing root dot is removed and every loopback
// spelling becomes "localhost". No DNS lookups are made.
func NormalizeHost(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	h = strings.TrimSuffix(strings.TrimPrefix(h, "["), "]")
	h = strings.TrimSuffix(h, ".")
	if h == "localhost" {
		return h
	}
	if addr, err := netip.ParseAddr(h); err == nil && addr.Unmap().IsLoopback() {
		return "localhost"
	}
	return h
}
