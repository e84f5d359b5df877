// Package dsn holds what driver libraries share when they format a data
// source name from a connection address and its properties. Libraries do
// not import host packages, so the well-known property keys are repeated
// here.
package dsn

import (
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Well-known property keys.
const (
	User           = "user"
	Password       = "password"
	ConnectTimeout = "connectTimeout"
)

// Func is the signature a library exports as its DSN symbol.
type Func = func(address string, props map[string]string) (string, error)

// Props are the connection properties handed to a DSN formatter.
type Props map[string]string

// Get returns the property or "".
func (p Props) Get(key string) string { return p[key] }

// Timeout is the connect timeout, or zero when unset or not a positive
// number of milliseconds.
func (p Props) Timeout() time.Duration {
	ms, err := strconv.Atoi(p[ConnectTimeout])
	if err != nil || ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// Extra returns the keys of every property that is neither well-known nor
// listed in skip, sorted.
func (p Props) Extra(skip ...string) []string {
	out := make([]string, 0, len(p))
next:
	for k := range p {
		switch k {
		case User, Password, ConnectTimeout:
			continue
		}
		for _, s := range skip {
			if k == s {
				continue next
			}
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Seconds renders d as whole seconds, rounded up.
func Seconds(d time.Duration) string {
	return strconv.FormatInt(int64((d+time.Second-1)/time.Second), 10)
}

// URL parses a URL-shaped address and adds the credentials, the connect
// timeout under timeoutParam and the extra properties as query parameters.
// Empty parameters left by the address template are dropped. Extras are
// applied last, so an explicit property overrides the timeout parameter.
func URL(address string, p Props, timeoutParam string, timeout func(time.Duration) string) (*url.URL, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, err
	}
	if user := p.Get(User); user != "" {
		if pw := p.Get(Password); pw != "" {
			u.User = url.UserPassword(user, pw)
		} else {
			u.User = url.User(user)
		}
	}

	q := u.Query()
	for k, v := range q {
		if len(v) == 1 && v[0] == "" {
			q.Del(k)
		}
	}
	if d := p.Timeout(); d > 0 && timeoutParam != "" {
		q.Set(timeoutParam, timeout(d))
	}
	for _, k := range p.Extra() {
		q.Set(k, p.Get(k))
	}
	u.RawQuery = q.Encode()
	return u, nil
}
