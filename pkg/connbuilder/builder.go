// Package connbuilder turns a connection configuration into the two pieces
// every driver needs: a wire-level address and a property bag. Nothing here
// performs I/O.
package connbuilder

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Well-known property keys.
const (
	PropUser           = "user"
	PropPassword       = "password"
	PropConnectTimeout = "connectTimeout" // milliseconds
)

// Config carries the parameters of a single connect request. It is built per
// call and must not be shared between goroutines.
type Config struct {
	Host           string            `json:"host" yaml:"host"`
	Port           int               `json:"port" yaml:"port"`
	Database       string            `json:"database,omitempty" yaml:"database"`
	Username       string            `json:"username,omitempty" yaml:"username"`
	Password       string            `json:"-" yaml:"password"`
	Properties     map[string]string `json:"properties,omitempty" yaml:"properties"`
	DriverPath     string            `json:"driverPath,omitempty" yaml:"driver_path"`
	TimeoutSeconds int               `json:"timeoutSeconds,omitempty" yaml:"timeout_seconds" validate:"gte=0,lte=300"`
}

// EffectivePort returns the configured port or defaultPort when unset.
func (c Config) EffectivePort(defaultPort int) int {
	if c.Port > 0 {
		return c.Port
	}
	return defaultPort
}

// BuildAddress substitutes host, port (or defaultPort) and database into a
// printf-style template.
func BuildAddress(cfg Config, template string, defaultPort int) string {
	return fmt.Sprintf(template, cfg.Host, cfg.EffectivePort(defaultPort), cfg.Database)
}

// Properties is the driver property bag.
type Properties map[string]string

// BuildProperties copies credentials, the connect timeout (converted to
// milliseconds) and every free-form property into a new bag. Free-form
// properties are applied last and win on key collisions.
func BuildProperties(cfg Config) Properties {
	props := make(Properties, len(cfg.Properties)+3)
	if cfg.Username != "" {
		props[PropUser] = cfg.Username
	}
	if cfg.Password != "" {
		props[PropPassword] = cfg.Password
	}
	if cfg.TimeoutSeconds > 0 {
		props[PropConnectTimeout] = strconv.Itoa(cfg.TimeoutSeconds * 1000)
	}
	for k, v := range cfg.Properties {
		props[k] = v
	}
	return props
}

// Get returns the value for key or "".
func (p Properties) Get(key string) string {
	return p[key]
}

// Int returns the integer value for key, or def when missing or malformed.
func (p Properties) Int(key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

// Extra returns the properties other than the well-known keys, sorted by key.
// Engines append these to their DSN as driver parameters.
func (p Properties) Extra() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		switch k {
		case PropUser, PropPassword, PropConnectTimeout:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
