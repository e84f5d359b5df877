package connection

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
)

// fingerprintNamespace scopes connection ids so they never collide with
// other name-based UUIDs.
var fingerprintNamespace = uuid.MustParse("6f1c7d2e-3b8a-5e41-9c0d-2a7f4b1e8c53")

// Fingerprint derives the connection id from the normalized tuple
// (engine, host, port, database, username, driver). The driver component is
// the cleaned absolute library path when one is configured, otherwise
// driverVersion. Passwords and free-form properties do not participate.
func Fingerprint(engine dbcapabilities.DatabaseID, cfg connbuilder.Config, defaultPort int, driverVersion string) string {
	driverKey := driverVersion
	if cfg.DriverPath != "" {
		driverKey = cfg.DriverPath
		if abs, err := filepath.Abs(cfg.DriverPath); err == nil {
			driverKey = abs
		}
		driverKey = filepath.Clean(driverKey)
	}

	parts := []string{
		strings.ToLower(string(engine)),
		dbcapabilities.NormalizeHost(cfg.Host),
		strconv.Itoa(cfg.EffectivePort(defaultPort)),
		cfg.Database,
		cfg.Username,
		driverKey,
	}
	return uuid.NewSHA1(fingerprintNamespace, []byte(strings.Join(parts, "\x00"))).String()
}
