package plugin

import (
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

var versionPattern = regexp.MustCompile(`\d+(?:\.\d+){0,2}`)

// CanonicalVersion extracts the first dotted number from a server version
// banner and returns it in semver form: "8.0.35-0ubuntu0.22.04.1" becomes
// "v8.0.35", "PostgreSQL 15.4 on x86_64" becomes "v15.4.0".
func CanonicalVersion(raw string) (string, bool) {
	m := versionPattern.FindString(raw)
	if m == "" {
		return "", false
	}
	parts := strings.Split(m, ".")
	for i, p := range parts {
		parts[i] = strings.TrimLeft(p, "0")
		if parts[i] == "" {
			parts[i] = "0"
		}
	}
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	v := "v" + strings.Join(parts, ".")
	if !semver.IsValid(v) {
		return "", false
	}
	return v, true
}

func compareVersions(a, b string) int {
	return semver.Compare(a, b)
}
