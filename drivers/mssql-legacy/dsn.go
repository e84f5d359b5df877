package main

import "github.com/redbco/redb-driverhub/drivers/internal/dsn"

// formatDSN builds the same URL as the current driver without validating
// it; this driver accepts old parameter spellings msdsn rejects.
func formatDSN(address string, props map[string]string) (string, error) {
	u, err := dsn.URL(address, props, "dial timeout", dsn.Seconds)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
