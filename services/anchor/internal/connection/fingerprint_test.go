package connection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
)

func TestFingerprint(t *testing.T) {
	base := connbuilder.Config{
		Host:       "localhost",
		Port:       5432,
		Database:   "t",
		Username:   "u",
		Password:   "secret",
		DriverPath: "/drv/demo.lib",
	}
	id := Fingerprint("demo", base, 5432, "1.0.0")
	assert.Len(t, id, 36)
	assert.Equal(t, id, Fingerprint("demo", base, 5432, "1.0.0"), "deterministic")

	same := map[string]func(c *connbuilder.Config){
		"loopback address": func(c *connbuilder.Config) { c.Host = "127.0.0.1" },
		"host case":        func(c *connbuilder.Config) { c.Host = "LocalHost" },
		"default port":     func(c *connbuilder.Config) { c.Port = 0 },
		"password":         func(c *connbuilder.Config) { c.Password = "other" },
		"properties":       func(c *connbuilder.Config) { c.Properties = map[string]string{"ssl": "true"} },
		"timeout":          func(c *connbuilder.Config) { c.TimeoutSeconds = 5 },
		"unclean path":     func(c *connbuilder.Config) { c.DriverPath = "/drv/./x/../demo.lib" },
	}
	for name, mutate := range same {
		t.Run("same/"+name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			assert.Equal(t, id, Fingerprint("demo", cfg, 5432, "1.0.0"))
		})
	}

	different := map[string]func(c *connbuilder.Config){
		"host":     func(c *connbuilder.Config) { c.Host = "db.internal" },
		"port":     func(c *connbuilder.Config) { c.Port = 5433 },
		"database": func(c *connbuilder.Config) { c.Database = "T" },
		"username": func(c *connbuilder.Config) { c.Username = "v" },
		"driver":   func(c *connbuilder.Config) { c.DriverPath = "/drv/demo-2.lib" },
	}
	for name, mutate := range different {
		t.Run("different/"+name, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			assert.NotEqual(t, id, Fingerprint("demo", cfg, 5432, "1.0.0"))
		})
	}

	assert.NotEqual(t, id, Fingerprint("mysql", base, 5432, "1.0.0"), "engine")

	noPath := base
	noPath.DriverPath = ""
	assert.NotEqual(t,
		Fingerprint("demo", noPath, 5432, "1.0.0"),
		Fingerprint("demo", noPath, 5432, "2.0.0"),
		"plugin version stands in for a missing driver path")
}
