package main

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDSN(t *testing.T) {
	out, err := DSN("postgres://pg.internal:5432/app", map[string]string{
		"user":             "svc",
		"password":         "s3cret/with@chars",
		"connectTimeout":   "2500",
		"sslmode":          "disable",
		"application_name": "driverhub",
	})
	require.NoError(t, err)

	cfg, err := pgconn.ParseConfig(out)
	require.NoError(t, err)
	assert.Equal(t, "pg.internal", cfg.Host)
	assert.EqualValues(t, 5432, cfg.Port)
	assert.Equal(t, "app", cfg.Database)
	assert.Equal(t, "svc", cfg.User)
	assert.Equal(t, "s3cret/with@chars", cfg.Password)
	assert.Equal(t, "driverhub", cfg.RuntimeParams["application_name"])
	assert.Nil(t, cfg.TLSConfig)
	assert.Contains(t, out, "connect_timeout=3")
}

func TestFormatDSNRejectsBadProperty(t *testing.T) {
	_, err := DSN("postgres://pg.internal:5432/app", map[string]string{"sslmode": "sometimes"})
	assert.Error(t, err)
}
