package main

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDSN(t *testing.T) {
	out, err := DSN("tcp(db.internal:3306)/shop", map[string]string{
		"user":           "app",
		"password":       "p@ss:word",
		"connectTimeout": "5000",
		"charset":        "utf8mb4",
		"tls":            "skip-verify",
	})
	require.NoError(t, err)

	parsed, err := mysql.ParseDSN(out)
	require.NoError(t, err)
	assert.Equal(t, "app", parsed.User)
	assert.Equal(t, "p@ss:word", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.internal:3306", parsed.Addr)
	assert.Equal(t, "shop", parsed.DBName)
	assert.Equal(t, 5*time.Second, parsed.Timeout)
	assert.Equal(t, "skip-verify", parsed.TLSConfig)
	assert.False(t, parsed.ParseTime)
}

func TestFormatDSNRejectsMalformedAddress(t *testing.T) {
	_, err := DSN("tcp(db:3306", nil)
	assert.Error(t, err)
}
