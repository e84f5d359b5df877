package main

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDSN(t *testing.T) {
	out, err := DSN("sqlserver://sql2008.internal:1433?database=Ledger", map[string]string{
		"user":           "sa",
		"password":       "pw",
		"connectTimeout": "1500",
		"encrypt":        "disable",
	})
	require.NoError(t, err)

	u, err := url.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "sa", u.User.Username())
	assert.Equal(t, "Ledger", u.Query().Get("database"))
	assert.Equal(t, "2", u.Query().Get("dial timeout"))
	assert.Equal(t, "disable", u.Query().Get("encrypt"))
}
