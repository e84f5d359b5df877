package main

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDSN(t *testing.T) {
	out, err := DSN("hdb://hana.internal:39017?databaseName=HXE", map[string]string{
		"user":           "SYSTEM",
		"password":       "Manager1",
		"connectTimeout": "15000",
		"defaultSchema":  "SALES",
	})
	require.NoError(t, err)

	u, err := url.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "hdb", u.Scheme)
	assert.Equal(t, "hana.internal:39017", u.Host)
	assert.Equal(t, "SYSTEM", u.User.Username())
	assert.Equal(t, "HXE", u.Query().Get("databaseName"))
	assert.Equal(t, "SALES", u.Query().Get("defaultSchema"))
	assert.Equal(t, "15", u.Query().Get("timeout"))
}

func TestFormatDSNDropsEmptyDatabase(t *testing.T) {
	out, err := DSN("hdb://hana.internal:39017?databaseName=", nil)
	require.NoError(t, err)
	assert.Equal(t, "hdb://hana.internal:39017", out)
}
