package main

import (
	"testing"

	"github.com/microsoft/go-mssqldb/msdsn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDSN(t *testing.T) {
	out, err := DSN("sqlserver://sql.internal:1433?database=Sales", map[string]string{
		"user":           "sa",
		"password":       "Pa;ss@1",
		"connectTimeout": "10000",
		"encrypt":        "disable",
	})
	require.NoError(t, err)

	parsed, err := msdsn.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "sql.internal", parsed.Host)
	assert.EqualValues(t, 1433, parsed.Port)
	assert.Equal(t, "Sales", parsed.Database)
	assert.Equal(t, "sa", parsed.User)
	assert.Equal(t, "Pa;ss@1", parsed.Password)
}

func TestFormatDSNWithoutDatabase(t *testing.T) {
	out, err := DSN("sqlserver://sql.internal:1433?database=", map[string]string{"user": "sa"})
	require.NoError(t, err)
	assert.Equal(t, "sqlserver://sa@sql.internal:1433", out)
}
