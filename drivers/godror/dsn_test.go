package main

import (
	"testing"

	godsn "github.com/godror/godror/dsn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDSN(t *testing.T) {
	out, err := DSN("ora.internal:1521/ORCLPDB1", map[string]string{
		"user":     "scott",
		"password": "tiger",
	})
	require.NoError(t, err)

	P, err := godsn.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "scott", P.Username)
	assert.Equal(t, "tiger", P.Password.Secret())
	assert.Equal(t, "ora.internal:1521/ORCLPDB1", P.ConnectString)
}
