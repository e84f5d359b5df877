package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
)

func build(t *testing.T, cfg connbuilder.Config) (string, connbuilder.Properties) {
	t.Helper()
	tmpl := dbcapabilities.MustGet(dbcapabilities.SQLite).AddressTemplate
	return connbuilder.BuildAddress(cfg, tmpl, 0), connbuilder.BuildProperties(cfg)
}

func TestDSNOpensWithPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	address, props := build(t, connbuilder.Config{Database: path, TimeoutSeconds: 2})

	dsn, err := DSN(address, props)
	require.NoError(t, err)

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	var fk, busy int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busy))
	assert.Equal(t, 1, fk)
	assert.Equal(t, 2000, busy)
	assert.FileExists(t, path)
}

func TestCgoDSN(t *testing.T) {
	address, props := build(t, connbuilder.Config{Database: "/var/lib/app.db", TimeoutSeconds: 1, Properties: map[string]string{"mode": "ro"}})

	dsn, err := CgoDSN(address, props)
	require.NoError(t, err)
	assert.Equal(t, "file:/var/lib/app.db?_busy_timeout=1000&_foreign_keys=on&mode=ro", dsn)
}

func TestDSNRequiresPath(t *testing.T) {
	_, err := DSN("file:", connbuilder.Properties{})
	assert.ErrorIs(t, err, plugin.ErrInvalidConfiguration)
}

func TestSelection(t *testing.T) {
	candidates := plugin.Resolve("sqlite3")
	require.Len(t, candidates, 2)

	p, ok := plugin.SelectBand(candidates, "3.46.1")
	require.True(t, ok)
	assert.Equal(t, "sqlite", p.Descriptor().ID)

	_, ok = plugin.SelectBand(candidates, "3.8.0")
	assert.False(t, ok)
}

func TestDropRoutineUnsupported(t *testing.T) {
	_, err := Dialect.DropStatement(plugin.KindFunction, plugin.ObjectRef{Name: "f"})
	assert.ErrorIs(t, err, plugin.ErrOperationNotSupported)
}
