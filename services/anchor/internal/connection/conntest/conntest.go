// Package conntest wires a connection registry to an in-process SQLite
// engine registered as "demo", so registry, execution and metadata tests run
// without building driver plugins.
package conntest

import (
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"modernc.org/sqlite"

	"github.com/redbco/redb-driverhub/pkg/connbuilder"
	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/driverloader"
	"github.com/redbco/redb-driverhub/pkg/logger"
	"github.com/redbco/redb-driverhub/pkg/plugin"
	"github.com/redbco/redb-driverhub/pkg/valueconv"
	"github.com/redbco/redb-driverhub/services/anchor/internal/connection"
)

// Engine is the engine code the fixture registers.
const Engine dbcapabilities.DatabaseID = "demo"

// PluginID is the id of the fixture plugin.
const PluginID = "demo-sql"

// Capability describes the demo engine.
var Capability = dbcapabilities.Capability{
	Name:            "Demo SQL",
	ID:              Engine,
	DefaultPort:     5432,
	AddressTemplate: "demo://%s:%d/%s",
	RequiresHost:    true,
	Paradigms:       []dbcapabilities.DataParadigm{dbcapabilities.ParadigmRelational},
}

// CountingDriver wraps the SQLite driver and counts physical opens.
type CountingDriver struct {
	driver.Driver
	opens atomic.Int64
}

// Open implements driver.Driver.
func (d *CountingDriver) Open(name string) (driver.Conn, error) {
	d.opens.Add(1)
	return d.Driver.Open(name)
}

// Opens returns the number of physical connections established.
func (d *CountingDriver) Opens() int64 { return d.opens.Load() }

// Opener serves every library path with the same driver. When DSN is set
// the libraries also export it as their DSN formatter.
type Opener struct {
	Driver driver.Driver
	DSN    driverloader.DSNFunc
	opens  atomic.Int64
}

// Open implements driverloader.Opener.
func (o *Opener) Open(string) (driverloader.Symbols, error) {
	o.opens.Add(1)
	return symbols{drv: o.Driver, dsn: o.DSN}, nil
}

// Opens returns how many libraries were opened.
func (o *Opener) Opens() int64 { return o.opens.Load() }

type symbols struct {
	drv driver.Driver
	dsn driverloader.DSNFunc
}

func (s symbols) Lookup(name string) (interface{}, error) {
	switch {
	case name == plugin.DefaultDriverSymbol:
		return s.drv, nil
	case name == plugin.DefaultDSNSymbol && s.dsn != nil:
		return &s.dsn, nil
	}
	return nil, fmt.Errorf("symbol %s not found", name)
}

// Descriptor returns the demo descriptor.
func Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		ID:           PluginID,
		Name:         "Demo SQL",
		Version:      "1.0.0",
		Engine:       Engine,
		Capabilities: plugin.FeatureAll,
		MinVersion:   "3.0",
		Artifact: plugin.Artifact{
			Group:    "org.demo",
			Artifact: "demo-driver",
			Version:  plugin.Ver("1.0.0"),
		},
	}
}

// Plugin returns a demo plugin with desc whose databases are SQLite files
// under dir.
func Plugin(dir string, desc plugin.Descriptor) *plugin.Definition {
	return &plugin.Definition{
		Desc: desc,
		SQL: plugin.SQLDialect{
			OpenQuote:    `"`,
			CloseQuote:   `"`,
			Placeholders: plugin.PlaceholderQuestion,
			VersionSQL:   "SELECT sqlite_version()",
		},
		Values: valueconv.Reference().Extend("demo", nil),
		BuildDSN: func(address string, props connbuilder.Properties) (string, error) {
			name := address[strings.LastIndex(address, "/")+1:]
			if name == "" {
				name = "main"
			}
			return "file:" + filepath.Join(dir, name+".db"), nil
		},
	}
}

// Fixture is a registry backed by the demo engine.
type Fixture struct {
	Dir        string
	DriverPath string
	Driver     *CountingDriver
	Opener     *Opener
	Plugins    *plugin.Registry
	Loader     *driverloader.Loader
	Registry   *connection.Registry
}

// New builds a fixture and closes every connection on cleanup.
func New(t testing.TB, opts ...connection.Option) *Fixture {
	t.Helper()
	dbcapabilities.Register(Capability)

	dir := t.TempDir()
	driverPath := filepath.Join(dir, "demo.lib")
	require.NoError(t, os.WriteFile(driverPath, []byte("demo driver library"), 0o600))

	drv := &CountingDriver{Driver: &sqlite.Driver{}}
	opener := &Opener{Driver: drv}
	plugins := plugin.NewRegistry()
	require.NoError(t, plugins.Register(Plugin(dir, Descriptor())))
	loader := driverloader.New(opener, logger.Nop())

	f := &Fixture{
		Dir:        dir,
		DriverPath: driverPath,
		Driver:     drv,
		Opener:     opener,
		Plugins:    plugins,
		Loader:     loader,
		Registry:   connection.NewRegistry(plugins, loader, opts...),
	}
	t.Cleanup(func() { _ = f.Registry.CloseAll() })
	return f
}

// Request returns a connect request for database.
func (f *Fixture) Request(database string) connection.Request {
	return connection.Request{
		Engine: string(Engine),
		Owner:  "tester",
		Config: connbuilder.Config{
			Host:       "localhost",
			Port:       5432,
			Database:   database,
			Username:   "u",
			DriverPath: f.DriverPath,
		},
	}
}

// Open opens database and fails the test on error.
func (f *Fixture) Open(t testing.TB, database string) *connection.Handle {
	t.Helper()
	h, err := f.Registry.Open(t.Context(), f.Request(database))
	require.NoError(t, err)
	return h
}

// Exec runs setup statements on h outside any transaction.
func Exec(t testing.TB, h *connection.Handle, statements ...string) {
	t.Helper()
	for _, stmt := range statements {
		_, err := h.ExecContext(t.Context(), stmt)
		require.NoError(t, err, stmt)
	}
}
