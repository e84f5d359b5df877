// Package metadata discovers tables, columns, keys, views, routines and
// triggers. Engine-specific system-catalog SQL is preferred; database/sql
// column reflection covers engines without a catalog.
package metadata

import (
	"regexp"
	"strings"
	"sync"

	"github.com/redbco/redb-driverhub/pkg/dbcapabilities"
	"github.com/redbco/redb-driverhub/pkg/plugin"
)

// DDLQuery fetches native DDL. Column is the zero-based result column that
// carries the text.
type DDLQuery struct {
	SQL    string
	Column int
}

// Catalog is the system-catalog SQL of one engine.
//
// Queries reference request values as {{name}}, which are bound as
// parameters, or [[object]], which is replaced inline by the quoted
// qualified object name. Bound names are catalog, schema, table, name,
// kind (FUNCTION or PROCEDURE) and type (lower-case object kind). Each query
// selects the lower-case column aliases its scanner in records reads. An
// empty query means the engine has no such catalog.
type Catalog struct {
	Name string

	Tables      string
	Columns     string
	Indexes     string
	PrimaryKeys string
	ForeignKeys string
	Views       string
	Routines    string
	Parameters  string
	Triggers    string

	DDL map[plugin.ObjectKind]DDLQuery

	// CatalogIsSchema makes Scope.Catalog stand in for an empty
	// Scope.Schema, for engines where the two are the same thing.
	CatalogIsSchema bool
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[dbcapabilities.DatabaseID]*Catalog{}
)

// Register binds an engine to its catalog. Later registrations win.
func Register(engine dbcapabilities.DatabaseID, c *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[engine] = c
}

// Lookup returns the catalog of engine, or Generic when none is registered.
func Lookup(engine dbcapabilities.DatabaseID) *Catalog {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	if c, ok := catalogs[engine]; ok {
		return c
	}
	return Generic
}

var tokenPattern = regexp.MustCompile(`\{\{(\w+)\}\}|\[\[(\w+)\]\]`)

// bind expands the tokens of query for dialect d.
func bind(query string, d plugin.Dialect, values map[string]string) (string, []interface{}) {
	var args []interface{}
	out := tokenPattern.ReplaceAllStringFunc(query, func(tok string) string {
		m := tokenPattern.FindStringSubmatch(tok)
		if m[2] != "" {
			return values[m[2]]
		}
		args = append(args, values[m[1]])
		return d.Placeholder(len(args))
	})
	return out, args
}

// qualified quotes schema.name with the dialect's identifier quoting.
func qualified(d plugin.Dialect, schema, name string) string {
	if schema == "" {
		return d.QuoteIdentifier(name)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(name)
}

func (c *Catalog) schema(s Scope) string {
	if s.Schema == "" && c.CatalogIsSchema {
		return s.Catalog
	}
	return s.Schema
}

func (c *Catalog) values(s Scope, extra map[string]string) map[string]string {
	v := map[string]string{
		"catalog": s.Catalog,
		"schema":  c.schema(s),
	}
	for k, val := range extra {
		v[k] = val
	}
	return v
}

func routineKind(kind plugin.ObjectKind) string {
	return strings.ToUpper(string(kind))
}
