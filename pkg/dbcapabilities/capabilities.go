// Package dbcapabilities is the static manifest of relational engines the
// driver hub knows how to address: canonical ids, aliases, default ports and
// the printf-style address templates consumed by the connection builder.
package dbcapabilities

import (
	"sort"
	"strings"
	"sync"
)

// DatabaseID is the canonical identifier for a database engine.
type DatabaseID string

const (
	PostgreSQL  DatabaseID = "postgres"
	MySQL       DatabaseID = "mysql"
	MariaDB     DatabaseID = "mariadb"
	TiDB        DatabaseID = "tidb"
	SQLServer   DatabaseID = "mssql"
	Oracle      DatabaseID = "oracle"
	ClickHouse  DatabaseID = "clickhouse"
	DB2         DatabaseID = "db2"
	CockroachDB DatabaseID = "cockroach"
	SQLite      DatabaseID = "sqlite"
	Snowflake   DatabaseID = "snowflake"
	Databricks  DatabaseID = "databricks"
	HANA        DatabaseID = "hana"
	Redshift    DatabaseID = "redshift"
	TimescaleDB DatabaseID = "timescaledb"
	Synapse     DatabaseID = "synapse"
)

// DataParadigm enumerates the primary data storage paradigms a database supports.
type DataParadigm string

const (
	ParadigmRelational DataParadigm = "relational" // Tables, schemas, SQL
	ParadigmColumnar   DataParadigm = "columnar"   // Columnar analytics
)

// Capability describes how an engine is addressed.
//
// AddressTemplate is a printf format receiving host (string), port (int) and
// database (string) in that order. Templates that ignore an argument use
// explicit argument indexes, e.g. "file:%[3]s".
type Capability struct {
	// Human-friendly vendor or product name, e.g., "PostgreSQL".
	Name string `json:"name"`

	// Canonical ID used across the codebase (see DatabaseID constants).
	ID DatabaseID `json:"id"`

	DefaultPort     int    `json:"defaultPort"`
	AddressTemplate string `json:"addressTemplate"`

	// RequiresHost is false for embedded engines addressed by file path.
	RequiresHost bool `json:"requiresHost"`

	// Whether the database exposes a built-in/system database and its typical names.
	HasSystemDatabase bool     `json:"hasSystemDatabase"`
	SystemDatabases   []string `json:"systemDatabases,omitempty"`

	// Primary data storage paradigms supported.
	Paradigms []DataParadigm `json:"paradigms"`

	// Common aliases (directory names, drivers, env labels) that map to this database.
	Aliases []string `json:"aliases,omitempty"`
}

// All is a registry of capabilities keyed by the canonical database ID.
// Use Register to add engines at runtime; direct writes are not synchronized.
var All = map[DatabaseID]Capability{
	PostgreSQL: {
		Name:              "PostgreSQL",
		ID:                PostgreSQL,
		DefaultPort:       5432,
		AddressTemplate:   "postgres://%s:%d/%s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"postgres"},
		Paradigms:         []DataParadigm{ParadigmRelational},
		Aliases:           []string{"postgresql", "pgsql", "pg"},
	},
	MySQL: {
		Name:              "MySQL",
		ID:                MySQL,
		DefaultPort:       3306,
		AddressTemplate:   "tcp(%s:%d)/%s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"mysql", "information_schema", "performance_schema", "sys"},
		Paradigms:         []DataParadigm{ParadigmRelational},
		Aliases:           []string{"aurora-mysql"},
	},
	MariaDB: {
		Name:              "MariaDB",
		ID:                MariaDB,
		DefaultPort:       3306,
		AddressTemplate:   "tcp(%s:%d)/%s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"mysql", "information_schema", "performance_schema"},
		Paradigms:         []DataParadigm{ParadigmRelational},
	},
	TiDB: {
		Name:              "TiDB",
		ID:                TiDB,
		DefaultPort:       4000,
		AddressTemplate:   "tcp(%s:%d)/%s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"mysql", "information_schema", "performance_schema", "metrics_schema"},
		Paradigms:         []DataParadigm{ParadigmRelational},
	},
	SQLServer: {
		Name:              "Microsoft SQL Server",
		ID:                SQLServer,
		DefaultPort:       1433,
		AddressTemplate:   "sqlserver://%s:%d?database=%s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"master", "model", "msdb", "tempdb"},
		Paradigms:         []DataParadigm{ParadigmRelational},
		Aliases:           []string{"sqlserver", "azure-sql"},
	},
	Oracle: {
		Name:              "Oracle Database",
		ID:                Oracle,
		DefaultPort:       1521,
		AddressTemplate:   "%s:%d/%s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"CDB$ROOT"},
		Paradigms:         []DataParadigm{ParadigmRelational},
	},
	ClickHouse: {
		Name:              "ClickHouse",
		ID:                ClickHouse,
		DefaultPort:       9000,
		AddressTemplate:   "clickhouse://%s:%d/%s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"system", "default"},
		Paradigms:         []DataParadigm{ParadigmColumnar},
		Aliases:           []string{"ch"},
	},
	DB2: {
		Name:              "IBM Db2",
		ID:                DB2,
		DefaultPort:       50000,
		AddressTemplate:   "HOSTNAME=%s;PORT=%d;DATABASE=%s",
		RequiresHost:      true,
		HasSystemDatabase: false,
		Paradigms:         []DataParadigm{ParadigmRelational},
		Aliases:           []string{"ibmdb2"},
	},
	Redshift: {
		Name:              "Amazon Redshift",
		ID:                Redshift,
		DefaultPort:       5439,
		AddressTemplate:   "postgres://%s:%d/%s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"padb_harvest"},
		Paradigms:         []DataParadigm{ParadigmRelational},
		Aliases:           []string{"aws-redshift"},
	},
	TimescaleDB: {
		Name:              "TimescaleDB",
		ID:                TimescaleDB,
		DefaultPort:       5432,
		AddressTemplate:   "postgres://%s:%d/%s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"postgres"},
		Paradigms:         []DataParadigm{ParadigmRelational},
		Aliases:           []string{"timescale"},
	},
	Synapse: {
		Name:              "Azure Synapse Analytics",
		ID:                Synapse,
		DefaultPort:       1433,
		AddressTemplate:   "sqlserver://%s:%d?database=%s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"master"},
		Paradigms:         []DataParadigm{ParadigmRelational},
		Aliases:           []string{"azure-synapse"},
	},
	CockroachDB: {
		Name:              "CockroachDB",
		ID:                CockroachDB,
		DefaultPort:       26257,
		AddressTemplate:   "postgres://%s:%d/%s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"system", "defaultdb"},
		Paradigms:         []DataParadigm{ParadigmRelational},
		Aliases:           []string{"cockroachdb", "crdb"},
	},
	SQLite: {
		Name:            "SQLite",
		ID:              SQLite,
		AddressTemplate: "file:%[3]s",
		RequiresHost:    false,
		Paradigms:       []DataParadigm{ParadigmRelational},
		Aliases:         []string{"sqlite3"},
	},
	Snowflake: {
		Name:              "Snowflake",
		ID:                Snowflake,
		DefaultPort:       443,
		AddressTemplate:   "%[1]s:%[2]d/%[3]s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"SNOWFLAKE"},
		Paradigms:         []DataParadigm{ParadigmColumnar},
	},
	Databricks: {
		Name:            "Databricks SQL",
		ID:              Databricks,
		DefaultPort:     443,
		AddressTemplate: "%s:%d/%s",
		RequiresHost:    true,
		Paradigms:       []DataParadigm{ParadigmColumnar},
	},
	HANA: {
		Name:              "SAP HANA",
		ID:                HANA,
		DefaultPort:       39017,
		AddressTemplate:   "hdb://%s:%d?databaseName=%s",
		RequiresHost:      true,
		HasSystemDatabase: true,
		SystemDatabases:   []string{"SYSTEMDB"},
		Paradigms:         []DataParadigm{ParadigmRelational, ParadigmColumnar},
		Aliases:           []string{"saphana", "hdb"},
	},
}

var (
	mu sync.RWMutex
	// nameToID is a normalized lookup index from any known name/alias to the canonical DatabaseID.
	nameToID map[string]DatabaseID
)

func init() {
	nameToID = make(map[string]DatabaseID, len(All)*2)
	for id, c := range All {
		index(id, c)
	}
}

func index(id DatabaseID, c Capability) {
	nameToID[strings.ToLower(string(id))] = id
	if c.Name != "" {
		nameToID[strings.ToLower(c.Name)] = id
	}
	for _, a := range c.Aliases {
		if a == "" {
			continue
		}
		nameToID[strings.ToLower(a)] = id
	}
}

// Register adds or replaces an engine entry.
func Register(c Capability) {
	mu.Lock()
	defer mu.Unlock()
	All[c.ID] = c
	index(c.ID, c)
}

// ParseID attempts to resolve an arbitrary database name (canonical id, alias, or product name)
// to a canonical DatabaseID. Returns false if unknown.
func ParseID(name string) (DatabaseID, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", false
	}
	mu.RLock()
	defer mu.RUnlock()
	id, ok := nameToID[n]
	return id, ok
}

// GetByName returns the Capability by looking up using a free-form name (id or alias).
func GetByName(name string) (Capability, bool) {
	if id, ok := ParseID(name); ok {
		return Get(id)
	}
	return Capability{}, false
}

// IDs returns all known database IDs in lexical order.
func IDs() []DatabaseID {
	mu.RLock()
	out := make([]DatabaseID, 0, len(All))
	for id := range All {
		out = append(out, id)
	}
	mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Get returns capabilities for the given ID and a boolean indicating existence.
func Get(id DatabaseID) (Capability, bool) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := All[id]
	return c, ok
}

// MustGet returns capabilities for the given ID and panics if not found.
func MustGet(id DatabaseID) Capability {
	c, ok := Get(id)
	if !ok {
		panic("dbcapabilities: unknown database id: " + string(id))
	}
	return c
}

// SupportsParadigm reports whether the database supports a given data paradigm.
func SupportsParadigm(id DatabaseID, p DataParadigm) bool {
	c, ok := Get(id)
	if !ok {
		return false
	}
	for _, dp := range c.Paradigms {
		if dp == p {
			return true
		}
	}
	return false
}

// IsSystemDatabase reports whether name is one of the engine's built-in databases.
func IsSystemDatabase(id DatabaseID, name string) bool {
	c, ok := Get(id)
	if !ok {
		return false
	}
	for _, sys := range c.SystemDatabases {
		if strings.EqualFold(sys, name) {
			return true
		}
	}
	return false
}
