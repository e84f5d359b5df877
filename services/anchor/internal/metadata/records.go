package metadata

import "github.com/redbco/redb-driverhub/pkg/plugin"

// Scope narrows a metadata request. Empty fields mean the session's current
// catalog or schema.
type Scope struct {
	Catalog string `json:"catalog,omitempty"`
	Schema  string `json:"schema,omitempty"`
}

// Table is a table or view listed by Tables.
type Table struct {
	Catalog string `json:"catalog,omitempty"`
	Schema  string `json:"schema,omitempty"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Comment string `json:"comment,omitempty"`
}

// Column describes one table column.
type Column struct {
	Catalog       string  `json:"catalog,omitempty"`
	Schema        string  `json:"schema,omitempty"`
	Table         string  `json:"table"`
	Name          string  `json:"name"`
	DataType      string  `json:"dataType"`
	ColumnType    string  `json:"columnType"`
	Nullable      bool    `json:"nullable"`
	Ordinal       int     `json:"ordinal"`
	Default       *string `json:"default,omitempty"`
	Length        *int64  `json:"length,omitempty"`
	Precision     *int64  `json:"precision,omitempty"`
	Scale         *int64  `json:"scale,omitempty"`
	Unsigned      bool    `json:"unsigned,omitempty"`
	AutoIncrement bool    `json:"autoIncrement,omitempty"`
	PrimaryKey    bool    `json:"primaryKey,omitempty"`
	Comment       string  `json:"comment,omitempty"`
}

// IndexColumn is one key part of an index.
type IndexColumn struct {
	Name       string `json:"name"`
	Ordinal    int    `json:"ordinal"`
	Descending bool   `json:"descending,omitempty"`
}

// Index describes a table index.
type Index struct {
	Schema  string        `json:"schema,omitempty"`
	Table   string        `json:"table"`
	Name    string        `json:"name"`
	Unique  bool          `json:"unique"`
	Primary bool          `json:"primary"`
	Type    string        `json:"type,omitempty"`
	Columns []IndexColumn `json:"columns"`
}

// PrimaryKey lists the key columns in key order.
type PrimaryKey struct {
	Schema  string   `json:"schema,omitempty"`
	Table   string   `json:"table"`
	Name    string   `json:"name,omitempty"`
	Columns []string `json:"columns"`
}

// ForeignKey maps Columns onto RefColumns of RefTable, position by position.
type ForeignKey struct {
	Schema     string   `json:"schema,omitempty"`
	Table      string   `json:"table"`
	Name       string   `json:"name,omitempty"`
	Columns    []string `json:"columns"`
	RefSchema  string   `json:"refSchema,omitempty"`
	RefTable   string   `json:"refTable"`
	RefColumns []string `json:"refColumns"`
	OnUpdate   string   `json:"onUpdate,omitempty"`
	OnDelete   string   `json:"onDelete,omitempty"`
}

// View describes a view and its defining query.
type View struct {
	Schema     string `json:"schema,omitempty"`
	Name       string `json:"name"`
	Definition string `json:"definition,omitempty"`
}

// Parameter is a routine parameter. Mode is IN, OUT or INOUT; return values
// are not listed.
type Parameter struct {
	Name     string `json:"name"`
	Mode     string `json:"mode,omitempty"`
	DataType string `json:"dataType"`
	Ordinal  int    `json:"ordinal"`
}

// Routine is a function or a procedure.
type Routine struct {
	Schema     string            `json:"schema,omitempty"`
	Name       string            `json:"name"`
	Kind       plugin.ObjectKind `json:"kind"`
	ReturnType string            `json:"returnType,omitempty"`
	Language   string            `json:"language,omitempty"`
	Parameters []Parameter       `json:"parameters"`
	Definition string            `json:"definition,omitempty"`
}

// Trigger describes a table trigger.
type Trigger struct {
	Schema    string   `json:"schema,omitempty"`
	Name      string   `json:"name"`
	Table     string   `json:"table"`
	Timing    string   `json:"timing"`
	Events    []string `json:"events"`
	Statement string   `json:"statement,omitempty"`
}
