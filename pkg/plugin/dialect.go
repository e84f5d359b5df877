package plugin

import (
	"fmt"
	"strconv"
	"strings"
)

// ObjectKind names the kinds of schema objects metadata and drop operations
// act on.
type ObjectKind string

const (
	KindTable     ObjectKind = "table"
	KindView      ObjectKind = "view"
	KindFunction  ObjectKind = "function"
	KindProcedure ObjectKind = "procedure"
	KindTrigger   ObjectKind = "trigger"
	KindIndex     ObjectKind = "index"
)

// ParseKind accepts singular or plural kind names.
func ParseKind(s string) (ObjectKind, bool) {
	k := ObjectKind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	switch k {
	case KindTable, KindView, KindFunction, KindProcedure, KindTrigger, KindIndex:
		return k, true
	case "indexe":
		return KindIndex, true
	}
	return "", false
}

// ObjectRef locates a schema object. Table is the owning table for indexes
// and triggers.
type ObjectRef struct {
	Catalog string `json:"catalog,omitempty"`
	Schema  string `json:"schema,omitempty"`
	Name    string `json:"name"`
	Table   string `json:"table,omitempty"`
}

// Dialect captures the SQL an engine needs the core to generate.
type Dialect interface {
	QuoteIdentifier(name string) string
	// Placeholder returns the bind marker for the n-th (1-based) parameter.
	Placeholder(n int) string
	VersionQuery() string
	// UseStatement switches the session to database/schema. It returns ""
	// when nothing needs to be issued.
	UseStatement(database, schema string) string
	DropStatement(kind ObjectKind, ref ObjectRef) (string, error)
}

// PlaceholderStyle enumerates bind marker syntaxes.
type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota // ?
	PlaceholderDollar                           // $1
	PlaceholderAtP                              // @p1
	PlaceholderColon                            // :1
)

// SQLDialect is a data-driven Dialect covering the engines shipped here.
type SQLDialect struct {
	OpenQuote    string
	CloseQuote   string
	Placeholders PlaceholderStyle
	VersionSQL   string

	// UseDatabase and UseSchema are printf formats receiving the quoted name.
	UseDatabase string
	UseSchema   string

	// DropTriggerOnTable emits "DROP TRIGGER t ON table" (PostgreSQL).
	DropTriggerOnTable bool
	// DropIndexOnTable emits "DROP INDEX i ON table" (MySQL, SQL Server).
	DropIndexOnTable bool
	// Unsupported lists kinds the engine cannot drop.
	Unsupported []ObjectKind
}

func (d SQLDialect) QuoteIdentifier(name string) string {
	if d.CloseQuote == "" {
		return name
	}
	return d.OpenQuote + strings.ReplaceAll(name, d.CloseQuote, d.CloseQuote+d.CloseQuote) + d.CloseQuote
}

// Qualified quotes schema and name and joins them with a dot; an empty
// schema yields just the quoted name.
func (d SQLDialect) Qualified(schema, name string) string {
	if schema == "" {
		return d.QuoteIdentifier(name)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(name)
}

func (d SQLDialect) Placeholder(n int) string {
	switch d.Placeholders {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(n)
	case PlaceholderAtP:
		return "@p" + strconv.Itoa(n)
	case PlaceholderColon:
		return ":" + strconv.Itoa(n)
	default:
		return "?"
	}
}

func (d SQLDialect) VersionQuery() string {
	return d.VersionSQL
}

func (d SQLDialect) UseStatement(database, schema string) string {
	if schema != "" && d.UseSchema != "" {
		return fmt.Sprintf(d.UseSchema, d.QuoteIdentifier(schema))
	}
	if database != "" && d.UseDatabase != "" {
		return fmt.Sprintf(d.UseDatabase, d.QuoteIdentifier(database))
	}
	return ""
}

func (d SQLDialect) DropStatement(kind ObjectKind, ref ObjectRef) (string, error) {
	if ref.Name == "" {
		return "", NewConfigurationError("", "name", "object name is required")
	}
	for _, k := range d.Unsupported {
		if k == kind {
			return "", &UnsupportedOperationError{Operation: "drop " + string(kind)}
		}
	}

	switch kind {
	case KindTable, KindView, KindFunction, KindProcedure:
		return fmt.Sprintf("DROP %s %s", strings.ToUpper(string(kind)), d.Qualified(ref.Schema, ref.Name)), nil
	case KindTrigger:
		if d.DropTriggerOnTable {
			if ref.Table == "" {
				return "", NewConfigurationError("", "table", "dropping a trigger requires its table")
			}
			return fmt.Sprintf("DROP TRIGGER %s ON %s", d.QuoteIdentifier(ref.Name), d.Qualified(ref.Schema, ref.Table)), nil
		}
		return "DROP TRIGGER " + d.Qualified(ref.Schema, ref.Name), nil
	case KindIndex:
		if d.DropIndexOnTable {
			if ref.Table == "" {
				return "", NewConfigurationError("", "table", "dropping an index requires its table")
			}
			return fmt.Sprintf("DROP INDEX %s ON %s", d.QuoteIdentifier(ref.Name), d.Qualified(ref.Schema, ref.Table)), nil
		}
		return "DROP INDEX " + d.Qualified(ref.Schema, ref.Name), nil
	}
	return "", NewConfigurationError("", "kind", "unknown object kind "+string(kind))
}
