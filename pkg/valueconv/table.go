package valueconv

import (
	"fmt"
	"time"
)

// Handler converts one raw value of a known native type. Returning an error
// hands the value to the generic accessor.
type Handler func(raw interface{}, col Column) (interface{}, error)

// Converter normalizes raw column values.
type Converter interface {
	Convert(raw interface{}, col Column) interface{}
}

// Table is an immutable dispatch table keyed by normalized native type name.
type Table struct {
	name      string
	handlers  map[string]Handler
	normalize func(string) string
}

// NewTable builds a table. Keys are normalized with NormalizeTypeName.
func NewTable(name string, handlers map[string]Handler) *Table {
	t := &Table{name: name, handlers: make(map[string]Handler, len(handlers)), normalize: NormalizeTypeName}
	for k, h := range handlers {
		if h != nil {
			t.handlers[t.normalize(k)] = h
		}
	}
	return t
}

// Extend returns a copy of t with overrides applied. A nil handler removes
// the inherited entry so the type goes straight to the generic accessor.
func (t *Table) Extend(name string, overrides map[string]Handler) *Table {
	out := &Table{name: name, handlers: make(map[string]Handler, len(t.handlers)+len(overrides)), normalize: t.normalize}
	for k, h := range t.handlers {
		out.handlers[k] = h
	}
	for k, h := range overrides {
		key := out.normalize(k)
		if h == nil {
			delete(out.handlers, key)
			continue
		}
		out.handlers[key] = h
	}
	return out
}

// WithNormalizer returns a copy of t that maps type names through fn before
// lookup. Existing keys are kept as-is.
func (t *Table) WithNormalizer(fn func(string) string) *Table {
	out := t.Extend(t.name, nil)
	out.normalize = fn
	return out
}

// Name identifies the table in logs.
func (t *Table) Name() string {
	return t.name
}

// Handler returns the specialized handler for a native type name.
func (t *Table) Handler(typeName string) (Handler, bool) {
	h, ok := t.handlers[t.normalize(typeName)]
	return h, ok
}

// Convert runs the two-tier dispatch for a single value.
func (t *Table) Convert(raw interface{}, col Column) interface{} {
	if raw == nil {
		return nil
	}
	if h, ok := t.Handler(col.TypeName); ok {
		if v, err := h(raw, col); err == nil {
			return v
		}
	}
	if v := Generic(raw); v != nil {
		return v
	}
	return RawString(raw, col)
}

// ConvertRow converts a scanned row in place and returns it.
func ConvertRow(c Converter, values []interface{}, cols []Column) []interface{} {
	for i := range values {
		values[i] = c.Convert(values[i], cols[i])
	}
	return values
}

// RawString renders a value the generic accessor rejected. Zero temporal
// values are written the way MySQL stores them.
func RawString(raw interface{}, col Column) string {
	switch v := raw.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			switch NormalizeTypeName(col.TypeName) {
			case "DATE":
				return "0000-00-00"
			case "TIME":
				return "00:00:00"
			default:
				return "0000-00-00 00:00:00"
			}
		}
		return v.Format(DateTimeLayout)
	default:
		return fmt.Sprint(v)
	}
}
