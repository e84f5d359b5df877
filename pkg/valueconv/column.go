package valueconv

import (
	"database/sql"
	"regexp"
	"strings"
)

// Column describes a result column as reported by the driver.
type Column struct {
	Name     string
	TypeName string

	Length    int64
	HasLength bool

	Precision  int64
	Scale      int64
	HasDecimal bool
}

// ColumnsFromTypes captures the parts of sql.ColumnType the handlers use.
func ColumnsFromTypes(types []*sql.ColumnType) []Column {
	cols := make([]Column, len(types))
	for i, ct := range types {
		cols[i] = Column{Name: ct.Name(), TypeName: ct.DatabaseTypeName()}
		cols[i].Length, cols[i].HasLength = ct.Length()
		cols[i].Precision, cols[i].Scale, cols[i].HasDecimal = ct.DecimalSize()
	}
	return cols
}

var parenthesized = regexp.MustCompile(`\([^)]*\)`)

// NormalizeTypeName upper-cases a native type name, drops length/precision
// arguments and sign/zerofill modifiers: "int(10) unsigned" becomes "INT",
// "TIMESTAMP(6) WITH TIME ZONE" becomes "TIMESTAMP WITH TIME ZONE".
func NormalizeTypeName(name string) string {
	n := parenthesized.ReplaceAllString(strings.ToUpper(name), "")
	fields := strings.Fields(n)
	out := fields[:0]
	for _, f := range fields {
		switch f {
		case "UNSIGNED", "SIGNED", "ZEROFILL":
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
