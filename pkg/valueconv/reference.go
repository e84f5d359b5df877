package valueconv

// Reference returns the dispatch table for the MySQL type system, the base
// every other engine extends.
func Reference() *Table {
	return NewTable("mysql", map[string]Handler{
		// integer
		"TINYINT":   Integer,
		"SMALLINT":  Integer,
		"MEDIUMINT": Integer,
		"INT":       Integer,
		"INTEGER":   Integer,
		"BIGINT":    Integer,
		"YEAR":      Integer,

		// floating-point / decimal
		"FLOAT":   Float,
		"DOUBLE":  Float,
		"REAL":    Float,
		"DECIMAL": Decimal,
		"NUMERIC": Decimal,

		// temporal
		"DATE":      Date,
		"DATETIME":  DateTime,
		"TIMESTAMP": DateTime,
		"TIME":      Time,

		// character / long-text
		"CHAR":       Text,
		"VARCHAR":    Text,
		"TINYTEXT":   Text,
		"TEXT":       Text,
		"MEDIUMTEXT": LongText,
		"LONGTEXT":   LongText,

		// binary / large-binary
		"BINARY":     Binary,
		"VARBINARY":  Binary,
		"TINYBLOB":   Binary,
		"BLOB":       LargeBinary,
		"MEDIUMBLOB": LargeBinary,
		"LONGBLOB":   LargeBinary,
		"GEOMETRY":   LargeBinary,

		// special
		"JSON":    JSON,
		"ENUM":    Enum,
		"SET":     Set,
		"BIT":     Bit,
		"BOOL":    Boolean,
		"BOOLEAN": Boolean,
	})
}
