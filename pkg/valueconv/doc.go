// Package valueconv normalizes raw driver values into the output types the
// driver hub returns: int64/uint64, float64, decimal strings, formatted
// temporal strings, text, hex-encoded binary, and structured JSON values.
//
// Conversion is table driven. A Table maps an engine's native type name (as
// reported by sql.ColumnType.DatabaseTypeName) to a Handler. Reference returns
// the table for the MySQL type system; other engines derive from it with
// Extend and only supply handlers where their types diverge.
//
// Dispatch is two-tier:
//
//  1. the handler registered for the normalized type name, if any;
//  2. the generic accessor (Generic), used when no handler matches or the
//     handler fails.
//
// When the generic accessor yields nil for a non-nil raw value (zero dates
// are the common case) the raw string representation is returned instead of
// an error.
package valueconv
