package metadata

import (
	"database/sql"
	"strings"

	"github.com/spf13/cast"
)

// record is one catalog row keyed by lower-case column name. Catalog SQL
// returns flags, numbers and text in whatever representation the engine's
// driver prefers; the accessors coerce them.
type record map[string]interface{}

func readRecords(rows *sql.Rows) ([]record, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	for i := range cols {
		cols[i] = strings.ToLower(cols[i])
	}

	var out []record
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		dest := make([]interface{}, len(cols))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rec := make(record, len(cols))
		for i, c := range cols {
			rec[c] = raw[i]
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r record) str(key string) string {
	v := r[key]
	if v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

func (r record) optStr(key string) *string {
	if r[key] == nil {
		return nil
	}
	s := cast.ToString(r[key])
	return &s
}

func (r record) int(key string) int {
	return cast.ToInt(r.str(key))
}

func (r record) optInt(key string) *int64 {
	s := r.str(key)
	if s == "" {
		return nil
	}
	n, err := cast.ToInt64E(s)
	if err != nil {
		return nil
	}
	return &n
}

// flag accepts YES/NO, Y/N, TRUE/FALSE and numeric forms.
func (r record) flag(key string) bool {
	switch strings.ToUpper(r.str(key)) {
	case "YES", "Y", "TRUE", "T", "1":
		return true
	}
	return cast.ToInt(r.str(key)) != 0
}
