package valueconv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var (
	errZeroTemporal = errors.New("zero temporal value")
	errUnsupported  = errors.New("unsupported raw representation")
)

// LargeBinaryPreview is the largest large-binary value rendered in full.
const LargeBinaryPreview = 64 << 10

func text(raw interface{}) (string, bool) {
	switch v := raw.(type) {
	case []byte:
		return string(v), true
	case string:
		return v, true
	}
	return "", false
}

// Integer handles signed and unsigned integer types of any width up to 64 bits.
func Integer(raw interface{}, _ Column) (interface{}, error) {
	if s, ok := text(raw); ok {
		return parseInteger(s)
	}
	switch v := raw.(type) {
	case uint64:
		return unsigned(v), nil
	case uint:
		return unsigned(uint64(v)), nil
	case float32, float64:
		return nil, errUnsupported
	}
	return cast.ToInt64E(raw)
}

func parseInteger(s string) (interface{}, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// HugeInteger handles integers wider than 64 bits, returned as decimal strings.
func HugeInteger(raw interface{}, _ Column) (interface{}, error) {
	switch v := raw.(type) {
	case *big.Int:
		return v.String(), nil
	case big.Int:
		return v.String(), nil
	}
	if s, ok := text(raw); ok {
		n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return n.String(), nil
	}
	return Integer(raw, Column{})
}

// Float handles binary floating-point types.
func Float(raw interface{}, _ Column) (interface{}, error) {
	if s, ok := text(raw); ok {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	return cast.ToFloat64E(raw)
}

// Decimal handles exact numerics and returns them as strings so no precision
// is lost. The declared scale is kept when the driver reports it.
func Decimal(raw interface{}, col Column) (interface{}, error) {
	var d decimal.Decimal
	switch v := raw.(type) {
	case decimal.Decimal:
		d = v
	case float64:
		d = decimal.NewFromFloat(v)
	case float32:
		d = decimal.NewFromFloat32(v)
	case int64:
		d = decimal.NewFromInt(v)
	case []byte, string:
		s, _ := text(v)
		parsed, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		d = parsed
	case fmt.Stringer:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil, err
		}
		d = parsed
	default:
		n, err := cast.ToInt64E(raw)
		if err != nil {
			return nil, err
		}
		d = decimal.NewFromInt(n)
	}

	places := -d.Exponent()
	if col.HasDecimal && col.Scale > 0 && col.Scale < 1<<10 {
		places = int32(col.Scale)
	}
	if places < 0 {
		places = 0
	}
	return d.StringFixed(places), nil
}

func parseTemporal(raw interface{}) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return v, errZeroTemporal
		}
		return v, nil
	case []byte, string:
		s, _ := text(v)
		s = strings.TrimSpace(s)
		if s == "" || strings.HasPrefix(s, "0000-00-00") {
			return time.Time{}, errZeroTemporal
		}
		for _, layout := range []string{DateTimeLayout, DateLayout, time.RFC3339Nano} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return dateparse.ParseAny(s)
	}
	return time.Time{}, errUnsupported
}

// Date renders calendar dates as YYYY-MM-DD.
func Date(raw interface{}, _ Column) (interface{}, error) {
	t, err := parseTemporal(raw)
	if err != nil {
		return nil, err
	}
	return t.Format(DateLayout), nil
}

// DateTime renders timestamps without zone information, keeping fractional
// seconds only when present.
func DateTime(raw interface{}, _ Column) (interface{}, error) {
	t, err := parseTemporal(raw)
	if err != nil {
		return nil, err
	}
	return t.Format(DateTimeLayout), nil
}

// TimestampTZ renders zone-aware timestamps as RFC 3339.
func TimestampTZ(raw interface{}, _ Column) (interface{}, error) {
	t, err := parseTemporal(raw)
	if err != nil {
		return nil, err
	}
	return t.Format(TimestampTZLayout), nil
}

// Time renders time-of-day values. Textual values are passed through because
// some engines allow intervals beyond 24 hours ("838:59:59").
func Time(raw interface{}, _ Column) (interface{}, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.Format(TimeLayout), nil
	case time.Duration:
		return formatDuration(v), nil
	}
	if s, ok := text(raw); ok {
		return s, nil
	}
	return nil, errUnsupported
}

func formatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign, d = "-", -d
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	out := fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
	if frac := d % time.Second; frac > 0 {
		out += strings.TrimRight(fmt.Sprintf(".%09d", frac), "0")
	}
	return out
}

// Text handles character types.
func Text(raw interface{}, _ Column) (interface{}, error) {
	if s, ok := text(raw); ok {
		return s, nil
	}
	return fmt.Sprint(raw), nil
}

// LongText handles CLOB-like types whose content may carry bytes that are
// not valid UTF-8; those bytes are replaced.
func LongText(raw interface{}, _ Column) (interface{}, error) {
	if s, ok := text(raw); ok {
		return strings.ToValidUTF8(s, "�"), nil
	}
	return fmt.Sprint(raw), nil
}

// Binary handles short binary types. Sixteen-byte values are rendered as
// UUIDs, which is how BINARY(16) keys are conventionally stored.
func Binary(raw interface{}, col Column) (interface{}, error) {
	b, ok := raw.([]byte)
	if !ok {
		return nil, errUnsupported
	}
	// Only a declared BINARY(16) holds UUIDs; digests of the same size do not.
	if len(b) == 16 && col.HasLength && col.Length == 16 && strings.EqualFold(col.TypeName, "BINARY") {
		if id, err := uuid.FromBytes(b); err == nil {
			return id.String(), nil
		}
	}
	return HexString(b), nil
}

// PrefixedBinary renders bytes as lower-case hex after prefix, e.g. `\x`.
func PrefixedBinary(prefix string) Handler {
	return func(raw interface{}, _ Column) (interface{}, error) {
		b, ok := raw.([]byte)
		if !ok {
			return nil, errUnsupported
		}
		return prefix + fmt.Sprintf("%x", b), nil
	}
}

// LargeBinary handles BLOB-like types. Values above LargeBinaryPreview bytes
// are summarized instead of encoded.
func LargeBinary(raw interface{}, col Column) (interface{}, error) {
	b, ok := raw.([]byte)
	if !ok {
		return nil, errUnsupported
	}
	if len(b) > LargeBinaryPreview {
		return fmt.Sprintf("(%s) %d bytes", NormalizeTypeName(col.TypeName), len(b)), nil
	}
	return HexString(b), nil
}

// JSON decodes JSON documents into structured values. Numbers are kept as
// json.Number so large integers survive.
func JSON(raw interface{}, _ Column) (interface{}, error) {
	s, ok := text(raw)
	if !ok {
		switch raw.(type) {
		case map[string]interface{}, []interface{}:
			return raw, nil
		}
		return nil, errUnsupported
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// Enum returns the member label.
func Enum(raw interface{}, col Column) (interface{}, error) {
	return Text(raw, col)
}

// Set splits a comma separated set-of-values into its members.
func Set(raw interface{}, _ Column) (interface{}, error) {
	s, ok := text(raw)
	if !ok {
		return nil, errUnsupported
	}
	if s == "" {
		return []string{}, nil
	}
	return strings.Split(s, ","), nil
}

// Boolean handles boolean types stored as bool, integers, text or a single byte.
func Boolean(raw interface{}, _ Column) (interface{}, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case []byte:
		if len(v) == 1 && v[0] <= 1 {
			return v[0] == 1, nil
		}
		return strconv.ParseBool(strings.TrimSpace(string(v)))
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	}
	return cast.ToBoolE(raw)
}

// Bit handles BIT(n). BIT(1) is a boolean; wider fields are returned as an
// unsigned integer decoded big-endian.
func Bit(raw interface{}, col Column) (interface{}, error) {
	b, ok := raw.([]byte)
	if !ok {
		return Boolean(raw, col)
	}
	if len(b) > 8 {
		return nil, fmt.Errorf("bit field of %d bytes", len(b))
	}
	var n uint64
	for _, c := range b {
		n = n<<8 | uint64(c)
	}
	if col.HasLength && col.Length == 1 {
		return n == 1, nil
	}
	// Drivers that do not report the width hand BIT(1) over as one byte.
	if !col.HasLength && len(b) == 1 && n <= 1 {
		return n == 1, nil
	}
	return n, nil
}

// UUID handles native UUID types.
func UUID(raw interface{}, _ Column) (interface{}, error) {
	switch v := raw.(type) {
	case uuid.UUID:
		return v.String(), nil
	case [16]byte:
		return uuid.UUID(v).String(), nil
	case []byte:
		if len(v) == 16 {
			id, err := uuid.FromBytes(v)
			if err != nil {
				return nil, err
			}
			return id.String(), nil
		}
		id, err := uuid.ParseBytes(v)
		if err != nil {
			return nil, err
		}
		return id.String(), nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		return id.String(), nil
	}
	return nil, errUnsupported
}

// MixedEndianUUID handles GUIDs whose first three groups are stored
// little-endian on the wire.
func MixedEndianUUID(raw interface{}, col Column) (interface{}, error) {
	b, ok := raw.([]byte)
	if !ok || len(b) != 16 {
		return UUID(raw, col)
	}
	swapped := bytes.Clone(b)
	swapped[0], swapped[1], swapped[2], swapped[3] = b[3], b[2], b[1], b[0]
	swapped[4], swapped[5] = b[5], b[4]
	swapped[6], swapped[7] = b[7], b[6]
	id, err := uuid.FromBytes(swapped)
	if err != nil {
		return nil, err
	}
	return id.String(), nil
}

// Stringer handles driver-specific value types that know how to print
// themselves (network addresses, intervals).
func Stringer(raw interface{}, _ Column) (interface{}, error) {
	if s, ok := raw.(fmt.Stringer); ok {
		return s.String(), nil
	}
	if s, ok := text(raw); ok {
		return s, nil
	}
	return nil, errUnsupported
}

// Structured passes composite values (arrays, maps, tuples) through after
// converting nested byte slices to strings.
func Structured(raw interface{}, _ Column) (interface{}, error) {
	if s, ok := text(raw); ok {
		return JSON(s, Column{})
	}
	return structured(raw), nil
}

func structured(v interface{}) interface{} {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = structured(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = structured(e)
		}
		return out
	}
	return v
}
