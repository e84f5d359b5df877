package valueconv

import (
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DateLayout        = "2006-01-02"
	DateTimeLayout    = "2006-01-02 15:04:05.999999999"
	TimeLayout        = "15:04:05.999999999"
	TimestampTZLayout = time.RFC3339Nano
)

// Generic is the engine-agnostic accessor. It returns nil for values it cannot
// represent faithfully (zero times).
func Generic(raw interface{}) interface{} {
	switch v := raw.(type) {
	case nil:
		return nil
	case int64, float64, bool, string:
		return v
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint:
		return unsigned(uint64(v))
	case uint64:
		return unsigned(v)
	case float32:
		return float64(v)
	case []byte:
		if utf8.Valid(v) {
			return string(v)
		}
		return HexString(v)
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return v.Format(DateTimeLayout)
	case *big.Int:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

func unsigned(v uint64) interface{} {
	if v > math.MaxInt64 {
		return v
	}
	return int64(v)
}

// HexString renders bytes as 0x-prefixed upper-case hex.
func HexString(b []byte) string {
	return "0x" + strings.ToUpper(hex.EncodeToString(b))
}
