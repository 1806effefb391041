package sqlexec

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
)

// normalizeRow converts driver-specific values in place.
func normalizeRow(vals []any) []any {
	for i, v := range vals {
		vals[i] = normalize(v)
	}
	return vals
}

// normalize maps a driver value onto int64, float64, string, bool or nil.
// Anything else (timestamps, nested records) is kept as-is.
func normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case int64, float64, string, bool:
		return val
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case int16:
		return int64(val)
	case int8:
		return int64(val)
	case uint32:
		return int64(val)
	case uint16:
		return int64(val)
	case uint8:
		return int64(val)
	case float32:
		return float64(val)
	case []byte:
		return string(val)
	case pgtype.Numeric:
		if !val.Valid {
			return nil
		}
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case *big.Rat:
		if val == nil {
			return nil
		}
		f, _ := val.Float64()
		return f
	default:
		return val
	}
}

// Numeric converts supported value types to float64.
func Numeric(v any) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	case nil:
		return 0, false
	case pgtype.Numeric, *big.Rat:
		f, ok := normalize(val).(float64)
		return f, ok
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() >= reflect.Int && rv.Kind() <= reflect.Float64 {
			return rv.Convert(reflect.TypeOf(float64(0))).Float(), true
		}
		return 0, false
	}
}

// Text formats a value for display in chart labels and tables.
// Whole floats print without decimals, others with two.
func Text(v any) string {
	switch val := normalize(v).(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', 2, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
