package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Key renders a value into its canonical string form so that identifiers
// arriving as JSON numbers (float64), json.Number or strings all compare
// equal. "3", 3 and 3.0 render to "3".
func Key(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(value), 'f', -1, 32)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case json.Number:
		return value.String()
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}

// LooseEqual compares two values the way form inputs compare against dataset
// keys: string and numeric representations of the same value match.
func LooseEqual(a any, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if Key(a) == Key(b) {
		return true
	}

	af, aerr := strconv.ParseFloat(Key(a), 64)
	bf, berr := strconv.ParseFloat(Key(b), 64)
	return aerr == nil && berr == nil && af == bf
}
