package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ToString renders a cell value as text for the untyped formats.
// nil becomes the empty string; nested maps and slices become compact JSON.
func ToString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case uint64:
		return strconv.FormatUint(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case json.Number:
		return s.String()
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(s)
		if err != nil {
			return fmt.Sprint(s)
		}
		return string(b)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}
