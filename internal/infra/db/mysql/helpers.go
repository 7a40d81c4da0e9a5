package mysql

import "encoding/json"

// jsonOrEmpty marshals v for a JSON column, falling back to an empty array
// so the column never holds NULL.
func jsonOrEmpty(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}
