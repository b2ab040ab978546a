package directory

import (
	"strconv"

	"github.com/goccy/go-json"
)

// Normalize converts a decoded service payload into display strings.
//
// Anything that is not an array yields an empty list. String items are
// kept verbatim; object items use their "name" field, then "value", then
// "". A field counts when it is a non-empty string, a non-zero number or
// true; numbers and booleans are formatted. Any other item becomes "". Order, duplicates and empty strings are
// preserved.
func Normalize(raw any) []string {
	switch items := raw.(type) {
	case []string:
		return append([]string{}, items...)
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, normalizeItem(item))
		}
		return out
	default:
		return []string{}
	}
}

func normalizeItem(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := fieldText(v["name"]); ok {
			return s
		}
		if s, ok := fieldText(v["value"]); ok {
			return s
		}
	}
	return ""
}

// fieldText reports the display text of a scalar field and whether the
// field is set at all.
func fieldText(field any) (string, bool) {
	switch v := field.(type) {
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), v != 0
	case bool:
		return "true", v
	}
	return "", false
}

// NormalizeJSON decodes data and normalizes it.
func NormalizeJSON(data []byte) ([]string, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Err: err}
	}
	return Normalize(raw), nil
}
