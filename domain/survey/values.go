package survey

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Answered reports whether a raw answer value counts toward a field's
// denominator. Nil, empty strings and empty lists are treated as unanswered.
func Answered(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(value) != ""
	case []any:
		return len(value) > 0
	case []string:
		return len(value) > 0
	default:
		return true
	}
}

// AsNumber coerces an answer value to a float64. Returns false for values
// that are not numeric or parse to NaN; callers drop those silently.
func AsNumber(v any) (float64, bool) {
	var n float64
	switch value := v.(type) {
	case float64:
		n = value
	case float32:
		n = float64(value)
	case int:
		n = float64(value)
	case int32:
		n = float64(value)
	case int64:
		n = float64(value)
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, false
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// AsList normalizes an answer to a slice of raw values. Scalars become a
// single-element list; multi-select answers pass through element by element.
func AsList(v any) []any {
	switch value := v.(type) {
	case []any:
		return value
	case []string:
		out := make([]any, len(value))
		for i, s := range value {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

// AsString renders an answer value for display and categorical counting.
func AsString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	case bool:
		return strconv.FormatBool(value)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

// FormatAnswer renders an answer for export rows; multi-select answers are
// joined with "; " in their stored order.
func FormatAnswer(v any) string {
	switch value := v.(type) {
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			parts = append(parts, AsString(item))
		}
		return strings.Join(parts, "; ")
	case []string:
		return strings.Join(value, "; ")
	default:
		return AsString(v)
	}
}

// ValidLocation reports whether a location is usable for clustering:
// both coordinates present, finite, and inside WGS84 bounds.
func ValidLocation(loc *Location) bool {
	if loc == nil {
		return false
	}
	if math.IsNaN(loc.Lat) || math.IsNaN(loc.Lng) {
		return false
	}
	if math.IsInf(loc.Lat, 0) || math.IsInf(loc.Lng, 0) {
		return false
	}
	return math.Abs(loc.Lat) <= 90 && math.Abs(loc.Lng) <= 180
}
