package filter

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01",
	"2006",
}

// toNumber converts any numeric value, or a string holding one, to float64.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toYear extracts the year from a time or a date string.
// A bare number is taken as the year itself.
func toYear(v any) (float64, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return 0, false
		}
		return float64(t.Year()), true
	case *time.Time:
		if t == nil || t.IsZero() {
			return 0, false
		}
		return float64(t.Year()), true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return float64(parsed.Year()), true
			}
		}
		return 0, false
	default:
		return toNumber(v)
	}
}

// equalValues compares option values. Numbers compare by value whatever
// their Go type, so an int64 decoded from a config file equals an int
// carried by an item.
func equalValues(a, b any) bool {
	if na, ok := numeric(a); ok {
		nb, ok := numeric(b)
		return ok && na == nb
	}

	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	default:
		return false
	}
}

// numeric is toNumber without the string conversion.
func numeric(v any) (float64, bool) {
	if _, ok := v.(string); ok {
		return 0, false
	}
	return toNumber(v)
}

// toList expands slice field values into a list of values.
// The second result is false for scalar values.
func toList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []int:
		return listOf(l), true
	case []int64:
		return listOf(l), true
	case []float64:
		return listOf(l), true
	case []string:
		return listOf(l), true
	default:
		return nil, false
	}
}

func listOf[E any](in []E) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
