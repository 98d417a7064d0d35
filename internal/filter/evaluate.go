package filter

import (
	"fmt"
	"strings"
)

// Item is anything whose attributes can be read by field name.
// The second result is false when the item does not carry the field.
type Item interface {
	FilterValue(field string) (any, bool)
}

// Apply returns the items that satisfy every descriptor of cfg under st,
// preserving their order. A malformed configuration is the only error;
// missing fields and unset selections never exclude an item.
func Apply[T Item](items []T, st State, cfg Config) ([]T, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cannot apply filters: %w", err)
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if matchesAll(item, st, cfg) {
			kept = append(kept, item)
		}
	}

	return kept, nil
}

func matchesAll(item Item, st State, cfg Config) bool {
	for _, d := range cfg {
		if !Matches(item, d, st[d.ID]) {
			return false
		}
	}
	return true
}

// Matches reports whether item satisfies a single descriptor given its
// selected value. Unknown kinds, absent fields and selections of the wrong
// type all match.
func Matches(item Item, d Descriptor, v Value) bool {
	if v == nil {
		return true
	}

	field, ok := item.FilterValue(d.Field)
	if !ok || field == nil {
		return true
	}

	switch d.Kind {
	case KindRange:
		interval, ok := v.(Interval)
		if !ok {
			return true
		}
		return matchRange(field, openEnded(interval, d.Range), d.Year)
	case KindMultiSelect:
		selection, ok := v.(Selection)
		if !ok {
			return true
		}
		return matchSelection(field, selection)
	case KindSelect:
		choice, ok := v.(Choice)
		if !ok || choice.Value == nil {
			return true
		}
		return equalValues(field, choice.Value)
	case KindSearch:
		query, ok := v.(Query)
		if !ok {
			return true
		}
		return matchQuery(field, query)
	default:
		return true
	}
}

// openEnded drops both bounds of an interval that spans exactly the
// descriptor's limits, so the default selection keeps out-of-range items.
// Any other selection applies its bounds as given.
func openEnded(interval Interval, limits *Bounds) Interval {
	if limits == nil {
		return interval
	}
	if sameValue(interval, Between(limits.Min, limits.Max)) {
		return Interval{}
	}
	return interval
}

func matchRange(field any, interval Interval, year bool) bool {
	if interval.Min == nil && interval.Max == nil {
		return true
	}

	var (
		n  float64
		ok bool
	)
	if year {
		n, ok = toYear(field)
	} else {
		n, ok = toNumber(field)
	}
	if !ok {
		return true
	}

	if interval.Min != nil && n < *interval.Min {
		return false
	}
	if interval.Max != nil && n > *interval.Max {
		return false
	}
	return true
}

func matchSelection(field any, selection Selection) bool {
	if len(selection) == 0 {
		return true
	}

	values, isList := toList(field)
	if !isList {
		return selection.Contains(field)
	}

	for _, v := range values {
		if selection.Contains(v) {
			return true
		}
	}
	return false
}

func matchQuery(field any, query Query) bool {
	q := strings.TrimSpace(string(query))
	if q == "" {
		return true
	}

	s, ok := field.(string)
	if !ok {
		return true
	}

	return strings.Contains(strings.ToLower(s), strings.ToLower(q))
}
