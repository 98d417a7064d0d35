package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
)

// parseNumber converts a bound string to a number.
// Examples: "7.5" -> 7.5, "2001" -> 2001
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("number cannot be empty")
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number format: %w", err)
	}

	return f, nil
}

// ParseSort parses a sort string like "rating:desc" into SortOptions.
func ParseSort(s string) (*SortOptions, error) {
	if s == "" {
		return nil, fmt.Errorf("sort string cannot be empty")
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid sort format, expected field:direction")
	}

	field := SortField(parts[0])
	direction := SortDirection(parts[1])

	valid := false
	for _, f := range sortFields {
		if f == field {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("invalid sort field: %s (must be one of %v)", field, sortFields)
	}

	if direction != SortAsc && direction != SortDesc {
		return nil, fmt.Errorf("invalid sort direction: %s (must be asc or desc)", direction)
	}

	return &SortOptions{
		Field:     field,
		Direction: direction,
	}, nil
}

// ParseValue parses the textual form of a selection for d:
//
//	range:       "4..10", "4..", "..10"
//	multiselect: "28,12" (values must be legal options)
//	select:      "en"
//	search:      any text
func ParseValue(d Descriptor, raw string) (Value, error) {
	switch d.Kind {
	case KindRange:
		lo, hi, found := strings.Cut(raw, "..")
		if !found {
			return nil, fmt.Errorf("invalid range %q, expected min..max", raw)
		}
		var interval Interval
		if lo = strings.TrimSpace(lo); lo != "" {
			n, err := parseNumber(lo)
			if err != nil {
				return nil, fmt.Errorf("invalid range min: %w", err)
			}
			interval.Min = &n
		}
		if hi = strings.TrimSpace(hi); hi != "" {
			n, err := parseNumber(hi)
			if err != nil {
				return nil, fmt.Errorf("invalid range max: %w", err)
			}
			interval.Max = &n
		}
		return interval, nil
	case KindMultiSelect:
		selection := Selection{}
		for _, token := range strings.Split(raw, ",") {
			if token = strings.TrimSpace(token); token == "" {
				continue
			}
			v, err := parseOption(d, token)
			if err != nil {
				return nil, err
			}
			if !selection.Contains(v) {
				selection = append(selection, v)
			}
		}
		return selection, nil
	case KindSelect:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return Choice{}, nil
		}
		if len(d.Options) == 0 {
			return Choice{Value: raw}, nil
		}
		v, err := parseOption(d, raw)
		if err != nil {
			return nil, err
		}
		return Choice{Value: v}, nil
	case KindSearch:
		return Query(raw), nil
	default:
		return nil, fmt.Errorf("filter %q has unsupported kind %q", d.ID, d.Kind)
	}
}

// parseOption returns the configured option value matching token.
func parseOption(d Descriptor, token string) (any, error) {
	for _, o := range d.Options {
		if equalValues(o.Value, token) || strings.EqualFold(o.Label, token) {
			return o.Value, nil
		}
		if n, err := strconv.ParseFloat(token, 64); err == nil && equalValues(o.Value, n) {
			return o.Value, nil
		}
	}
	return nil, fmt.Errorf("unknown option %q for filter %q", token, d.ID)
}

// ParseAssignment parses an "id=value" pair against cfg.
func ParseAssignment(cfg Config, s string) (string, Value, error) {
	id, raw, found := strings.Cut(s, "=")
	if !found {
		return "", nil, fmt.Errorf("invalid filter %q, expected id=value", s)
	}

	id = strings.TrimSpace(id)
	d, ok := cfg.Lookup(id)
	if !ok {
		return "", nil, fmt.Errorf("unknown filter %q", id)
	}

	v, err := ParseValue(d, raw)
	if err != nil {
		return "", nil, fmt.Errorf("invalid filter %q: %w", id, err)
	}

	return id, v, nil
}

// ParseQuery parses URL query parameters into a state derived from the
// defaults of cfg. Range bounds are read from <id>_min and <id>_max;
// multiselect values from repeated or comma separated <id> parameters.
func ParseQuery(params url.Values, cfg Config) (State, error) {
	return UpdateFromQuery(Initialize(cfg, nil), params, cfg)
}

// UpdateFromQuery returns a copy of base with the selections found in params
// applied on top. A single range bound in params keeps the other bound of base.
func UpdateFromQuery(base State, params url.Values, cfg Config) (State, error) {
	st := make(State, len(base))
	maps.Copy(st, base)

	for _, d := range cfg {
		switch d.Kind {
		case KindRange:
			interval, ok := st[d.ID].(Interval)
			if !ok {
				continue
			}
			if minStr := params.Get(d.ID + "_min"); minStr != "" {
				val, err := parseNumber(minStr)
				if err != nil {
					return nil, fmt.Errorf("invalid %s_min: %w", d.ID, err)
				}
				interval.Min = &val
			}
			if maxStr := params.Get(d.ID + "_max"); maxStr != "" {
				val, err := parseNumber(maxStr)
				if err != nil {
					return nil, fmt.Errorf("invalid %s_max: %w", d.ID, err)
				}
				interval.Max = &val
			}
			st[d.ID] = interval
		case KindMultiSelect:
			values, ok := params[d.ID]
			if !ok {
				continue
			}
			v, err := ParseValue(d, strings.Join(values, ","))
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", d.ID, err)
			}
			st[d.ID] = v
		case KindSelect, KindSearch:
			raw := params.Get(d.ID)
			if raw == "" {
				continue
			}
			v, err := ParseValue(d, raw)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", d.ID, err)
			}
			st[d.ID] = v
		}
	}

	return st, nil
}
