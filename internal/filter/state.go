package filter

import (
	"encoding/json"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Value is the selection held for one descriptor. It is implemented by
// Interval, Selection, Choice and Query.
type Value interface {
	kind() Kind
}

// Interval is the selected range of a range descriptor.
// A nil bound places no constraint on that side; zero is a real bound.
type Interval struct {
	Min *float64
	Max *float64
}

func (Interval) kind() Kind { return KindRange }

// Between returns an interval bounded on both sides.
func Between(lo, hi float64) Interval {
	return Interval{Min: &lo, Max: &hi}
}

// AtLeast returns an interval with only a lower bound.
func AtLeast(lo float64) Interval {
	return Interval{Min: &lo}
}

// AtMost returns an interval with only an upper bound.
func AtMost(hi float64) Interval {
	return Interval{Max: &hi}
}

func (i Interval) String() string {
	lo, hi := "*", "*"
	if i.Min != nil {
		lo = fmt.Sprint(*i.Min)
	}
	if i.Max != nil {
		hi = fmt.Sprint(*i.Max)
	}
	return "[" + lo + ", " + hi + "]"
}

// Selection is the set of selected values of a multiselect descriptor,
// kept in selection order without duplicates. Empty means no constraint.
type Selection []any

func (Selection) kind() Kind { return KindMultiSelect }

// NewSelection builds a selection dropping duplicate values.
func NewSelection(values ...any) Selection {
	s := Selection{}
	for _, v := range values {
		if !s.Contains(v) {
			s = append(s, v)
		}
	}
	return s
}

// Contains reports whether v is selected.
func (s Selection) Contains(v any) bool {
	return slices.IndexFunc(s, func(e any) bool { return equalValues(e, v) }) >= 0
}

// Toggle returns a new selection with v added, or removed when already selected.
func (s Selection) Toggle(v any) Selection {
	if i := slices.IndexFunc(s, func(e any) bool { return equalValues(e, v) }); i >= 0 {
		return slices.Delete(slices.Clone(s), i, i+1)
	}
	return append(slices.Clone(s), v)
}

// Choice is the selected value of a select descriptor. A nil value is unset.
type Choice struct {
	Value any
}

func (Choice) kind() Kind { return KindSelect }

// Query is the text of a search descriptor. Empty is unset.
type Query string

func (Query) kind() Kind { return KindSearch }

// State maps descriptor ids to their current selection.
// It is treated as a value: updates return a new State.
type State map[string]Value

// Initialize computes the default state of cfg. Entries in overrides win
// over the computed defaults, including ids cfg does not know about.
func Initialize(cfg Config, overrides State) State {
	st := make(State, len(cfg)+len(overrides))

	for _, d := range cfg {
		if v, ok := defaultValue(d); ok {
			st[d.ID] = v
		}
	}

	maps.Copy(st, overrides)

	return st
}

// Reset recomputes the defaults of cfg, discarding every selection.
func Reset(cfg Config) State {
	return Initialize(cfg, nil)
}

// Update returns a copy of s with the entry for id replaced by v.
func (s State) Update(id string, v Value) State {
	out := make(State, len(s)+1)
	maps.Copy(out, s)
	out[id] = v
	return out
}

// Active returns, in configuration order, the ids whose selection
// differs from the default.
func (s State) Active(cfg Config) []string {
	active := []string{}
	for _, d := range cfg {
		v, ok := s[d.ID]
		if !ok {
			continue
		}
		def, _ := defaultValue(d)
		if !sameValue(v, def) {
			active = append(active, d.ID)
		}
	}
	return active
}

// Changed returns the entries of s that differ from the defaults of cfg,
// together with the entries for ids cfg does not know about. Passing the
// result to Initialize restores s under the defaults current at that time.
func (s State) Changed(cfg Config) State {
	out := make(State, len(s))
	for id, v := range s {
		d, ok := cfg.Lookup(id)
		if !ok {
			out[id] = v
			continue
		}
		if def, _ := defaultValue(d); !sameValue(v, def) {
			out[id] = v
		}
	}
	return out
}

func defaultValue(d Descriptor) (Value, bool) {
	switch d.Kind {
	case KindRange:
		if d.Range == nil {
			return nil, false
		}
		return Between(d.Range.Min, d.Range.Max), true
	case KindMultiSelect:
		return Selection{}, true
	case KindSelect:
		return Choice{}, true
	case KindSearch:
		return Query(""), true
	default:
		return nil, false
	}
}

func sameValue(a, b Value) bool {
	switch x := a.(type) {
	case Interval:
		y, ok := b.(Interval)
		return ok && sameBound(x.Min, y.Min) && sameBound(x.Max, y.Max)
	case Selection:
		y, ok := b.(Selection)
		if !ok || len(x) != len(y) {
			return false
		}
		for _, v := range x {
			if !y.Contains(v) {
				return false
			}
		}
		return true
	case Choice:
		y, ok := b.(Choice)
		if !ok {
			return false
		}
		if x.Value == nil || y.Value == nil {
			return x.Value == nil && y.Value == nil
		}
		return equalValues(x.Value, y.Value)
	case Query:
		y, ok := b.(Query)
		return ok && x == y
	default:
		return a == nil && b == nil
	}
}

func sameBound(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type envelope struct {
	Kind   Kind     `json:"kind"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Values []any    `json:"values,omitempty"`
	Value  any      `json:"value,omitempty"`
	Query  string   `json:"query,omitempty"`
}

// MarshalJSON encodes every entry with its kind so it can be decoded back.
func (s State) MarshalJSON() ([]byte, error) {
	out := make(map[string]envelope, len(s))
	for id, v := range s {
		switch x := v.(type) {
		case Interval:
			out[id] = envelope{Kind: KindRange, Min: x.Min, Max: x.Max}
		case Selection:
			out[id] = envelope{Kind: KindMultiSelect, Values: x}
		case Choice:
			out[id] = envelope{Kind: KindSelect, Value: x.Value}
		case Query:
			out[id] = envelope{Kind: KindSearch, Query: string(x)}
		default:
			return nil, fmt.Errorf("filter %q: unsupported value %T", id, v)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (s *State) UnmarshalJSON(data []byte) error {
	var in map[string]envelope
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	st := make(State, len(in))
	for id, e := range in {
		switch e.Kind {
		case KindRange:
			st[id] = Interval{Min: e.Min, Max: e.Max}
		case KindMultiSelect:
			st[id] = NewSelection(e.Values...)
		case KindSelect:
			st[id] = Choice{Value: e.Value}
		case KindSearch:
			st[id] = Query(e.Query)
		default:
			return fmt.Errorf("filter %q: unknown kind %q", id, e.Kind)
		}
	}

	*s = st
	return nil
}
