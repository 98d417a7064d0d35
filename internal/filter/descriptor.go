package filter

import (
	"errors"
	"fmt"
)

// Kind identifies how a descriptor is evaluated.
type Kind string

const (
	KindRange       Kind = "range"
	KindMultiSelect Kind = "multiselect"
	KindSelect      Kind = "select"
	KindSearch      Kind = "search"
)

// Bounds holds the numeric limits of a range descriptor.
// They drive both the UI affordances and the default selected interval.
type Bounds struct {
	Min  float64 `toml:"min" yaml:"min" json:"min"`
	Max  float64 `toml:"max" yaml:"max" json:"max"`
	Step float64 `toml:"step" yaml:"step" json:"step"`
}

// Option is one legal value of a multiselect or select descriptor.
type Option struct {
	Value any    `toml:"value" yaml:"value" json:"value"`
	Label string `toml:"label" yaml:"label" json:"label"`
}

// Descriptor describes one filterable attribute of an item.
type Descriptor struct {
	ID      string   `toml:"id" yaml:"id" json:"id"`
	Label   string   `toml:"label" yaml:"label" json:"label"`
	Kind    Kind     `toml:"kind" yaml:"kind" json:"kind"`
	Field   string   `toml:"field" yaml:"field" json:"field"`
	Year    bool     `toml:"year" yaml:"year" json:"year,omitempty"` // compare the year of a date field
	Range   *Bounds  `toml:"range" yaml:"range" json:"range,omitempty"`
	Options []Option `toml:"options" yaml:"options" json:"options,omitempty"`
}

// OptionLabel returns the label of the option holding v, or v formatted
// when no option matches.
func (d Descriptor) OptionLabel(v any) string {
	for _, o := range d.Options {
		if equalValues(o.Value, v) {
			return o.Label
		}
	}
	return fmt.Sprint(v)
}

// Config is an ordered list of descriptors. Order is display order and
// has no effect on evaluation.
type Config []Descriptor

// Lookup returns the descriptor with the given id.
func (c Config) Lookup(id string) (Descriptor, bool) {
	for _, d := range c {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// ConfigError reports a malformed descriptor.
type ConfigError struct {
	ID     string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid filter configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid filter %q: %s", e.ID, e.Reason)
}

// Validate checks every descriptor and returns all problems found.
// Unknown kinds are accepted; they never constrain evaluation.
func (c Config) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(c))

	for i, d := range c {
		if d.ID == "" {
			errs = append(errs, &ConfigError{Reason: fmt.Sprintf("descriptor at position %d has no id", i)})
			continue
		}

		if _, ok := seen[d.ID]; ok {
			errs = append(errs, &ConfigError{ID: d.ID, Reason: "duplicate id"})
		}
		seen[d.ID] = struct{}{}

		if d.Field == "" {
			errs = append(errs, &ConfigError{ID: d.ID, Reason: "field is required"})
		}

		switch d.Kind {
		case KindRange:
			if d.Range == nil {
				errs = append(errs, &ConfigError{ID: d.ID, Reason: "range descriptor requires range bounds"})
			} else if d.Range.Min > d.Range.Max {
				errs = append(errs, &ConfigError{
					ID:     d.ID,
					Reason: fmt.Sprintf("range min %v is greater than max %v", d.Range.Min, d.Range.Max),
				})
			}
		case KindMultiSelect:
			if len(d.Options) == 0 {
				errs = append(errs, &ConfigError{ID: d.ID, Reason: "multiselect descriptor requires options"})
			}
		}
	}

	return errors.Join(errs...)
}
