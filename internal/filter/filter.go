// Package filter narrows collections of items with declarative filters.
//
// A Config lists the filterable attributes of an item. Initialize derives
// the default State from it, State.Update and Reset change it, and Apply
// keeps the items that satisfy every descriptor. Selections are combined
// with AND across descriptors and OR inside a multiselect descriptor.
package filter

import (
	"cmp"
	"strings"

	"golang.org/x/exp/slices"
)

// SortField represents a field that can be sorted on.
type SortField string

const (
	SortByRating     SortField = "rating"
	SortByRelease    SortField = "release"
	SortByTitle      SortField = "title"
	SortByPopularity SortField = "popularity"
)

var sortFields = []SortField{SortByRating, SortByRelease, SortByTitle, SortByPopularity}

// SortDirection represents sort order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortOptions holds sorting preferences.
type SortOptions struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSortOptions returns the default sort (rating descending, best first).
func DefaultSortOptions() *SortOptions {
	return &SortOptions{
		Field:     SortByRating,
		Direction: SortDesc,
	}
}

// String returns the sort options as a string (e.g., "rating:desc").
func (s *SortOptions) String() string {
	return string(s.Field) + ":" + string(s.Direction)
}

// Sortable items expose the value used to order them by a field.
// The value must be a number or a string; nil sorts last.
type Sortable interface {
	SortValue(field SortField) any
}

// SortItems returns a sorted copy of items. Equal items keep their order.
func SortItems[T Sortable](items []T, opts *SortOptions) []T {
	if opts == nil {
		opts = DefaultSortOptions()
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		va, vb := a.SortValue(opts.Field), b.SortValue(opts.Field)

		// missing values go last whatever the direction
		switch {
		case va == nil && vb == nil:
			return 0
		case va == nil:
			return 1
		case vb == nil:
			return -1
		}

		c := compareValues(va, vb)
		if opts.Direction == SortDesc {
			return -c
		}
		return c
	})

	return sorted
}

func compareValues(a, b any) int {
	if na, ok := numeric(a); ok {
		if nb, ok := numeric(b); ok {
			return cmp.Compare(na, nb)
		}
	}

	sa, _ := a.(string)
	sb, _ := b.(string)
	return strings.Compare(strings.ToLower(sa), strings.ToLower(sb))
}
