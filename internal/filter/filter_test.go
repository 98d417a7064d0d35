package filter

import (
	"testing"
)

// record is a map backed Item used across the package tests.
type record map[string]any

func (r record) FilterValue(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

func (r record) SortValue(field SortField) any {
	return r[string(field)]
}

func TestDefaultSortOptions(t *testing.T) {
	opts := DefaultSortOptions()

	if opts.Field != SortByRating {
		t.Errorf("expected field %q, got %q", SortByRating, opts.Field)
	}

	if opts.Direction != SortDesc {
		t.Errorf("expected direction %q, got %q", SortDesc, opts.Direction)
	}
}

func TestSortOptionsString(t *testing.T) {
	tests := []struct {
		name     string
		opts     *SortOptions
		expected string
	}{
		{
			name:     "rating descending",
			opts:     &SortOptions{Field: SortByRating, Direction: SortDesc},
			expected: "rating:desc",
		},
		{
			name:     "release ascending",
			opts:     &SortOptions{Field: SortByRelease, Direction: SortAsc},
			expected: "release:asc",
		},
		{
			name:     "title ascending",
			opts:     &SortOptions{Field: SortByTitle, Direction: SortAsc},
			expected: "title:asc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.opts.String()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestSortItems(t *testing.T) {
	items := []record{
		{"title": "Brazil", "rating": 7.9},
		{"title": "alien", "rating": 8.5},
		{"title": "Clue"},
		{"title": "Dune", "rating": 7.9},
	}

	tests := []struct {
		name     string
		opts     *SortOptions
		expected []string
	}{
		{
			name:     "rating descending keeps ties stable and missing last",
			opts:     &SortOptions{Field: SortByRating, Direction: SortDesc},
			expected: []string{"alien", "Brazil", "Dune", "Clue"},
		},
		{
			name:     "rating ascending keeps missing last",
			opts:     &SortOptions{Field: SortByRating, Direction: SortAsc},
			expected: []string{"Brazil", "Dune", "alien", "Clue"},
		},
		{
			name:     "title ignores case",
			opts:     &SortOptions{Field: SortByTitle, Direction: SortAsc},
			expected: []string{"alien", "Brazil", "Clue", "Dune"},
		},
		{
			name:     "nil options use the default",
			opts:     nil,
			expected: []string{"alien", "Brazil", "Dune", "Clue"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted := SortItems(items, tt.opts)
			if len(sorted) != len(tt.expected) {
				t.Fatalf("expected %d items, got %d", len(tt.expected), len(sorted))
			}
			for i, title := range tt.expected {
				if sorted[i]["title"] != title {
					t.Errorf("position %d: expected %q, got %q", i, title, sorted[i]["title"])
				}
			}
		})
	}

	if items[0]["title"] != "Brazil" {
		t.Error("SortItems modified its input")
	}
}
