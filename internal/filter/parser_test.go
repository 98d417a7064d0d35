package filter

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{
			name:     "valid whole number",
			input:    "2001",
			expected: 2001,
		},
		{
			name:     "valid decimal",
			input:    "7.5",
			expected: 7.5,
		},
		{
			name:     "zero",
			input:    "0",
			expected: 0,
		},
		{
			name:    "invalid format",
			input:   "abc",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseNumber(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *SortOptions
		wantErr  bool
	}{
		{
			name:     "rating descending",
			input:    "rating:desc",
			expected: &SortOptions{Field: SortByRating, Direction: SortDesc},
		},
		{
			name:     "release ascending",
			input:    "release:asc",
			expected: &SortOptions{Field: SortByRelease, Direction: SortAsc},
		},
		{
			name:     "popularity descending",
			input:    "popularity:desc",
			expected: &SortOptions{Field: SortByPopularity, Direction: SortDesc},
		},
		{
			name:    "invalid field",
			input:   "invalid:desc",
			wantErr: true,
		},
		{
			name:    "invalid direction",
			input:   "title:invalid",
			wantErr: true,
		},
		{
			name:    "missing colon",
			input:   "title",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseSort(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if *result != *tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	cfg := append(testConfig(),
		Descriptor{ID: "language", Kind: KindSelect, Field: "original_language"},
		Descriptor{ID: "title", Kind: KindSearch, Field: "title"},
	)

	tests := []struct {
		name     string
		id       string
		raw      string
		expected Value
		wantErr  bool
	}{
		{
			name:     "closed range",
			id:       "rating",
			raw:      "4..8.5",
			expected: Between(4, 8.5),
		},
		{
			name:     "open upper bound",
			id:       "rating",
			raw:      "0..",
			expected: AtLeast(0),
		},
		{
			name:     "open lower bound",
			id:       "year",
			raw:      "..1999",
			expected: AtMost(1999),
		},
		{
			name:    "range without separator",
			id:      "rating",
			raw:     "4",
			wantErr: true,
		},
		{
			name:    "range with invalid bound",
			id:      "rating",
			raw:     "x..5",
			wantErr: true,
		},
		{
			name:     "multiselect by value and label",
			id:       "genres",
			raw:      "28, comedy,28",
			expected: Selection{28, 35},
		},
		{
			name:     "empty multiselect",
			id:       "genres",
			raw:      "",
			expected: Selection{},
		},
		{
			name:    "unknown option",
			id:      "genres",
			raw:     "99",
			wantErr: true,
		},
		{
			name:     "select without options takes the text",
			id:       "language",
			raw:      "en",
			expected: Choice{Value: "en"},
		},
		{
			name:     "search",
			id:       "title",
			raw:      "alien",
			expected: Query("alien"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := cfg.Lookup(tt.id)
			result, err := ParseValue(d, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestParseAssignment(t *testing.T) {
	cfg := testConfig()

	id, v, err := ParseAssignment(cfg, "year=1990..2000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "year" || !reflect.DeepEqual(v, Between(1990, 2000)) {
		t.Errorf("expected year [1990, 2000], got %s %v", id, v)
	}

	for _, input := range []string{"year", "unknown=1..2", "genres=horror"} {
		if _, _, err = ParseAssignment(cfg, input); err == nil {
			t.Errorf("expected error for %q, got nil", input)
		}
	}
}

func TestParseQuery(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name        string
		queryString string
		expected    State
		wantErr     bool
	}{
		{
			name:        "no filters - returns defaults",
			queryString: "",
			expected:    Initialize(cfg, nil),
		},
		{
			name:        "range bounds",
			queryString: "rating_min=6.5&year_max=2001",
			expected: Initialize(cfg, nil).
				Update("rating", Between(6.5, 10)).
				Update("year", Between(1900, 2001)),
		},
		{
			name:        "repeated and comma separated multiselect",
			queryString: "genres=28&genres=35,18",
			expected:    Initialize(cfg, nil).Update("genres", Selection{28, 35, 18}),
		},
		{
			name:        "invalid rating_min",
			queryString: "rating_min=abc",
			wantErr:     true,
		},
		{
			name:        "invalid rating_max",
			queryString: "rating_max=abc",
			wantErr:     true,
		},
		{
			name:        "unknown genre",
			queryString: "genres=1",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := url.ParseQuery(tt.queryString)
			if err != nil {
				t.Fatalf("failed to parse query string: %v", err)
			}

			st, err := ParseQuery(params, cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !reflect.DeepEqual(st, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, st)
			}
		})
	}
}
