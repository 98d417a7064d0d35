package filter

import (
	"errors"
	"strings"
	"testing"
)

func testConfig() Config {
	return Config{
		{
			ID:    "rating",
			Label: "Rating",
			Kind:  KindRange,
			Field: "vote_average",
			Range: &Bounds{Min: 0, Max: 10, Step: 0.1},
		},
		{
			ID:    "genres",
			Label: "Genres",
			Kind:  KindMultiSelect,
			Field: "genre_ids",
			Options: []Option{
				{Value: 28, Label: "Action"},
				{Value: 35, Label: "Comedy"},
				{Value: 18, Label: "Drama"},
			},
		},
		{
			ID:    "year",
			Label: "Release Year",
			Kind:  KindRange,
			Field: "release_date",
			Year:  true,
			Range: &Bounds{Min: 1900, Max: 2030, Step: 1},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr []string
	}{
		{
			name:   "valid configuration",
			config: testConfig(),
		},
		{
			name:   "empty configuration",
			config: Config{},
		},
		{
			name: "unknown kind is accepted",
			config: Config{
				{ID: "mood", Kind: Kind("mood"), Field: "mood"},
			},
		},
		{
			name: "range without bounds",
			config: Config{
				{ID: "rating", Kind: KindRange, Field: "vote_average"},
			},
			wantErr: []string{`invalid filter "rating": range descriptor requires range bounds`},
		},
		{
			name: "multiselect without options",
			config: Config{
				{ID: "genres", Kind: KindMultiSelect, Field: "genre_ids"},
			},
			wantErr: []string{"multiselect descriptor requires options"},
		},
		{
			name: "inverted bounds",
			config: Config{
				{ID: "rating", Kind: KindRange, Field: "vote_average", Range: &Bounds{Min: 10, Max: 0}},
			},
			wantErr: []string{"range min 10 is greater than max 0"},
		},
		{
			name: "several problems are all reported",
			config: Config{
				{ID: "rating", Kind: KindRange, Field: "vote_average", Range: &Bounds{Max: 10}},
				{ID: "rating", Kind: KindRange, Field: "", Range: &Bounds{Max: 10}},
				{Kind: KindSearch, Field: "title"},
			},
			wantErr: []string{"duplicate id", "field is required", "position 2 has no id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected a *ConfigError, got %T", err)
			}

			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected error to contain %q, got %q", want, err.Error())
				}
			}
		})
	}
}

func TestLookup(t *testing.T) {
	cfg := testConfig()

	d, ok := cfg.Lookup("genres")
	if !ok {
		t.Fatal("expected genres descriptor to be found")
	}
	if d.Field != "genre_ids" {
		t.Errorf("expected field genre_ids, got %q", d.Field)
	}

	if _, ok = cfg.Lookup("missing"); ok {
		t.Error("expected missing descriptor not to be found")
	}
}

func TestOptions(t *testing.T) {
	d, _ := testConfig().Lookup("genres")

	if label := d.OptionLabel(int64(28)); label != "Action" {
		t.Errorf("expected int64(28) to match the int option, got %q", label)
	}
	if label := d.OptionLabel(35.0); label != "Comedy" {
		t.Errorf("expected 35.0 to match the int option, got %q", label)
	}
	if label := d.OptionLabel("28"); label != "28" {
		t.Errorf("expected string \"28\" not to match a numeric option, got %q", label)
	}

	if label := d.OptionLabel(18); label != "Drama" {
		t.Errorf("expected Drama, got %q", label)
	}
	if label := d.OptionLabel(99); label != "99" {
		t.Errorf("expected 99, got %q", label)
	}
}
