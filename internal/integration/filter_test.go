package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/GustavoCaso/movienight/internal/catalog"
	"github.com/GustavoCaso/movienight/internal/filter"
	"github.com/GustavoCaso/movienight/internal/movie"
	"github.com/GustavoCaso/movienight/internal/testutil"
)

// newBackend serves the test movies the way the catalog backend does.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/movies/search/", func(w http.ResponseWriter, r *http.Request) {
		query := strings.ToLower(r.URL.Query().Get("query"))
		results := []movie.Movie{}
		for _, m := range testutil.Movies() {
			if strings.Contains(strings.ToLower(m.Title), query) {
				results = append(results, m)
			}
		}
		writeResults(t, w, results)
	})
	mux.HandleFunc("/api/movies/popular/", func(w http.ResponseWriter, _ *http.Request) {
		writeResults(t, w, testutil.Movies())
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func writeResults(t *testing.T, w http.ResponseWriter, results []movie.Movie) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(movie.Response{
		Page:         1,
		Results:      results,
		TotalPages:   1,
		TotalResults: len(results),
	})
	if err != nil {
		t.Errorf("failed to encode results: %v", err)
	}
}

// TestFilteringEndToEnd tests the complete filtering flow from query parameters to filtered results.
func TestFilteringEndToEnd(t *testing.T) {
	logger := testutil.TestLogger(t)
	backend := newBackend(t)
	cfg := testutil.TestConfig().Filters

	client := catalog.New(catalog.Options{
		BaseURL:  backend.URL + "/api",
		RetryMax: 0,
		Timeout:  time.Second,
	}, logger)

	resp, err := client.PopularMovies(context.Background())
	if err != nil {
		t.Fatalf("PopularMovies() error = %v", err)
	}

	tests := []struct {
		name             string
		queryString      string
		expectedCount    int
		shouldContain    []string
		shouldNotContain []string
	}{
		{
			name:          "no filters - all movies",
			queryString:   "",
			expectedCount: 5,
			shouldContain: []string{"Dune: Part Two", "Amélie", "The Room", "Parasite"},
		},
		{
			name:             "minimum rating",
			queryString:      "rating_min=8",
			expectedCount:    2,
			shouldContain:    []string{"Dune: Part Two", "Parasite"},
			shouldNotContain: []string{"Amélie"},
		},
		{
			name:             "maximum rating",
			queryString:      "rating_min=0&rating_max=5",
			expectedCount:    2,
			shouldContain:    []string{"The Room", "Untitled Dune Project"},
			shouldNotContain: []string{"Parasite"},
		},
		{
			name:             "repeated genres are combined with or",
			queryString:      "genres=10749&genres=53",
			expectedCount:    2,
			shouldContain:    []string{"Amélie", "Parasite"},
			shouldNotContain: []string{"The Room"},
		},
		{
			name:             "release years keep undated movies",
			queryString:      "year_min=2000&year_max=2010",
			expectedCount:    3,
			shouldContain:    []string{"Amélie", "The Room", "Untitled Dune Project"},
			shouldNotContain: []string{"Parasite"},
		},
		{
			name:             "all filters are combined with and",
			queryString:      "rating_min=7&genres=35&language=fr",
			expectedCount:    1,
			shouldContain:    []string{"Amélie"},
			shouldNotContain: []string{"Parasite"},
		},
		{
			name:          "title search",
			queryString:   "title=DUNE",
			expectedCount: 2,
			shouldContain: []string{"Dune: Part Two", "Untitled Dune Project"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, parseErr := url.ParseQuery(tt.queryString)
			if parseErr != nil {
				t.Fatalf("invalid query string: %v", parseErr)
			}

			st, stateErr := filter.ParseQuery(params, cfg)
			if stateErr != nil {
				t.Fatalf("ParseQuery() error = %v", stateErr)
			}

			movies, applyErr := filter.Apply(resp.Results, st, cfg)
			if applyErr != nil {
				t.Fatalf("Apply() error = %v", applyErr)
			}

			if len(movies) != tt.expectedCount {
				t.Errorf("got %d movies, want %d", len(movies), tt.expectedCount)
			}

			titles := make([]string, len(movies))
			for i, m := range movies {
				titles[i] = m.Title
			}
			joined := strings.Join(titles, "|")

			for _, title := range tt.shouldContain {
				if !strings.Contains(joined, title) {
					t.Errorf("results %v should contain %q", titles, title)
				}
			}
			for _, title := range tt.shouldNotContain {
				if strings.Contains(joined, title) {
					t.Errorf("results %v should not contain %q", titles, title)
				}
			}
		})
	}
}

// TestPresetEndToEnd saves a state, loads it back and filters search results with it.
func TestPresetEndToEnd(t *testing.T) {
	logger := testutil.TestLogger(t)
	stor := testutil.SetupTestStorage(t, logger)
	backend := newBackend(t)
	cfg := testutil.TestConfig().Filters
	ctx := context.Background()

	params := url.Values{"rating_min": {"5"}, "language": {"en"}}
	st, err := filter.ParseQuery(params, cfg)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}

	if _, err = stor.CreatePreset(ctx, "english", st); err != nil {
		t.Fatalf("CreatePreset() error = %v", err)
	}

	p, err := stor.GetPreset(ctx, "english")
	if err != nil {
		t.Fatalf("GetPreset() error = %v", err)
	}

	restored := filter.Initialize(cfg, p.State())
	if got, want := restored.Active(cfg), st.Active(cfg); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("restored Active() = %v, want %v", got, want)
	}

	searcher := catalog.NewSearcher(catalog.New(catalog.Options{
		BaseURL: backend.URL + "/api",
		Timeout: time.Second,
	}, logger))
	defer searcher.Close()

	results, err := searcher.Search(ctx, "dune")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	movies, err := filter.Apply(results, restored, cfg)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(movies) != 1 || movies[0].Title != "Dune: Part Two" {
		t.Errorf("Apply() = %v, want only Dune: Part Two", movies)
	}
}
