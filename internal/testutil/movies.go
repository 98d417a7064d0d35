package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/GustavoCaso/movienight/internal/config"
	"github.com/GustavoCaso/movienight/internal/movie"
)

// Now is the reference time used to build filter configurations in tests.
var Now = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

// TestConfig returns a configuration carrying the movie filters.
func TestConfig() *config.Config {
	return &config.Config{
		Filters: movie.DefaultFilterConfig(Now),
	}
}

// Movies returns a small catalog covering every filter.
func Movies() []movie.Movie {
	return []movie.Movie{
		{
			ID: 693134, Title: "Dune: Part Two", ReleaseDate: "2024-02-27", VoteAverage: 8.2,
			Popularity: 512.3, GenreIDs: []int{878, 12}, OriginalLanguage: "en", Runtime: 167,
			Overview: "Paul Atreides unites with Chani and the Fremen.",
		},
		{
			ID: 194, Title: "Amélie", ReleaseDate: "2001-04-25", VoteAverage: 7.9,
			Popularity: 61.4, GenreIDs: []int{35, 10749}, OriginalLanguage: "fr", Runtime: 122,
		},
		{
			ID: 17473, Title: "The Room", ReleaseDate: "2003-06-27", VoteAverage: 3.6,
			Popularity: 20.1, GenreIDs: []int{18}, OriginalLanguage: "en", Runtime: 99,
		},
		{
			ID: 496243, Title: "Parasite", ReleaseDate: "2019-05-30", VoteAverage: 8.5,
			Popularity: 150.8, GenreIDs: []int{35, 53, 18}, OriginalLanguage: "ko", Runtime: 133,
		},
		{
			ID: 1, Title: "Untitled Dune Project", VoteAverage: 0,
			Popularity: 1, GenreIDs: []int{}, OriginalLanguage: "en",
		},
	}
}

var ErrMovieNotFound = errors.New("movie not found")

// Catalog serves Movies from memory and records the queries it receives.
type Catalog struct {
	Movies []movie.Movie
	Err    error

	mu      sync.Mutex
	queries []string
}

func NewCatalog() *Catalog {
	return &Catalog{Movies: Movies()}
}

func (c *Catalog) SearchMovies(_ context.Context, query string) (*movie.Response, error) {
	c.mu.Lock()
	c.queries = append(c.queries, query)
	c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}

	results := []movie.Movie{}
	for _, m := range c.Movies {
		if strings.Contains(strings.ToLower(m.Title), strings.ToLower(query)) {
			results = append(results, m)
		}
	}

	return &movie.Response{Page: 1, Results: results, TotalPages: 1, TotalResults: len(results)}, nil
}

func (c *Catalog) PopularMovies(_ context.Context) (*movie.Response, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	results := append([]movie.Movie{}, c.Movies...)
	return &movie.Response{Page: 1, Results: results, TotalPages: 1, TotalResults: len(results)}, nil
}

func (c *Catalog) MovieDetails(_ context.Context, id int64) (*movie.Movie, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	for _, m := range c.Movies {
		if m.ID == id {
			return &m, nil
		}
	}

	return nil, ErrMovieNotFound
}

// Queries returns the search queries received so far.
func (c *Catalog) Queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.queries...)
}
