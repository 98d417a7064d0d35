package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/GustavoCaso/movienight/internal/movie"
)

// ErrSuperseded is returned by a request cancelled by a newer one.
var ErrSuperseded = errors.New("search superseded by a newer query")

type fetchFunc func(ctx context.Context) (*movie.Response, error)

// Searcher runs search-as-you-type queries keeping a single request in
// flight: starting a search or a popular listing cancels the previous one.
type Searcher struct {
	search  func(ctx context.Context, query string) (*movie.Response, error)
	popular fetchFunc

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// MovieSource lists movies from the catalog. *Client implements it.
type MovieSource interface {
	SearchMovies(ctx context.Context, query string) (*movie.Response, error)
	PopularMovies(ctx context.Context) (*movie.Response, error)
}

func NewSearcher(c MovieSource) *Searcher {
	return &Searcher{search: c.SearchMovies, popular: c.PopularMovies}
}

// Search cancels any pending request and queries the catalog. A blank query
// returns no results without a request. A search cancelled by a newer one
// returns ErrSuperseded.
func (s *Searcher) Search(ctx context.Context, query string) ([]movie.Movie, error) {
	if strings.TrimSpace(query) == "" {
		return s.run(ctx, nil)
	}
	return s.run(ctx, func(ctx context.Context) (*movie.Response, error) {
		return s.search(ctx, query)
	})
}

// Popular cancels any pending request and lists the popular movies. Like a
// search, it returns ErrSuperseded when a newer request replaces it.
func (s *Searcher) Popular(ctx context.Context) ([]movie.Movie, error) {
	return s.run(ctx, s.popular)
}

// run makes fetch the only request in flight. A nil fetch only cancels the
// pending one.
func (s *Searcher) run(ctx context.Context, fetch fetchFunc) ([]movie.Movie, error) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.mu.Unlock()

	defer s.release(seq, cancel)

	if fetch == nil {
		return []movie.Movie{}, nil
	}

	resp, err := fetch(ctx)
	if s.superseded(seq) {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	return resp.Results, nil
}

// Close cancels the pending request, if any.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}

func (s *Searcher) superseded(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq != seq
}

func (s *Searcher) release(seq uint64, cancel context.CancelFunc) {
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == seq {
		s.cancel = nil
	}
}
