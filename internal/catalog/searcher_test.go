package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GustavoCaso/movienight/internal/movie"
)

func TestSearcherBlankQuery(t *testing.T) {
	var calls atomic.Int32
	searcher := NewSearcher(newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, matrixResults)
	}), 0))
	defer searcher.Close()

	results, err := searcher.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty results, got %v", results)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no request for a blank query, got %d", calls.Load())
	}

	results, err = searcher.Search(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestSearcherCancelsPreviousRequest(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "slow" {
			close(started)
			select {
			case <-r.Context().Done():
			case <-release:
			}
			return
		}
		fmt.Fprint(w, matrixResults)
	}), 0)
	t.Cleanup(func() { close(release) })

	searcher := NewSearcher(client)
	defer searcher.Close()

	slow := make(chan error, 1)
	go func() {
		_, err := searcher.Search(context.Background(), "slow")
		slow <- err
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("slow request never reached the server")
	}

	results, err := searcher.Search(context.Background(), "fast")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}

	select {
	case err = <-slow:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("expected ErrSuperseded, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("superseded search did not return")
	}
}

func TestSearcherResultArrivingLate(t *testing.T) {
	proceed := make(chan struct{})
	searcher := &Searcher{}
	searcher.search = func(_ context.Context, _ string) (*movie.Response, error) {
		<-proceed
		return &movie.Response{Results: []movie.Movie{{ID: 1}}}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := searcher.Search(context.Background(), "first")
		done <- err
	}()

	// wait for the first search to register before superseding it
	for searcher.pending() == 0 {
		time.Sleep(time.Millisecond)
	}
	searcher.Close()
	close(proceed)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected ErrSuperseded, got %v", err)
	}
}

func TestSearcherSearchSupersedesPopular(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	// the popular listing ignores cancellation and answers late
	searcher := &Searcher{
		popular: func(_ context.Context) (*movie.Response, error) {
			close(started)
			<-release
			return &movie.Response{Results: []movie.Movie{{ID: 1}, {ID: 2}}}, nil
		},
		search: func(_ context.Context, _ string) (*movie.Response, error) {
			return &movie.Response{Results: []movie.Movie{{ID: 3}}}, nil
		},
	}
	defer searcher.Close()

	popular := make(chan error, 1)
	go func() {
		_, err := searcher.Popular(context.Background())
		popular <- err
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("popular request never started")
	}

	results, err := searcher.Search(context.Background(), "room")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID != 3 {
		t.Errorf("expected the search result, got %v", results)
	}

	close(release)

	select {
	case err = <-popular:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("expected ErrSuperseded, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("superseded popular listing did not return")
	}
}

func TestSearcherPopular(t *testing.T) {
	searcher := NewSearcher(newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/movies/popular/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, matrixResults)
	}), 0))
	defer searcher.Close()

	results, err := searcher.Popular(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestSearcherPropagatesErrors(t *testing.T) {
	searcher := &Searcher{search: func(_ context.Context, _ string) (*movie.Response, error) {
		return nil, &APIError{StatusCode: http.StatusBadGateway, Message: "down"}
	}}

	_, err := searcher.Search(context.Background(), "matrix")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("expected an *APIError, got %v", err)
	}
}

func (s *Searcher) pending() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}
