package movie

import (
	"strconv"
	"time"

	"github.com/GustavoCaso/movienight/internal/filter"
)

// Movie is a catalog entry as returned by the backend.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	Popularity       float64 `json:"popularity,omitempty"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	Adult            bool    `json:"adult"`
	Runtime          int     `json:"runtime,omitempty"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
}

// Response is a page of catalog results.
type Response struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// FilterValue exposes the attributes the movie filters read.
func (m Movie) FilterValue(field string) (any, bool) {
	switch field {
	case "vote_average":
		return m.VoteAverage, true
	case "release_date":
		if m.ReleaseDate == "" {
			return nil, false
		}
		return m.ReleaseDate, true
	case "genre_ids":
		return m.GenreIDs, true
	case "original_language":
		return m.OriginalLanguage, true
	case "title":
		return m.Title, true
	case "adult":
		return m.Adult, true
	case "runtime":
		if m.Runtime == 0 {
			return nil, false
		}
		return m.Runtime, true
	case "popularity":
		return m.Popularity, true
	default:
		return nil, false
	}
}

// SortValue returns the value used to order movies by field.
func (m Movie) SortValue(field filter.SortField) any {
	switch field {
	case filter.SortByRating:
		return m.VoteAverage
	case filter.SortByRelease:
		if m.ReleaseDate == "" {
			return nil
		}
		return m.ReleaseDate
	case filter.SortByTitle:
		return m.Title
	case filter.SortByPopularity:
		return m.Popularity
	default:
		return nil
	}
}

// Year returns the release year, or an empty string when unknown.
func (m Movie) Year() string {
	t, err := time.Parse("2006-01-02", m.ReleaseDate)
	if err != nil {
		return ""
	}
	return strconv.Itoa(t.Year())
}

// Exclude drops the movies whose id is in ids, keeping order.
func Exclude(movies []Movie, ids []int64) []Movie {
	if len(ids) == 0 {
		return movies
	}

	skip := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		skip[id] = struct{}{}
	}

	kept := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if _, ok := skip[m.ID]; !ok {
			kept = append(kept, m)
		}
	}
	return kept
}
