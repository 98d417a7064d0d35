package movie

import (
	"fmt"
	"time"

	"github.com/GustavoCaso/movienight/internal/filter"
)

// Genres maps catalog genre ids to their display name.
var Genres = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	18:    "Drama",
	14:    "Fantasy",
	27:    "Horror",
	10749: "Romance",
	878:   "Sci-Fi",
	53:    "Thriller",
}

// genreOrder is the order genres are offered in.
var genreOrder = []int{28, 12, 16, 35, 80, 18, 14, 27, 10749, 878, 53}

// GenreName returns the name of a genre id.
func GenreName(id int) string {
	if name, ok := Genres[id]; ok {
		return name
	}
	return fmt.Sprintf("genre %d", id)
}

var languages = []filter.Option{
	{Value: "en", Label: "English"},
	{Value: "fr", Label: "French"},
	{Value: "es", Label: "Spanish"},
	{Value: "de", Label: "German"},
	{Value: "it", Label: "Italian"},
	{Value: "ja", Label: "Japanese"},
	{Value: "ko", Label: "Korean"},
}

// DefaultFilterConfig returns the filters offered on movie results.
// The release year range ends at the year of now.
func DefaultFilterConfig(now time.Time) filter.Config {
	genres := make([]filter.Option, 0, len(genreOrder))
	for _, id := range genreOrder {
		label := Genres[id]
		if id == 878 {
			label = "Science Fiction"
		}
		genres = append(genres, filter.Option{Value: id, Label: label})
	}

	return filter.Config{
		{
			ID:    "rating",
			Label: "Rating",
			Kind:  filter.KindRange,
			Field: "vote_average",
			Range: &filter.Bounds{Min: 0, Max: 10, Step: 0.1},
		},
		{
			ID:      "genres",
			Label:   "Genres",
			Kind:    filter.KindMultiSelect,
			Field:   "genre_ids",
			Options: genres,
		},
		{
			ID:    "year",
			Label: "Release Year",
			Kind:  filter.KindRange,
			Field: "release_date",
			Year:  true,
			Range: &filter.Bounds{Min: 1900, Max: float64(now.Year()), Step: 1},
		},
		{
			ID:      "language",
			Label:   "Language",
			Kind:    filter.KindSelect,
			Field:   "original_language",
			Options: languages,
		},
		{
			ID:    "title",
			Label: "Title",
			Kind:  filter.KindSearch,
			Field: "title",
		},
	}
}
