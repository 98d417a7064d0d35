package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"

	"github.com/GustavoCaso/movienight/internal/movie"
	"github.com/GustavoCaso/movienight/internal/util"
)

func movieRow(m movie.Movie) table.Row {
	return table.Row{
		m.Title,
		m.Year(),
		util.FormatRating(m.VoteAverage),
		genreList(m.GenreIDs),
	}
}

func movieRows(movies []movie.Movie) []table.Row {
	rows := make([]table.Row, len(movies))
	for i, m := range movies {
		rows[i] = movieRow(m)
	}
	return rows
}

func genreList(ids []int) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, movie.GenreName(id))
	}
	return strings.Join(names, ", ")
}
