package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"

	"github.com/GustavoCaso/movienight/internal/movie"
	"github.com/GustavoCaso/movienight/internal/util"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

var faintStyle = lipgloss.NewStyle().Faint(true)

type movieDetail struct {
	movie  *movie.Movie
	width  int
	height int
}

func newMovieDetail(width, height int) movieDetail {
	return movieDetail{
		width:  width,
		height: height,
	}
}

// SetMovie shows m. Details already fetched for the same movie are kept.
func (d movieDetail) SetMovie(m *movie.Movie) movieDetail {
	if m != nil && d.movie != nil && d.movie.ID == m.ID {
		return d
	}
	d.movie = m
	return d
}

// SetDetails replaces the shown movie when it is the one the details belong to.
func (d movieDetail) SetDetails(m *movie.Movie) movieDetail {
	if d.movie == nil || m == nil || d.movie.ID != m.ID {
		return d
	}
	d.movie = m
	return d
}

func (d movieDetail) UpdateDimensions(width, height int) movieDetail {
	d.width = width
	d.height = height
	return d
}

func (d movieDetail) View() string {
	style := lipgloss.NewStyle().Width(d.width).MaxHeight(d.height).PaddingLeft(1)

	if d.movie == nil {
		return style.Render(faintStyle.Render("No movie selected"))
	}

	m := d.movie
	header := titleStyle.Render(m.Title)
	if year := m.Year(); year != "" {
		header = fmt.Sprintf("%s (%s)", header, year)
	}

	facts := fmt.Sprintf("rating %s · runtime %s · %s",
		util.FormatRating(m.VoteAverage),
		util.FormatRuntime(m.Runtime),
		m.OriginalLanguage,
	)

	genres := make([]any, 0, len(m.GenreIDs))
	for _, id := range m.GenreIDs {
		genres = append(genres, movie.GenreName(id))
	}

	sections := []string{header, faintStyle.Render(facts)}
	if len(genres) > 0 {
		sections = append(sections, list.New(genres...).String())
	}
	if m.Overview != "" {
		sections = append(sections, "", m.Overview)
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
