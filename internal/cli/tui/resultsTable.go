package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/GustavoCaso/movienight/internal/movie"
)

type resultsTable struct {
	table table.Model
}

func newResults(movies []movie.Movie, width, height int) resultsTable {
	t := table.New(
		table.WithColumns(createResultsColumns(width)),
		table.WithRows(movieRows(movies)),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	return resultsTable{
		table: t,
	}
}

func (r resultsTable) Cursor() int {
	return r.table.Cursor()
}

func (r resultsTable) SetMovies(movies []movie.Movie) resultsTable {
	t := r.table
	t.SetRows(movieRows(movies))
	if t.Cursor() >= len(movies) {
		t.SetCursor(max(len(movies)-1, 0))
	}

	return resultsTable{
		table: t,
	}
}

func (r resultsTable) Update(msg tea.Msg) (resultsTable, tea.Cmd) {
	var cmd tea.Cmd
	r.table.Focus()
	r.table, cmd = r.table.Update(msg)
	return r, cmd
}

func (r resultsTable) UpdateDimensions(width, height int) resultsTable {
	t := r.table
	t.SetColumns(createResultsColumns(width))
	t.SetWidth(width)
	t.SetHeight(height)

	return resultsTable{
		table: t,
	}
}

func (r resultsTable) View() string {
	return r.table.View()
}

func createResultsColumns(width int) []table.Column {
	w := width / 8

	return []table.Column{
		{Title: "Title", Width: w * 3},
		{Title: "Year", Width: w},
		{Title: "Rating", Width: w},
		{Title: "Genres", Width: w * 3},
	}
}
