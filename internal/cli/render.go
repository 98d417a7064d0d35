package cli

import (
	"embed"
	"io"
	"path"
	"strings"
	"text/template"
	"time"

	"github.com/GustavoCaso/movienight/internal/event"
	"github.com/GustavoCaso/movienight/internal/filter"
	"github.com/GustavoCaso/movienight/internal/movie"
	"github.com/GustavoCaso/movienight/internal/util"
)

// content holds our static content.
//
//go:embed templates/*
var content embed.FS

const overviewWidth = 120

type moviesView struct {
	Movies  []movie.Movie
	Verbose bool
}

var templateFuncs = template.FuncMap{
	"colorOutput": util.ColorOutput,
	"rating": func(rating float64) string {
		return util.ColorOutput(util.FormatRating(rating), util.RatingColors(rating)...)
	},
	"runtime":  util.FormatRuntime,
	"genres":   genreNames,
	"overview": func(text string) string { return util.Truncate(text, overviewWidth) },
	"join":     strings.Join,
	"date":     func(t time.Time) string { return t.Local().Format("Mon 02 Jan 2006 15:04") },
}

func genreNames(ids []int) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, movie.GenreName(id))
	}
	return strings.Join(names, ", ")
}

// RenderMovies prints movies in result order.
func RenderMovies(out io.Writer, movies []movie.Movie, verbose bool) error {
	return renderTemplate(out, "movies.tmpl", moviesView{
		Movies:  movies,
		Verbose: verbose,
	})
}

type eventLine struct {
	event.Event
	Hosting bool
}

// RenderEvents prints one line per event, marking the ones userID hosts.
func RenderEvents(out io.Writer, events []event.Event, userID int64) error {
	lines := make([]eventLine, 0, len(events))
	for _, e := range events {
		lines = append(lines, eventLine{Event: e, Hosting: userID != 0 && e.HostedBy(userID)})
	}
	return renderTemplate(out, "events.tmpl", lines)
}

type optionView struct {
	ID      int64
	Yes, No int
}

type eventView struct {
	event.Event
	Options []optionView
}

// RenderEvent prints an event with the votes of each movie option.
func RenderEvent(out io.Writer, e event.Event) error {
	view := eventView{Event: e}
	for _, id := range e.MovieOptions {
		option := optionView{ID: id}
		for _, v := range e.MovieVotes {
			if v.Movie != id || v.Vote == nil {
				continue
			}
			if *v.Vote {
				option.Yes++
			} else {
				option.No++
			}
		}
		view.Options = append(view.Options, option)
	}
	return renderTemplate(out, "event.tmpl", view)
}

type resultsView struct {
	Results event.Results
	Leader  *event.Tally
}

// RenderResults prints the vote tallies and the leading movie, if any.
func RenderResults(out io.Writer, results event.Results) error {
	view := resultsView{Results: results}
	if leader, ok := results.Leader(); ok {
		view.Leader = &leader
	}
	return renderTemplate(out, "results.tmpl", view)
}

// RenderState prints the non default selections of st.
func RenderState(out io.Writer, st filter.State, cfg filter.Config) error {
	return renderTemplate(out, "state.tmpl", stateView(st, cfg))
}

type stateLine struct {
	Label string
	ID    string
	Value string
}

func stateView(st filter.State, cfg filter.Config) []stateLine {
	lines := []stateLine{}
	for _, id := range st.Active(cfg) {
		d, _ := cfg.Lookup(id)
		lines = append(lines, stateLine{
			Label: d.Label,
			ID:    id,
			Value: DescribeValue(d, st[id]),
		})
	}
	return lines
}

// DescribeValue returns a human readable form of a selection.
func DescribeValue(d filter.Descriptor, v filter.Value) string {
	switch x := v.(type) {
	case filter.Interval:
		return x.String()
	case filter.Selection:
		labels := make([]string, 0, len(x))
		for _, value := range x {
			labels = append(labels, d.OptionLabel(value))
		}
		return strings.Join(labels, ", ")
	case filter.Choice:
		if x.Value == nil {
			return "any"
		}
		return d.OptionLabel(x.Value)
	case filter.Query:
		return `"` + string(x) + `"`
	default:
		return "-"
	}
}

func renderTemplate(out io.Writer, templateName string, value interface{}) error {
	tmpl, err := content.ReadFile(path.Join("templates", templateName))
	if err != nil {
		return err
	}
	t := template.Must(template.New(templateName).Funcs(templateFuncs).Parse(string(tmpl)))
	return t.Execute(out, value)
}
