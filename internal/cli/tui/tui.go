package tui

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/GustavoCaso/movienight/internal/catalog"
	"github.com/GustavoCaso/movienight/internal/cli"
	"github.com/GustavoCaso/movienight/internal/filter"
	"github.com/GustavoCaso/movienight/internal/movie"
)

const (
	layoutSplitRatio = 3
	// header lines, help line and error line
	chromeHeight = 5
)

var selectedGenreStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("42")).
	Bold(true)

var cursorGenreStyle = lipgloss.NewStyle().
	Underline(true).
	Foreground(lipgloss.Color("69"))

var errorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196"))

type tuiCommand struct {
	query   string
	filters cli.FilterFlags
}

func NewCommand() cli.Command {
	return &tuiCommand{}
}

func (c *tuiCommand) Description() string {
	return "Browse and filter movies interactively"
}

func (c *tuiCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.query, "q", "", "start with the results of this search instead of popular movies")
	c.filters.Register(fs)
}

type browseKeymap struct {
	PrevGenre   key.Binding
	NextGenre   key.Binding
	ToggleGenre key.Binding
	LowerRating key.Binding
	RaiseRating key.Binding
	Up          key.Binding
	Down        key.Binding
	Details     key.Binding
	Search      key.Binding
	Reset       key.Binding
	Exit        key.Binding
}

func (k browseKeymap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevGenre, k.NextGenre, k.ToggleGenre, k.LowerRating, k.RaiseRating, k.Search, k.Reset, k.Exit}
}

func (k browseKeymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevGenre, k.NextGenre, k.ToggleGenre},
		{k.LowerRating, k.RaiseRating, k.Reset},
		{k.Up, k.Down, k.Details, k.Search, k.Exit},
	}
}

type searchKeymap struct {
	Done key.Binding
	Exit key.Binding
}

func (k searchKeymap) ShortHelp() []key.Binding {
	return []key.Binding{k.Done, k.Exit}
}

func (k searchKeymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Done, k.Exit}}
}

func browseKeyMap() browseKeymap {
	return browseKeymap{
		PrevGenre: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous genre"),
		),
		NextGenre: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next genre"),
		),
		ToggleGenre: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle genre"),
		),
		LowerRating: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "lower min rating"),
		),
		RaiseRating: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "raise min rating"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Details: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load details"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset filters"),
		),
		Exit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "exit"),
		),
	}
}

func searchKeyMap() searchKeymap {
	return searchKeymap{
		Done: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter/esc", "back to results"),
		),
		Exit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "exit"),
		),
	}
}

// searcher keeps a single catalog request in flight.
type searcher interface {
	Search(ctx context.Context, query string) ([]movie.Movie, error)
	Popular(ctx context.Context) ([]movie.Movie, error)
}

type moviesMsg struct {
	movies []movie.Movie
}

type detailsMsg struct {
	movie *movie.Movie
}

type errMsg struct {
	err error
}

type model struct {
	ctx      context.Context
	catalog  cli.Catalog
	searcher searcher

	cfg   filter.Config
	state filter.State
	sort  *filter.SortOptions

	// genres and rating are the descriptors driven by the keyboard.
	genres      *filter.Descriptor
	rating      *filter.Descriptor
	genreCursor int

	all      []movie.Movie
	visible  []movie.Movie
	excluded []int64
	query    string

	results resultsTable
	detail  movieDetail
	input   textinput.Model
	help    help.Model

	browseKeyMap browseKeymap
	searchKeyMap searchKeymap
	searching    bool

	err error

	width  int
	height int
}

func initialModel(ctx context.Context, c cli.Catalog, s searcher, cfg filter.Config, st filter.State, query string, width, height int) model {
	input := textinput.New()
	input.Prompt = "search: "
	input.Placeholder = "title"
	input.SetValue(query)

	m := model{
		ctx:      ctx,
		catalog:  c,
		searcher: s,

		cfg:   cfg,
		state: st,
		sort:  filter.DefaultSortOptions(),

		genres: firstOfKind(cfg, filter.KindMultiSelect),
		rating: firstOfKind(cfg, filter.KindRange),

		query: query,

		results: newResults(nil, width*(layoutSplitRatio-1)/layoutSplitRatio, max(height-chromeHeight, 1)),
		detail:  newMovieDetail(width/layoutSplitRatio, max(height-chromeHeight, 1)),
		input:   input,
		help:    help.New(),

		browseKeyMap: browseKeyMap(),
		searchKeyMap: searchKeyMap(),

		width:  width,
		height: height,
	}

	return m
}

func firstOfKind(cfg filter.Config, kind filter.Kind) *filter.Descriptor {
	for i := range cfg {
		if cfg[i].Kind == kind {
			d := cfg[i]
			return &d
		}
	}
	return nil
}

func (m model) Init() tea.Cmd {
	return m.load(m.query)
}

// load fetches the movies to browse: popular movies for a blank query,
// search results otherwise.
func (m model) load(query string) tea.Cmd {
	return func() tea.Msg {
		var (
			movies []movie.Movie
			err    error
		)
		if strings.TrimSpace(query) == "" {
			movies, err = m.searcher.Popular(m.ctx)
		} else {
			movies, err = m.searcher.Search(m.ctx, query)
		}
		if err != nil {
			return errMsg{err}
		}
		return moviesMsg{movies: movies}
	}
}

func (m model) loadDetails(id int64) tea.Cmd {
	return func() tea.Msg {
		details, err := m.catalog.MovieDetails(m.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return detailsMsg{movie: details}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetWidth(msg.Width)
		m.SetHeight(msg.Height)
	case moviesMsg:
		m.all = msg.movies
		m.err = nil
		m.refilter()
	case detailsMsg:
		m.detail = m.detail.SetDetails(msg.movie)
	case errMsg:
		if !errors.Is(msg.err, catalog.ErrSuperseded) && !errors.Is(msg.err, context.Canceled) {
			m.err = msg.err
		}
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		switch {
		case key.Matches(msg, m.browseKeyMap.Exit):
			return m, tea.Quit
		case key.Matches(msg, m.browseKeyMap.PrevGenre):
			m.moveGenreCursor(-1)
		case key.Matches(msg, m.browseKeyMap.NextGenre):
			m.moveGenreCursor(1)
		case key.Matches(msg, m.browseKeyMap.ToggleGenre):
			m.toggleGenre()
		case key.Matches(msg, m.browseKeyMap.LowerRating):
			m.stepRating(-1)
		case key.Matches(msg, m.browseKeyMap.RaiseRating):
			m.stepRating(1)
		case key.Matches(msg, m.browseKeyMap.Reset):
			m.state = filter.Reset(m.cfg)
			m.refilter()
		case key.Matches(msg, m.browseKeyMap.Search):
			m.searching = true
			cmd = m.input.Focus()
		case key.Matches(msg, m.browseKeyMap.Details):
			if selected := m.selected(); selected != nil {
				cmd = m.loadDetails(selected.ID)
			}
		case key.Matches(msg, m.browseKeyMap.Up), key.Matches(msg, m.browseKeyMap.Down):
			m.results, cmd = m.results.Update(msg)
			m.detail = m.detail.SetMovie(m.selected())
		}
	}

	m.results = m.results.UpdateDimensions(m.width*(layoutSplitRatio-1)/layoutSplitRatio, max(m.height-chromeHeight, 1))
	m.detail = m.detail.UpdateDimensions(m.width/layoutSplitRatio, max(m.height-chromeHeight, 1))

	return m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.searchKeyMap.Exit):
		return m, tea.Quit
	case key.Matches(msg, m.searchKeyMap.Done):
		m.searching = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if query := m.input.Value(); query != m.query {
		m.query = query
		return m, tea.Batch(cmd, m.load(query))
	}

	return m, cmd
}

// refilter recomputes the visible movies from the loaded ones.
func (m *model) refilter() {
	visible, err := filter.Apply(movie.Exclude(m.all, m.excluded), m.state, m.cfg)
	if err != nil {
		m.err = err
		visible = []movie.Movie{}
	}

	m.visible = filter.SortItems(visible, m.sort)
	m.results = m.results.SetMovies(m.visible)
	m.detail = m.detail.SetMovie(m.selected())
}

func (m model) selected() *movie.Movie {
	cursor := m.results.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return nil
	}
	selected := m.visible[cursor]
	return &selected
}

func (m *model) moveGenreCursor(delta int) {
	if m.genres == nil || len(m.genres.Options) == 0 {
		return
	}
	n := len(m.genres.Options)
	m.genreCursor = ((m.genreCursor+delta)%n + n) % n
}

func (m *model) toggleGenre() {
	if m.genres == nil || len(m.genres.Options) == 0 {
		return
	}

	current, _ := m.state[m.genres.ID].(filter.Selection)
	option := m.genres.Options[m.genreCursor]

	m.state = m.state.Update(m.genres.ID, current.Toggle(option.Value))
	m.refilter()
}

// stepRating moves the lower bound of the rating interval by one step,
// staying within the descriptor limits.
func (m *model) stepRating(direction float64) {
	if m.rating == nil || m.rating.Range == nil {
		return
	}

	limits := m.rating.Range
	step := limits.Step
	if step <= 0 {
		step = 1
	}

	current, _ := m.state[m.rating.ID].(filter.Interval)
	lo := limits.Min
	if current.Min != nil {
		lo = *current.Min
	}

	next := math.Round((lo+direction*step)/step) * step
	// trims float noise such as 7.1000000000000005
	next = math.Round(next*1e6) / 1e6
	next = math.Max(limits.Min, math.Min(next, limits.Max))
	if current.Max != nil && next > *current.Max {
		next = *current.Max
	}

	current.Min = &next
	m.state = m.state.Update(m.rating.ID, current)
	m.refilter()
}

func (m model) View() string {
	header := []string{m.genresView(), m.statusView()}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.results.View(), m.detail.View())

	var helpView string
	if m.searching {
		helpView = m.help.View(m.searchKeyMap)
	} else {
		helpView = m.help.View(m.browseKeyMap)
	}

	sections := append(header, body, helpView)
	if m.err != nil {
		sections = append(sections, errorStyle.Render(m.err.Error()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) genresView() string {
	if m.genres == nil {
		return ""
	}

	current, _ := m.state[m.genres.ID].(filter.Selection)

	parts := make([]string, 0, len(m.genres.Options))
	for i, o := range m.genres.Options {
		label := o.Label
		if current.Contains(o.Value) {
			label = selectedGenreStyle.Render("✓" + label)
		}
		if i == m.genreCursor {
			label = cursorGenreStyle.Render(label)
		}
		parts = append(parts, label)
	}

	return m.genres.Label + ": " + strings.Join(parts, " ")
}

func (m model) statusView() string {
	var parts []string

	if m.rating != nil {
		if current, ok := m.state[m.rating.ID].(filter.Interval); ok && current.Min != nil {
			parts = append(parts, fmt.Sprintf("%s ≥ %g", m.rating.Label, *current.Min))
		}
	}

	parts = append(parts, m.input.View())
	parts = append(parts, fmt.Sprintf("%d/%d movies", len(m.visible), len(m.all)))

	return strings.Join(parts, "  ·  ")
}

func (m *model) SetHeight(height int) {
	m.height = height
}

func (m *model) SetWidth(width int) {
	m.width = width
}

func (c *tuiCommand) Run(ctx context.Context, env *cli.Env) error {
	w, h, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return fmt.Errorf("failed to get terminal size: %w", err)
	}

	if len(os.Getenv("MOVIENIGHT_DEBUG")) > 0 {
		f, logErr := tea.LogToFile("debug.log", "debug")
		if logErr != nil {
			return fmt.Errorf("failed to log to file: %w", logErr)
		}
		defer f.Close()
	}

	st, err := c.filters.State(ctx, env.Config.Filters, env.Storage)
	if err != nil {
		return err
	}

	s := catalog.NewSearcher(env.Catalog)
	defer s.Close()

	m := initialModel(ctx, env.Catalog, s, env.Config.Filters, st, c.query, w, h)
	if m.sort, err = c.filters.SortOptions(); err != nil {
		return err
	}
	if m.excluded, err = c.filters.Excluded(ctx, env); err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
