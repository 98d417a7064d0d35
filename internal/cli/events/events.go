package events

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GustavoCaso/movienight/internal/cli"
	"github.com/GustavoCaso/movienight/internal/event"
	"github.com/GustavoCaso/movienight/internal/util"
)

const actions = "list, show, create, update, delete, invite, respond, vote, results, suggest, finalize"

type eventCommand struct {
	title       string
	description string
	date        string
	location    string
	movies      string
	guests      string
	verbose     bool
	filters     cli.FilterFlags

	now func() time.Time
}

func NewCommand() cli.Command {
	return &eventCommand{now: time.Now}
}

func (c *eventCommand) Description() string {
	return "Plan movie nights: " + actions
}

func (c *eventCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "event title")
	fs.StringVar(&c.description, "description", "", "event description")
	fs.StringVar(&c.date, "date", "", "event date as YYYY-MM-DD HH:MM, local time")
	fs.StringVar(&c.location, "location", "", "event location")
	fs.StringVar(&c.movies, "movies", "", "comma separated movie ids to vote on, up to 5")
	fs.StringVar(&c.guests, "guests", "", "comma separated guest emails")
	fs.BoolVar(&c.verbose, "v", false, "show overview and runtime of suggestions")
	c.filters.Register(fs)
}

func (c *eventCommand) Run(ctx context.Context, env *cli.Env) error {
	if len(env.Args) == 0 {
		return fmt.Errorf("missing event action, expected one of %s", actions)
	}
	if env.Events == nil {
		return errors.New("events are not available")
	}

	action, args := env.Args[0], env.Args[1:]

	switch action {
	case "list":
		return c.list(ctx, env)
	case "create":
		return c.create(ctx, env)
	}

	if len(args) == 0 {
		return fmt.Errorf("event %s requires an event id", action)
	}
	id, err := parseID(args[0], "event")
	if err != nil {
		return err
	}
	args = args[1:]

	switch action {
	case "show":
		return c.show(ctx, env, id)
	case "update":
		return c.update(ctx, env, id)
	case "delete":
		return c.delete(ctx, env, id)
	case "invite":
		return c.invite(ctx, env, id, args)
	case "respond":
		return c.respond(ctx, env, id, args)
	case "vote":
		return c.vote(ctx, env, id, args)
	case "results":
		return c.results(ctx, env, id)
	case "suggest":
		return c.suggest(ctx, env, id)
	case "finalize":
		return c.finalize(ctx, env, id, args)
	default:
		return fmt.Errorf("unknown event action %q", action)
	}
}

func (c *eventCommand) list(ctx context.Context, env *cli.Env) error {
	events, err := env.Events.Events(ctx)
	if err != nil {
		return fmt.Errorf("unable to list events: %w", err)
	}

	var userID int64
	if session, sessionErr := env.Storage.GetSession(ctx, env.Config.API.BaseURL); sessionErr == nil {
		userID = session.UserID()
	}

	return cli.RenderEvents(env.Out, events, userID)
}

func (c *eventCommand) show(ctx context.Context, env *cli.Env, id int64) error {
	e, err := env.Events.Event(ctx, id)
	if err != nil {
		return fmt.Errorf("unable to load event %d: %w", id, err)
	}
	return cli.RenderEvent(env.Out, *e)
}

func (c *eventCommand) create(ctx context.Context, env *cli.Env) error {
	d, err := c.draft(event.Draft{})
	if err != nil {
		return err
	}

	e, err := env.Events.CreateEvent(ctx, d)
	if err != nil {
		return fmt.Errorf("unable to create event: %w", err)
	}

	env.Logger.Info("Event created", "id", e.ID, "movies", len(d.MovieOptions), "guests", len(d.Guests))

	fmt.Fprintf(env.Out, "Created event %s (#%d)\n", util.ColorOutput(e.Title, "bold"), e.ID)
	return nil
}

func (c *eventCommand) update(ctx context.Context, env *cli.Env, id int64) error {
	current, err := env.Events.Event(ctx, id)
	if err != nil {
		return fmt.Errorf("unable to load event %d: %w", id, err)
	}

	d, err := c.draft(event.DraftOf(*current))
	if err != nil {
		return err
	}

	e, err := env.Events.UpdateEvent(ctx, id, d)
	if err != nil {
		return fmt.Errorf("unable to update event %d: %w", id, err)
	}

	fmt.Fprintf(env.Out, "Updated event %s (#%d)\n", util.ColorOutput(e.Title, "bold"), e.ID)
	return nil
}

// draft applies the flags that were given on top of base and validates
// the result.
func (c *eventCommand) draft(base event.Draft) (event.Draft, error) {
	d := base
	if c.title != "" {
		d.Title = c.title
	}
	if c.description != "" {
		d.Description = c.description
	}
	if c.location != "" {
		d.Location = c.location
	}
	if c.date != "" {
		date, err := event.ParseDate(c.date, time.Local)
		if err != nil {
			return d, err
		}
		d.Date = date
	}
	if c.movies != "" {
		ids, err := parseIDs(c.movies)
		if err != nil {
			return d, err
		}
		d.MovieOptions = ids
	}
	if c.guests != "" {
		d.Guests = strings.Split(c.guests, ",")
	}

	d = d.Normalize()
	if err := d.Validate(c.now()); err != nil {
		return d, fmt.Errorf("invalid event:\n%w", err)
	}
	return d, nil
}

func (c *eventCommand) delete(ctx context.Context, env *cli.Env, id int64) error {
	if err := env.Events.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("unable to delete event %d: %w", id, err)
	}

	fmt.Fprintf(env.Out, "Deleted event #%d\n", id)
	return nil
}

func (c *eventCommand) invite(ctx context.Context, env *cli.Env, id int64, emails []string) error {
	d := event.Draft{Guests: emails}.Normalize()
	if len(d.Guests) == 0 {
		return errors.New("event invite requires at least one email")
	}
	for _, g := range d.Guests {
		if err := event.ValidateEmail(g); err != nil {
			return err
		}
	}

	invitations, err := env.Events.InviteGuests(ctx, id, d.Guests)
	if err != nil {
		return fmt.Errorf("unable to invite guests to event %d: %w", id, err)
	}

	for _, inv := range invitations {
		fmt.Fprintf(env.Out, "Invited %s (%s)\n", util.ColorOutput(inv.Email, "bold"), inv.Status)
	}
	return nil
}

func (c *eventCommand) respond(ctx context.Context, env *cli.Env, id int64, args []string) error {
	if len(args) != 1 {
		return errors.New("event respond requires accepted or declined")
	}
	status, err := event.ParseResponse(args[0])
	if err != nil {
		return err
	}

	if _, err = env.Events.RespondToInvitation(ctx, id, status); err != nil {
		return fmt.Errorf("unable to respond to event %d: %w", id, err)
	}

	fmt.Fprintf(env.Out, "Invitation to event #%d %s\n", id, status)
	return nil
}

func (c *eventCommand) vote(ctx context.Context, env *cli.Env, id int64, args []string) error {
	if len(args) != 2 {
		return errors.New("event vote requires a movie id and yes, no or clear")
	}
	movieID, err := parseID(args[0], "movie")
	if err != nil {
		return err
	}
	vote, err := event.ParseVote(args[1])
	if err != nil {
		return err
	}
	if err = checkOption(ctx, env, id, movieID); err != nil {
		return err
	}

	if _, err = env.Events.SubmitVote(ctx, id, movieID, vote); err != nil {
		return fmt.Errorf("unable to vote on event %d: %w", id, err)
	}

	switch {
	case vote == nil:
		fmt.Fprintf(env.Out, "Cleared vote for movie #%d\n", movieID)
	case *vote:
		fmt.Fprintf(env.Out, "Voted %s for movie #%d\n", util.ColorOutput("yes", "green"), movieID)
	default:
		fmt.Fprintf(env.Out, "Voted %s for movie #%d\n", util.ColorOutput("no", "red"), movieID)
	}
	return nil
}

func (c *eventCommand) results(ctx context.Context, env *cli.Env, id int64) error {
	results, err := env.Events.VoteResults(ctx, id)
	if err != nil {
		return fmt.Errorf("unable to load results of event %d: %w", id, err)
	}
	return cli.RenderResults(env.Out, results)
}

// suggest filters the suggestions of the backend like any other result
// list, leaving out the movies the event already proposes.
func (c *eventCommand) suggest(ctx context.Context, env *cli.Env, id int64) error {
	suggestions, err := env.Events.MovieSuggestions(ctx, id)
	if err != nil {
		return fmt.Errorf("unable to load suggestions for event %d: %w", id, err)
	}

	if c.filters.Event == 0 {
		c.filters.Event = id
	}

	movies, err := c.filters.Refine(ctx, env, suggestions)
	if err != nil {
		return err
	}

	return cli.RenderMovies(env.Out, movies, c.verbose)
}

func (c *eventCommand) finalize(ctx context.Context, env *cli.Env, id int64, args []string) error {
	if len(args) != 1 {
		return errors.New("event finalize requires a movie id")
	}
	movieID, err := parseID(args[0], "movie")
	if err != nil {
		return err
	}
	if err = checkOption(ctx, env, id, movieID); err != nil {
		return err
	}

	if err = env.Events.FinalizeMovie(ctx, id, movieID); err != nil {
		return fmt.Errorf("unable to finalize event %d: %w", id, err)
	}

	env.Logger.Info("Event finalized", "id", id, "movie", movieID)

	fmt.Fprintf(env.Out, "Movie #%d picked for event #%d\n", movieID, id)
	return nil
}

// checkOption rejects movies that are not among the options of the event.
func checkOption(ctx context.Context, env *cli.Env, id, movieID int64) error {
	e, err := env.Events.Event(ctx, id)
	if err != nil {
		return fmt.Errorf("unable to load event %d: %w", id, err)
	}
	if !e.HasOption(movieID) {
		return fmt.Errorf("movie %d is not an option of event %d", movieID, id)
	}
	return nil
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, raw)
	}
	return id, nil
}

func parseIDs(raw string) ([]int64, error) {
	ids := []int64{}
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, err := parseID(part, "movie")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
