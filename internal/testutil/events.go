package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/GustavoCaso/movienight/internal/event"
	"github.com/GustavoCaso/movienight/internal/movie"
)

// ErrEventNotFound is returned for unknown event ids.
var ErrEventNotFound = errors.New("event not found")

// Events keeps events in memory and votes as UserID.
type Events struct {
	UserID      int64
	Suggestions []movie.Movie
	Err         error

	mu        sync.Mutex
	events    map[int64]*event.Event
	nextID    int64
	Invited   map[int64][]string
	Responses map[int64]event.InvitationStatus
	Finalized map[int64]int64
}

func NewEvents() *Events {
	return &Events{
		UserID:      7,
		Suggestions: Movies(),
		events:      map[int64]*event.Event{},
		nextID:      1,
		Invited:     map[int64][]string{},
		Responses:   map[int64]event.InvitationStatus{},
		Finalized:   map[int64]int64{},
	}
}

// Add stores e as is and returns its id.
func (f *Events) Add(e event.Event) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == 0 {
		e.ID = f.nextID
	}
	f.nextID = max(f.nextID, e.ID) + 1
	f.events[e.ID] = &e
	return e.ID
}

func (f *Events) find(id int64) (*event.Event, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	e, ok := f.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	return e, nil
}

func (f *Events) Events(context.Context) ([]event.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	events := make([]event.Event, 0, len(f.events))
	for _, e := range f.events {
		events = append(events, *e)
	}
	slices.SortFunc(events, func(a, b event.Event) int { return int(a.ID - b.ID) })
	return events, nil
}

func (f *Events) Event(_ context.Context, id int64) (*event.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, err := f.find(id)
	if err != nil {
		return nil, err
	}
	c := *e
	return &c, nil
}

func (f *Events) CreateEvent(_ context.Context, d event.Draft) (*event.Event, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	host := f.UserID
	id := f.Add(event.Event{
		Title:        d.Title,
		Description:  d.Description,
		Date:         d.Date,
		Location:     d.Location,
		MovieOptions: d.MovieOptions,
		Guests:       d.Guests,
		Host:         &host,
	})
	return f.Event(context.Background(), id)
}

func (f *Events) UpdateEvent(_ context.Context, id int64, d event.Draft) (*event.Event, error) {
	f.mu.Lock()
	e, err := f.find(id)
	if err == nil {
		e.Title, e.Description, e.Date, e.Location = d.Title, d.Description, d.Date, d.Location
		e.MovieOptions, e.Guests = d.MovieOptions, d.Guests
	}
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Event(context.Background(), id)
}

func (f *Events) DeleteEvent(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.find(id); err != nil {
		return err
	}
	delete(f.events, id)
	return nil
}

func (f *Events) InviteGuests(_ context.Context, id int64, emails []string) ([]event.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.find(id); err != nil {
		return nil, err
	}
	invitations := make([]event.Invitation, 0, len(emails))
	for _, email := range emails {
		f.Invited[id] = append(f.Invited[id], email)
		invitations = append(invitations, event.Invitation{Event: id, Email: email, Status: event.StatusPending})
	}
	return invitations, nil
}

func (f *Events) RespondToInvitation(_ context.Context, id int64, status event.InvitationStatus) (*event.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.find(id); err != nil {
		return nil, err
	}
	f.Responses[id] = status
	return &event.Invitation{Event: id, Status: status}, nil
}

func (f *Events) SubmitVote(_ context.Context, id, movieID int64, vote *bool) (*event.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, err := f.find(id)
	if err != nil {
		return nil, err
	}
	if !e.HasOption(movieID) {
		return nil, fmt.Errorf("movie %d is not an option of event %d", movieID, id)
	}

	v := event.Vote{Event: id, Movie: movieID, User: f.UserID, Vote: vote}
	for i, existing := range e.MovieVotes {
		if existing.Movie == movieID && existing.User == f.UserID {
			e.MovieVotes[i] = v
			return &v, nil
		}
	}
	e.MovieVotes = append(e.MovieVotes, v)
	return &v, nil
}

func (f *Events) VoteResults(_ context.Context, id int64) (event.Results, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, err := f.find(id)
	if err != nil {
		return nil, err
	}

	titles := map[int64]string{}
	for _, m := range Movies() {
		titles[m.ID] = m.Title
	}

	tallies := make([]event.Tally, 0, len(e.MovieOptions))
	for _, movieID := range e.MovieOptions {
		t := event.Tally{MovieID: movieID, MovieTitle: titles[movieID]}
		for _, v := range e.MovieVotes {
			if v.Movie != movieID {
				continue
			}
			t.TotalVotes++
			switch {
			case v.Vote == nil:
				t.PendingVotes++
			case *v.Vote:
				t.YesVotes++
			default:
				t.NoVotes++
			}
		}
		tallies = append(tallies, t)
	}
	return event.NewResults(tallies), nil
}

func (f *Events) MovieSuggestions(_ context.Context, id int64) ([]movie.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.find(id); err != nil {
		return nil, err
	}
	return slices.Clone(f.Suggestions), nil
}

func (f *Events) FinalizeMovie(_ context.Context, id, movieID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, err := f.find(id)
	if err != nil {
		return err
	}
	if !e.HasOption(movieID) {
		return fmt.Errorf("movie %d is not an option of event %d", movieID, id)
	}
	f.Finalized[id] = movieID
	return nil
}
