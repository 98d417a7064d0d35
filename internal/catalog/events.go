package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/GustavoCaso/movienight/internal/event"
	"github.com/GustavoCaso/movienight/internal/movie"
)

func eventPath(id int64, action string) string {
	if action == "" {
		return fmt.Sprintf("/events/%d/", id)
	}
	return fmt.Sprintf("/events/%d/%s/", id, action)
}

// Events lists the events the user hosts or is invited to.
func (c *Client) Events(ctx context.Context) ([]event.Event, error) {
	events := []event.Event{}
	if err := c.get(ctx, "/events/", &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) Event(ctx context.Context, id int64) (*event.Event, error) {
	e := new(event.Event)
	if err := c.get(ctx, eventPath(id, ""), e); err != nil {
		return nil, err
	}
	return e, nil
}

func (c *Client) CreateEvent(ctx context.Context, d event.Draft) (*event.Event, error) {
	e := new(event.Event)
	err := c.do(ctx, call{method: http.MethodPost, path: "/events/", body: d}, e)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id int64, d event.Draft) (*event.Event, error) {
	e := new(event.Event)
	err := c.do(ctx, call{method: http.MethodPut, path: eventPath(id, ""), body: d}, e)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: eventPath(id, "")}, nil)
}

// InviteGuests invites emails to the event. Only the host may invite.
func (c *Client) InviteGuests(ctx context.Context, id int64, emails []string) ([]event.Invitation, error) {
	body := struct {
		Emails []string `json:"emails"`
	}{emails}

	invitations := []event.Invitation{}
	err := c.do(ctx, call{method: http.MethodPost, path: eventPath(id, "invite_guests"), body: body}, &invitations)
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

func (c *Client) RespondToInvitation(ctx context.Context, id int64, status event.InvitationStatus) (*event.Invitation, error) {
	body := struct {
		Status event.InvitationStatus `json:"status"`
	}{status}

	invitation := new(event.Invitation)
	err := c.do(ctx, call{method: http.MethodPost, path: eventPath(id, "respond_to_invitation"), body: body}, invitation)
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

// SubmitVote records the vote of the user for one movie option. A nil vote
// clears it.
func (c *Client) SubmitVote(ctx context.Context, id, movieID int64, vote *bool) (*event.Vote, error) {
	body := struct {
		MovieID int64 `json:"movie_id"`
		Vote    *bool `json:"vote"`
	}{movieID, vote}

	v := new(event.Vote)
	err := c.do(ctx, call{method: http.MethodPost, path: eventPath(id, "vote"), body: body}, v)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// VoteResults returns the tallies of the event, most yes votes first.
func (c *Client) VoteResults(ctx context.Context, id int64) (event.Results, error) {
	var byMovie map[string]event.Tally
	if err := c.get(ctx, eventPath(id, "vote_results"), &byMovie); err != nil {
		return nil, err
	}

	tallies := make([]event.Tally, 0, len(byMovie))
	for key, tally := range byMovie {
		movieID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid movie id %q in vote results", key)
		}
		tally.MovieID = movieID
		tallies = append(tallies, tally)
	}

	return event.NewResults(tallies), nil
}

// suggestion is a movie as stored by the backend, with nested genres.
type suggestion struct {
	movie.Movie
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// MovieSuggestions returns movies sharing genres with the event options.
func (c *Client) MovieSuggestions(ctx context.Context, id int64) ([]movie.Movie, error) {
	suggestions := []suggestion{}
	if err := c.get(ctx, eventPath(id, "movie_suggestions"), &suggestions); err != nil {
		return nil, err
	}

	movies := make([]movie.Movie, 0, len(suggestions))
	for _, s := range suggestions {
		m := s.Movie
		if len(m.GenreIDs) == 0 {
			for _, g := range s.Genres {
				m.GenreIDs = append(m.GenreIDs, g.ID)
			}
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// FinalizeMovie picks the movie of the event. Only the host may finalize.
func (c *Client) FinalizeMovie(ctx context.Context, id, movieID int64) error {
	body := struct {
		MovieID int64 `json:"movie_id"`
	}{movieID}

	return c.do(ctx, call{method: http.MethodPost, path: eventPath(id, "finalize_movie"), body: body}, nil)
}
