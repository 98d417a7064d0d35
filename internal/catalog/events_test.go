package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/GustavoCaso/movienight/internal/event"
)

const eventJSON = `{"id":12,"title":"Friday night","description":"Bring snacks",
	"date":"2025-07-04T20:30:00Z","location":"Home","host":7,"movie_options":[603,604],
	"movie_votes":[{"id":1,"event":12,"movie":603,"user":7,"vote":true}]}`

// request is what the backend received.
type request struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func recordingClient(t *testing.T, status int, response string) (*Client, *request) {
	t.Helper()

	got := &request{}
	client := newAuthClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&got.body)
		}
		w.WriteHeader(status)
		fmt.Fprint(w, response)
	}), StaticToken("t0k3n"))

	return client, got
}

func TestEvents(t *testing.T) {
	client, got := recordingClient(t, http.StatusOK, "["+eventJSON+"]")

	events, err := client.Events(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.method != http.MethodGet || got.path != "/api/events/" || got.auth != "Bearer t0k3n" {
		t.Errorf("unexpected request %+v", got)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	e := events[0]
	if e.ID != 12 || e.Title != "Friday night" || !e.HostedBy(7) {
		t.Errorf("unexpected event %+v", e)
	}
	if !e.Date.Equal(time.Date(2025, 7, 4, 20, 30, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", e.Date)
	}
	if !reflect.DeepEqual(e.MovieOptions, []int64{603, 604}) {
		t.Errorf("unexpected movie options %v", e.MovieOptions)
	}
	if len(e.MovieVotes) != 1 || e.MovieVotes[0].Vote == nil || !*e.MovieVotes[0].Vote {
		t.Errorf("unexpected votes %+v", e.MovieVotes)
	}
}

func TestEventRequests(t *testing.T) {
	date := time.Date(2025, 7, 4, 20, 30, 0, 0, time.UTC)
	draft := event.Draft{
		Title:        "Friday night",
		Date:         date,
		MovieOptions: []int64{603},
		Guests:       []string{"ana@example.com"},
	}
	yes := true

	tests := []struct {
		name       string
		status     int
		response   string
		call       func(c *Client) error
		wantMethod string
		wantPath   string
		wantBody   map[string]any
	}{
		{
			name:     "show",
			response: eventJSON,
			call: func(c *Client) error {
				e, err := c.Event(context.Background(), 12)
				if err == nil && e.ID != 12 {
					err = fmt.Errorf("unexpected event %+v", e)
				}
				return err
			},
			wantMethod: http.MethodGet,
			wantPath:   "/api/events/12/",
		},
		{
			name:     "create",
			status:   http.StatusCreated,
			response: eventJSON,
			call: func(c *Client) error {
				_, err := c.CreateEvent(context.Background(), draft)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/events/",
			wantBody: map[string]any{
				"title":         "Friday night",
				"description":   "",
				"date":          "2025-07-04T20:30:00Z",
				"location":      "",
				"movie_options": []any{603.0},
				"guests":        []any{"ana@example.com"},
			},
		},
		{
			name:     "update",
			response: eventJSON,
			call: func(c *Client) error {
				_, err := c.UpdateEvent(context.Background(), 12, draft)
				return err
			},
			wantMethod: http.MethodPut,
			wantPath:   "/api/events/12/",
		},
		{
			name:   "delete",
			status: http.StatusNoContent,
			call: func(c *Client) error {
				return c.DeleteEvent(context.Background(), 12)
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/api/events/12/",
		},
		{
			name:     "invite",
			response: `[{"id":1,"event":12,"email":"bob@example.com","status":"pending","created_at":"2025-06-01T10:00:00Z"}]`,
			call: func(c *Client) error {
				invitations, err := c.InviteGuests(context.Background(), 12, []string{"bob@example.com"})
				if err == nil && (len(invitations) != 1 || invitations[0].Status != event.StatusPending) {
					err = fmt.Errorf("unexpected invitations %+v", invitations)
				}
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/events/12/invite_guests/",
			wantBody:   map[string]any{"emails": []any{"bob@example.com"}},
		},
		{
			name:     "respond",
			response: `{"id":1,"event":12,"email":"bob@example.com","status":"accepted"}`,
			call: func(c *Client) error {
				_, err := c.RespondToInvitation(context.Background(), 12, event.StatusAccepted)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/events/12/respond_to_invitation/",
			wantBody:   map[string]any{"status": "accepted"},
		},
		{
			name:     "vote",
			response: `{"id":4,"event":12,"movie":603,"user":7,"vote":true}`,
			call: func(c *Client) error {
				_, err := c.SubmitVote(context.Background(), 12, 603, &yes)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/events/12/vote/",
			wantBody:   map[string]any{"movie_id": 603.0, "vote": true},
		},
		{
			name:     "clear vote",
			response: `{"id":4,"event":12,"movie":603,"user":7,"vote":null}`,
			call: func(c *Client) error {
				_, err := c.SubmitVote(context.Background(), 12, 603, nil)
				return err
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/events/12/vote/",
			wantBody:   map[string]any{"movie_id": 603.0, "vote": nil},
		},
		{
			name:     "finalize",
			response: `{"status":"Movie selection finalized"}`,
			call: func(c *Client) error {
				return c.FinalizeMovie(context.Background(), 12, 603)
			},
			wantMethod: http.MethodPost,
			wantPath:   "/api/events/12/finalize_movie/",
			wantBody:   map[string]any{"movie_id": 603.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := tt.status
			if status == 0 {
				status = http.StatusOK
			}
			client, got := recordingClient(t, status, tt.response)

			if err := tt.call(client); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.method != tt.wantMethod || got.path != tt.wantPath {
				t.Errorf("expected %s %s, got %s %s", tt.wantMethod, tt.wantPath, got.method, got.path)
			}
			if tt.wantBody != nil && !reflect.DeepEqual(got.body, tt.wantBody) {
				t.Errorf("expected body %v, got %v", tt.wantBody, got.body)
			}
		})
	}
}

func TestVoteResults(t *testing.T) {
	client, _ := recordingClient(t, http.StatusOK, `{
		"603": {"movie_title":"The Matrix","yes_votes":1,"no_votes":2,"pending_votes":0,"total_votes":3},
		"604": {"movie_title":"The Matrix Reloaded","yes_votes":3,"no_votes":0,"pending_votes":1,"total_votes":4}
	}`)

	results, err := client.VoteResults(context.Background(), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 || results[0].MovieID != 604 || results[1].MovieID != 603 {
		t.Fatalf("unexpected results %+v", results)
	}
	leader, ok := results.Leader()
	if !ok || leader.MovieTitle != "The Matrix Reloaded" || leader.PendingVotes != 1 {
		t.Errorf("unexpected leader %+v", leader)
	}
}

func TestMovieSuggestions(t *testing.T) {
	client, got := recordingClient(t, http.StatusOK, `[
		{"id":9,"tmdb_id":605,"title":"The Matrix Revolutions","vote_average":6.7,"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}]}
	]`)

	movies, err := client.MovieSuggestions(context.Background(), 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.path != "/api/events/12/movie_suggestions/" {
		t.Errorf("unexpected path %s", got.path)
	}
	if len(movies) != 1 || movies[0].Title != "The Matrix Revolutions" {
		t.Fatalf("unexpected movies %+v", movies)
	}
	if !reflect.DeepEqual(movies[0].GenreIDs, []int{28, 878}) {
		t.Errorf("expected genre ids from the nested genres, got %v", movies[0].GenreIDs)
	}
}

func TestEventForbidden(t *testing.T) {
	client, _ := recordingClient(t, http.StatusForbidden, `{"error":"Only the host can invite guests"}`)

	_, err := client.InviteGuests(context.Background(), 12, []string{"bob@example.com"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Only the host can invite guests" {
		t.Errorf("expected the backend message, got %v", err)
	}
}
