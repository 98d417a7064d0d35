package event

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 1000
	maxMovieOptions      = 5
)

// Event is a movie night as returned by the backend.
type Event struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	MovieOptions []int64   `json:"movie_options"`
	Guests       []string  `json:"guests,omitempty"`
	Host         *int64    `json:"host,omitempty"`
	MovieVotes   []Vote    `json:"movie_votes,omitempty"`
}

// HostedBy reports whether userID is the host of the event.
func (e Event) HostedBy(userID int64) bool {
	return e.Host != nil && *e.Host == userID
}

// HasOption reports whether movieID is one of the candidate movies.
func (e Event) HasOption(movieID int64) bool {
	return slices.Contains(e.MovieOptions, movieID)
}

// Draft holds the fields sent when creating or updating an event.
type Draft struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	MovieOptions []int64   `json:"movie_options"`
	Guests       []string  `json:"guests"`
}

// DraftOf returns a draft carrying the current fields of e.
func DraftOf(e Event) Draft {
	return Draft{
		Title:        e.Title,
		Description:  e.Description,
		Date:         e.Date,
		Location:     e.Location,
		MovieOptions: slices.Clone(e.MovieOptions),
		Guests:       slices.Clone(e.Guests),
	}
}

// Normalize trims the text fields, lower cases the guest emails and drops
// duplicated guests and movie options.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Location = strings.TrimSpace(d.Location)

	guests := make([]string, 0, len(d.Guests))
	for _, g := range d.Guests {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" && !slices.Contains(guests, g) {
			guests = append(guests, g)
		}
	}
	d.Guests = guests

	options := make([]int64, 0, len(d.MovieOptions))
	for _, id := range d.MovieOptions {
		if !slices.Contains(options, id) {
			options = append(options, id)
		}
	}
	d.MovieOptions = options

	return d
}

// Validate checks a normalized draft against the rules the backend enforces,
// so mistakes are reported before any request is made.
func (d Draft) Validate(now time.Time) error {
	var errs []error

	switch {
	case d.Title == "":
		errs = append(errs, errors.New("title is required"))
	case len([]rune(d.Title)) > maxTitleLength:
		errs = append(errs, fmt.Errorf("title cannot be longer than %d characters", maxTitleLength))
	}

	if len([]rune(d.Description)) > maxDescriptionLength {
		errs = append(errs, fmt.Errorf("description cannot be longer than %d characters", maxDescriptionLength))
	}

	switch {
	case d.Date.IsZero():
		errs = append(errs, errors.New("date is required"))
	case !d.Date.After(now):
		errs = append(errs, errors.New("event date must be in the future"))
	}

	switch {
	case len(d.MovieOptions) == 0:
		errs = append(errs, errors.New("must select at least one movie"))
	case len(d.MovieOptions) > maxMovieOptions:
		errs = append(errs, fmt.Errorf("cannot select more than %d movies", maxMovieOptions))
	}

	if len(d.Guests) == 0 {
		errs = append(errs, errors.New("must invite at least one guest"))
	}
	for _, g := range d.Guests {
		if err := ValidateEmail(g); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ValidateEmail rejects anything but a bare email address.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid guest email %q", email)
	}
	return nil
}

// ParseDate reads the date and time of an event in loc. Both
// "2006-01-02 15:04" and RFC 3339 are accepted.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD HH:MM", s)
}

// Vote is the answer of a user for one of the candidate movies.
// A nil Vote is a vote that was cleared.
type Vote struct {
	ID    int64 `json:"id"`
	Event int64 `json:"event"`
	Movie int64 `json:"movie"`
	User  int64 `json:"user"`
	Vote  *bool `json:"vote"`
}

// ParseVote reads yes, no or clear.
func ParseVote(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true":
		v := true
		return &v, nil
	case "no", "n", "false":
		v := false
		return &v, nil
	case "clear", "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid vote %q, expected yes, no or clear", s)
	}
}

type InvitationStatus string

const (
	StatusPending  InvitationStatus = "pending"
	StatusAccepted InvitationStatus = "accepted"
	StatusDeclined InvitationStatus = "declined"
)

// ParseResponse reads the answer to an invitation.
func ParseResponse(s string) (InvitationStatus, error) {
	status := InvitationStatus(strings.ToLower(strings.TrimSpace(s)))
	if status != StatusAccepted && status != StatusDeclined {
		return "", fmt.Errorf("invalid response %q, expected accepted or declined", s)
	}
	return status, nil
}

type Invitation struct {
	ID        int64            `json:"id"`
	Event     int64            `json:"event"`
	Email     string           `json:"email"`
	Status    InvitationStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// Tally is the vote count of one candidate movie.
type Tally struct {
	MovieID      int64  `json:"-"`
	MovieTitle   string `json:"movie_title"`
	YesVotes     int    `json:"yes_votes"`
	NoVotes      int    `json:"no_votes"`
	PendingVotes int    `json:"pending_votes"`
	TotalVotes   int    `json:"total_votes"`
}

// Results holds the tallies of an event, most yes votes first. Ties keep
// the order of the movie ids.
type Results []Tally

// NewResults orders tallies for display.
func NewResults(tallies []Tally) Results {
	r := slices.Clone(tallies)
	slices.SortStableFunc(r, func(a, b Tally) int {
		if a.YesVotes != b.YesVotes {
			return b.YesVotes - a.YesVotes
		}
		switch {
		case a.MovieID < b.MovieID:
			return -1
		case a.MovieID > b.MovieID:
			return 1
		default:
			return 0
		}
	})
	return r
}

// Leader returns the movie with the most yes votes. There is no leader
// before the first yes vote or when the top spot is shared.
func (r Results) Leader() (Tally, bool) {
	if len(r) == 0 || r[0].YesVotes == 0 {
		return Tally{}, false
	}
	if len(r) > 1 && r[1].YesVotes == r[0].YesVotes {
		return Tally{}, false
	}
	return r[0], true
}
