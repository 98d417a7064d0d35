package cli

import (
	"context"
	"flag"
	"io"

	"github.com/GustavoCaso/movienight/internal/catalog"
	"github.com/GustavoCaso/movienight/internal/config"
	"github.com/GustavoCaso/movienight/internal/event"
	"github.com/GustavoCaso/movienight/internal/logger"
	"github.com/GustavoCaso/movienight/internal/movie"
	"github.com/GustavoCaso/movienight/internal/storage"
)

// Catalog is the part of the catalog client the commands use.
type Catalog interface {
	SearchMovies(ctx context.Context, query string) (*movie.Response, error)
	PopularMovies(ctx context.Context) (*movie.Response, error)
	MovieDetails(ctx context.Context, id int64) (*movie.Movie, error)
}

// Events manages movie night events on the backend.
type Events interface {
	Events(ctx context.Context) ([]event.Event, error)
	Event(ctx context.Context, id int64) (*event.Event, error)
	CreateEvent(ctx context.Context, d event.Draft) (*event.Event, error)
	UpdateEvent(ctx context.Context, id int64, d event.Draft) (*event.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	InviteGuests(ctx context.Context, id int64, emails []string) ([]event.Invitation, error)
	RespondToInvitation(ctx context.Context, id int64, status event.InvitationStatus) (*event.Invitation, error)
	SubmitVote(ctx context.Context, id, movieID int64, vote *bool) (*event.Vote, error)
	VoteResults(ctx context.Context, id int64) (event.Results, error)
	MovieSuggestions(ctx context.Context, id int64) ([]movie.Movie, error)
	FinalizeMovie(ctx context.Context, id, movieID int64) error
}

// Accounts signs users up and in.
type Accounts interface {
	Register(ctx context.Context, username, email, password string) (*catalog.User, error)
	Login(ctx context.Context, username, password string) (*catalog.Tokens, error)
}

// Env carries what a command needs to run.
type Env struct {
	Config   *config.Config
	Storage  storage.Storage
	Catalog  Catalog
	Events   Events
	Accounts Accounts
	Logger   *logger.Logger
	In       io.Reader
	Out      io.Writer
	// Args are the positional arguments left after parsing the flags.
	Args []string
}

type Command interface {
	SetFlags(fset *flag.FlagSet)
	Description() string
	Run(ctx context.Context, env *Env) error
}
