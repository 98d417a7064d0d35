package storage

import (
	"context"
	"errors"
	"time"

	"github.com/GustavoCaso/movienight/internal/filter"
	"github.com/GustavoCaso/movienight/internal/logger"
)

type NotFoundError struct{}

func (e *NotFoundError) Error() string {
	return "record not found"
}

// ErrPresetExists is returned when creating a preset under a taken name.
var ErrPresetExists = errors.New("preset already exists")

// Preset is a named filter state.
type Preset interface {
	ID() int64
	Name() string
	State() filter.State
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

type preset struct {
	id        int64
	name      string
	state     filter.State
	createdAt time.Time
	updatedAt time.Time
}

func NewPreset(id int64, name string, state filter.State, createdAt, updatedAt time.Time) Preset {
	return &preset{
		id:        id,
		name:      name,
		state:     state,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (p *preset) ID() int64 {
	return p.id
}

func (p *preset) Name() string {
	return p.name
}

func (p *preset) State() filter.State {
	return p.state
}

func (p *preset) CreatedAt() time.Time {
	return p.createdAt
}

func (p *preset) UpdatedAt() time.Time {
	return p.updatedAt
}

// Session holds the tokens of the account signed in against a backend.
type Session interface {
	Backend() string
	Username() string
	UserID() int64
	AccessToken() string
	RefreshToken() string
	UpdatedAt() time.Time
}

type session struct {
	backend      string
	username     string
	userID       int64
	accessToken  string
	refreshToken string
	updatedAt    time.Time
}

func NewSession(backend, username string, userID int64, accessToken, refreshToken string, updatedAt time.Time) Session {
	return &session{
		backend:      backend,
		username:     username,
		userID:       userID,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		updatedAt:    updatedAt,
	}
}

func (s *session) Backend() string {
	return s.backend
}

func (s *session) Username() string {
	return s.username
}

func (s *session) UserID() int64 {
	return s.userID
}

func (s *session) AccessToken() string {
	return s.accessToken
}

func (s *session) RefreshToken() string {
	return s.refreshToken
}

func (s *session) UpdatedAt() time.Time {
	return s.updatedAt
}

type Storage interface {
	// Migrations
	ApplyMigrations(ctx context.Context, logger *logger.Logger) error

	// Presets
	CreatePreset(ctx context.Context, name string, state filter.State) (int64, error)
	UpdatePreset(ctx context.Context, name string, state filter.State) (int64, error)
	GetPreset(ctx context.Context, name string) (Preset, error)
	GetPresets(ctx context.Context) ([]Preset, error)
	DeletePreset(ctx context.Context, name string) (int64, error)

	// Sessions, one per backend
	SaveSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, backend string) (Session, error)
	UpdateSessionAccess(ctx context.Context, backend, accessToken string) error
	DeleteSession(ctx context.Context, backend string) error

	// Resource managment
	Close() error
}
