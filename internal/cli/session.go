package cli

import (
	"context"
	"errors"

	"github.com/GustavoCaso/movienight/internal/catalog"
	"github.com/GustavoCaso/movienight/internal/storage"
)

// SessionTokens hands the session stored for Backend to the catalog client.
type SessionTokens struct {
	Storage storage.Storage
	Backend string
}

func (s SessionTokens) LoadTokens(ctx context.Context) (*catalog.Tokens, error) {
	session, err := s.Storage.GetSession(ctx, s.Backend)
	if err != nil {
		var notFound *storage.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}

	return &catalog.Tokens{
		Access:  session.AccessToken(),
		Refresh: session.RefreshToken(),
		UserID:  session.UserID(),
	}, nil
}

func (s SessionTokens) SaveAccessToken(ctx context.Context, access string) error {
	return s.Storage.UpdateSessionAccess(ctx, s.Backend, access)
}

// TokenStore picks the configured token over the stored session.
func TokenStore(token string, stor storage.Storage, backend string) catalog.TokenStore {
	if token != "" {
		return catalog.StaticToken(token)
	}
	return SessionTokens{Storage: stor, Backend: backend}
}
