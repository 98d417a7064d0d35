package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/GustavoCaso/movienight/internal/storage"
)

func (s *sqliteStorage) SaveSession(ctx context.Context, session storage.Session) error {
	statement, err := s.db.PrepareContext(ctx, `
		INSERT INTO sessions (backend, username, user_id, access_token, refresh_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(backend) DO UPDATE SET
			username = excluded.username,
			user_id = excluded.user_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save session statement: %w", err)
	}
	defer statement.Close()

	now := time.Now().Unix()
	_, err = statement.ExecContext(ctx,
		session.Backend(), session.Username(), session.UserID(),
		session.AccessToken(), session.RefreshToken(), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *sqliteStorage) GetSession(ctx context.Context, backend string) (storage.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT backend, username, user_id, access_token, refresh_token, updated_at
		FROM sessions
		WHERE backend = ?
	`, backend)

	var name, username, access, refresh string
	var userID, updatedAt int64

	err := row.Scan(&name, &username, &userID, &access, &refresh, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{}
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	return storage.NewSession(name, username, userID, access, refresh, time.Unix(updatedAt, 0)), nil
}

// UpdateSessionAccess replaces the access token after a refresh.
func (s *sqliteStorage) UpdateSessionAccess(ctx context.Context, backend, accessToken string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET access_token = ?, updated_at = ? WHERE backend = ?",
		accessToken, time.Now().Unix(), backend,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &storage.NotFoundError{}
	}

	return nil
}

func (s *sqliteStorage) DeleteSession(ctx context.Context, backend string) error {
	statement, err := s.db.PrepareContext(ctx, `
		DELETE FROM sessions WHERE backend = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete session statement: %w", err)
	}
	defer statement.Close()

	_, err = statement.ExecContext(ctx, backend)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
