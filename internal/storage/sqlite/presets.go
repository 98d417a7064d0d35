package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/GustavoCaso/movienight/internal/filter"
	"github.com/GustavoCaso/movienight/internal/storage"
)

const presetColumns = "id, name, state, created_at, updated_at"

func (s *sqliteStorage) CreatePreset(ctx context.Context, name string, state filter.State) (int64, error) {
	encoded, err := json.Marshal(state)
	if err != nil {
		return 0, fmt.Errorf("failed to encode preset state: %w", err)
	}

	now := time.Now().Unix()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO presets(name, state, created_at, updated_at) VALUES(?, ?, ?, ?)",
		name, string(encoded), now, now,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, fmt.Errorf("%w: %s", storage.ErrPresetExists, name)
		}
		return 0, err
	}

	return result.LastInsertId()
}

func (s *sqliteStorage) UpdatePreset(ctx context.Context, name string, state filter.State) (int64, error) {
	encoded, err := json.Marshal(state)
	if err != nil {
		return 0, fmt.Errorf("failed to encode preset state: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE presets SET state = ?, updated_at = ? WHERE name = ?",
		string(encoded), time.Now().Unix(), name,
	)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, &storage.NotFoundError{}
	}

	return affected, nil
}

func (s *sqliteStorage) GetPreset(ctx context.Context, name string) (storage.Preset, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+presetColumns+" FROM presets WHERE name = ?", name)
	return presetFromRow(row.Scan)
}

func (s *sqliteStorage) GetPresets(ctx context.Context) ([]storage.Preset, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+presetColumns+" FROM presets ORDER BY name")
	if err != nil {
		return []storage.Preset{}, err
	}
	defer rows.Close()

	presets := []storage.Preset{}

	for rows.Next() {
		p, presetErr := presetFromRow(rows.Scan)
		if presetErr != nil {
			return presets, presetErr
		}

		presets = append(presets, p)
	}

	if rows.Err() != nil {
		return presets, rows.Err()
	}

	return presets, nil
}

func (s *sqliteStorage) DeletePreset(ctx context.Context, name string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM presets WHERE name = ?", name)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, &storage.NotFoundError{}
	}

	return affected, nil
}

func presetFromRow(scan func(dest ...any) error) (storage.Preset, error) {
	var id, createdAt, updatedAt int64
	var name, encoded string

	if err := scan(&id, &name, &encoded, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{}
		}
		return nil, err
	}

	var state filter.State
	if err := json.Unmarshal([]byte(encoded), &state); err != nil {
		return nil, fmt.Errorf("failed to decode state of preset %q: %w", name, err)
	}

	return storage.NewPreset(id, name, state, time.Unix(createdAt, 0), time.Unix(updatedAt, 0)), nil
}
