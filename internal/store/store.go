// Package store is the flat key-value persistence boundary: save the
// current snapshot of an aggregate, load the last snapshot by key. Values
// travel as JSON so any plain serializable record fits.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

type Store interface {
	SaveSnapshot(ctx context.Context, key string, value any) error
	LoadSnapshot(ctx context.Context, key string, dest any) error
}

type postgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) SaveSnapshot(ctx context.Context, key string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO snapshots (key, body, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE
SET body = EXCLUDED.body, updated_at = NOW()`, key, body)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", key, err)
	}
	return nil
}

func (s *postgresStore) LoadSnapshot(ctx context.Context, key string, dest any) error {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM snapshots WHERE key = $1`, key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSnapshotNotFound
		}
		return fmt.Errorf("select snapshot %s: %w", key, err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return nil
}
