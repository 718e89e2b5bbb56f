package authcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mectofit/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new auth cache store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load reads the persisted session snapshot.
// PRE: schema has been initialized
// POST: Returns the snapshot, ErrNotFound if none was persisted, or
// ErrCorrupt if the persisted payload does not decode
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) Load(ctx context.Context) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT payload FROM auth_cache WHERE key = ?", CacheKey)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("failed to load auth cache: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return rec, nil
}

// Save persists the session snapshot under the fixed cache key.
// PRE: rec is a consistent snapshot (IsAuthenticated implies User != nil)
// POST: Snapshot is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode auth cache: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO auth_cache (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload=excluded.payload, updated_at=excluded.updated_at`,
		CacheKey,
		string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save auth cache: %w", err)
	}
	return nil
}

// Clear removes the persisted snapshot in a single operation.
// PRE: none
// POST: No snapshot remains; clearing an empty cache is a no-op
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM auth_cache WHERE key = ?", CacheKey)
	if err != nil {
		return fmt.Errorf("failed to clear auth cache: %w", err)
	}
	return nil
}
