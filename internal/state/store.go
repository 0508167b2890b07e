// Package state persists manifest fingerprints between watch-mode runs
// so unchanged manifests can be skipped.
package state

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed fingerprint store. Use ":memory:" for an
// ephemeral store, or a file path for persistence across runs.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the store at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS fingerprints (
		path TEXT PRIMARY KEY,
		digest TEXT NOT NULL,
		updated INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Digest returns the fingerprint of a manifest's raw bytes.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Changed reports whether data differs from the last remembered
// fingerprint for path. Unknown paths count as changed.
func (s *Store) Changed(ctx context.Context, path string, data []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored string
	err := s.db.QueryRowContext(ctx,
		"SELECT digest FROM fingerprints WHERE path = ?", path).Scan(&stored)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("query fingerprint: %w", err)
	}
	return stored != Digest(data), nil
}

// Remember stores the fingerprint of data for path, replacing any
// previous value.
func (s *Store) Remember(ctx context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO fingerprints (path, digest, updated) VALUES (?, ?, ?) "+
			"ON CONFLICT(path) DO UPDATE SET digest = excluded.digest, updated = excluded.updated",
		path, Digest(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store fingerprint: %w", err)
	}
	return nil
}

// Forget removes the fingerprint for path, forcing the next Changed
// call to report true.
func (s *Store) Forget(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM fingerprints WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("delete fingerprint: %w", err)
	}
	return nil
}
