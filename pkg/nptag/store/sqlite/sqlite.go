package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/nptag/pkg/nptag/store"
)

// sqliteStore implements store.PhraseCache using SQLite
type sqliteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens a SQLite phrase cache with WAL mode enabled.
// The pool is limited to one connection so the pragmas hold for every query
// and concurrent writers queue instead of failing with SQLITE_BUSY.
func OpenSQLite(ctx context.Context, path string) (store.PhraseCache, error) {
	return open(ctx, path)
}

func open(ctx context.Context, path string) (*sqliteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS phrase_cache (
	extractor TEXT NOT NULL,
	sentence TEXT NOT NULL,
	phrases TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY(extractor, sentence)
);

CREATE INDEX IF NOT EXISTS idx_phrase_cache_created ON phrase_cache(created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// GetPhrases implements store.PhraseCache.
func (s *sqliteStore) GetPhrases(ctx context.Context, extractor, sentence string) ([]string, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT phrases FROM phrase_cache WHERE extractor = ? AND sentence = ?`,
		extractor, sentence,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get phrases: %w", err)
	}

	phrases := []string{}
	if err := json.Unmarshal([]byte(raw), &phrases); err != nil {
		return nil, false, fmt.Errorf("decode phrases: %w", err)
	}
	return phrases, true, nil
}

// PutPhrases implements store.PhraseCache.
func (s *sqliteStore) PutPhrases(ctx context.Context, extractor, sentence string, phrases []string) error {
	if phrases == nil {
		phrases = []string{}
	}
	raw, err := json.Marshal(phrases)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO phrase_cache(extractor, sentence, phrases, created_at)
VALUES(?, ?, ?, ?)
ON CONFLICT(extractor, sentence) DO UPDATE SET
	phrases = excluded.phrases,
	created_at = excluded.created_at`,
		extractor, sentence, string(raw), s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("put phrases: %w", err)
	}
	return nil
}

// Count implements store.PhraseCache.
func (s *sqliteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM phrase_cache`).Scan(&n)
	return n, err
}

// Prune implements store.PhraseCache.
func (s *sqliteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM phrase_cache WHERE created_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("prune phrases: %w", err)
	}
	return res.RowsAffected()
}
