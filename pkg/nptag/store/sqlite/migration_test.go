package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// TestSchemaCreationIdempotent tests that running initSchema multiple times is safe
func TestSchemaCreationIdempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Open database: %v", err)
	}
	defer db.Close()

	// Run schema initialization multiple times
	for i := 0; i < 3; i++ {
		if err := initSchema(ctx, db); err != nil {
			t.Fatalf("initSchema iteration %d: %v", i, err)
		}
	}

	// Verify schema is correct
	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&count)
	if err != nil {
		t.Fatalf("Count tables: %v", err)
	}

	expected := 1 // phrase_cache
	if count != expected {
		t.Errorf("Expected %d tables, got %d", expected, count)
	}
}

// TestReopenPreservesData tests that cached phrases survive closing the database
func TestReopenPreservesData(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.PutPhrases(ctx, "chunker/prose-v2", "Outputs a delivery receipt", []string{"delivery receipt"}); err != nil {
		t.Fatalf("PutPhrases: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen runs initSchema again on an existing database
	st, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	defer st.Close()

	got, ok, err := st.GetPhrases(ctx, "chunker/prose-v2", "Outputs a delivery receipt")
	if err != nil || !ok {
		t.Fatalf("expected hit after reopen, ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0] != "delivery receipt" {
		t.Errorf("unexpected phrases %v", got)
	}
}

// TestWALEnabled checks the journal mode set by OpenSQLite
func TestWALEnabled(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer st.Close()

	var mode string
	if err := st.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("expected wal journal mode, got %q", mode)
	}
}
