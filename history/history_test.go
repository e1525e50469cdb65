package history

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func setupHistoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1) // one shared in-memory database
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStore_Init(t *testing.T) {
	db := setupHistoryDB(t)
	store := NewStore(db)
	defer store.Close()

	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='processing_history'").Scan(&count)
	if count != 1 {
		t.Fatal("processing_history table not created")
	}
}

func TestStore_RecordAsync_And_Close(t *testing.T) {
	db := setupHistoryDB(t)
	store := NewStore(db)
	store.Init()

	for i := 0; i < 10; i++ {
		e := NewEntry("paper.docx", "chicago")
		e.EndnotesProcessed = i
		e.Status = "ok"
		store.RecordAsync(e)
	}

	// Close flushes.
	store.Close()

	var count int
	db.QueryRow("SELECT COUNT(*) FROM processing_history WHERE filename='paper.docx'").Scan(&count)
	if count != 10 {
		t.Fatalf("history count: got %d, want 10", count)
	}
}

func TestStore_Recent(t *testing.T) {
	db := setupHistoryDB(t)
	store := NewStore(db)
	store.Init()

	ok := NewEntry("a.docx", "mla")
	ok.EndnotesProcessed = 3
	ok.Status = "ok"
	store.RecordAsync(ok)

	failed := NewEntry("b.docx", "apa")
	failed.Status = "failed"
	failed.Error = "no endnotes found in document"
	store.RecordAsync(failed)

	store.Close()

	entries, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.ID == "" {
			t.Error("entry missing id")
		}
	}
}

func TestNewEntry_UniqueIDs(t *testing.T) {
	a, b := NewEntry("x.docx", "chicago"), NewEntry("x.docx", "chicago")
	if a.ID == b.ID {
		t.Error("expected unique ids")
	}
}
