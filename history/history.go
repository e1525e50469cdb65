// Package history persists one row per processed document to SQLite,
// asynchronously, for operator visibility. It never stores document
// content: only the upload name, the chosen style, counts and outcome.
//
// The citation pipeline itself stays stateless; a nil *Store disables
// history entirely.
package history

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Schema for the processing_history table. Call Store.Init() or apply manually.
const Schema = `
CREATE TABLE IF NOT EXISTS processing_history (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	style TEXT NOT NULL,
	endnotes_processed INTEGER NOT NULL,
	status TEXT NOT NULL,
	error TEXT,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_created ON processing_history(created_at);
`

// Entry is one processed-document record.
type Entry struct {
	ID                string `json:"id"`
	Filename          string `json:"filename"`
	Style             string `json:"style"`
	EndnotesProcessed int    `json:"endnotes_processed"`
	Status            string `json:"status"` // "ok" or "failed"
	Error             string `json:"error,omitempty"`
	CreatedAt         int64  `json:"created_at"`
}

// NewEntry creates an Entry with a UUIDv7 id and the current timestamp.
func NewEntry(filename, style string) *Entry {
	return &Entry{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Filename:  filename,
		Style:     style,
		CreatedAt: time.Now().Unix(),
	}
}

// Store persists history entries asynchronously: a 1024-capacity channel,
// batches of up to 64, flushed every second.
type Store struct {
	db   *sql.DB
	ch   chan *Entry
	done chan struct{}
	once sync.Once
}

// NewStore creates a history store backed by the given database connection.
func NewStore(db *sql.DB) *Store {
	s := &Store{
		db:   db,
		ch:   make(chan *Entry, 1024),
		done: make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Init creates the processing_history table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// RecordAsync queues an entry for async persistence. Non-blocking; drops if
// the buffer is full to avoid backpressure on request handling.
func (s *Store) RecordAsync(e *Entry) {
	select {
	case s.ch <- e:
	default:
	}
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, style, endnotes_processed, status, COALESCE(error, ''), created_at
		FROM processing_history ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Filename, &e.Style, &e.EndnotesProcessed, &e.Status, &e.Error, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close drains the buffer and stops the flush goroutine.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.ch)
		<-s.done
	})
	return nil
}

func (s *Store) flushLoop() {
	defer close(s.done)

	batch := make([]*Entry, 0, 64)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				s.flushBatch(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= 64 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Store) flushBatch(batch []*Entry) {
	if len(batch) == 0 {
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		slog.Error("history store: begin tx", "error", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO processing_history
		(id, filename, style, endnotes_processed, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		slog.Error("history store: prepare", "error", err)
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		if _, err := stmt.Exec(e.ID, e.Filename, e.Style, e.EndnotesProcessed, e.Status, e.Error, e.CreatedAt); err != nil {
			slog.Error("history store: insert", "error", err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("history store: commit", "error", err)
	}
}
