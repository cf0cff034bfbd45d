// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps an append-only SQLite log of executed searches for
// audit and replay. It records what was asked and what came back, never
// the items themselves, and is never consulted when serving a search.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/metasearch/pkg/types"
)

// Store manages the history SQLite database.
type Store struct {
	db *sql.DB
}

// Entry is one recorded search.
type Entry struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	Provider  string    `json:"provider"`
	Count     int       `json:"count"`
	Errors    []string  `json:"errors,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Open opens or creates the history database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS searches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		provider TEXT NOT NULL,
		count INTEGER NOT NULL,
		errors TEXT,
		created_at TEXT NOT NULL
	)`)
	return err
}

// Record appends one executed search.
func (s *Store) Record(ctx context.Context, q types.Query, resp types.AggregateResponse) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (query, provider, count, errors, created_at) VALUES (?, ?, ?, ?, ?)`,
		q.FreeText, q.Provider, resp.Count, strings.Join(resp.Errors, ","),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording search: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, provider, count, errors, created_at
		 FROM searches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var errs, created string
		if err := rows.Scan(&e.ID, &e.Query, &e.Provider, &e.Count, &errs, &created); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if errs != "" {
			e.Errors = strings.Split(errs, ",")
		}
		if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes all but the newest keep entries and reports how many rows
// were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM searches WHERE id NOT IN (
			SELECT id FROM searches ORDER BY id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	return res.RowsAffected()
}
