// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package todo implements the per-user todo-list feature reachable
// through the chat surface, backed by sqlite.
package todo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS todo_items (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	sender_id      TEXT NOT NULL,
	text           TEXT NOT NULL,
	date_added     TIMESTAMP NOT NULL,
	date_completed TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_todo_items_sender ON todo_items (sender_id, date_added);
`

// Item is one todo entry. DateCompleted is nil while the item is open.
type Item struct {
	ID            int64
	SenderID      string
	Text          string
	DateAdded     time.Time
	DateCompleted *time.Time
}

// Done reports whether the item has been completed.
func (it Item) Done() bool { return it.DateCompleted != nil }

// Store persists todo items in a sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at path and
// ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open todo database: %w", err)
	}
	// sqlite tolerates a single writer; the chat surface is low-volume
	// enough that serializing through one connection is simplest.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create todo schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// List returns the sender's items in insertion order, filtered by
// completion state.
func (s *Store) List(ctx context.Context, senderID string, done bool) ([]Item, error) {
	q := `SELECT id, sender_id, text, date_added, date_completed
	      FROM todo_items WHERE sender_id = ? AND date_completed IS NULL
	      ORDER BY date_added, id`
	if done {
		q = `SELECT id, sender_id, text, date_added, date_completed
		     FROM todo_items WHERE sender_id = ? AND date_completed IS NOT NULL
		     ORDER BY date_added, id`
	}
	return s.query(ctx, q, senderID)
}

// All returns every item for the sender, open and completed, in
// insertion order.
func (s *Store) All(ctx context.Context, senderID string) ([]Item, error) {
	return s.query(ctx, `SELECT id, sender_id, text, date_added, date_completed
	                     FROM todo_items WHERE sender_id = ?
	                     ORDER BY date_added, id`, senderID)
}

func (s *Store) query(ctx context.Context, q, senderID string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, q, senderID)
	if err != nil {
		return nil, fmt.Errorf("query todo items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var completed sql.NullTime
		if err := rows.Scan(&it.ID, &it.SenderID, &it.Text, &it.DateAdded, &completed); err != nil {
			return nil, fmt.Errorf("scan todo item: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			it.DateCompleted = &t
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Add inserts a new open item for the sender.
func (s *Store) Add(ctx context.Context, senderID, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todo_items (sender_id, text, date_added) VALUES (?, ?, ?)`,
		senderID, text, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("add todo item: %w", err)
	}
	return nil
}

// Complete stamps the item as finished.
func (s *Store) Complete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE todo_items SET date_completed = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("complete todo item: %w", err)
	}
	return nil
}

// Edit replaces the item's text.
func (s *Store) Edit(ctx context.Context, id int64, text string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE todo_items SET text = ? WHERE id = ?`, text, id)
	if err != nil {
		return fmt.Errorf("edit todo item: %w", err)
	}
	return nil
}

// Delete removes the item.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM todo_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo item: %w", err)
	}
	return nil
}

// Clear wipes the sender's items. Either flag may be set; with both
// false nothing is removed.
func (s *Store) Clear(ctx context.Context, senderID string, open, done bool) error {
	if done {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM todo_items WHERE sender_id = ? AND date_completed IS NOT NULL`,
			senderID); err != nil {
			return fmt.Errorf("clear completed todo items: %w", err)
		}
	}
	if open {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM todo_items WHERE sender_id = ? AND date_completed IS NULL`,
			senderID); err != nil {
			return fmt.Errorf("clear open todo items: %w", err)
		}
	}
	return nil
}
