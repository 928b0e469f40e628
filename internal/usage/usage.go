// Copyright (c) 2025 The lmt Authors
// SPDX-License-Identifier: MIT

// Package usage keeps a local history of requests: model, token
// counts, cost, and duration, stored in a sqlite database.
package usage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS requests (
	id                TEXT PRIMARY KEY,
	model             TEXT NOT NULL,
	prompt_tokens     INTEGER NOT NULL,
	completion_tokens INTEGER NOT NULL,
	cost_usd          REAL NOT NULL,
	duration_ms       INTEGER NOT NULL,
	created_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_requests_model ON requests(model);
`

// Entry is one recorded request.
type Entry struct {
	ID               string
	Model            string
	PromptTokens     int
	CompletionTokens int
	CostUSD          float64
	Duration         time.Duration
	CreatedAt        time.Time
}

// ModelTotal aggregates recorded requests per model.
type ModelTotal struct {
	Model            string
	Requests         int
	PromptTokens     int
	CompletionTokens int
	CostUSD          float64
}

// Ledger is the request history store.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger at path.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// DefaultPath returns the ledger location under the config directory.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, "lmt", "usage.db"), nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record appends one entry. A missing ID or timestamp is filled in.
func (l *Ledger) Record(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := l.db.Exec(
		`INSERT INTO requests (id, model, prompt_tokens, completion_tokens, cost_usd, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Model, e.PromptTokens, e.CompletionTokens, e.CostUSD,
		e.Duration.Milliseconds(), e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}
	return nil
}

// Totals aggregates all recorded requests per model, ordered by model.
func (l *Ledger) Totals() ([]ModelTotal, error) {
	rows, err := l.db.Query(
		`SELECT model, COUNT(*), SUM(prompt_tokens), SUM(completion_tokens), SUM(cost_usd)
		 FROM requests GROUP BY model ORDER BY model`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}
	defer rows.Close()

	var totals []ModelTotal
	for rows.Next() {
		var t ModelTotal
		if err := rows.Scan(&t.Model, &t.Requests, &t.PromptTokens, &t.CompletionTokens, &t.CostUSD); err != nil {
			return nil, fmt.Errorf("failed to scan totals: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// Recent returns the newest n entries, most recent first.
func (l *Ledger) Recent(n int) ([]Entry, error) {
	rows, err := l.db.Query(
		`SELECT id, model, prompt_tokens, completion_tokens, cost_usd, duration_ms, created_at
		 FROM requests ORDER BY created_at DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent requests: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Model, &e.PromptTokens, &e.CompletionTokens, &e.CostUSD, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
