package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	tableSessions    = "sessions"
	tableResults     = "results"
	tableHintEvents  = "hint_events"
	tableLLMRequests = "llm_requests"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		kind       TEXT NOT NULL,
		status     TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at   INTEGER NOT NULL DEFAULT 0,
		total_ms   INTEGER NOT NULL DEFAULT 0,
		questions  INTEGER NOT NULL,
		answered   INTEGER NOT NULL DEFAULT 0,
		correct    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS sessions_started_at ON sessions (started_at)`,
	`CREATE TABLE IF NOT EXISTS results (
		sequence    INTEGER PRIMARY KEY,
		session_id  TEXT NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
		question_id TEXT NOT NULL,
		word_id     TEXT NOT NULL,
		word        TEXT NOT NULL,
		kind        TEXT NOT NULL,
		submitted   TEXT NOT NULL,
		answer      TEXT NOT NULL,
		correct     INTEGER NOT NULL,
		timed_out   INTEGER NOT NULL,
		elapsed_ms  INTEGER NOT NULL,
		hints_used  INTEGER NOT NULL,
		created_at  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS results_session_id ON results (session_id)`,
	`CREATE INDEX IF NOT EXISTS results_word_id ON results (word_id)`,
	`CREATE TABLE IF NOT EXISTS hint_events (
		sequence    INTEGER PRIMARY KEY,
		session_id  TEXT NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
		question_id TEXT NOT NULL,
		word_id     TEXT NOT NULL,
		level       INTEGER NOT NULL,
		hint        TEXT NOT NULL,
		created_at  INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms    INTEGER NOT NULL,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT '',
		created_at    INTEGER NOT NULL
	)`,
}

// migrate creates any missing tables and indexes.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
