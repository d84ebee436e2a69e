package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// eventClock stamps results, hint events and LLM requests from one shared
// counter, so rows in different tables can be merged back into the order
// they happened, e.g. whether a hint came before the answer.
//
// The counter lives in a one-row table. mu orders callers in this process
// and UPDATE ... RETURNING makes each tick atomic in the database.
type eventClock struct {
	mu sync.Mutex
	db *sql.DB
}

const clockTable = `CREATE TABLE IF NOT EXISTS event_clock (
	id   INTEGER PRIMARY KEY CHECK (id = 1),
	tick INTEGER NOT NULL
)`

func newEventClock(db *sql.DB) (*eventClock, error) {
	for _, stmt := range []string{clockTable, `INSERT OR IGNORE INTO event_clock (id, tick) VALUES (1, 1)`} {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("init event clock: %w", err)
		}
	}
	return &eventClock{db: db}, nil
}

// Next returns the current tick and advances the clock.
func (c *eventClock) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var tick int64
	row := c.db.QueryRowContext(ctx, `UPDATE event_clock SET tick = tick + 1 WHERE id = 1 RETURNING tick - 1`)
	if err := row.Scan(&tick); err != nil {
		return 0, fmt.Errorf("advance event clock: %w", err)
	}
	return tick, nil
}

// rewind sets the clock back to its first tick inside tx.
func (c *eventClock) rewind(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `UPDATE event_clock SET tick = 1 WHERE id = 1`)
	return err
}

// querier is any ent dialect/sql builder.
type querier interface {
	Query() (string, []any)
}

// exec runs the statement built by b.
func exec(ctx context.Context, db *sql.DB, b querier) error {
	query, args := b.Query()
	_, err := db.ExecContext(ctx, query, args...)
	return err
}
