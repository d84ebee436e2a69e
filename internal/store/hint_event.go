package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by SQLite and the shared event clock.
type eventRepo struct {
	db  *sql.DB
	seq *eventClock
}

func (r *eventRepo) AppendHintEvent(ctx context.Context, data HintEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	b := sqlite.Insert(tableHintEvents).
		Columns("sequence", "session_id", "question_id", "word_id", "level", "hint", "created_at").
		Values(seqNum, data.SessionID, data.QuestionID, data.WordID, data.Level, data.Hint, time.Now().UnixMilli())
	if err := exec(ctx, r.db, b); err != nil {
		return fmt.Errorf("save hint event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryHintEvents(ctx context.Context, sessionID string) ([]HintEventRecord, error) {
	query, args := sqlite.Select("sequence", "session_id", "question_id", "word_id", "level", "hint", "created_at").
		From(entsql.Table(tableHintEvents)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("sequence")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query hint events: %w", err)
	}
	defer rows.Close()

	var out []HintEventRecord
	for rows.Next() {
		var rec HintEventRecord
		var created int64
		if err := rows.Scan(&rec.Sequence, &rec.SessionID, &rec.QuestionID, &rec.WordID,
			&rec.Level, &rec.Hint, &created); err != nil {
			return nil, fmt.Errorf("scan hint event: %w", err)
		}
		rec.Timestamp = fromMillis(created)
		out = append(out, rec)
	}
	return out, rows.Err()
}
