package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/montanaflynn/stats"
)

var sessionColumns = []string{
	"id", "kind", "status", "started_at", "ended_at", "total_ms", "questions", "answered", "correct",
}

var resultColumns = []string{
	"sequence", "session_id", "question_id", "word_id", "word", "kind", "submitted", "answer",
	"correct", "timed_out", "elapsed_ms", "hints_used", "created_at",
}

// historyRepo implements HistoryRepo on top of SQLite.
type historyRepo struct {
	db  *sql.DB
	seq *eventClock
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *historyRepo) SaveSession(ctx context.Context, rec SessionRecord) error {
	b := sqlite.Insert(tableSessions).
		Columns(sessionColumns...).
		Values(
			rec.ID, rec.Kind, rec.Status,
			toMillis(rec.StartedAt), toMillis(rec.EndedAt), rec.TotalTime.Milliseconds(),
			rec.Questions, rec.Answered, rec.Correct,
		).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		)
	if err := exec(ctx, r.db, b); err != nil {
		return fmt.Errorf("save session %s: %w", rec.ID, err)
	}
	return nil
}

func (r *historyRepo) AppendResult(ctx context.Context, rec ResultRecord) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	b := sqlite.Insert(tableResults).
		Columns(resultColumns...).
		Values(
			seqNum, rec.SessionID, rec.QuestionID, rec.WordID, rec.Word, rec.Kind,
			rec.Submitted, rec.Answer, rec.Correct, rec.TimedOut,
			rec.Elapsed.Milliseconds(), rec.HintsUsed, toMillis(ts),
		)
	if err := exec(ctx, r.db, b); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (r *historyRepo) GetSession(ctx context.Context, id string) (*SessionRecord, error) {
	query, args := sqlite.Select(sessionColumns...).
		From(entsql.Table(tableSessions)).
		Where(entsql.EQ("id", id)).
		Query()

	rec, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return &rec, nil
}

func (r *historyRepo) RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	sel := sqlite.Select(sessionColumns...).
		From(entsql.Table(tableSessions)).
		OrderBy(entsql.Desc("started_at"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *historyRepo) SessionResults(ctx context.Context, sessionID string) ([]ResultRecord, error) {
	query, args := sqlite.Select(resultColumns...).
		From(entsql.Table(tableResults)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("sequence")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *historyRepo) WordStats(ctx context.Context, limit int) ([]WordStat, error) {
	query, args := sqlite.Select(
		"word_id", "word",
		entsql.Count("*"),
		entsql.Sum("correct"),
		entsql.Max("created_at"),
	).
		From(entsql.Table(tableResults)).
		GroupBy("word_id", "word").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query word stats: %w", err)
	}
	defer rows.Close()

	var out []WordStat
	for rows.Next() {
		var ws WordStat
		var lastSeen int64
		if err := rows.Scan(&ws.WordID, &ws.Word, &ws.Attempts, &ws.Correct, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan word stat: %w", err)
		}
		ws.LastSeen = fromMillis(lastSeen)
		out = append(out, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Weakest first; among equals, the most practised first.
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].Accuracy(), out[j].Accuracy()
		if ai != aj {
			return ai < aj
		}
		if out[i].Attempts != out[j].Attempts {
			return out[i].Attempts > out[j].Attempts
		}
		return out[i].Word < out[j].Word
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *historyRepo) Stats(ctx context.Context) (*HistoryStats, error) {
	sessions, err := r.RecentSessions(ctx, 0)
	if err != nil {
		return nil, err
	}

	st := &HistoryStats{Sessions: len(sessions)}
	var sessionAcc stats.Float64Data
	for _, s := range sessions {
		st.TotalPractice += s.TotalTime
		if s.Status == StatusComplete {
			st.CompletedSessions++
			sessionAcc = append(sessionAcc, s.Accuracy())
		}
	}
	if mean, err := stats.Mean(sessionAcc); err == nil {
		st.MeanSessionAccuracy = mean
	}

	query, args := sqlite.Select("correct", "elapsed_ms").
		From(entsql.Table(tableResults)).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var elapsed stats.Float64Data
	for rows.Next() {
		var correct bool
		var ms int64
		if err := rows.Scan(&correct, &ms); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		st.Answers++
		if correct {
			st.Correct++
		}
		elapsed = append(elapsed, float64(ms))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if st.Answers > 0 {
		st.Accuracy = float64(st.Correct) / float64(st.Answers)
	}
	if median, err := stats.Median(elapsed); err == nil {
		st.MedianAnswerTime = time.Duration(median) * time.Millisecond
	}
	return st, nil
}

func scanSession(s rowScanner) (SessionRecord, error) {
	var rec SessionRecord
	var started, ended, totalMs int64
	err := s.Scan(&rec.ID, &rec.Kind, &rec.Status, &started, &ended, &totalMs,
		&rec.Questions, &rec.Answered, &rec.Correct)
	if err != nil {
		return SessionRecord{}, err
	}
	rec.StartedAt = fromMillis(started)
	rec.EndedAt = fromMillis(ended)
	rec.TotalTime = time.Duration(totalMs) * time.Millisecond
	return rec, nil
}

func scanResult(s rowScanner) (ResultRecord, error) {
	var rec ResultRecord
	var elapsedMs, created int64
	err := s.Scan(&rec.Sequence, &rec.SessionID, &rec.QuestionID, &rec.WordID, &rec.Word,
		&rec.Kind, &rec.Submitted, &rec.Answer, &rec.Correct, &rec.TimedOut,
		&elapsedMs, &rec.HintsUsed, &created)
	if err != nil {
		return ResultRecord{}, err
	}
	rec.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	rec.Timestamp = fromMillis(created)
	return rec, nil
}
