package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/wordiz/internal/store"
)

// Recorder writes session progress to the training history. Either repo may
// be nil, in which case the matching writes are skipped.
type Recorder struct {
	history store.HistoryRepo
	events  store.EventRepo
	logger  logrus.FieldLogger
}

// NewRecorder creates a Recorder. logger may be nil.
func NewRecorder(history store.HistoryRepo, events store.EventRepo, logger logrus.FieldLogger) *Recorder {
	if logger == nil {
		logger = discardLogger()
	}
	return &Recorder{history: history, events: events, logger: logger}
}

// Started saves a new in-progress session row.
func (r *Recorder) Started(ctx context.Context, s *Session) error {
	return r.save(ctx, s, store.StatusInProgress)
}

// Answered appends res and refreshes the session row so its totals stay
// current if the process exits mid-drill.
func (r *Recorder) Answered(ctx context.Context, s *Session, res Result) error {
	if r == nil || r.history == nil {
		return nil
	}
	err := r.history.AppendResult(ctx, store.ResultRecord{
		SessionID:  s.ID,
		QuestionID: res.QuestionID,
		WordID:     res.WordID,
		Word:       res.Word,
		Kind:       string(s.Kind),
		Submitted:  res.Submitted,
		Answer:     res.Answer,
		Correct:    res.Correct,
		TimedOut:   res.TimedOut,
		Elapsed:    res.Elapsed,
		HintsUsed:  res.HintsUsed,
		Timestamp:  res.AnsweredAt,
	})
	if err != nil {
		return r.fail("append result", s.ID, err)
	}

	status := store.StatusInProgress
	if s.Complete() {
		status = store.StatusComplete
	}
	return r.save(ctx, s, status)
}

// Hinted records a hint shown for the active question at the given level.
func (r *Recorder) Hinted(ctx context.Context, s *Session, level int, text string) error {
	if r == nil || r.events == nil {
		return nil
	}
	q, ok := s.CurrentQuestion()
	if !ok {
		return nil
	}
	err := r.events.AppendHintEvent(ctx, store.HintEventData{
		SessionID:  s.ID,
		QuestionID: q.ID,
		WordID:     q.Target.ID,
		Level:      level,
		Hint:       text,
	})
	if err != nil {
		return r.fail("append hint", s.ID, err)
	}
	return nil
}

// Abandoned marks an unfinished session as abandoned.
func (r *Recorder) Abandoned(ctx context.Context, s *Session) error {
	if s.Complete() {
		return nil
	}
	return r.save(ctx, s, store.StatusAbandoned)
}

func (r *Recorder) save(ctx context.Context, s *Session, status string) error {
	if r == nil || r.history == nil {
		return nil
	}
	rec := store.SessionRecord{
		ID:        s.ID,
		Kind:      string(s.Kind),
		Status:    status,
		StartedAt: s.StartTime,
		EndedAt:   s.EndTime,
		TotalTime: s.TotalTime,
		Questions: len(s.Questions),
		Answered:  len(s.Results),
		Correct:   s.Score,
	}
	if status == store.StatusAbandoned && len(s.Results) > 0 {
		rec.EndedAt = s.Results[len(s.Results)-1].AnsweredAt
		rec.TotalTime = rec.EndedAt.Sub(s.StartTime)
	}
	if err := r.history.SaveSession(ctx, rec); err != nil {
		return r.fail("save session", s.ID, err)
	}
	return nil
}

func (r *Recorder) fail(op, sessionID string, err error) error {
	r.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"op":         op,
	}).WithError(err).Warn("failed to record training history")
	return fmt.Errorf("%s: %w", op, err)
}

// Queue applies recorder writes one at a time, in the order they were
// enqueued, on a single goroutine. The session row is therefore always
// written before its results, and a later refresh is never overtaken by an
// earlier one.
type Queue struct {
	rec  *Recorder
	jobs chan queuedWrite
	done chan struct{}

	mu     sync.Mutex
	closed bool
}

type queuedWrite struct {
	write func(context.Context, *Recorder) error
	errc  chan error
}

// queueDepth bounds writes waiting behind a slow one. Enqueue blocks once
// it is reached.
const queueDepth = 64

// NewQueue starts a Queue writing through rec. Call Close when done.
func NewQueue(rec *Recorder) *Queue {
	q := &Queue{
		rec:  rec,
		jobs: make(chan queuedWrite, queueDepth),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for job := range q.jobs {
		job.errc <- job.write(context.Background(), q.rec)
	}
}

// Enqueue schedules write and returns a channel that receives its error
// once it has run. Writes enqueued after Close fail with ErrQueueClosed.
func (q *Queue) Enqueue(write func(context.Context, *Recorder) error) <-chan error {
	errc := make(chan error, 1)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		errc <- ErrQueueClosed
		return errc
	}
	q.jobs <- queuedWrite{write: write, errc: errc}
	return errc
}

// Close stops accepting writes and waits for the pending ones to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	<-q.done
}
