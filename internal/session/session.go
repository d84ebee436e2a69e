package session

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/wordiz/internal/drill"
	"github.com/abhisek/wordiz/internal/hint"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Event is an input to Controller.Apply.
type Event interface {
	isEvent()
}

// AnswerEvent submits an answer for the active question. Elapsed is measured
// by the caller.
type AnswerEvent struct {
	Text      string
	Elapsed   time.Duration
	HintsUsed int
}

// TimeoutEvent reports that the active question's time limit ran out.
type TimeoutEvent struct{}

func (AnswerEvent) isEvent()  {}
func (TimeoutEvent) isEvent() {}

// Controller drives sessions through their lifecycle. It holds no session
// state of its own, so one Controller can serve any number of sessions.
// A Controller is not safe for concurrent use because it shares one random
// source.
type Controller struct {
	rng       *rand.Rand
	gen       *drill.Generator
	genConfig drill.Config
	now       func() time.Time
	newID     func() string
	logger    logrus.FieldLogger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger for session lifecycle events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithIDFunc replaces the session ID source.
func WithIDFunc(fn func() string) Option {
	return func(c *Controller) { c.newID = fn }
}

// WithGeneratorConfig overrides question generation settings.
func WithGeneratorConfig(cfg drill.Config) Option {
	return func(c *Controller) { c.genConfig = cfg }
}

// NewController creates a Controller. All shuffling and sampling draws from rng.
func NewController(rng *rand.Rand, opts ...Option) *Controller {
	c := &Controller{
		rng:       rng,
		genConfig: drill.DefaultConfig(),
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.gen = drill.NewGenerator(rng,
		drill.WithConfig(c.genConfig),
		drill.WithLogger(c.logger),
	)
	return c
}

// Start validates the drill configuration, selects words from pool and
// builds a new in-progress session. count is clamped to the pool size.
func (c *Controller) Start(kind drill.Kind, pool []vocab.Entry, count int) (*Session, error) {
	if !kind.Valid() {
		return nil, &ConfigError{Field: "kind", Err: fmt.Errorf("%w: %q", ErrUnknownKind, kind)}
	}
	if len(pool) == 0 {
		return nil, &ConfigError{Field: "pool", Err: ErrEmptyPool}
	}
	if count <= 0 {
		return nil, &ConfigError{Field: "count", Err: fmt.Errorf("%w: got %d", ErrInvalidCount, count)}
	}

	words := SelectWords(pool, count, c.rng)
	questions, err := c.gen.GenerateFrom(kind, words, pool)
	if err != nil {
		return nil, &ConfigError{Field: "kind", Err: err}
	}

	s := &Session{
		ID:        c.newID(),
		Kind:      kind,
		Questions: questions,
		StartTime: c.now(),
	}

	c.logger.WithFields(logrus.Fields{
		"session_id": s.ID,
		"kind":       kind,
		"questions":  len(questions),
		"requested":  count,
	}).Info("drill session started")

	return s, nil
}

// SubmitAnswer records an answer for the active question and advances.
func (c *Controller) SubmitAnswer(s *Session, answer string, elapsed time.Duration, hintsUsed int) (*Session, Result, error) {
	return c.Apply(s, AnswerEvent{Text: answer, Elapsed: elapsed, HintsUsed: hintsUsed})
}

// Timeout records an empty answer for the active question, using its time
// limit as the elapsed time and the hints consumed so far.
func (c *Controller) Timeout(s *Session) (*Session, Result, error) {
	return c.Apply(s, TimeoutEvent{})
}

// Apply is the session transition function. It returns the next session and
// the result for the answered question. s is never modified; on error the
// returned session is nil.
func (c *Controller) Apply(s *Session, ev Event) (*Session, Result, error) {
	op := "answer"
	if _, ok := ev.(TimeoutEvent); ok {
		op = "timeout"
	}

	if s.Complete() {
		return nil, Result{}, &StateError{Op: op, SessionID: s.ID, Err: ErrSessionComplete}
	}
	q, ok := s.CurrentQuestion()
	if !ok {
		return nil, Result{}, &StateError{Op: op, SessionID: s.ID, Err: ErrNoQuestion}
	}

	res := Result{
		QuestionID: q.ID,
		WordID:     q.Target.ID,
		Word:       q.Target.Word,
		Answer:     q.Answer,
		AnsweredAt: c.now(),
	}

	switch ev := ev.(type) {
	case AnswerEvent:
		if ev.HintsUsed < 0 || ev.HintsUsed > hint.MaxHints {
			return nil, Result{}, &ConfigError{
				Field: "hints_used",
				Err:   fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidHints, ev.HintsUsed, hint.MaxHints),
			}
		}
		if ev.Elapsed < 0 {
			return nil, Result{}, &ConfigError{Field: "elapsed", Err: ErrInvalidElapsed}
		}
		res.Submitted = ev.Text
		res.Elapsed = ev.Elapsed
		res.HintsUsed = ev.HintsUsed
	case TimeoutEvent:
		res.TimedOut = true
		res.Elapsed = q.TimeLimit
		res.HintsUsed = s.HintsUsed
	default:
		return nil, Result{}, fmt.Errorf("session %s: unsupported event %T", s.ID, ev)
	}

	res.Correct = drill.IsCorrect(q.Kind(), res.Submitted, q.Answer)

	next := s.clone()
	next.Results = append(next.Results, res)
	if res.Correct {
		next.Score++
	}
	next.CurrentIndex++
	next.HintsUsed = 0

	c.logger.WithFields(logrus.Fields{
		"session_id": s.ID,
		"question":   s.CurrentIndex + 1,
		"word_id":    q.Target.ID,
		"correct":    res.Correct,
		"timed_out":  res.TimedOut,
	}).Debug("answer recorded")

	if next.CurrentIndex == len(next.Questions) {
		next.EndTime = c.now()
		next.TotalTime = next.EndTime.Sub(next.StartTime)

		c.logger.WithFields(logrus.Fields{
			"session_id": next.ID,
			"score":      next.Score,
			"questions":  len(next.Questions),
			"accuracy":   next.Accuracy(),
			"total_time": next.TotalTime,
		}).Info("drill session complete")
	}

	return next, res, nil
}

// RequestHint returns the next hint for the active free-recall question and
// the session with the hint counted. At most hint.MaxHints hints are given
// per question.
func (c *Controller) RequestHint(s *Session) (*Session, string, error) {
	const op = "hint"

	if s.Complete() {
		return nil, "", &StateError{Op: op, SessionID: s.ID, Err: ErrSessionComplete}
	}
	q, ok := s.CurrentQuestion()
	if !ok {
		return nil, "", &StateError{Op: op, SessionID: s.ID, Err: ErrNoQuestion}
	}
	if q.Kind() != drill.KindFreeRecall {
		return nil, "", &StateError{Op: op, SessionID: s.ID, Err: fmt.Errorf("%w: %s", ErrHintUnavailable, q.Kind())}
	}
	if s.HintsUsed >= hint.MaxHints {
		return nil, "", &StateError{Op: op, SessionID: s.ID, Err: ErrHintLimit}
	}

	text := hint.Hint(q.Answer, hint.LevelFor(s.HintsUsed))
	next := s.clone()
	next.HintsUsed++
	return next, text, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
