package session

import (
	"time"

	"github.com/abhisek/wordiz/internal/drill"
	"github.com/abhisek/wordiz/internal/hint"
)

// Phase is the lifecycle stage of a session.
type Phase int

const (
	PhaseSelecting  Phase = iota // Choosing kind and count, no questions yet
	PhaseInProgress              // 0 <= CurrentIndex < len(Questions)
	PhaseComplete                // CurrentIndex == len(Questions)
)

func (p Phase) String() string {
	switch p {
	case PhaseSelecting:
		return "selecting"
	case PhaseInProgress:
		return "in-progress"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Session is one run of questions of a single kind. Sessions are changed
// only through Controller, which returns a new value on every transition.
type Session struct {
	ID        string
	Kind      drill.Kind
	Questions []drill.Question

	// CurrentIndex is the active question. It only grows, up to len(Questions).
	CurrentIndex int

	// Score is the number of correct answers so far.
	Score int

	// HintsUsed counts hints consumed on the active question.
	HintsUsed int

	Results []Result

	StartTime time.Time
	EndTime   time.Time
	TotalTime time.Duration
}

// Result records one answered or timed-out question.
type Result struct {
	QuestionID string
	WordID     string
	Word       string

	// Submitted is empty on timeout.
	Submitted string
	// Answer is the canonical correct answer.
	Answer string

	Correct   bool
	TimedOut  bool
	Elapsed   time.Duration
	HintsUsed int

	AnsweredAt time.Time
}

// Phase derives the lifecycle stage from the question index.
func (s *Session) Phase() Phase {
	switch {
	case len(s.Questions) == 0:
		return PhaseSelecting
	case s.CurrentIndex >= len(s.Questions):
		return PhaseComplete
	default:
		return PhaseInProgress
	}
}

// Complete reports whether every question has been answered.
func (s *Session) Complete() bool {
	return s.Phase() == PhaseComplete
}

// CurrentQuestion returns the active question, if any.
func (s *Session) CurrentQuestion() (drill.Question, bool) {
	if s.Phase() != PhaseInProgress {
		return drill.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Remaining returns the number of unanswered questions.
func (s *Session) Remaining() int {
	return len(s.Questions) - s.CurrentIndex
}

// Accuracy is Score over answered questions, or 0 before the first answer.
func (s *Session) Accuracy() float64 {
	if s.CurrentIndex == 0 {
		return 0
	}
	return float64(s.Score) / float64(s.CurrentIndex)
}

// HintsRemaining returns how many hints may still be requested for the
// active question.
func (s *Session) HintsRemaining() int {
	q, ok := s.CurrentQuestion()
	if !ok || q.Kind() != drill.KindFreeRecall {
		return 0
	}
	return hint.MaxHints - s.HintsUsed
}

// Snapshot is a read-only view of a session for display.
type Snapshot struct {
	ID       string
	Kind     drill.Kind
	Phase    Phase
	Index    int
	Total    int
	Score    int
	Accuracy float64
	Elapsed  time.Duration
}

// Snapshot summarises progress. Elapsed is measured to now while the session
// is running and is the total time once it is complete.
func (s *Session) Snapshot(now time.Time) Snapshot {
	elapsed := s.TotalTime
	if !s.Complete() && !s.StartTime.IsZero() {
		elapsed = now.Sub(s.StartTime)
	}
	return Snapshot{
		ID:       s.ID,
		Kind:     s.Kind,
		Phase:    s.Phase(),
		Index:    s.CurrentIndex,
		Total:    len(s.Questions),
		Score:    s.Score,
		Accuracy: s.Accuracy(),
		Elapsed:  elapsed,
	}
}

// clone copies s so a transition never alters its input. Questions are
// shared since they are never modified.
func (s *Session) clone() *Session {
	next := *s
	next.Results = make([]Result, len(s.Results), len(s.Results)+1)
	copy(next.Results, s.Results)
	return &next
}
