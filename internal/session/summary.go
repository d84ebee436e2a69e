package session

import (
	"time"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"

	"github.com/abhisek/wordiz/internal/drill"
)

// Summary holds the end-of-session statistics.
type Summary struct {
	SessionID      string
	Kind           drill.Kind
	TotalQuestions int
	Answered       int
	Correct        int
	TimedOut       int
	HintsUsed      int

	// Accuracy is Correct over TotalQuestions for a complete session and
	// over answered questions for an abandoned one.
	Accuracy float64

	AverageAnswerTime time.Duration

	// TotalTime is wall-clock time from start to finish, which includes any
	// pauses between questions.
	TotalTime time.Duration

	Missed   []Result
	Complete bool
}

// BuildSummary computes statistics for s. For a session that has not
// completed, now marks the end of the run.
func BuildSummary(s *Session, now time.Time) *Summary {
	sum := &Summary{
		SessionID:      s.ID,
		Kind:           s.Kind,
		TotalQuestions: len(s.Questions),
		Answered:       len(s.Results),
		Correct:        s.Score,
		Complete:       s.Complete(),
	}

	if sum.Complete {
		sum.TotalTime = s.TotalTime
		if sum.TotalQuestions > 0 {
			sum.Accuracy = float64(s.Score) / float64(sum.TotalQuestions)
		}
	} else {
		if !s.StartTime.IsZero() {
			sum.TotalTime = now.Sub(s.StartTime)
		}
		sum.Accuracy = s.Accuracy()
	}

	secs := make(stats.Float64Data, 0, len(s.Results))
	for _, r := range s.Results {
		secs = append(secs, r.Elapsed.Seconds())
		sum.HintsUsed += r.HintsUsed
		if r.TimedOut {
			sum.TimedOut++
		}
	}
	if mean, err := stats.Mean(secs); err == nil {
		sum.AverageAnswerTime = time.Duration(mean * float64(time.Second))
	}

	sum.Missed = lo.Filter(s.Results, func(r Result, _ int) bool {
		return !r.Correct
	})
	return sum
}
