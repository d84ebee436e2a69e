package store

import (
	"context"
	"time"
)

// Session status values.
const (
	StatusInProgress = "in-progress"
	StatusComplete   = "complete"
	StatusAbandoned  = "abandoned"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // LLM purpose filter
}

// SessionRecord is one drill session as stored.
type SessionRecord struct {
	ID        string
	Kind      string
	Status    string
	StartedAt time.Time
	EndedAt   time.Time
	TotalTime time.Duration
	Questions int
	Answered  int
	Correct   int
}

// Accuracy is Correct over Questions for complete sessions and over Answered
// otherwise.
func (r SessionRecord) Accuracy() float64 {
	denom := r.Answered
	if r.Status == StatusComplete {
		denom = r.Questions
	}
	if denom == 0 {
		return 0
	}
	return float64(r.Correct) / float64(denom)
}

// ResultRecord is one answered or timed-out question.
type ResultRecord struct {
	Sequence   int64
	SessionID  string
	QuestionID string
	WordID     string
	Word       string
	Kind       string
	Submitted  string
	Answer     string
	Correct    bool
	TimedOut   bool
	Elapsed    time.Duration
	HintsUsed  int
	Timestamp  time.Time
}

// WordStat aggregates all recorded answers for one word.
type WordStat struct {
	WordID   string
	Word     string
	Attempts int
	Correct  int
	LastSeen time.Time
}

// Accuracy is Correct over Attempts.
func (w WordStat) Accuracy() float64 {
	if w.Attempts == 0 {
		return 0
	}
	return float64(w.Correct) / float64(w.Attempts)
}

// HistoryStats summarises all recorded training.
type HistoryStats struct {
	Sessions          int
	CompletedSessions int
	Answers           int
	Correct           int
	// Accuracy is Correct over Answers.
	Accuracy float64
	// MeanSessionAccuracy averages the accuracy of completed sessions.
	MeanSessionAccuracy float64
	MedianAnswerTime    time.Duration
	TotalPractice       time.Duration
}

// HistoryRepo persists training history: sessions and their results.
type HistoryRepo interface {
	// SaveSession inserts or updates a session row.
	SaveSession(ctx context.Context, rec SessionRecord) error

	// AppendResult records one answer. The session must already be saved.
	AppendResult(ctx context.Context, rec ResultRecord) error

	// GetSession returns a session by ID, or nil if it does not exist.
	GetSession(ctx context.Context, id string) (*SessionRecord, error)

	// RecentSessions returns sessions newest first.
	RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error)

	// SessionResults returns a session's results in answer order.
	SessionResults(ctx context.Context, sessionID string) ([]ResultRecord, error)

	// WordStats returns per-word totals, weakest words first.
	WordStats(ctx context.Context, limit int) ([]WordStat, error)

	// Stats summarises all history.
	Stats(ctx context.Context) (*HistoryStats, error)
}

// HintEventData captures one hint request.
type HintEventData struct {
	SessionID  string
	QuestionID string
	WordID     string
	Level      int
	Hint       string
}

// HintEventRecord is a stored hint request.
type HintEventRecord struct {
	Sequence int64
	HintEventData
	Timestamp time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to auxiliary events.
type EventRepo interface {
	// AppendHintEvent records a hint shown during a session.
	AppendHintEvent(ctx context.Context, data HintEventData) error

	// QueryHintEvents returns a session's hint events in order.
	QueryHintEvents(ctx context.Context, sessionID string) ([]HintEventRecord, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)
}
