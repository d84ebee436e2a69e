package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/abhisek/wordiz/internal/drill"
	"github.com/abhisek/wordiz/internal/hint"
	"github.com/abhisek/wordiz/internal/vocab"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestController(seed uint64) (*Controller, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := NewController(rand.New(rand.NewPCG(seed, seed)), WithClock(clock.Now))
	return c, clock
}

func makePool(n int) []vocab.Entry {
	pool := make([]vocab.Entry, n)
	for i := range pool {
		word := fmt.Sprintf("word%d", i)
		pool[i] = vocab.Entry{
			ID:         fmt.Sprintf("id-%d", i),
			Word:       word,
			Definition: fmt.Sprintf("definition of %s", word),
			Example:    fmt.Sprintf("This sentence uses %s once.", word),
			Category:   "general",
			Frequency:  i * 10,
		}
	}
	return pool
}

// answerAll answers every remaining question, correctly for the first
// `correct` of them.
func answerAll(t *testing.T, c *Controller, s *Session, correct int) *Session {
	t.Helper()
	for i := 0; !s.Complete(); i++ {
		q, _ := s.CurrentQuestion()
		answer := "definitely wrong"
		if i < correct {
			answer = q.Answer
		}
		var err error
		s, _, err = c.SubmitAnswer(s, answer, 2*time.Second, 0)
		if err != nil {
			t.Fatalf("SubmitAnswer: %v", err)
		}
	}
	return s
}

func TestStart_ConfigErrors(t *testing.T) {
	c, _ := newTestController(1)
	pool := makePool(3)

	tests := []struct {
		name    string
		kind    drill.Kind
		pool    []vocab.Entry
		count   int
		field   string
		wantErr error
	}{
		{"empty pool", drill.KindMultipleChoice, nil, 3, "pool", ErrEmptyPool},
		{"zero count", drill.KindMultipleChoice, pool, 0, "count", ErrInvalidCount},
		{"negative count", drill.KindMultipleChoice, pool, -2, "count", ErrInvalidCount},
		{"unknown kind", drill.Kind("audio-recognition"), pool, 3, "kind", ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := c.Start(tt.kind, tt.pool, tt.count)
			if s != nil {
				t.Errorf("session = %v, want nil", s)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStart_QuestionCountAndTargets(t *testing.T) {
	pool := makePool(8)
	inPool := map[string]bool{}
	for _, e := range pool {
		inPool[e.ID] = true
	}

	for count := 1; count <= len(pool); count++ {
		c, _ := newTestController(uint64(count))
		s, err := c.Start(drill.KindDefinitionMatch, pool, count)
		if err != nil {
			t.Fatalf("Start(count=%d): %v", count, err)
		}
		if len(s.Questions) != count {
			t.Errorf("count=%d: questions = %d", count, len(s.Questions))
		}
		seen := map[string]bool{}
		for _, q := range s.Questions {
			if !inPool[q.Target.ID] {
				t.Errorf("count=%d: target %s not from pool", count, q.Target.ID)
			}
			if seen[q.Target.ID] {
				t.Errorf("count=%d: duplicate target %s", count, q.Target.ID)
			}
			seen[q.Target.ID] = true
		}
		if s.CurrentIndex != 0 || s.Score != 0 || s.Phase() != PhaseInProgress {
			t.Errorf("count=%d: index=%d score=%d phase=%s", count, s.CurrentIndex, s.Score, s.Phase())
		}
	}
}

func TestStart_ClampsCount(t *testing.T) {
	c, clock := newTestController(2)
	s, err := c.Start(drill.KindFreeRecall, makePool(4), 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Questions) != 4 {
		t.Errorf("questions = %d, want 4", len(s.Questions))
	}
	if !s.StartTime.Equal(clock.Now()) {
		t.Errorf("StartTime = %v, want %v", s.StartTime, clock.Now())
	}
	if s.ID == "" {
		t.Error("session ID is empty")
	}
}

func TestStart_DuplicatePoolEntries(t *testing.T) {
	c, _ := newTestController(3)
	pool := makePool(3)
	pool = append(pool, pool[0], pool[1])

	s, err := c.Start(drill.KindFreeRecall, pool, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Questions) != 3 {
		t.Errorf("questions = %d, want 3 unique targets", len(s.Questions))
	}
}

func TestSelectWords_LowestFrequencyFirst(t *testing.T) {
	pool := []vocab.Entry{
		{ID: "a", Frequency: 50},
		{ID: "b", Frequency: 10},
		{ID: "c", Frequency: 30},
		{ID: "d", Frequency: 20},
	}
	got := SelectWords(pool, 2, rand.New(rand.NewPCG(1, 1)))
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "d" {
		t.Errorf("SelectWords = %v, want [b d]", got)
	}
	if pool[0].ID != "a" {
		t.Error("pool was reordered")
	}
}

func TestSelectWords_RandomTieBreak(t *testing.T) {
	pool := []vocab.Entry{
		{ID: "low", Frequency: 0},
		{ID: "t1", Frequency: 5},
		{ID: "t2", Frequency: 5},
		{ID: "t3", Frequency: 5},
		{ID: "high", Frequency: 99},
	}

	firstTie := map[string]int{}
	for seed := uint64(0); seed < 100; seed++ {
		got := SelectWords(pool, len(pool), rand.New(rand.NewPCG(seed, seed)))
		if got[0].ID != "low" || got[4].ID != "high" {
			t.Fatalf("seed %d: order %v breaks frequency sort", seed, got)
		}
		firstTie[got[1].ID]++
	}
	for _, id := range []string{"t1", "t2", "t3"} {
		if firstTie[id] == 0 {
			t.Errorf("%s never ranked first among ties: %v", id, firstTie)
		}
	}
}

func TestSelectWords_WholePoolWhenCountLarger(t *testing.T) {
	got := SelectWords(makePool(3), 10, rand.New(rand.NewPCG(1, 1)))
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestScenario_MultipleChoiceFiveQuestions(t *testing.T) {
	c, _ := newTestController(4)
	s, err := c.Start(drill.KindMultipleChoice, makePool(5), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Questions) != 5 || s.CurrentIndex != 0 {
		t.Fatalf("questions = %d, index = %d", len(s.Questions), s.CurrentIndex)
	}

	s = answerAll(t, c, s, 3)

	if s.Score != 3 {
		t.Errorf("Score = %d, want 3", s.Score)
	}
	if s.Accuracy() != 0.6 {
		t.Errorf("Accuracy = %v, want 0.6", s.Accuracy())
	}
	if s.Phase() != PhaseComplete {
		t.Errorf("Phase = %s, want complete", s.Phase())
	}
	if len(s.Results) != 5 {
		t.Errorf("Results = %d, want 5", len(s.Results))
	}
}

func TestScenario_TenQuestionsSevenCorrect(t *testing.T) {
	c, clock := newTestController(5)
	s, err := c.Start(drill.KindDefinitionMatch, makePool(12), 10)
	if err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Minute)
	s = answerAll(t, c, s, 7)

	sum := BuildSummary(s, clock.Now())
	if sum.Accuracy != 0.7 {
		t.Errorf("Accuracy = %v, want 0.7", sum.Accuracy)
	}
	if sum.Correct != 7 || sum.TotalQuestions != 10 {
		t.Errorf("Correct/Total = %d/%d, want 7/10", sum.Correct, sum.TotalQuestions)
	}
	if len(sum.Missed) != 3 {
		t.Errorf("Missed = %d, want 3", len(sum.Missed))
	}
}

func TestAccuracy_InProgress(t *testing.T) {
	c, _ := newTestController(6)
	s, _ := c.Start(drill.KindFreeRecall, makePool(6), 6)

	if s.Accuracy() != 0 {
		t.Errorf("Accuracy before answers = %v, want 0", s.Accuracy())
	}

	answers := []bool{true, false, true, true}
	for _, correct := range answers {
		q, _ := s.CurrentQuestion()
		text := "zzzzzzzz"
		if correct {
			text = q.Answer
		}
		s, _, _ = c.SubmitAnswer(s, text, time.Second, 0)
	}
	if s.CurrentIndex != 4 || s.Score != 3 {
		t.Fatalf("index/score = %d/%d, want 4/3", s.CurrentIndex, s.Score)
	}
	if s.Accuracy() != 0.75 {
		t.Errorf("Accuracy = %v, want 0.75", s.Accuracy())
	}
}

func TestSubmitAnswer_FreeRecallTypo(t *testing.T) {
	c, _ := newTestController(7)
	pool := []vocab.Entry{{ID: "1", Word: "apple", Definition: "a fruit"}}
	s, _ := c.Start(drill.KindFreeRecall, pool, 1)

	_, res, err := c.SubmitAnswer(s, " Aple ", time.Second, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct {
		t.Error("single typo should be accepted")
	}
	if res.Submitted != " Aple " || res.Answer != "apple" {
		t.Errorf("Submitted/Answer = %q/%q", res.Submitted, res.Answer)
	}
}

func TestSubmitAnswer_AfterComplete(t *testing.T) {
	c, _ := newTestController(8)
	s, _ := c.Start(drill.KindMultipleChoice, makePool(2), 2)
	s = answerAll(t, c, s, 2)

	_, _, err := c.SubmitAnswer(s, "anything", time.Second, 0)
	var stateErr *StateError
	if !errors.As(err, &stateErr) || !errors.Is(err, ErrSessionComplete) {
		t.Errorf("SubmitAnswer err = %v, want StateError(ErrSessionComplete)", err)
	}

	_, _, err = c.Timeout(s)
	if !errors.As(err, &stateErr) || stateErr.Op != "timeout" {
		t.Errorf("Timeout err = %v, want StateError with op timeout", err)
	}

	_, _, err = c.RequestHint(s)
	if !errors.Is(err, ErrSessionComplete) {
		t.Errorf("RequestHint err = %v, want ErrSessionComplete", err)
	}
}

func TestSubmitAnswer_InvalidInput(t *testing.T) {
	c, _ := newTestController(9)
	s, _ := c.Start(drill.KindFreeRecall, makePool(2), 2)

	tests := []struct {
		name    string
		elapsed time.Duration
		hints   int
		wantErr error
	}{
		{"negative hints", time.Second, -1, ErrInvalidHints},
		{"too many hints", time.Second, hint.MaxHints + 1, ErrInvalidHints},
		{"negative elapsed", -time.Second, 0, ErrInvalidElapsed},
	}
	for _, tt := range tests {
		next, _, err := c.SubmitAnswer(s, "x", tt.elapsed, tt.hints)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.wantErr)
		}
		if next != nil {
			t.Errorf("%s: next session should be nil on error", tt.name)
		}
	}
	if s.CurrentIndex != 0 || len(s.Results) != 0 {
		t.Error("rejected input changed the session")
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	c, _ := newTestController(10)
	s, _ := c.Start(drill.KindMultipleChoice, makePool(3), 3)
	q, _ := s.CurrentQuestion()

	next, _, err := c.Apply(s, AnswerEvent{Text: q.Answer, Elapsed: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if s.CurrentIndex != 0 || s.Score != 0 || len(s.Results) != 0 {
		t.Errorf("input changed: index=%d score=%d results=%d", s.CurrentIndex, s.Score, len(s.Results))
	}
	if next.CurrentIndex != 1 || next.Score != 1 || len(next.Results) != 1 {
		t.Errorf("next: index=%d score=%d results=%d", next.CurrentIndex, next.Score, len(next.Results))
	}
}

func TestTimeout_MidProgress(t *testing.T) {
	c, _ := newTestController(11)
	s, _ := c.Start(drill.KindMultipleChoice, makePool(4), 4)
	s = answerOne(t, c, s, true)

	before := s.CurrentIndex
	next, res, err := c.Timeout(s)
	if err != nil {
		t.Fatal(err)
	}
	if res.Submitted != "" {
		t.Errorf("Submitted = %q, want empty", res.Submitted)
	}
	if res.Correct {
		t.Error("timeout should be incorrect")
	}
	if !res.TimedOut {
		t.Error("TimedOut = false")
	}
	if res.Elapsed != drill.DefaultTimeLimit {
		t.Errorf("Elapsed = %v, want %v", res.Elapsed, drill.DefaultTimeLimit)
	}
	if next.CurrentIndex != before+1 {
		t.Errorf("CurrentIndex = %d, want %d", next.CurrentIndex, before+1)
	}
	if next.Score != s.Score {
		t.Errorf("Score changed on timeout: %d -> %d", s.Score, next.Score)
	}
}

func answerOne(t *testing.T, c *Controller, s *Session, correct bool) *Session {
	t.Helper()
	q, _ := s.CurrentQuestion()
	text := "definitely wrong"
	if correct {
		text = q.Answer
	}
	next, _, err := c.SubmitAnswer(s, text, time.Second, 0)
	if err != nil {
		t.Fatal(err)
	}
	return next
}

func TestRequestHint_FreeRecall(t *testing.T) {
	c, _ := newTestController(12)
	pool := []vocab.Entry{
		{ID: "1", Word: "elephant", Definition: "a large animal", Frequency: 1},
		{ID: "2", Word: "giraffe", Definition: "a tall animal", Frequency: 2},
	}
	s, _ := c.Start(drill.KindFreeRecall, pool, 2)

	want := []string{`Starts with "e"`, "e______t", "e_e_h_n_"}
	for i, w := range want {
		var h string
		var err error
		s, h, err = c.RequestHint(s)
		if err != nil {
			t.Fatalf("hint %d: %v", i, err)
		}
		if h != w {
			t.Errorf("hint %d = %q, want %q", i, h, w)
		}
	}
	if s.HintsRemaining() != 0 {
		t.Errorf("HintsRemaining = %d, want 0", s.HintsRemaining())
	}

	_, _, err := c.RequestHint(s)
	if !errors.Is(err, ErrHintLimit) {
		t.Errorf("fourth hint err = %v, want ErrHintLimit", err)
	}

	next, res, err := c.Timeout(s)
	if err != nil {
		t.Fatal(err)
	}
	if res.HintsUsed != 3 {
		t.Errorf("timeout HintsUsed = %d, want 3", res.HintsUsed)
	}
	if res.Elapsed != 0 {
		t.Errorf("untimed question elapsed = %v, want 0", res.Elapsed)
	}
	if next.HintsUsed != 0 || next.HintsRemaining() != hint.MaxHints {
		t.Errorf("hint counter not reset: used=%d remaining=%d", next.HintsUsed, next.HintsRemaining())
	}
}

func TestRequestHint_NotFreeRecall(t *testing.T) {
	c, _ := newTestController(13)
	s, _ := c.Start(drill.KindMultipleChoice, makePool(2), 2)

	_, _, err := c.RequestHint(s)
	var stateErr *StateError
	if !errors.As(err, &stateErr) || !errors.Is(err, ErrHintUnavailable) {
		t.Errorf("err = %v, want StateError(ErrHintUnavailable)", err)
	}
}

func TestScenario_FillInBlankMissingHeadword(t *testing.T) {
	c, _ := newTestController(14)
	pool := makePool(3)
	pool[1].Example = "This sentence forgot its headword."

	s, err := c.Start(drill.KindFillInBlank, pool, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range s.Questions {
		body := q.Body.(drill.FillInBlank)
		if q.Target.ID == pool[1].ID {
			if body.Masked || body.Sentence != pool[1].Example {
				t.Errorf("missing headword: sentence = %q masked = %v", body.Sentence, body.Masked)
			}
			continue
		}
		if !body.Masked {
			t.Errorf("%s: sentence %q should be masked", q.Target.Word, body.Sentence)
		}
	}
}

func TestCompletion_Timing(t *testing.T) {
	c, clock := newTestController(15)
	s, _ := c.Start(drill.KindFreeRecall, makePool(2), 2)
	start := clock.Now()

	clock.Advance(10 * time.Second)
	q, _ := s.CurrentQuestion()
	s, _, _ = c.SubmitAnswer(s, q.Answer, 2*time.Second, 0)
	if !s.EndTime.IsZero() {
		t.Error("EndTime set before completion")
	}

	clock.Advance(50 * time.Second)
	s, _, _ = c.SubmitAnswer(s, "nope", 4*time.Second, 1)

	if !s.Complete() {
		t.Fatal("session should be complete")
	}
	if s.TotalTime != time.Minute {
		t.Errorf("TotalTime = %v, want 1m (end - start)", s.TotalTime)
	}
	if !s.EndTime.Equal(start.Add(time.Minute)) {
		t.Errorf("EndTime = %v", s.EndTime)
	}

	sum := BuildSummary(s, clock.Now())
	if sum.AverageAnswerTime != 3*time.Second {
		t.Errorf("AverageAnswerTime = %v, want 3s", sum.AverageAnswerTime)
	}
	if sum.TotalTime != time.Minute {
		t.Errorf("summary TotalTime = %v, want 1m", sum.TotalTime)
	}
	if sum.HintsUsed != 1 {
		t.Errorf("HintsUsed = %d, want 1", sum.HintsUsed)
	}
	if sum.Accuracy != 0.5 {
		t.Errorf("Accuracy = %v, want 0.5", sum.Accuracy)
	}
}

func TestBuildSummary_Abandoned(t *testing.T) {
	c, clock := newTestController(16)
	s, _ := c.Start(drill.KindFreeRecall, makePool(4), 4)
	s = answerOne(t, c, s, true)
	s = answerOne(t, c, s, false)
	clock.Advance(90 * time.Second)

	sum := BuildSummary(s, clock.Now())
	if sum.Complete {
		t.Error("Complete = true for abandoned session")
	}
	if sum.Answered != 2 || sum.Accuracy != 0.5 {
		t.Errorf("Answered/Accuracy = %d/%v, want 2/0.5", sum.Answered, sum.Accuracy)
	}
	if sum.TotalTime != 90*time.Second {
		t.Errorf("TotalTime = %v, want 90s", sum.TotalTime)
	}
}

func TestBuildSummary_NoAnswers(t *testing.T) {
	c, clock := newTestController(17)
	s, _ := c.Start(drill.KindMultipleChoice, makePool(2), 2)

	sum := BuildSummary(s, clock.Now())
	if sum.Accuracy != 0 || sum.AverageAnswerTime != 0 {
		t.Errorf("Accuracy/Average = %v/%v, want zero", sum.Accuracy, sum.AverageAnswerTime)
	}
}

func TestSnapshot(t *testing.T) {
	c, clock := newTestController(18)
	s, _ := c.Start(drill.KindMultipleChoice, makePool(3), 3)
	s = answerOne(t, c, s, true)
	clock.Advance(5 * time.Second)

	snap := s.Snapshot(clock.Now())
	if snap.Index != 1 || snap.Total != 3 || snap.Score != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Phase != PhaseInProgress || snap.Accuracy != 1 {
		t.Errorf("phase/accuracy = %s/%v", snap.Phase, snap.Accuracy)
	}
	if snap.Elapsed != 5*time.Second {
		t.Errorf("Elapsed = %v, want 5s", snap.Elapsed)
	}
}

func TestPhase_EmptySession(t *testing.T) {
	s := &Session{}
	if s.Phase() != PhaseSelecting {
		t.Errorf("Phase = %s, want selecting", s.Phase())
	}
	c, _ := newTestController(19)
	if _, _, err := c.Timeout(s); !errors.Is(err, ErrNoQuestion) {
		t.Errorf("err = %v, want ErrNoQuestion", err)
	}
}
