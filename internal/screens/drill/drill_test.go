package drill

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	wdrill "github.com/abhisek/wordiz/internal/drill"
	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screens/summary"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/ui/components"
	"github.com/abhisek/wordiz/internal/vocab"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func testPool(n int) []vocab.Entry {
	pool := make([]vocab.Entry, n)
	for i := range pool {
		word := fmt.Sprintf("word%c", 'a'+i)
		pool[i] = vocab.Entry{
			ID:         fmt.Sprintf("id-%d", i),
			Word:       word,
			Definition: fmt.Sprintf("meaning number %d", i),
			Example:    fmt.Sprintf("She said %s twice.", word),
			Category:   "general",
			Frequency:  50,
		}
	}
	return pool
}

func newTestDrill(t *testing.T, kind wdrill.Kind, count int) (*DrillScreen, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ctrl := session.NewController(rand.New(rand.NewPCG(7, 7)), session.WithClock(clock.Now))
	s, err := ctrl.Start(kind, testPool(8), count)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	deps := Deps{
		Controller: ctrl,
		Recorder:   session.NewRecorder(nil, nil, nil),
		Now:        clock.Now,
	}
	return New(deps, s), clock
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// pickCorrect presses the number key of the correct option and feeds the
// resulting ChoiceMadeMsg back into the screen.
func pickCorrect(t *testing.T, d *DrillScreen) {
	t.Helper()
	idx := -1
	for i, o := range d.shown.Options() {
		if o == d.shown.Answer {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatal("answer not among options")
	}
	_, cmd := d.Update(key(rune('1' + idx)))
	if cmd == nil {
		t.Fatal("expected a command from the choice list")
	}
	msg, ok := cmd().(components.ChoiceMadeMsg)
	if !ok {
		t.Fatalf("expected ChoiceMadeMsg, got %T", cmd())
	}
	d.Update(msg)
}

func TestDrillScreen_TitleAndStatus(t *testing.T) {
	d, _ := newTestDrill(t, wdrill.KindMultipleChoice, 4)
	if d.Title() != "Multiple Choice" {
		t.Errorf("Title = %q", d.Title())
	}
	if got := d.Status(); got != "Q 1/4  ✓ 0" {
		t.Errorf("Status = %q", got)
	}
	if !d.HandlesEscape() {
		t.Error("drill should handle escape itself")
	}
}

func TestDrillScreen_ChoiceCorrect(t *testing.T) {
	d, clock := newTestDrill(t, wdrill.KindMultipleChoice, 4)
	clock.Advance(3 * time.Second)

	pickCorrect(t, d)

	if d.feedback == nil {
		t.Fatal("expected feedback after answering")
	}
	if !d.feedback.Correct {
		t.Error("expected a correct result")
	}
	if d.feedback.Elapsed != 3*time.Second {
		t.Errorf("Elapsed = %v, want 3s", d.feedback.Elapsed)
	}
	if d.session.Score != 1 {
		t.Errorf("Score = %d, want 1", d.session.Score)
	}
	if !d.choices.Locked() {
		t.Error("choices should lock after answering")
	}
}

func TestDrillScreen_FreeRecallAnswer(t *testing.T) {
	d, _ := newTestDrill(t, wdrill.KindFreeRecall, 3)
	answer := d.shown.Answer

	d.input.SetValue(strings.ToUpper(answer))
	d.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if d.feedback == nil || !d.feedback.Correct {
		t.Fatalf("expected correct feedback, got %+v", d.feedback)
	}
	if !d.input.Locked() {
		t.Error("input should be locked after answering")
	}
}

func TestDrillScreen_FeedbackAdvances(t *testing.T) {
	d, _ := newTestDrill(t, wdrill.KindFreeRecall, 3)
	first := d.shown.ID

	d.input.SetValue("nope")
	d.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if d.feedback == nil || d.feedback.Correct {
		t.Fatal("expected incorrect feedback")
	}
	if d.shown.ID != first {
		t.Error("answered question should stay on screen during feedback")
	}

	_, cmd := d.Update(key('x'))
	if d.feedback != nil {
		t.Error("feedback should clear on any key")
	}
	if d.shown.ID == first {
		t.Error("expected the next question")
	}
	if cmd == nil {
		t.Error("expected tick and focus commands for the next question")
	}
	if d.input.Value() != "" {
		t.Errorf("input should reset, got %q", d.input.Value())
	}
}

func TestDrillScreen_Hint(t *testing.T) {
	d, _ := newTestDrill(t, wdrill.KindFreeRecall, 3)

	_, cmd := d.Update(key('?'))
	if len(d.hints) != 1 {
		t.Fatalf("hints = %d, want 1", len(d.hints))
	}
	if d.session.HintsUsed != 1 {
		t.Errorf("HintsUsed = %d, want 1", d.session.HintsUsed)
	}
	if cmd == nil {
		t.Fatal("expected a persist command")
	}
	if _, ok := cmd().(persistedMsg); !ok {
		t.Error("expected persistedMsg")
	}
	if d.input.Value() != "" {
		t.Errorf("? should not be typed into the input, got %q", d.input.Value())
	}

	d.input.SetValue(d.shown.Answer)
	d.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if d.feedback.HintsUsed != 1 {
		t.Errorf("result HintsUsed = %d, want 1", d.feedback.HintsUsed)
	}
}

func TestDrillScreen_HintLimit(t *testing.T) {
	d, _ := newTestDrill(t, wdrill.KindFreeRecall, 3)
	for range 6 {
		d.Update(key('?'))
	}
	if len(d.hints) != 3 {
		t.Errorf("hints = %d, want 3", len(d.hints))
	}
	if d.errMsg != "" {
		t.Errorf("hint limit should not surface an error, got %q", d.errMsg)
	}
}

func TestDrillScreen_TimeoutTick(t *testing.T) {
	d, clock := newTestDrill(t, wdrill.KindDefinitionMatch, 3)
	limit := d.shown.TimeLimit
	if limit <= 0 {
		t.Fatal("definition match should be timed")
	}

	_, cmd := d.Update(tickMsg{question: 0, at: clock.t.Add(limit / 2)})
	if d.feedback != nil {
		t.Fatal("timed out too early")
	}
	if cmd == nil {
		t.Error("expected the next tick to be scheduled")
	}
	left, _, ok := d.remaining()
	if !ok || left != limit/2 {
		t.Errorf("remaining = %v, %v", left, ok)
	}

	d.Update(tickMsg{question: 0, at: clock.t.Add(limit)})
	if d.feedback == nil || !d.feedback.TimedOut {
		t.Fatalf("expected a timed out result, got %+v", d.feedback)
	}
	if d.feedback.Correct {
		t.Error("timed out answers are never correct")
	}
	if !d.choices.Locked() {
		t.Error("choices should lock on timeout")
	}
}

func TestDrillScreen_StaleTickIgnored(t *testing.T) {
	d, clock := newTestDrill(t, wdrill.KindDefinitionMatch, 3)
	_, cmd := d.Update(tickMsg{question: 2, at: clock.t.Add(time.Hour)})
	if cmd != nil {
		t.Error("stale tick should not reschedule")
	}
	if d.feedback != nil {
		t.Error("stale tick should not time out the current question")
	}
}

func TestDrillScreen_EscapeConfirm(t *testing.T) {
	d, _ := newTestDrill(t, wdrill.KindMultipleChoice, 3)

	d.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !d.confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	if !strings.Contains(d.View(80, 24), "End this drill?") {
		t.Error("confirmation should be rendered")
	}

	d.Update(key('n'))
	if d.confirmQuit {
		t.Error("N should dismiss the confirmation")
	}

	d.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := confirmAbandon(t, d)().(router.PopScreenMsg); !ok {
		t.Error("abandoning with no answers should pop back")
	}
}

// confirmAbandon answers Y to the quit prompt, feeds the save outcome back
// into the screen and returns the resulting navigation command.
func confirmAbandon(t *testing.T, d *DrillScreen) tea.Cmd {
	t.Helper()
	_, cmd := d.Update(key('y'))
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	msg := cmd()
	saved, ok := msg.(abandonedMsg)
	if !ok {
		t.Fatalf("expected abandonedMsg, got %T", msg)
	}
	_, cmd = d.Update(saved)
	if cmd == nil {
		t.Fatalf("expected a navigation command, errMsg = %q", d.errMsg)
	}
	return cmd
}

func TestDrillScreen_AbandonShowsSummary(t *testing.T) {
	d, _ := newTestDrill(t, wdrill.KindMultipleChoice, 3)
	pickCorrect(t, d)
	d.Update(key('x'))

	d.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	msg, ok := confirmAbandon(t, d)().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}
}

type failingHistory struct {
	store.HistoryRepo
}

func (failingHistory) SaveSession(context.Context, store.SessionRecord) error {
	return errors.New("disk full")
}

func TestDrillScreen_AbandonSaveFailureStays(t *testing.T) {
	d, _ := newTestDrill(t, wdrill.KindMultipleChoice, 3)
	d.deps.Recorder = session.NewRecorder(failingHistory{}, nil, nil)
	d.writes = session.NewQueue(d.deps.Recorder)

	d.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	_, cmd := d.Update(key('y'))
	saved, ok := cmd().(abandonedMsg)
	if !ok || saved.Err == nil {
		t.Fatalf("expected a failed abandonedMsg, got %+v", saved)
	}

	_, cmd = d.Update(saved)
	if cmd != nil {
		t.Error("a failed save should not navigate away")
	}
	if !strings.Contains(d.errMsg, "disk full") {
		t.Errorf("errMsg = %q, want the save error", d.errMsg)
	}
	if !strings.Contains(d.View(80, 24), "disk full") {
		t.Error("save error should be rendered")
	}
}

func TestDrillScreen_PersistsInOrder(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "wordiz.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ctrl := session.NewController(rand.New(rand.NewPCG(9, 9)), session.WithClock(clock.Now))
	s, err := ctrl.Start(wdrill.KindMultipleChoice, testPool(8), 2)
	if err != nil {
		t.Fatal(err)
	}
	d := New(Deps{
		Controller: ctrl,
		Recorder:   session.NewRecorder(st.HistoryRepo(), st.EventRepo(), nil),
		Now:        clock.Now,
	}, s)

	// Answer without running the persist commands; the queue alone must
	// keep the writes in order.
	pickCorrect(t, d)
	d.Update(key('x'))
	pickCorrect(t, d)
	_, cmd := d.Update(key('x'))
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected the summary")
	}

	got, err := st.HistoryRepo().GetSession(ctx, s.ID)
	if err != nil || got == nil {
		t.Fatalf("GetSession = %v, %v", got, err)
	}
	if got.Status != store.StatusComplete || got.Answered != 2 || got.Correct != 2 {
		t.Errorf("session row = %+v", got)
	}
	results, err := st.HistoryRepo().SessionResults(ctx, s.ID)
	if err != nil || len(results) != 2 {
		t.Errorf("results = %d, %v", len(results), err)
	}
}

func TestDrillScreen_CloseDrainsWrites(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "wordiz.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	ctrl := session.NewController(rand.New(rand.NewPCG(4, 4)), session.WithClock(clock.Now))
	s, err := ctrl.Start(wdrill.KindMultipleChoice, testPool(8), 3)
	if err != nil {
		t.Fatal(err)
	}
	d := New(Deps{
		Controller: ctrl,
		Recorder:   session.NewRecorder(st.HistoryRepo(), st.EventRepo(), nil),
		Now:        clock.Now,
	}, s)
	pickCorrect(t, d)

	// Quitting mid-drill closes the screen; a second close is harmless.
	if msg := d.Close()(); msg != nil {
		t.Errorf("Close produced %T", msg)
	}
	d.Close()()

	results, err := st.HistoryRepo().SessionResults(ctx, s.ID)
	if err != nil || len(results) != 1 {
		t.Errorf("results = %d, %v, want the answer saved before exit", len(results), err)
	}
}

func TestDrillScreen_CompleteShowsSummary(t *testing.T) {
	d, _ := newTestDrill(t, wdrill.KindMultipleChoice, 2)

	pickCorrect(t, d)
	d.Update(key('x'))
	pickCorrect(t, d)

	if !d.session.Complete() {
		t.Fatal("session should be complete")
	}
	_, cmd := d.Update(key('x'))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("expected summary screen, got %T", msg.Screen)
	}
	if got := d.Status(); got != "Q 2/2  ✓ 2" {
		t.Errorf("Status = %q", got)
	}
}

func TestDrillScreen_View(t *testing.T) {
	d, _ := newTestDrill(t, wdrill.KindDefinitionMatch, 3)
	view := d.View(80, 24)
	if !strings.Contains(view, wdrill.KindDefinitionMatch.Instruction()) {
		t.Error("view should show the instruction")
	}
	for _, opt := range d.shown.Options() {
		if !strings.Contains(view, opt) {
			t.Errorf("view missing option %q", opt)
		}
	}
}

func TestDrillScreen_KeyHints(t *testing.T) {
	d, _ := newTestDrill(t, wdrill.KindFreeRecall, 3)
	hints := d.KeyHints()
	found := false
	for _, h := range hints {
		if h.Key == "?" {
			found = true
		}
	}
	if !found {
		t.Error("free recall should advertise the hint key")
	}

	d.confirmQuit = true
	if len(d.KeyHints()) != 2 {
		t.Errorf("confirm hints = %d, want 2", len(d.KeyHints()))
	}
}
