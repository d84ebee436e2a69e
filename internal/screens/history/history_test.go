package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/store"
)

type fakeHistory struct {
	store.HistoryRepo
	sessions []store.SessionRecord
	results  map[string][]store.ResultRecord
	words    []store.WordStat
	err      error
}

func (f *fakeHistory) RecentSessions(_ context.Context, _ int) ([]store.SessionRecord, error) {
	return f.sessions, f.err
}

func (f *fakeHistory) SessionResults(_ context.Context, id string) ([]store.ResultRecord, error) {
	return f.results[id], nil
}

func (f *fakeHistory) WordStats(_ context.Context, _ int) ([]store.WordStat, error) {
	return f.words, nil
}

func testRepo() *fakeHistory {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &fakeHistory{
		sessions: []store.SessionRecord{
			{ID: "s2", Kind: "free-recall", Status: store.StatusAbandoned, StartedAt: start.Add(time.Hour), Questions: 10, Answered: 2, Correct: 1},
			{ID: "s1", Kind: "multiple-choice", Status: store.StatusComplete, StartedAt: start, TotalTime: 90 * time.Second, Questions: 4, Answered: 4, Correct: 3},
		},
		results: map[string][]store.ResultRecord{
			"s1": {
				{SessionID: "s1", Word: "arid", Submitted: "arid", Answer: "arid", Correct: true, Elapsed: 2 * time.Second},
				{SessionID: "s1", Word: "candid", Answer: "candid", TimedOut: true, Elapsed: 30 * time.Second},
			},
		},
		words: []store.WordStat{
			{WordID: "w1", Word: "candid", Attempts: 4, Correct: 1, LastSeen: start},
		},
	}
}

// load runs Init and feeds its message back in.
func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	s.Update(cmd())
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestHistoryScreen_Loading(t *testing.T) {
	s := New(testRepo())
	if !strings.Contains(s.View(80, 24), "Loading") {
		t.Error("expected loading view before data arrives")
	}
}

func TestHistoryScreen_ListsSessions(t *testing.T) {
	s := New(testRepo())
	load(t, s)

	view := s.View(100, 24)
	for _, want := range []string{"Free Recall", "Multiple Choice", "3/4", "75%", "(abandoned)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(&fakeHistory{})
	load(t, s)
	if !strings.Contains(s.View(80, 24), "No drills yet") {
		t.Error("expected empty state")
	}
}

func TestHistoryScreen_LoadError(t *testing.T) {
	s := New(&fakeHistory{err: errors.New("disk on fire")})
	load(t, s)
	if !strings.Contains(s.View(80, 24), "disk on fire") {
		t.Error("expected the error to be shown")
	}
}

func TestHistoryScreen_ExpandLoadsResults(t *testing.T) {
	s := New(testRepo())
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Fatalf("selected = %d, want 1", s.selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected results to be loaded")
	}
	s.Update(cmd())

	view := s.View(100, 40)
	if !strings.Contains(view, "arid") || !strings.Contains(view, "timed out") {
		t.Error("expanded session should list its answers")
	}

	// Collapse and expand again: results are cached.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("cached results should not reload")
	}
}

func TestHistoryScreen_WordStats(t *testing.T) {
	s := New(testRepo())
	load(t, s)

	_, cmd := s.Update(key('w'))
	if !s.showWords {
		t.Fatal("w should switch to word stats")
	}
	if s.Title() != "Word Stats" {
		t.Errorf("Title = %q", s.Title())
	}
	if cmd == nil {
		t.Fatal("expected word stats to be loaded")
	}
	s.Update(cmd())

	view := s.View(100, 24)
	if !strings.Contains(view, "candid") || !strings.Contains(view, "25%") {
		t.Errorf("word view missing stats: %q", view)
	}

	s.Update(key('w'))
	if s.showWords {
		t.Error("w should toggle back")
	}
}

func TestHistoryScreen_EscPops(t *testing.T) {
	s := New(testRepo())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
