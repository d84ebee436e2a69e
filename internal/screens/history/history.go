// Package history browses past drills and per-word totals.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/drill"
	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screen"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/ui/layout"
	"github.com/abhisek/wordiz/internal/ui/theme"
)

const (
	sessionLimit = 50
	wordLimit    = 20
)

type sessionsMsg struct {
	sessions []store.SessionRecord
	err      error
}

type answersMsg struct {
	sessionID string
	answers   []store.ResultRecord
	err       error
}

type wordStatsMsg struct {
	words []store.WordStat
	err   error
}

// HistoryScreen lists past drills. Enter opens a drill to show its answers
// and W switches to per-word totals.
type HistoryScreen struct {
	repo store.HistoryRepo

	sessions []store.SessionRecord
	answers  map[string][]store.ResultRecord
	open     map[string]bool
	words    []store.WordStat

	selected  int
	showWords bool
	loaded    bool
	errMsg    string
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

func New(repo store.HistoryRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:    repo,
		answers: map[string][]store.ResultRecord{},
		open:    map[string]bool{},
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		sessions, err := repo.RecentSessions(context.Background(), sessionLimit)
		return sessionsMsg{sessions: sessions, err: err}
	}
}

func (s *HistoryScreen) Title() string {
	if s.showWords {
		return "Word Stats"
	}
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	back := layout.KeyHint{Key: "Esc", Description: "Back"}
	if s.showWords {
		return []layout.KeyHint{{Key: "W", Description: "Drills"}, back}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Answers"},
		{Key: "W", Description: "Words"},
		back,
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionsMsg:
		s.loaded = true
		s.sessions = msg.sessions
		s.fail(msg.err)
	case answersMsg:
		if !s.fail(msg.err) {
			s.answers[msg.sessionID] = msg.answers
		}
	case wordStatsMsg:
		if !s.fail(msg.err) {
			s.words = msg.words
		}
	case tea.KeyMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

// fail records err for display and reports whether there was one.
func (s *HistoryScreen) fail(err error) bool {
	if err == nil {
		return false
	}
	s.errMsg = err.Error()
	return true
}

func (s *HistoryScreen) handleKey(key string) tea.Cmd {
	switch key {
	case "esc":
		return func() tea.Msg { return router.PopScreenMsg{} }
	case "w", "W":
		s.showWords = !s.showWords
		if s.showWords && s.words == nil {
			return s.loadWords()
		}
		return nil
	}
	if s.showWords || len(s.sessions) == 0 {
		return nil
	}

	switch key {
	case "up", "k":
		s.selected = max(s.selected-1, 0)
	case "down", "j":
		s.selected = min(s.selected+1, len(s.sessions)-1)
	case "enter":
		id := s.sessions[s.selected].ID
		s.open[id] = !s.open[id]
		if _, cached := s.answers[id]; s.open[id] && !cached {
			return s.loadAnswers(id)
		}
	}
	return nil
}

func (s *HistoryScreen) loadAnswers(sessionID string) tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		answers, err := repo.SessionResults(context.Background(), sessionID)
		return answersMsg{sessionID: sessionID, answers: answers, err: err}
	}
}

func (s *HistoryScreen) loadWords() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		words, err := repo.WordStats(context.Background(), wordLimit)
		if words == nil && err == nil {
			words = []store.WordStat{}
		}
		return wordStatsMsg{words: words, err: err}
	}
}

// notice renders a short centered message two lines down.
func notice(style lipgloss.Style, width int, text string) string {
	return "\n\n" + layout.Centered(style, width, text)
}

func (s *HistoryScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return notice(theme.Incorrect, width, "Error: "+s.errMsg)
	case !s.loaded:
		return notice(theme.Dimmed, width, "Loading history...")
	case s.showWords:
		return s.renderWords(width)
	case len(s.sessions) == 0:
		return notice(theme.Dimmed.Italic(true), width, "No drills yet. Start practicing!")
	}

	lines := []string{""}
	for i, sess := range s.sessions {
		style, cursor := theme.Body, " "
		if i == s.selected {
			style, cursor = theme.Selected, "›"
		}
		lines = append(lines, layout.Centered(style, width, cursor+" "+sessionLine(sess)))
		if s.open[sess.ID] {
			lines = append(lines, s.renderAnswers(sess.ID, width)...)
		}
	}
	return strings.Join(lines, "\n")
}

func sessionLine(sess store.SessionRecord) string {
	line := fmt.Sprintf("%s  %-17s  %s  %d/%d  %.0f%%",
		sess.StartedAt.Local().Format("Jan 02 15:04"),
		drill.Kind(sess.Kind).DisplayName(),
		layout.FormatDuration(sess.TotalTime),
		sess.Correct, sess.Questions,
		sess.Accuracy()*100)
	if sess.Status != store.StatusComplete {
		line += "  (" + sess.Status + ")"
	}
	return line
}

func (s *HistoryScreen) renderAnswers(sessionID string, width int) []string {
	dim := theme.Dimmed.Italic(true)
	answers, ok := s.answers[sessionID]
	switch {
	case !ok:
		return []string{layout.Centered(dim, width, "Loading...")}
	case len(answers) == 0:
		return []string{layout.Centered(dim, width, "No answers recorded")}
	}

	lines := make([]string, len(answers))
	for i, r := range answers {
		mark, style := "✓", theme.Correct
		if !r.Correct {
			mark, style = "✗", theme.Incorrect
		}
		given := r.Submitted
		if r.TimedOut {
			given = "timed out"
		}
		lines[i] = layout.Centered(style, width,
			fmt.Sprintf("%s %-16s %-16s %.1fs", mark, r.Word, given, r.Elapsed.Seconds()))
	}
	return lines
}

func (s *HistoryScreen) renderWords(width int) string {
	switch {
	case s.words == nil:
		return notice(theme.Dimmed, width, "Loading words...")
	case len(s.words) == 0:
		return notice(theme.Dimmed.Italic(true), width, "No answers recorded yet.")
	}

	lines := []string{"", layout.Centered(theme.Dimmed, width, "Weakest words first"), ""}
	for _, w := range s.words {
		lines = append(lines, layout.Centered(theme.Body, width, fmt.Sprintf(
			"%-18s %3d/%-3d %4.0f%%   last %s",
			w.Word, w.Correct, w.Attempts, w.Accuracy()*100,
			w.LastSeen.Local().Format("Jan 02"))))
	}
	return strings.Join(lines, "\n")
}
