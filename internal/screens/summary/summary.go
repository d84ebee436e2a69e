package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screen"
	"github.com/abhisek/wordiz/internal/session"
	"github.com/abhisek/wordiz/internal/ui/layout"
	"github.com/abhisek/wordiz/internal/ui/theme"
)

// maxMissed caps how many missed words are listed.
const maxMissed = 8

// SummaryScreen displays the end-of-drill statistics.
type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Drill Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder

	heading := "Drill complete!"
	if !sum.Complete {
		heading = "Drill ended early"
	}
	b.WriteString(layout.Centered(theme.Title, width, heading))
	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Subtitle, width, sum.Kind.DisplayName()))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(theme.Word, width, fmt.Sprintf("%.0f%%", sum.Accuracy*100)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Correct: %d/%d        Avg: %.1fs        Total: %s",
		sum.Correct, sum.TotalQuestions,
		sum.AverageAnswerTime.Seconds(),
		layout.FormatDuration(sum.TotalTime))
	b.WriteString(layout.Centered(theme.Body, width, statsLine))
	b.WriteString("\n")

	var extras []string
	if !sum.Complete {
		extras = append(extras, fmt.Sprintf("Answered: %d", sum.Answered))
	}
	if sum.TimedOut > 0 {
		extras = append(extras, fmt.Sprintf("Timed out: %d", sum.TimedOut))
	}
	if sum.HintsUsed > 0 {
		extras = append(extras, fmt.Sprintf("Hints: %d", sum.HintsUsed))
	}
	if len(extras) > 0 {
		b.WriteString(layout.Centered(theme.Dimmed, width, strings.Join(extras, "        ")))
		b.WriteString("\n")
	}

	if len(sum.Missed) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 60)))
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Dimmed, width, "Words to review"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")

		for i, r := range sum.Missed {
			if i == maxMissed {
				more := fmt.Sprintf("...and %d more", len(sum.Missed)-maxMissed)
				b.WriteString(layout.Centered(theme.Dimmed, width, more))
				b.WriteString("\n")
				break
			}
			given := r.Submitted
			if r.TimedOut {
				given = "(timed out)"
			} else if given == "" {
				given = "(blank)"
			}
			line := fmt.Sprintf("%s    answer: %s    yours: %s", r.Word, r.Answer, given)
			b.WriteString(layout.Centered(theme.Body, width, line))
			b.WriteString("\n")
		}
	}

	return b.String()
}
