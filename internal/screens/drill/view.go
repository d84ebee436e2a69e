package drill

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	wdrill "github.com/abhisek/wordiz/internal/drill"
	"github.com/abhisek/wordiz/internal/ui/components"
	"github.com/abhisek/wordiz/internal/ui/layout"
	"github.com/abhisek/wordiz/internal/ui/theme"
)

// lowTime is when the countdown bar switches to the warning color.
const lowTime = 5 * time.Second

func fmtStatus(index, total, score int) string {
	return fmt.Sprintf("Q %d/%d  ✓ %d", index, total, score)
}

func (d *DrillScreen) View(width, height int) string {
	if d.confirmQuit {
		return renderQuitConfirm(width, len(d.session.Results))
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(d.renderPrompt(width))
	b.WriteString("\n\n")

	if d.hasOptions() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, d.choices.View()))
	} else {
		b.WriteString(layout.Centered(lipgloss.NewStyle(), width, "Answer: "+d.input.View()))
		b.WriteString("\n")
	}

	if len(d.hints) > 0 {
		b.WriteString("\n")
		for i, h := range d.hints {
			b.WriteString(layout.Centered(theme.Hint, width, fmt.Sprintf("Hint %d: %s", i+1, h)))
			b.WriteString("\n")
		}
	}

	if d.feedback != nil {
		b.WriteString("\n")
		b.WriteString(d.renderFeedback(width))
	} else if bar := d.renderCountdown(width); bar != "" {
		b.WriteString("\n")
		b.WriteString(bar)
	}

	if d.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(theme.Incorrect, width, d.errMsg))
	}

	return b.String()
}

func (d *DrillScreen) renderPrompt(width int) string {
	q := d.shown
	var b strings.Builder

	b.WriteString(layout.Centered(theme.Subtitle, width, q.Kind().Instruction()))
	b.WriteString("\n\n")

	prompt := q.Prompt()
	style := theme.Body
	if q.Kind() == wdrill.KindMultipleChoice {
		style = theme.Word
	}
	card := theme.Card.Width(min(width-8, 70)).Render(style.Render(prompt))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	return b.String()
}

func (d *DrillScreen) renderCountdown(width int) string {
	left, limit, ok := d.remaining()
	if !ok {
		return ""
	}
	bar := components.Countdown{Left: left, Limit: limit, Width: min(width-8, 56), Low: lowTime}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View())
}

func (d *DrillScreen) renderFeedback(width int) string {
	res := d.feedback
	var b strings.Builder

	switch {
	case res.Correct:
		b.WriteString(layout.Centered(theme.Correct, width, "Correct!"))
	case res.TimedOut:
		b.WriteString(layout.Centered(theme.Incorrect, width, "Time's up"))
	default:
		b.WriteString(layout.Centered(theme.Incorrect, width, "Not quite"))
	}
	b.WriteString("\n")

	if !res.Correct {
		b.WriteString(layout.Centered(theme.Body, width, "Answer: "+res.Answer))
		b.WriteString("\n")
	}

	target := d.shown.Target
	if d.shown.Kind() != wdrill.KindMultipleChoice && target.Definition != "" {
		line := fmt.Sprintf("%s: %s", target.Word, target.Definition)
		b.WriteString(layout.Centered(theme.Dimmed, width, line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Hint, width, "Press any key to continue"))
	return b.String()
}

func renderQuitConfirm(width, answered int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.Centered(theme.Title, width, "End this drill?"))
	b.WriteString("\n\n")

	msg := "Nothing has been answered yet."
	if answered > 0 {
		msg = fmt.Sprintf("You've answered %d so far. Your results will be kept.", answered)
	}
	b.WriteString(layout.Centered(theme.Body, width, msg))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Hint, width, "[Y] End drill    [N] Keep going"))
	return b.String()
}
