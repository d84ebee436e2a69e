package components

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/ui/layout"
	"github.com/abhisek/wordiz/internal/ui/theme"
)

// Countdown is the per-question timer: the time left as m:ss followed by a
// bar that empties as the limit runs out.
type Countdown struct {
	Left  time.Duration
	Limit time.Duration

	// Width is the whole line, label included.
	Width int

	// Low is the time left at which the bar turns to theme.TimerLow.
	Low time.Duration
}

// Fraction returns the share of the limit still left, in [0, 1].
func (c Countdown) Fraction() float64 {
	if c.Limit <= 0 {
		return 0
	}
	return min(max(float64(c.Left)/float64(c.Limit), 0), 1)
}

// View renders the countdown line.
func (c Countdown) View() string {
	label := theme.Body.Render(layout.FormatDuration(c.Left)) + "  "
	track := max(c.Width-lipgloss.Width(label), 4)
	filled := int(float64(track) * c.Fraction())

	fill := theme.TimerFill
	if c.Left <= c.Low {
		fill = theme.TimerLow
	}
	return label +
		fill.Render(strings.Repeat(" ", filled)) +
		theme.TimerTrack.Render(strings.Repeat(" ", track-filled))
}
