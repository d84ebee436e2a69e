// Package theme holds the wordiz palette and the lipgloss styles built on it.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette: ink and paper tones, with amber reserved for the word being
// drilled and for hints.
var (
	Primary   color.Color = lipgloss.Color("#5B6CF0") // ink blue
	Secondary color.Color = lipgloss.Color("#38BDF8") // sky
	Accent    color.Color = lipgloss.Color("#FBBF24") // amber
	Success   color.Color = lipgloss.Color("#34D399") // mint
	Error     color.Color = lipgloss.Color("#FB7185") // rose
	Text      color.Color = lipgloss.Color("#F1F5F9") // paper
	TextDim   color.Color = lipgloss.Color("#8B98AD") // pencil
	BgDark    color.Color = lipgloss.Color("#101826") // night
	BgCard    color.Color = lipgloss.Color("#1B2536") // slate
	Border    color.Color = lipgloss.Color("#364257") // rule
)

func fg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
func bg(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Background(c) }

// Text styles.
var (
	Title    = fg(Primary).Bold(true).Align(lipgloss.Center)
	Subtitle = fg(TextDim).Align(lipgloss.Center)
	Body     = fg(Text)
	Dimmed   = fg(TextDim)

	// Word is the headword under test; Hint is a revealed hint line.
	Word = fg(Accent).Bold(true)
	Hint = fg(Accent).Italic(true)
)

// Card frames a question prompt.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// Option and answer states.
var (
	Selected   = fg(Primary).Bold(true)
	Unselected = fg(Text)
	Correct    = fg(Success).Bold(true)
	Incorrect  = fg(Error).Bold(true)
)

// Countdown bar segments. TimerLow replaces TimerFill when little time is left.
var (
	TimerFill  = bg(Secondary)
	TimerLow   = bg(Error)
	TimerTrack = bg(Border)
)
