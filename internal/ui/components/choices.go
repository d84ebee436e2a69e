package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/ui/theme"
)

// Choices is a numbered option list for choice-based questions. Options are
// picked with the arrow keys and Enter, or directly by their number.
type Choices struct {
	Options  []string
	Selected int
	chosen   int
	correct  int
	revealed bool
}

// ChoiceMadeMsg is emitted when the user picks an option.
type ChoiceMadeMsg struct {
	Index int
	Value string
}

// NewChoices creates an option list with the first option highlighted.
func NewChoices(options []string) Choices {
	return Choices{Options: options, chosen: -1, correct: -1}
}

// Update handles keyboard navigation and selection.
func (c Choices) Update(msg tea.Msg) (Choices, tea.Cmd) {
	if c.Locked() {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
		return c, nil
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
		return c, nil
	case "enter":
		return c.choose(c.Selected)
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if idx := int(key[0] - '1'); idx < len(c.Options) {
			c.Selected = idx
			return c.choose(idx)
		}
	}
	return c, nil
}

func (c Choices) choose(idx int) (Choices, tea.Cmd) {
	if idx < 0 || idx >= len(c.Options) {
		return c, nil
	}
	c.chosen = idx
	value := c.Options[idx]
	return c, func() tea.Msg { return ChoiceMadeMsg{Index: idx, Value: value} }
}

// Reveal marks which option was correct so View can color the result. It
// also locks the list, e.g. after a timeout with nothing chosen.
func (c *Choices) Reveal(correct string) {
	c.revealed = true
	c.correct = -1
	for i, o := range c.Options {
		if o == correct {
			c.correct = i
			break
		}
	}
}

// Locked reports whether a choice has been made.
func (c Choices) Locked() bool {
	return c.chosen >= 0 || c.revealed
}

// View renders the option list.
func (c Choices) View() string {
	done := c.Locked()
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !done {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		switch {
		case c.revealed && i == c.correct:
			b.WriteString(theme.Correct.Render(line))
		case c.revealed && i == c.chosen:
			b.WriteString(theme.Incorrect.Render(line))
		case done:
			b.WriteString(theme.Dimmed.Render(line))
		case i == c.Selected:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
