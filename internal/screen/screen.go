// Package screen defines what the router needs from a page of the TUI.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/ui/layout"
)

// Screen is one page on the router stack. View receives the space left
// between the app header and footer.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider adds text to the right of the header, such as a score.
type StatusProvider interface {
	Status() string
}

// EscapeHandler screens receive Esc instead of being popped by it.
type EscapeHandler interface {
	HandlesEscape() bool
}

// Closer screens hold resources that must be released when they leave the
// stack, whether by navigation or because the program is quitting. Close
// may be called more than once.
type Closer interface {
	Close() tea.Cmd
}
