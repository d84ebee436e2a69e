// Package router keeps the stack of TUI screens and applies navigation
// requests that screens send as messages.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg returns to the previous screen.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the active screen for Screen, e.g. a finished
// drill for its summary.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// PopToRootMsg returns to the home screen.
type PopToRootMsg struct{}

// Router is a stack of screens. The bottom screen is never removed.
type Router struct {
	stack []screen.Screen
}

// New returns a Router whose bottom screen is root.
func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Active returns the top screen.
func (r *Router) Active() screen.Screen {
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Push opens s and runs its Init.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen. It does nothing on the root.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) == 1 {
		return nil
	}
	return r.truncate(len(r.stack) - 1)
}

// Replace closes the top screen and opens s in its place. On the root this
// pushes instead, so the root is never lost.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 1 {
		return r.Push(s)
	}
	closed := r.truncate(len(r.stack) - 1)
	return tea.Batch(closed, r.Push(s))
}

// PopToRoot closes every screen above the root, then re-runs the root's
// Init so it can reload what the closed screens changed.
func (r *Router) PopToRoot() tea.Cmd {
	closed := r.truncate(1)
	return tea.Sequence(closed, r.stack[0].Init())
}

// CloseAll closes every screen, top first, without changing the stack. The
// app runs it before quitting.
func (r *Router) CloseAll() tea.Cmd {
	return closeScreens(r.stack)
}

// truncate shrinks the stack to n screens and returns the Close commands of
// the removed ones, top first.
func (r *Router) truncate(n int) tea.Cmd {
	removed := r.stack[n:]
	r.stack = r.stack[:n]
	return closeScreens(removed)
}

func closeScreens(screens []screen.Screen) tea.Cmd {
	var cmds []tea.Cmd
	for i := len(screens) - 1; i >= 0; i-- {
		if c, ok := screens[i].(screen.Closer); ok {
			cmds = append(cmds, c.Close())
		}
	}
	return tea.Sequence(cmds...)
}

// Update applies navigation messages and hands everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	case PopToRootMsg:
		return r.PopToRoot()
	}

	next, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
