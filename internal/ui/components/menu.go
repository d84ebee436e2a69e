package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Disabled entries are shown dimmed and
// can never be selected.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of actions. Movement wraps around and number keys
// jump straight to an entry.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu returns a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = m.step(-1, 1)
	return m
}

func (m Menu) Init() tea.Cmd { return nil }

// step walks from i by dir and returns the next enabled index, or i when
// nothing else is enabled.
func (m Menu) step(i, dir int) int {
	n := len(m.Items)
	for k := 1; k <= n; k++ {
		j := ((i+dir*k)%n + n) % n
		if !m.Items[j].Disabled {
			return j
		}
	}
	return i
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch s := key.String(); s {
	case "up", "k", "shift+tab":
		m.Selected = m.step(m.Selected, -1)
	case "down", "j", "tab":
		m.Selected = m.step(m.Selected, 1)
	case "enter", "space":
		return m, m.run(m.Selected)
	default:
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			i := int(s[0] - '1')
			if i < len(m.Items) && !m.Items[i].Disabled {
				m.Selected = i
				return m, m.run(i)
			}
		}
	}
	return m, nil
}

func (m Menu) run(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	it := m.Items[i]
	if it.Disabled || it.Action == nil {
		return nil
	}
	return it.Action()
}

func (m Menu) View() string {
	lines := make([]string, len(m.Items))
	for i, it := range m.Items {
		label := fmt.Sprintf("%d  %s", i+1, it.Label)
		switch {
		case it.Disabled:
			lines[i] = theme.Dimmed.Render("   " + label)
		case i == m.Selected:
			lines[i] = theme.Selected.Render(" ▸ " + label)
		default:
			lines[i] = theme.Unselected.Render("   " + label)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// SelectedLabel returns the label under the cursor, or "" when nothing is.
func (m Menu) SelectedLabel() string {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return ""
	}
	return m.Items[m.Selected].Label
}
