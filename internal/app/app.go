// Package app hosts the root Bubble Tea model.
package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screen"
	"github.com/abhisek/wordiz/internal/screens/home"
	"github.com/abhisek/wordiz/internal/ui/layout"
)

// Options configure the interactive app.
type Options struct {
	Home   home.Options
	Logger logrus.FieldLogger
}

// AppModel wraps the screen router in the shared header and footer.
type AppModel struct {
	router        *router.Router
	width, height int
}

func newAppModel(opts Options) AppModel {
	return AppModel{router: router.New(home.New(opts.Home))}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if cmd, handled := m.globalKey(msg.String()); handled {
			return m, cmd
		}
	}
	return m, m.router.Update(msg)
}

// globalKey handles keys that work on every screen: ctrl+c quits after
// closing open screens and esc goes back unless the screen claims it.
func (m AppModel) globalKey(key string) (tea.Cmd, bool) {
	switch key {
	case "ctrl+c":
		return tea.Sequence(m.router.CloseAll(), tea.Quit), true
	case "esc":
		if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
			return nil, false
		}
		if m.router.Depth() == 1 {
			return nil, true
		}
		return func() tea.Msg { return router.PopScreenMsg{} }, true
	}
	return nil, false
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	switch {
	case m.width == 0 || m.height == 0:
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
	default:
		v.SetContent(m.frame())
	}
	return v
}

func (m AppModel) frame() string {
	active := m.router.Active()
	var status string
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(active.Title(), status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)
	body := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	return layout.RenderFrame(header, m.router.View(m.width, body), footer, m.width, m.height)
}

var quitHint = layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	switch kp, ok := active.(screen.KeyHintProvider); {
	case ok:
		return append(kp.KeyHints(), quitHint)
	case m.router.Depth() > 1:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}, quitHint}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Choose"},
		quitHint,
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		if opts.Logger != nil {
			opts.Logger.WithError(err).Error("tui exited with error")
		}
		return err
	}
	return nil
}
