// Package setup is the screen where a drill kind and question count are
// chosen before a session starts.
package setup

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	wdrill "github.com/abhisek/wordiz/internal/drill"
	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screen"
	drillscreen "github.com/abhisek/wordiz/internal/screens/drill"
	"github.com/abhisek/wordiz/internal/ui/components"
	"github.com/abhisek/wordiz/internal/ui/layout"
	"github.com/abhisek/wordiz/internal/ui/theme"
	"github.com/abhisek/wordiz/internal/vocab"
)

// Options configure a SetupScreen.
type Options struct {
	Drill        drillscreen.Deps
	Pool         []vocab.Entry
	DefaultKind  wdrill.Kind
	DefaultCount int
}

type step int

const (
	stepKind step = iota
	stepCount
)

type kindChosenMsg struct {
	kind wdrill.Kind
}

// SetupScreen walks through kind then count selection.
type SetupScreen struct {
	opts   Options
	step   step
	kind   wdrill.Kind
	menu   components.Menu
	count  components.Field
	errMsg string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)
var _ screen.EscapeHandler = (*SetupScreen)(nil)

// New creates a SetupScreen with the default kind highlighted.
func New(opts Options) *SetupScreen {
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = 10
	}

	kinds := wdrill.Kinds()
	items := make([]components.MenuItem, len(kinds))
	selected := 0
	for i, k := range kinds {
		items[i] = components.MenuItem{
			Label: k.DisplayName(),
			Action: func() tea.Cmd {
				return func() tea.Msg { return kindChosenMsg{kind: k} }
			},
		}
		if k == opts.DefaultKind {
			selected = i
		}
	}
	menu := components.NewMenu(items)
	menu.Selected = selected

	return &SetupScreen{opts: opts, menu: menu}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "New Drill"
}

func (s *SetupScreen) HandlesEscape() bool {
	return s.step == stepCount
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.step == stepCount {
		return []layout.KeyHint{
			{Key: "0-9", Description: "Count"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case kindChosenMsg:
		s.kind = msg.kind
		s.step = stepCount
		s.errMsg = ""
		s.count = components.NewCountField(min(s.opts.DefaultCount, len(s.opts.Pool)), 4)
		return s, s.count.Init()

	case tea.KeyMsg:
		if s.step == stepKind {
			var cmd tea.Cmd
			s.menu, cmd = s.menu.Update(msg)
			return s, cmd
		}
		switch msg.String() {
		case "esc":
			s.step = stepKind
			s.errMsg = ""
			return s, nil
		case "enter":
			return s.start()
		}
	}

	if s.step == stepCount {
		var cmd tea.Cmd
		s.count, cmd = s.count.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SetupScreen) start() (screen.Screen, tea.Cmd) {
	n, err := s.count.Int()
	if err != nil {
		s.errMsg = "Enter how many words to drill."
		return s, nil
	}

	sess, err := s.opts.Drill.Controller.Start(s.kind, s.opts.Pool, n)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}

	s.step = stepKind
	s.errMsg = ""
	next := drillscreen.New(s.opts.Drill, sess)
	return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	switch s.step {
	case stepKind:
		b.WriteString(layout.Centered(theme.Subtitle, width, "Choose a drill"))
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(theme.Body, width, s.menu.View()))
		b.WriteString("\n")

		kinds := wdrill.Kinds()
		if s.menu.Selected >= 0 && s.menu.Selected < len(kinds) {
			b.WriteString(layout.Centered(theme.Dimmed, width, kinds[s.menu.Selected].Instruction()))
		}

	case stepCount:
		b.WriteString(layout.Centered(theme.Subtitle, width, s.kind.DisplayName()))
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(theme.Body, width, "How many words? "+s.count.View()))
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Dimmed, width, fmt.Sprintf("%d words in the deck", len(s.opts.Pool))))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(theme.Incorrect, width, s.errMsg))
	}
	return b.String()
}
