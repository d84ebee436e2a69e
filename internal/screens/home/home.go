package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wordiz/internal/router"
	"github.com/abhisek/wordiz/internal/screen"
	"github.com/abhisek/wordiz/internal/screens/history"
	"github.com/abhisek/wordiz/internal/screens/setup"
	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/ui/components"
	"github.com/abhisek/wordiz/internal/ui/layout"
)

// Options configure the home screen.
type Options struct {
	DeckName string
	Setup    setup.Options
	History  store.HistoryRepo

	// LatestVersion, when set, shows an update notice.
	LatestVersion string
}

type statsLoadedMsg struct {
	stats *store.HistoryStats
	err   error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	opts       Options
	menu       components.Menu
	menuLabels []string
	disabled   map[int]bool
	stats      *store.HistoryStats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	menuLabels := []string{"START DRILL", "HISTORY", "QUIT"}
	disabled := map[int]bool{1: opts.History == nil}

	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: setup.New(opts.Setup)}
			}
		}},
		{Label: menuLabels[1], Disabled: disabled[1], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(opts.History)}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		opts:       opts,
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
		disabled:   disabled,
	}
}

// Init loads lifetime stats. It runs again each time the app returns here
// from a finished drill.
func (h *HomeScreen) Init() tea.Cmd {
	repo := h.opts.History
	if repo == nil {
		h.stats = &store.HistoryStats{}
		return nil
	}
	return func() tea.Msg {
		stats, err := repo.Stats(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		if msg.err != nil || msg.stats == nil {
			h.stats = &store.HistoryStats{}
		} else {
			h.stats = msg.stats
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and gaps.
	compact := layout.IsCompact(width, height+8)
	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.opts.DeckName, len(h.opts.Setup.Pool), h.stats, cw, compact),
		renderMenu(h.menuLabels, h.menu.Selected, h.disabled, cw, compact),
	}
	if h.opts.LatestVersion != "" {
		sections = append(sections, renderUpdateNote(h.opts.LatestVersion, cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
