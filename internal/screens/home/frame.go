package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/store"
	"github.com/abhisek/wordiz/internal/ui/layout"
	"github.com/abhisek/wordiz/internal/ui/theme"
)

const titleFull = ` ██╗    ██╗ ██████╗ ██████╗ ██████╗ ██╗███████╗
 ██║    ██║██╔═══██╗██╔══██╗██╔══██╗██║╚══███╔╝
 ██║ █╗ ██║██║   ██║██████╔╝██║  ██║██║  ███╔╝
 ██║███╗██║██║   ██║██╔══██╗██║  ██║██║ ███╔╝
 ╚███╔███╔╝╚██████╔╝██║  ██║██████╔╝██║███████╗
  ╚══╝╚══╝  ╚═════╝ ╚═╝  ╚═╝╚═════╝ ╚═╝╚══════╝`

const titleCompact = "W · O · R · D · I · Z"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if compact {
		return layout.Centered(lipgloss.NewStyle(), cw, style.Render(titleCompact))
	}
	return layout.Centered(lipgloss.NewStyle(), cw, style.Render(titleFull))
}

// renderStatsBar shows the deck size and lifetime totals in a bordered box.
func renderStatsBar(deck string, words int, stats *store.HistoryStats, cw int, compact bool) string {
	deckStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	accStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var parts []string
	if compact {
		parts = append(parts, deckStyle.Render(fmt.Sprintf("%d words", words)))
	} else {
		parts = append(parts, deckStyle.Render(fmt.Sprintf("%s · %d words", deck, words)))
	}

	switch {
	case stats == nil:
		parts = append(parts, dimStyle.Render("loading..."))
	case stats.Sessions == 0:
		parts = append(parts, dimStyle.Render("no drills yet"))
	default:
		parts = append(parts,
			dimStyle.Render(fmt.Sprintf("%d drills", stats.Sessions)),
			accStyle.Render(fmt.Sprintf("%.0f%% correct", stats.Accuracy*100)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(strings.Join(parts, "  "))
}

const buttonWidth = 22

// renderMenu renders each menu item as a fixed-width button, or as plain
// lines when space is tight.
func renderMenu(items []string, selected int, disabled map[int]bool, cw int, compact bool) string {
	base := lipgloss.NewStyle().Align(lipgloss.Center)
	if !compact {
		base = base.Width(buttonWidth).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1)
	}
	selectedBtn := base.
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		BorderForeground(theme.Primary)
	normalBtn := base.Foreground(theme.Text)
	disabledBtn := base.Foreground(theme.TextDim)

	var buttons []string
	for i, label := range items {
		switch {
		case disabled[i]:
			buttons = append(buttons, disabledBtn.Render(label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		default:
			buttons = append(buttons, normalBtn.Render(label))
		}
	}
	return layout.Centered(lipgloss.NewStyle(), cw, strings.Join(buttons, "\n"))
}

func renderUpdateNote(latestVersion string, cw int) string {
	return layout.Centered(theme.Dimmed, cw, fmt.Sprintf("New version %s available", latestVersion))
}

// renderFrame wraps content in a double-border frame centered in the area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
