// Package layout frames every screen: a header bar, the screen body, and a
// footer of key hints.
package layout

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wordiz/internal/ui/theme"
)

// Below MinWidth x MinHeight only a resize notice is drawn.
const (
	MinWidth  = 64
	MinHeight = 20
)

// Under these sizes screens drop decoration such as the big title.
const (
	compactWidth  = 96
	compactHeight = 28
)

// KeyHint is one "key action" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsCompact(width, height int) bool {
	return width < compactWidth || height < compactHeight
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// FormatDuration renders d as m:ss, rounding to the nearest second.
func FormatDuration(d time.Duration) string {
	secs := int(max(d, 0).Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Centered renders s with style, centered across width.
func Centered(style lipgloss.Style, width int, s string) string {
	return style.Width(width).Align(lipgloss.Center).Render(s)
}

func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("wordiz needs at least %d x %d\n(now %d x %d)", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Align(lipgloss.Center).Render(body))
}

// bar is the boxed strip used for both header and footer.
func bar(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader draws the app name on the left, title in the middle, and
// status, such as the drill score, on the right. status may be empty.
func RenderHeader(title, status string, width int) string {
	inner := max(width-4, 0)
	third := inner / 3

	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Width(third).Render("wordiz")
	right := lipgloss.NewStyle().Foreground(theme.Accent).Width(third).Align(lipgloss.Right).Render(status)
	mid := lipgloss.NewStyle().Foreground(theme.Text).Width(inner - 2*third).Align(lipgloss.Center).Render(title)

	return bar(width, lipgloss.JoinHorizontal(lipgloss.Top, brand, mid, right))
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar(width, strings.Join(parts, desc.Render("  ·  ")))
}

// RenderFrame stacks header, content and footer, giving the content
// whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).MaxHeight(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
