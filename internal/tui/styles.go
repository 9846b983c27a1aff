package tui

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/ontarget/internal/model"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// styles holds the lipgloss styles derived from the theme color.
type styles struct {
	accent   lipgloss.Color
	title    lipgloss.Style
	accentFg lipgloss.Style
	badge    lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	footer   lipgloss.Style
	errText  lipgloss.Style
	value    lipgloss.Style
	card     lipgloss.Style
	modal    lipgloss.Style
	perfect  lipgloss.Style
	high     lipgloss.Style
}

func themeColor(raw string) lipgloss.Color {
	if hexColor.MatchString(raw) {
		return lipgloss.Color(raw)
	}
	return lipgloss.Color(model.DefaultSettings().ThemeColor)
}

func newStyles(theme string) styles {
	accent := themeColor(theme)
	return styles{
		accent:   accent,
		title:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		accentFg: lipgloss.NewStyle().Foreground(accent),
		badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#101010")).
			Background(accent).
			Bold(true).
			Padding(0, 1),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
		footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
		value:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true),
		card: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(accent).
			Padding(1, 2),
		perfect: lipgloss.NewStyle().Foreground(lipgloss.Color("#F5C542")).Bold(true),
		high:    lipgloss.NewStyle().Foreground(accent).Bold(true),
	}
}

func (s styles) metricCard(label, value string) string {
	return s.card.Render(s.muted.Render(label) + "\n" + s.value.Render(value))
}
