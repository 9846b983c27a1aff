package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/ontarget/internal/coach"
	"github.com/verte-zerg/ontarget/internal/model"
	"github.com/verte-zerg/ontarget/internal/stats"
)

func (m *Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.deps.Sessions.Len()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(0, n-1)
	case "n":
		return m, m.startSession()
	case "s":
		return m, m.openSettings()
	case "enter":
		sessions := m.deps.Sessions.List()
		if m.cursor < len(sessions) {
			m.openDetail(sessions[m.cursor].ID)
		}
	}
	return m, nil
}

func (m *Model) renderDashboard() string {
	settings := m.deps.Settings.Get()
	width := m.contentWidth()

	header := m.styles.title.Render(settings.AppTitle)
	if name := strings.TrimSpace(settings.UserName); name != "" {
		greeting := "Hi, " + name
		if age := coach.Age(settings.BirthDate, m.deps.Now()); age > 0 {
			greeting += fmt.Sprintf(" (%d)", age)
		}
		header += "  " + m.styles.muted.Render(greeting)
	}

	sessions := m.deps.Sessions.List()
	lines := []string{header, ""}
	if len(sessions) == 0 {
		lines = append(lines, m.styles.muted.Render("No sessions yet. Press n to log your first practice."))
	}
	for i, s := range sessions {
		lines = append(lines, m.sessionLine(s, i == m.cursor, width))
	}
	lines = append(lines, "", m.dashboardFooter(sessions))
	if status := m.renderStatus(); status != "" {
		lines = append(lines, status)
	}
	lines = append(lines, m.styles.footer.Render("up/down: select  enter: open  n: new session  s: settings  q: quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) sessionLine(s model.Session, selected bool, width int) string {
	marker := "  "
	if selected {
		marker = m.styles.accentFg.Render("> ")
	}
	drills := fmt.Sprintf("%d drills", len(s.Reps))
	if len(s.Reps) == 1 {
		drills = "1 drill"
	}
	badge := m.styles.badge.Render("ACC " + stats.Summarize(s.Reps).PercentString() + "%")
	locWidth := max(8, width-lipgloss.Width(marker)-len(s.Date)-len(drills)-lipgloss.Width(badge)-8)
	text := s.Date + "  " + runewidth.FillRight(truncate(s.Location, locWidth), locWidth) + "  " + drills
	if selected {
		text = m.styles.selected.Render(text)
	}
	return marker + text + "  " + badge
}

func (m *Model) dashboardFooter(sessions []model.Session) string {
	var reps []model.Rep
	for _, s := range sessions {
		reps = append(reps, s.Reps...)
	}
	overall := stats.Summarize(reps)
	return m.styles.footer.Render(fmt.Sprintf("Sessions %d  Overall accuracy %s%%", len(sessions), overall.PercentString()))
}
