package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/ontarget/internal/export"
	"github.com/verte-zerg/ontarget/internal/model"
	"github.com/verte-zerg/ontarget/internal/stats"
)

const analyzePrompt = "Ready for your coach analysis? Press a to see your results."

func (m *Model) openDetail(id string) {
	m.detailID = id
	m.confirmDelete = false
	m.deps.Analyzer.Activate(id)
	m.view = viewDetail
	m.setStatus("")
}

func (m *Model) closeDetail() {
	m.deps.Analyzer.Deactivate()
	m.detailID = ""
	m.confirmDelete = false
	m.openDashboard()
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	session, ok := m.deps.Sessions.Get(m.detailID)
	if !ok {
		m.closeDetail()
		return m, nil
	}
	if m.confirmDelete {
		switch msg.String() {
		case "y", "Y":
			if err := m.deps.Sessions.Delete(m.ctx, session.ID); err != nil {
				m.confirmDelete = false
				m.setError("failed to delete session", err)
				return m, nil
			}
			m.closeDetail()
			m.setStatus("Deleted session " + session.Date)
		default:
			m.confirmDelete = false
		}
		return m, nil
	}
	switch msg.String() {
	case "esc", "q", "backspace":
		m.closeDetail()
	case "a":
		return m, m.analyze(session)
	case "e":
		return m, m.exportSession(session)
	case "d":
		m.confirmDelete = true
	}
	return m, nil
}

func (m *Model) analyze(session model.Session) tea.Cmd {
	run, ok := m.deps.Analyzer.Start(m.ctx, session, m.deps.Settings.Get())
	if !ok {
		m.deps.Log.Debug("coach request not started", zap.String("session", session.ID))
		return nil
	}
	return func() tea.Msg {
		return analysisMsg{res: run()}
	}
}

func (m *Model) exportSession(session model.Session) tea.Cmd {
	dir, title := m.deps.ExportDir, m.deps.Settings.Get().AppTitle
	return func() tea.Msg {
		path, err := export.WriteFile(dir, title, session)
		return exportMsg{path: path, err: err}
	}
}

func (m *Model) renderDetail() string {
	session, ok := m.deps.Sessions.Get(m.detailID)
	if !ok {
		return m.styles.muted.Render("Session not found.")
	}
	width := m.contentWidth()
	location := session.Location
	if strings.TrimSpace(location) == "" {
		location = model.DefaultLocation
	}

	shooting := stats.Summarize(session.Reps)
	clearance := stats.Clearance(session.Reps)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.metricCard("Shoot Accuracy", shooting.PercentString()+"%"),
		m.styles.metricCard("Clearance Rate", clearance.WholePercentString()+"%"),
	)

	lines := []string{
		m.styles.muted.Render(session.Date),
		m.styles.title.Render(location),
		cards,
		"",
		m.styles.title.Render("Coach Breakdown"),
	}
	lines = append(lines, m.renderCoach(width))
	lines = append(lines, "", m.styles.title.Render("Drill Breakdown"))
	for _, r := range session.Reps {
		lines = append(lines, m.breakdownLine(r))
	}
	if session.Notes != "" {
		lines = append(lines, "", m.styles.muted.Render(wrapText(session.Notes, width)))
	}

	lines = append(lines, "")
	if m.confirmDelete {
		lines = append(lines, m.styles.errText.Render("Delete this session? y: delete  any other key: keep"))
	} else if status := m.renderStatus(); status != "" {
		lines = append(lines, status)
	}
	lines = append(lines, m.styles.footer.Render("a: analyze  e: export CSV  d: delete  esc: back"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderCoach(width int) string {
	if m.deps.Analyzer.Analyzing() {
		return m.styles.accentFg.Render("Analyzing your session...")
	}
	if text, ok := m.deps.Analyzer.Feedback(); ok {
		return wrapText("\u201c"+strings.TrimSpace(text)+"\u201d", max(20, width-2))
	}
	return m.styles.muted.Render(analyzePrompt)
}

func (m *Model) breakdownLine(r model.Rep) string {
	badge := "HEAD"
	detail := "Longest: 0 ft"
	if d, ok := r.Distance(); ok {
		detail = "Longest: " + stats.FormatDistance(d) + " ft"
	}
	if r.Drill == model.DrillShooting {
		foot, _ := r.StrikingFoot()
		badge = string(foot)
		target, _ := r.Target()
		detail = target.Label()
	}
	star := " "
	if stats.IsPerfect(r) {
		star = m.styles.perfect.Render("*")
	}
	score := fmt.Sprintf("%d/%d", r.ShotsMade, r.ShotsTaken)
	if stats.IsHighSuccess(r) {
		score = m.styles.high.Render(score)
	} else {
		score = m.styles.value.Render(score)
	}
	return fmt.Sprintf("%s %-5s %s  %s  %s", star, badge, r.ExerciseName, m.styles.muted.Render(detail), score)
}
