// Package tui provides the Bubble Tea journal interface.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/ontarget/internal/coach"
	"github.com/verte-zerg/ontarget/internal/draft"
	"github.com/verte-zerg/ontarget/internal/geo"
	"github.com/verte-zerg/ontarget/internal/journal"
)

type view int

const (
	viewDashboard view = iota
	viewForm
	viewDetail
	viewSettings
)

// Deps are the services the interface drives.
type Deps struct {
	Sessions  *journal.Sessions
	Settings  *journal.Settings
	Analyzer  *coach.Analyzer
	Locator   *geo.Locator
	ExportDir string
	Log       *zap.Logger
	Now       func() time.Time
}

// Model implements the Bubble Tea journal UI.
type Model struct {
	deps   Deps
	ctx    context.Context
	styles styles

	view   view
	width  int
	height int

	cursor int

	draft *draft.Draft
	form  form

	detailID      string
	confirmDelete bool

	settings settingsForm

	status string
	errMsg string
}

type locationMsg struct {
	sessionID string
	label     string
}

type analysisMsg struct {
	res coach.Result
}

type exportMsg struct {
	path string
	err  error
}

// NewModel constructs the journal UI. Sessions and settings must already be loaded.
func NewModel(ctx context.Context, deps Deps) *Model {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	m := &Model{
		deps:   deps,
		ctx:    ctx,
		styles: newStyles(deps.Settings.Get().ThemeColor),
		draft:  draft.New(draft.WithClock(deps.Now)),
		form:   newForm(),
	}
	m.settings = newSettingsForm()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case locationMsg:
		m.applyLocation(msg)
		return m, nil
	case analysisMsg:
		if !m.deps.Analyzer.Deliver(msg.res) {
			m.deps.Log.Debug("dropped stale coach feedback", zap.String("session", msg.res.SessionID))
		}
		return m, nil
	case exportMsg:
		if msg.err != nil {
			m.deps.Log.Error("export failed", zap.Error(msg.err))
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.status = "Exported " + msg.path
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.view {
		case viewForm:
			return m.updateForm(msg)
		case viewDetail:
			return m.updateDetail(msg)
		case viewSettings:
			return m.updateSettings(msg)
		default:
			return m.updateDashboard(msg)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var out string
	switch m.view {
	case viewForm:
		out = m.renderForm()
	case viewDetail:
		out = m.renderDetail()
	case viewSettings:
		out = m.renderSettings()
	default:
		out = m.renderDashboard()
	}
	if m.width == 0 || m.height == 0 {
		return out
	}
	return fitLines(out, m.width, m.height)
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m *Model) setStatus(status string) {
	m.status = status
	m.errMsg = ""
}

func (m *Model) setError(action string, err error) {
	m.deps.Log.Error(action, zap.Error(err))
	m.status = ""
	m.errMsg = action + ": " + err.Error()
}

func (m *Model) renderStatus() string {
	switch {
	case m.errMsg != "":
		return m.styles.errText.Render(m.errMsg)
	case m.status != "":
		return m.styles.muted.Render(m.status)
	default:
		return ""
	}
}

func (m *Model) openDashboard() {
	m.view = viewDashboard
	if n := m.deps.Sessions.Len(); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}
