package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/ontarget/internal/coach"
	"github.com/verte-zerg/ontarget/internal/journal"
	"github.com/verte-zerg/ontarget/internal/model"
	"github.com/verte-zerg/ontarget/internal/store"
)

type cannedGenerator struct {
	text string
}

func (g cannedGenerator) Generate(context.Context, string) (string, error) {
	return g.text, nil
}

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	return newTestModelWithCoach(t, "Strike through the ball.")
}

func newTestModelWithCoach(t *testing.T, feedback string) *Model {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "ontarget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sessions := journal.NewSessions(st, nil)
	require.NoError(t, sessions.Load(ctx))
	settings := journal.NewSettings(st, nil)
	require.NoError(t, settings.Load(ctx))

	c := coach.New(cannedGenerator{text: feedback}, coach.WithClock(fixedNow))
	return NewModel(ctx, Deps{
		Sessions:  sessions,
		Settings:  settings,
		Analyzer:  coach.NewAnalyzer(c),
		ExportDir: filepath.Join(t.TempDir(), "exports"),
		Now:       fixedNow,
	})
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// recordSession drives the form to save a one-drill session.
func recordSession(t *testing.T, m *Model) model.Session {
	t.Helper()
	press(m, keys("n"))
	require.Equal(t, viewForm, m.view)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, viewDashboard, m.view)
	list := m.deps.Sessions.List()
	require.NotEmpty(t, list)
	return list[0]
}

func TestDashboardEmpty(t *testing.T) {
	m := newTestModel(t)
	out := m.View()
	assert.Contains(t, out, "OnTarget")
	assert.Contains(t, out, "No sessions yet")
}

func TestCompleteRequiresDrill(t *testing.T) {
	m := newTestModel(t)
	press(m, keys("n"))
	press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, viewForm, m.view)
	assert.Contains(t, m.status, "at least one drill")
	assert.Equal(t, 0, m.deps.Sessions.Len())
}

func TestRecordSession(t *testing.T) {
	m := newTestModel(t)
	press(m, keys("n"))

	// Attempts 10 -> 12, successes 5 -> 3.
	m.form.focus = fieldAttempts
	press(m, keys("+"))
	press(m, keys("+"))
	m.form.focus = fieldSuccesses
	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	// Toggle to header drill and save a second rep.
	m.form.focus = fieldDrill
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, model.DrillHeader, m.draft.Drill())
	assert.Equal(t, "Header Practice", m.form.name.Value())
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, viewDashboard, m.view)
	require.Equal(t, 1, m.deps.Sessions.Len())

	saved := m.deps.Sessions.List()[0]
	require.Len(t, saved.Reps, 2)
	assert.Equal(t, 12, saved.Reps[0].ShotsTaken)
	assert.Equal(t, 3, saved.Reps[0].ShotsMade)
	assert.Equal(t, model.DrillHeader, saved.Reps[1].Drill)
	assert.Equal(t, 12, saved.Reps[1].ShotsTaken)
	assert.Equal(t, "2024-05-01", saved.Date)
	assert.Contains(t, m.View(), "ACC 25.0%")
}

func TestEditRepFromList(t *testing.T) {
	m := newTestModel(t)
	press(m, keys("n"))
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.draft.Session().Reps, 1)

	m.form.focus = fieldReps
	press(m, keys("e"))
	assert.Equal(t, fieldName, m.form.focus)
	m.form.focus = fieldSuccesses
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	reps := m.draft.Session().Reps
	require.Len(t, reps, 1)
	assert.Equal(t, 6, reps[0].ShotsMade)

	m.form.focus = fieldReps
	press(m, keys("x"))
	assert.Empty(t, m.draft.Session().Reps)
	assert.Equal(t, fieldDrill, m.form.focus)
}

func TestEscDiscardsSession(t *testing.T) {
	m := newTestModel(t)
	press(m, keys("n"))
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewDashboard, m.view)
	assert.Equal(t, 0, m.deps.Sessions.Len())
}

func TestLocationLookupApplies(t *testing.T) {
	m := newTestModel(t)
	press(m, keys("n"))
	id := m.draft.Session().ID

	press(m, locationMsg{sessionID: "other", label: "Pitch (1.00, 2.00)"})
	assert.Equal(t, model.DefaultLocation, m.draft.Session().Location)

	press(m, locationMsg{sessionID: id, label: "Pitch (1.00, 2.00)"})
	assert.Equal(t, "Pitch (1.00, 2.00)", m.draft.Session().Location)
	assert.Equal(t, "Pitch (1.00, 2.00)", m.form.location.Value())
}

func TestDetailAnalysis(t *testing.T) {
	m := newTestModel(t)
	s := recordSession(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, viewDetail, m.view)
	assert.Contains(t, m.View(), "Press a", "expected prompt before analysis")

	cmd := press(m, keys("a"))
	require.NotNil(t, cmd)
	assert.True(t, m.deps.Analyzer.Analyzing())
	assert.Nil(t, press(m, keys("a")), "second request while in flight")

	press(m, cmd())
	text, ok := m.deps.Analyzer.Feedback()
	require.True(t, ok)
	assert.Equal(t, "Strike through the ball.", text)
	assert.Contains(t, m.View(), "Strike through the ball.")
	assert.Equal(t, s.ID, m.detailID)
}

func TestDetailRendersMultilineFeedback(t *testing.T) {
	m := newTestModelWithCoach(t, "Great \"good\" work.\n\nTip: plant foot.")
	recordSession(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	cmd := press(m, keys("a"))
	require.NotNil(t, cmd)
	press(m, cmd())

	out := m.View()
	assert.Contains(t, out, `Great "good" work.`)
	assert.Contains(t, out, "Tip: plant foot.")
	assert.NotContains(t, out, `\n`)
	assert.NotContains(t, out, `\"`)
}

func TestDetailDropsStaleAnalysis(t *testing.T) {
	m := newTestModel(t)
	recordSession(t, m)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	cmd := press(m, keys("a"))
	require.NotNil(t, cmd)
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	press(m, cmd())
	_, ok := m.deps.Analyzer.Feedback()
	assert.False(t, ok)
}

func TestDetailExport(t *testing.T) {
	m := newTestModel(t)
	recordSession(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	cmd := press(m, keys("e"))
	require.NotNil(t, cmd)
	press(m, cmd())
	require.Empty(t, m.errMsg)

	path := filepath.Join(m.deps.ExportDir, "OnTarget_2024-05-01.csv")
	assert.Contains(t, m.status, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date,Location,Drill"))
}

func TestDetailDeleteConfirm(t *testing.T) {
	m := newTestModel(t)
	recordSession(t, m)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	press(m, keys("d"))
	assert.True(t, m.confirmDelete)
	press(m, keys("n"))
	assert.False(t, m.confirmDelete)
	assert.Equal(t, 1, m.deps.Sessions.Len())

	press(m, keys("d"))
	press(m, keys("y"))
	assert.Equal(t, viewDashboard, m.view)
	assert.Equal(t, 0, m.deps.Sessions.Len())
	assert.Equal(t, "", m.detailID)
	_, ok := m.deps.Analyzer.Feedback()
	assert.False(t, ok)
}

func TestSettingsSave(t *testing.T) {
	m := newTestModel(t)
	press(m, keys("s"))
	require.Equal(t, viewSettings, m.view)

	m.settings.inputs[settingName].SetValue("Sam")
	m.settings.inputs[settingBirth].SetValue("2010-06-15")
	m.settings.inputs[settingTheme].SetValue("#3366ff")
	m.settings.inputs[settingZoom].SetValue("9")
	assert.Contains(t, m.View(), "age 13")

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, viewDashboard, m.view)

	got := m.deps.Settings.Get()
	assert.Equal(t, "Sam", got.UserName)
	assert.Equal(t, "2010-06-15", got.BirthDate)
	assert.Equal(t, "#3366ff", got.ThemeColor)
	assert.Equal(t, model.MaxProfileZoom, got.ProfileZoom)
	assert.Contains(t, m.View(), "Hi, Sam (13)")
}

func TestSettingsRejectsBadInput(t *testing.T) {
	m := newTestModel(t)
	press(m, keys("s"))
	m.settings.inputs[settingTheme].SetValue("green")
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, viewSettings, m.view)
	assert.Contains(t, m.settings.err, "theme color")
	assert.Equal(t, "#10b981", m.deps.Settings.Get().ThemeColor)
}
