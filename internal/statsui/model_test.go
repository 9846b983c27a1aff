package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/ontarget/internal/model"
)

type memSource struct {
	sessions []model.Session
	err      error
}

func (s memSource) LoadSessions(context.Context) ([]model.Session, error) {
	return s.sessions, s.err
}

func sampleSessions() []model.Session {
	return []model.Session{
		{ID: "b", Date: "2024-05-02", Location: "Park", Reps: []model.Rep{
			model.NewShootingRep("r1", "Finishing", 10, 8, model.TargetTopLeft, model.FootLeft, time.Time{}),
		}},
		{ID: "a", Date: "2024-05-01", Location: "Local Pitch", Reps: []model.Rep{
			model.NewShootingRep("r2", "Finishing", 10, 4, model.TargetPost, model.FootRight, time.Time{}),
			model.NewHeaderRep("r3", "Clearances", 4, 3, nil, time.Time{}),
		}},
	}
}

func TestParseFilters(t *testing.T) {
	cfg, err := ParseFilters(" park ", "2024-05-01", "3", "4")
	require.NoError(t, err)
	assert.Equal(t, "park", cfg.Location)
	require.NotNil(t, cfg.Since)
	assert.Equal(t, "2024-05-01", cfg.Since.Format(model.DateLayout))
	assert.Equal(t, 3, cfg.Last)
	assert.Equal(t, 4, cfg.CurveWindow)

	cfg, err = ParseFilters("", "", "", "")
	require.NoError(t, err)
	assert.Nil(t, cfg.Since)
	assert.Equal(t, 1, cfg.CurveWindow)

	for _, bad := range [][4]string{
		{"", "May 1", "", ""},
		{"", "", "-1", ""},
		{"", "", "", "0"},
	} {
		_, err := ParseFilters(bad[0], bad[1], bad[2], bad[3])
		assert.Error(t, err, bad)
	}
}

func TestCurveWindowSteps(t *testing.T) {
	assert.Equal(t, 5, nextCurveWindow(1))
	assert.Equal(t, 10, nextCurveWindow(5))
	assert.Equal(t, 10, nextCurveWindow(7))
	assert.Equal(t, 1, prevCurveWindow(5))
	assert.Equal(t, 5, prevCurveWindow(7))
	assert.Equal(t, 5, prevCurveWindow(10))
}

func TestOverviewAndTabs(t *testing.T) {
	m := NewModel(memSource{sessions: sampleSessions()}, model.StatsConfig{CurveWindow: 1}, "#3366ff")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	out := m.View()
	assert.Contains(t, out, "Shoot Accuracy")
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "Trend (moving average of 1)")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	out = m.View()
	assert.Contains(t, out, "Park")
	assert.Contains(t, out, "80.0%")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	out = m.View()
	assert.Contains(t, out, "Finishing")
	assert.Contains(t, out, "12/20")
	assert.Contains(t, out, "Clearances")
}

func TestFilterFlow(t *testing.T) {
	m := NewModel(memSource{sessions: sampleSessions()}, model.StatsConfig{CurveWindow: 1}, "")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, m.filterMode)
	m.filterInputs[filterLocation].SetValue("park")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, m.filterMode)
	assert.Equal(t, "park", m.cfg.Location)
	require.Len(t, m.report.Sessions, 1)
	assert.Equal(t, "b", m.report.Sessions[0].ID)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m.filterInputs[filterLast].SetValue("many")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.filterMode)
	assert.True(t, strings.Contains(m.filterError, "last"))
}

func TestLoadError(t *testing.T) {
	m := NewModel(memSource{err: errors.New("locked")}, model.StatsConfig{CurveWindow: 1}, "")
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	out := m.View()
	assert.Contains(t, out, "locked")
	assert.Contains(t, out, "Failed to load sessions.")
}
