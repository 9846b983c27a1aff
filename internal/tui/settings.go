package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/ontarget/internal/coach"
	"github.com/verte-zerg/ontarget/internal/journal"
	"github.com/verte-zerg/ontarget/internal/model"
)

const (
	settingTitle = iota
	settingName
	settingBirth
	settingTheme
	settingZoom
	settingProfileImage
	settingAppIcon
)

type settingsForm struct {
	inputs []textinput.Model
	index  int
	err    string
}

func newSettingsForm() settingsForm {
	return settingsForm{
		inputs: []textinput.Model{
			newInput("App title:     ", model.DefaultSettings().AppTitle),
			newInput("Your name:     ", "optional"),
			newInput("Birth date:    ", model.DateLayout),
			newInput("Theme color:   ", model.DefaultSettings().ThemeColor),
			newInput("Profile zoom:  ", "1.0"),
			newInput("Profile image: ", "path to image file"),
			newInput("App icon:      ", "path to image file"),
		},
	}
}

func (m *Model) openSettings() tea.Cmd {
	s := m.deps.Settings.Get()
	f := &m.settings
	f.inputs[settingTitle].SetValue(s.AppTitle)
	f.inputs[settingName].SetValue(s.UserName)
	f.inputs[settingBirth].SetValue(s.BirthDate)
	f.inputs[settingTheme].SetValue(s.ThemeColor)
	f.inputs[settingZoom].SetValue(strconv.FormatFloat(s.ProfileZoom, 'f', -1, 64))
	f.inputs[settingProfileImage].SetValue("")
	f.inputs[settingAppIcon].SetValue("")
	f.err = ""
	m.view = viewSettings
	m.setStatus("")
	return m.setSettingsIndex(0)
}

func (m *Model) setSettingsIndex(idx int) tea.Cmd {
	f := &m.settings
	count := len(f.inputs)
	idx = (idx + count) % count
	f.index = idx
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == idx {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.settings
	switch msg.Type {
	case tea.KeyEsc:
		m.openDashboard()
		return m, nil
	case tea.KeyEnter:
		if err := m.saveSettings(); err != nil {
			f.err = err.Error()
			return m, nil
		}
		m.openDashboard()
		m.setStatus("Settings saved")
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setSettingsIndex(f.index + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setSettingsIndex(f.index - 1)
	}
	var cmd tea.Cmd
	f.inputs[f.index], cmd = f.inputs[f.index].Update(msg)
	return m, cmd
}

func (m *Model) saveSettings() error {
	f := &m.settings
	value := func(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

	birth := value(settingBirth)
	if birth != "" {
		if _, err := time.Parse(model.DateLayout, birth); err != nil {
			return fmt.Errorf("invalid birth date (expected YYYY-MM-DD)")
		}
	}
	theme := value(settingTheme)
	if theme != "" && !hexColor.MatchString(theme) {
		return fmt.Errorf("invalid theme color (expected #rrggbb)")
	}
	zoom := 0.0
	if raw := value(settingZoom); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid profile zoom (use a number)")
		}
		zoom = model.ClampZoom(parsed)
	}

	err := m.deps.Settings.Update(m.ctx, func(s *model.UserSettings) {
		if title := value(settingTitle); title != "" {
			s.AppTitle = title
		}
		s.UserName = value(settingName)
		s.BirthDate = birth
		if theme != "" {
			s.ThemeColor = theme
		}
		s.ProfileZoom = zoom
	})
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	if err := m.deps.Settings.SetImage(m.ctx, journal.ProfileImage, value(settingProfileImage)); err != nil {
		return err
	}
	if err := m.deps.Settings.SetImage(m.ctx, journal.AppIcon, value(settingAppIcon)); err != nil {
		return err
	}
	m.styles = newStyles(m.deps.Settings.Get().ThemeColor)
	return nil
}

func (m *Model) renderSettings() string {
	f := m.settings
	s := m.deps.Settings.Get()
	lines := []string{m.styles.title.Render("Settings"), ""}
	for i, input := range f.inputs {
		line := input.View()
		switch i {
		case settingBirth:
			if age := coach.Age(strings.TrimSpace(input.Value()), m.deps.Now()); age > 0 {
				line += m.styles.muted.Render(fmt.Sprintf("  age %d", age))
			}
		case settingProfileImage:
			if s.ProfileImage != nil {
				line += m.styles.muted.Render("  (image set)")
			}
		case settingAppIcon:
			if s.AppIcon != nil {
				line += m.styles.muted.Render("  (icon set)")
			}
		}
		lines = append(lines, line)
	}
	lines = append(lines, "")
	if f.err != "" {
		lines = append(lines, m.styles.errText.Render(f.err))
	}
	lines = append(lines, m.styles.footer.Render("tab/shift+tab: next field  enter: save  esc: cancel"))
	return strings.Join(lines, "\n")
}
