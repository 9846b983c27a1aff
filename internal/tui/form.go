package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/ontarget/internal/draft"
	"github.com/verte-zerg/ontarget/internal/model"
	"github.com/verte-zerg/ontarget/internal/stats"
)

type formField int

const (
	fieldDrill formField = iota
	fieldName
	fieldTarget
	fieldFoot
	fieldAttempts
	fieldSuccesses
	fieldDistance
	fieldDate
	fieldLocation
	fieldReps
)

const stepLarge = 5

// form holds the widgets of the new-session view. The draft owns the values.
type form struct {
	focus     formField
	name      textinput.Model
	distance  textinput.Model
	date      textinput.Model
	location  textinput.Model
	repCursor int
}

func newInput(prompt, placeholder string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Placeholder = placeholder
	input.CharLimit = 64
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func newForm() form {
	return form{
		name:     newInput("", "Exercise name"),
		distance: newInput("", "optional, ft"),
		date:     newInput("", model.DateLayout),
		location: newInput("", model.DefaultLocation),
	}
}

func (m *Model) startSession() tea.Cmd {
	s := m.draft.Begin()
	m.form.focus = fieldDrill
	m.form.repCursor = 0
	m.syncForm()
	m.view = viewForm
	m.setStatus("")

	if !m.deps.Locator.Enabled() {
		return m.focusCmd()
	}
	locator, ctx, id := m.deps.Locator, m.ctx, s.ID
	return tea.Batch(m.focusCmd(), func() tea.Msg {
		return locationMsg{sessionID: id, label: locator.Locate(ctx)}
	})
}

func (m *Model) applyLocation(msg locationMsg) {
	if msg.label == "" || msg.label == model.DefaultLocation {
		return
	}
	// A location typed by the user wins over the lookup.
	if v := strings.TrimSpace(m.form.location.Value()); v != "" && v != model.DefaultLocation {
		return
	}
	if m.draft.ApplyLocation(msg.sessionID, msg.label) {
		m.form.location.SetValue(msg.label)
		m.deps.Log.Debug("applied looked-up location", zap.String("location", msg.label))
	}
}

func (m *Model) visibleFields() []formField {
	fields := []formField{fieldDrill, fieldName}
	if m.draft.Drill() == model.DrillShooting {
		fields = append(fields, fieldTarget, fieldFoot)
	}
	fields = append(fields, fieldAttempts, fieldSuccesses)
	if m.draft.Drill() == model.DrillHeader {
		fields = append(fields, fieldDistance)
	}
	fields = append(fields, fieldDate, fieldLocation)
	if len(m.draft.Session().Reps) > 0 {
		fields = append(fields, fieldReps)
	}
	return fields
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	fields := m.visibleFields()
	idx := slices.Index(fields, m.form.focus)
	if idx < 0 {
		idx = 0
	}
	idx = (idx + delta + len(fields)) % len(fields)
	m.form.focus = fields[idx]
	return m.focusCmd()
}

// ensureFocusVisible moves focus off fields hidden by a drill change.
func (m *Model) ensureFocusVisible() {
	if !slices.Contains(m.visibleFields(), m.form.focus) {
		m.form.focus = fieldDrill
	}
}

func (m *Model) textInput(field formField) *textinput.Model {
	switch field {
	case fieldName:
		return &m.form.name
	case fieldDistance:
		return &m.form.distance
	case fieldDate:
		return &m.form.date
	case fieldLocation:
		return &m.form.location
	default:
		return nil
	}
}

func (m *Model) focusCmd() tea.Cmd {
	var cmd tea.Cmd
	for _, field := range []formField{fieldName, fieldDistance, fieldDate, fieldLocation} {
		input := m.textInput(field)
		if field == m.form.focus {
			cmd = input.Focus()
		} else {
			input.Blur()
		}
	}
	return cmd
}

// syncForm copies draft values into the text inputs.
func (m *Model) syncForm() {
	s := m.draft.Session()
	m.form.name.SetValue(m.draft.ExerciseName())
	m.form.distance.SetValue(m.draft.DistanceText())
	m.form.date.SetValue(s.Date)
	m.form.location.SetValue(s.Location)
	if n := len(s.Reps); m.form.repCursor >= n {
		m.form.repCursor = max(0, n-1)
	}
	m.ensureFocusVisible()
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.draft.State() == draft.DraftingEdit {
			m.draft.Cancel()
			m.syncForm()
			m.setStatus("Edit cancelled")
			return m, m.focusCmd()
		}
		m.draft.Abandon()
		m.openDashboard()
		m.setStatus("Session discarded")
		return m, nil
	case "ctrl+s":
		return m, m.completeSession()
	case "tab":
		return m, m.moveFocus(1)
	case "shift+tab":
		return m, m.moveFocus(-1)
	case "enter":
		if m.form.focus == fieldReps {
			m.editSelectedRep()
			return m, m.focusCmd()
		}
		m.commitRep()
		return m, m.focusCmd()
	}

	if m.form.focus == fieldReps {
		return m, m.updateRepList(msg)
	}
	switch msg.String() {
	case "up":
		return m, m.moveFocus(-1)
	case "down":
		return m, m.moveFocus(1)
	}

	if input := m.textInput(m.form.focus); input != nil {
		var cmd tea.Cmd
		*input, cmd = input.Update(msg)
		m.pushText(m.form.focus, input.Value())
		return m, cmd
	}

	m.adjustField(msg.String())
	return m, nil
}

func (m *Model) pushText(field formField, value string) {
	switch field {
	case fieldName:
		m.draft.SetExerciseName(value)
	case fieldDistance:
		m.draft.SetDistance(value)
	case fieldDate:
		m.draft.SetDate(strings.TrimSpace(value))
	case fieldLocation:
		m.draft.SetLocation(value)
	}
}

func stepFor(key string) int {
	switch key {
	case "left", "h", "-":
		return -1
	case "right", "l", "+", "=", " ":
		return 1
	case "pgdown":
		return -stepLarge
	case "pgup":
		return stepLarge
	default:
		return 0
	}
}

func (m *Model) adjustField(key string) {
	step := stepFor(key)
	if step == 0 {
		return
	}
	switch m.form.focus {
	case fieldDrill:
		next := model.DrillHeader
		if m.draft.Drill() == model.DrillHeader {
			next = model.DrillShooting
		}
		m.draft.SetDrill(next)
		m.syncForm()
	case fieldTarget:
		targets := model.ShotTargets
		idx := slices.Index(targets, m.draft.Target())
		dir := 1
		if step < 0 {
			dir = -1
		}
		m.draft.SetTarget(targets[(idx+dir+len(targets))%len(targets)])
	case fieldFoot:
		if m.draft.Foot() == model.FootLeft {
			m.draft.SetFoot(model.FootRight)
		} else {
			m.draft.SetFoot(model.FootLeft)
		}
	case fieldAttempts:
		m.draft.SetAttempts(m.draft.Attempts() + step)
	case fieldSuccesses:
		m.draft.SetSuccesses(m.draft.Successes() + step)
	}
}

func (m *Model) updateRepList(msg tea.KeyMsg) tea.Cmd {
	reps := m.draft.Session().Reps
	switch msg.String() {
	case "up", "k":
		if m.form.repCursor == 0 {
			return m.moveFocus(-1)
		}
		m.form.repCursor--
	case "down", "j":
		if m.form.repCursor < len(reps)-1 {
			m.form.repCursor++
		}
	case "e":
		m.editSelectedRep()
		return m.focusCmd()
	case "x", "delete", "backspace":
		if m.form.repCursor < len(reps) {
			rep := reps[m.form.repCursor]
			if m.draft.DeleteRep(rep.ID) {
				m.setStatus("Removed " + rep.ExerciseName)
			}
			m.syncForm()
			if len(m.draft.Session().Reps) == 0 {
				m.form.focus = fieldDrill
				return m.focusCmd()
			}
		}
	}
	return nil
}

func (m *Model) editSelectedRep() {
	reps := m.draft.Session().Reps
	if m.form.repCursor >= len(reps) {
		return
	}
	if m.draft.Edit(reps[m.form.repCursor].ID) {
		m.form.focus = fieldName
		m.syncForm()
		m.setStatus("Editing " + reps[m.form.repCursor].ExerciseName)
	}
}

func (m *Model) commitRep() {
	editing := m.draft.State() == draft.DraftingEdit
	rep, ok := m.draft.Commit()
	if !ok {
		return
	}
	m.syncForm()
	verb := "Added"
	if editing {
		verb = "Updated"
	}
	m.setStatus(fmt.Sprintf("%s %s %d/%d", verb, rep.ExerciseName, rep.ShotsMade, rep.ShotsTaken))
}

func (m *Model) completeSession() tea.Cmd {
	if len(m.draft.Session().Reps) == 0 {
		m.setStatus("Record at least one drill before completing the session")
		return nil
	}
	s, ok := m.draft.Finish()
	if !ok {
		return nil
	}
	if err := m.deps.Sessions.Complete(m.ctx, s); err != nil {
		m.setError("failed to save session", err)
		// Keep drafting so nothing is lost.
		m.draft.Start(s)
		m.syncForm()
		return m.focusCmd()
	}
	m.cursor = 0
	m.openDashboard()
	m.setStatus(fmt.Sprintf("Saved session %s with %d drills", s.Date, len(s.Reps)))
	return nil
}

func (m *Model) renderForm() string {
	d := m.draft
	title := "New Session"
	if d.State() == draft.DraftingEdit {
		title = "New Session  (editing drill)"
	}
	lines := []string{m.styles.title.Render(title), ""}

	drill := "[Shooting]  Header "
	if d.Drill() == model.DrillHeader {
		drill = " Shooting  [Header]"
	}
	lines = append(lines, m.fieldLine(fieldDrill, "Drill", drill))
	lines = append(lines, m.fieldLine(fieldName, "Exercise", m.form.name.View()))
	if d.Drill() == model.DrillShooting {
		lines = append(lines, m.fieldLine(fieldTarget, "Target", m.renderTargets()))
		foot := "[Left]  Right "
		if d.Foot() == model.FootRight {
			foot = " Left  [Right]"
		}
		lines = append(lines, m.fieldLine(fieldFoot, "Foot", foot))
	}
	attemptsLabel, successLabel := "Attempts", "Goals"
	if d.Drill() == model.DrillHeader {
		successLabel = "Cleared"
	}
	lines = append(lines, m.fieldLine(fieldAttempts, attemptsLabel, fmt.Sprintf("- %d +", d.Attempts())))
	lines = append(lines, m.fieldLine(fieldSuccesses, successLabel, fmt.Sprintf("- %d +", d.Successes())))
	if d.Drill() == model.DrillHeader {
		lines = append(lines, m.fieldLine(fieldDistance, "Longest", m.form.distance.View()))
	}
	lines = append(lines, m.fieldLine(fieldDate, "Date", m.form.date.View()))
	lines = append(lines, m.fieldLine(fieldLocation, "Location", m.form.location.View()))

	reps := d.Session().Reps
	if len(reps) > 0 {
		lines = append(lines, "", m.styles.muted.Render(fmt.Sprintf("Recorded Drills (%d)", len(reps))))
		for i, r := range reps {
			lines = append(lines, m.repListLine(r, i))
		}
		sum := stats.Summarize(reps)
		lines = append(lines, m.styles.muted.Render(fmt.Sprintf("Session accuracy %s%%", sum.PercentString())))
	}

	lines = append(lines, "")
	if status := m.renderStatus(); status != "" {
		lines = append(lines, status)
	}
	help := "tab: next field  left/right: change  enter: save drill  ctrl+s: complete  esc: discard"
	if d.State() == draft.DraftingEdit {
		help = "tab: next field  left/right: change  enter: update drill  esc: cancel edit"
	} else if m.form.focus == fieldReps {
		help = "up/down: select  enter/e: edit  x: delete  ctrl+s: complete  esc: discard"
	}
	lines = append(lines, m.styles.footer.Render(help))
	return strings.Join(lines, "\n")
}

func (m *Model) fieldLine(field formField, label, value string) string {
	marker := "  "
	labelText := fmt.Sprintf("%-9s", label)
	if m.form.focus == field {
		marker = m.styles.accentFg.Render("> ")
		labelText = m.styles.accentFg.Render(labelText)
	} else {
		labelText = m.styles.muted.Render(labelText)
	}
	return marker + labelText + " " + value
}

func (m *Model) renderTargets() string {
	parts := make([]string, 0, len(model.ShotTargets))
	for _, t := range model.ShotTargets {
		label := t.Label()
		if t == m.draft.Target() {
			parts = append(parts, m.styles.high.Render("["+label+"]"))
			continue
		}
		parts = append(parts, " "+label+" ")
	}
	return strings.Join(parts, "")
}

func (m *Model) repListLine(r model.Rep, idx int) string {
	marker := "  "
	if m.form.focus == fieldReps && idx == m.form.repCursor {
		marker = m.styles.accentFg.Render("> ")
	}
	detail := ""
	if t, ok := r.Target(); ok {
		foot, _ := r.StrikingFoot()
		detail = fmt.Sprintf("  %s %s", t.Label(), foot.Short())
	}
	if dist, ok := r.Distance(); ok {
		detail = fmt.Sprintf("  %s ft", stats.FormatDistance(dist))
	}
	line := fmt.Sprintf("%s%s  %d/%d%s", marker, r.ExerciseName, r.ShotsMade, r.ShotsTaken, detail)
	if r.ID == m.draft.EditingID() {
		line += m.styles.accentFg.Render("  (editing)")
	}
	return line
}
