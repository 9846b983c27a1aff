// Package draft implements the rep drafting state machine of an active session.
//
// A Draft owns a private working copy of the session being recorded. Reps are
// committed into that copy only; the saved session list never sees it until
// the caller takes it with Finish.
package draft

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/ontarget/internal/model"
)

// State is the drafting state.
type State int

const (
	Idle State = iota
	DraftingNew
	DraftingEdit
)

func (s State) String() string {
	switch s {
	case DraftingNew:
		return "drafting-new"
	case DraftingEdit:
		return "drafting-edit"
	default:
		return "idle"
	}
}

const (
	DefaultAttempts  = 10
	DefaultSuccesses = 5
	DefaultTarget    = model.TargetBottomRight
	DefaultFoot      = model.FootRight
)

// Draft holds the form fields of the rep being recorded.
type Draft struct {
	state     State
	session   model.Session
	editingID string

	drill        model.DrillType
	exerciseName string
	target       model.ShotTarget
	foot         model.Foot
	attempts     int
	successes    int
	distance     string

	newID func() string
	now   func() time.Time
}

// Option configures a Draft.
type Option func(*Draft)

// WithIDFunc overrides rep and session ID generation.
func WithIDFunc(fn func() string) Option {
	return func(d *Draft) { d.newID = fn }
}

// WithClock overrides the time source.
func WithClock(fn func() time.Time) Option {
	return func(d *Draft) { d.now = fn }
}

// New returns an idle draft.
func New(opts ...Option) *Draft {
	d := &Draft{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Begin starts drafting a fresh session dated today and returns its copy.
func (d *Draft) Begin() model.Session {
	d.Start(model.NewSession(d.newID(), d.now()))
	return d.Session()
}

// Start begins drafting reps into a private copy of session.
func (d *Draft) Start(session model.Session) {
	d.session = session.Clone()
	d.state = DraftingNew
	d.editingID = ""
	d.drill = model.DrillShooting
	d.exerciseName = d.drill.DefaultExerciseName()
	d.target = DefaultTarget
	d.foot = DefaultFoot
	d.attempts = DefaultAttempts
	d.successes = DefaultSuccesses
	d.distance = ""
}

// Edit loads the rep with id into the form. It reports false when no such rep exists.
func (d *Draft) Edit(id string) bool {
	if d.state == Idle {
		return false
	}
	idx := d.session.RepIndex(id)
	if idx < 0 {
		return false
	}
	rep := d.session.Reps[idx]
	d.state = DraftingEdit
	d.editingID = rep.ID
	d.drill = rep.Drill
	if !d.drill.Valid() {
		d.drill = model.DrillShooting
	}
	d.exerciseName = rep.ExerciseName
	d.attempts = rep.ShotsTaken
	d.successes = rep.ShotsMade
	d.distance = ""
	if v, ok := rep.Distance(); ok {
		d.distance = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if d.drill == model.DrillShooting {
		d.target = DefaultTarget
		if t, ok := rep.Target(); ok {
			d.target = t
		}
		d.foot = DefaultFoot
		if f, ok := rep.StrikingFoot(); ok {
			d.foot = f
		}
	}
	return true
}

// SetDrill switches the drill type. Target, foot and attempts carry over.
func (d *Draft) SetDrill(drill model.DrillType) {
	if !drill.Valid() {
		return
	}
	d.drill = drill
	d.successes = DefaultSuccesses
	d.distance = ""
	if d.state != DraftingEdit {
		d.exerciseName = drill.DefaultExerciseName()
	}
}

// SetExerciseName sets the free-text drill label.
func (d *Draft) SetExerciseName(name string) {
	d.exerciseName = name
}

// SetTarget sets the aimed zone for shooting reps.
func (d *Draft) SetTarget(t model.ShotTarget) {
	if t.Valid() {
		d.target = t
	}
}

// SetFoot sets the striking foot for shooting reps.
func (d *Draft) SetFoot(f model.Foot) {
	if f.Valid() {
		d.foot = f
	}
}

// SetAttempts sets attempts, at least one, and lowers successes to match.
func (d *Draft) SetAttempts(n int) {
	d.attempts = max(1, n)
	if d.successes > d.attempts {
		d.successes = d.attempts
	}
}

// SetSuccesses sets successes clamped to [0, attempts].
func (d *Draft) SetSuccesses(n int) {
	d.successes = clamp(n, 0, d.attempts)
}

// SetDistance stores the raw longest-clearance input.
func (d *Draft) SetDistance(text string) {
	d.distance = strings.TrimSpace(text)
}

// SetDate sets the session date.
func (d *Draft) SetDate(date string) {
	d.session.Date = date
}

// SetLocation sets the session location.
func (d *Draft) SetLocation(loc string) {
	d.session.Location = loc
}

// ApplyLocation sets the location only if sessionID is still being drafted.
func (d *Draft) ApplyLocation(sessionID, loc string) bool {
	if d.state == Idle || d.session.ID != sessionID || loc == "" {
		return false
	}
	d.session.Location = loc
	return true
}

// Commit validates the form into a rep, replaces or appends it, and resets the form.
func (d *Draft) Commit() (model.Rep, bool) {
	if d.state == Idle {
		return model.Rep{}, false
	}
	taken := max(1, d.attempts)
	made := clamp(d.successes, 0, taken)
	name := strings.TrimSpace(d.exerciseName)
	if name == "" {
		name = d.drill.DefaultExerciseName()
	}

	id := d.editingID
	ts := d.now()
	idx := -1
	if id != "" {
		idx = d.session.RepIndex(id)
		if idx >= 0 {
			ts = d.session.Reps[idx].Timestamp
		}
	} else {
		id = d.newID()
	}

	var rep model.Rep
	if d.drill == model.DrillShooting {
		rep = model.NewShootingRep(id, name, taken, made, d.target, d.foot, ts)
	} else {
		rep = model.NewHeaderRep(id, name, taken, made, d.parsedDistance(), ts)
	}

	if idx >= 0 {
		d.session.Reps[idx] = rep
	} else {
		d.session.Reps = append(d.session.Reps, rep)
	}
	d.reset()
	return rep.Clone(), true
}

// Cancel discards form changes and returns to drafting a new rep.
func (d *Draft) Cancel() {
	if d.state == Idle {
		return
	}
	d.reset()
}

// DeleteRep removes a rep from the working session.
func (d *Draft) DeleteRep(id string) bool {
	idx := d.session.RepIndex(id)
	if d.state == Idle || idx < 0 {
		return false
	}
	d.session.Reps = append(d.session.Reps[:idx], d.session.Reps[idx+1:]...)
	if d.editingID == id {
		d.reset()
	}
	return true
}

// Finish returns the completed session and goes idle.
func (d *Draft) Finish() (model.Session, bool) {
	if d.state == Idle {
		return model.Session{}, false
	}
	out := d.session.Clone()
	d.Abandon()
	return out, true
}

// Abandon drops the working session.
func (d *Draft) Abandon() {
	d.state = Idle
	d.session = model.Session{}
	d.editingID = ""
}

func (d *Draft) reset() {
	d.state = DraftingNew
	d.editingID = ""
	d.exerciseName = d.drill.DefaultExerciseName()
	d.successes = DefaultSuccesses
	d.distance = ""
}

func (d *Draft) parsedDistance() *float64 {
	if d.distance == "" {
		return nil
	}
	v, err := strconv.ParseFloat(d.distance, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// Session returns a copy of the working session.
func (d *Draft) Session() model.Session { return d.session.Clone() }

func (d *Draft) State() State { return d.state }
func (d *Draft) EditingID() string { return d.editingID }
func (d *Draft) Drill() model.DrillType { return d.drill }
func (d *Draft) ExerciseName() string { return d.exerciseName }
func (d *Draft) Target() model.ShotTarget { return d.target }
func (d *Draft) Foot() model.Foot { return d.foot }
func (d *Draft) Attempts() int { return d.attempts }
func (d *Draft) Successes() int { return d.successes }
func (d *Draft) DistanceText() string { return d.distance }

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
