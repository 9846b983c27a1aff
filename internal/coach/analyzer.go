package coach

import (
	"context"
	"sync"

	"github.com/verte-zerg/ontarget/internal/model"
)

// Result is the outcome of one analysis request.
type Result struct {
	SessionID  string
	activation uint64
	Text       string
}

// Analyzer tracks the analysis of the session shown in a detail view.
//
// Each Activate starts a new activation. A request is bound to the session and
// activation it was issued for; its result is dropped if the view has moved on
// by the time it resolves. Only one request runs per activation, and at most
// one feedback string is kept.
type Analyzer struct {
	coach *Coach

	mu          sync.Mutex
	activeID    string
	activation  uint64
	analyzing   bool
	feedback    string
	hasFeedback bool
}

// NewAnalyzer returns an Analyzer using c.
func NewAnalyzer(c *Coach) *Analyzer {
	return &Analyzer{coach: c}
}

// Activate starts a new view activation for sessionID and clears feedback.
func (a *Analyzer) Activate(sessionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.activation++
	a.activeID = sessionID
	a.analyzing = false
	a.feedback = ""
	a.hasFeedback = false
}

// Deactivate ends the current activation. Pending results will be dropped.
func (a *Analyzer) Deactivate() {
	a.Activate("")
}

// Start marks a request in flight for s and returns the blocking call that
// performs it. ok is false when s is not the active session, a request is
// already running, or feedback was already received.
func (a *Analyzer) Start(ctx context.Context, s model.Session, settings model.UserSettings) (run func() Result, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if s.ID == "" || s.ID != a.activeID || a.analyzing || a.hasFeedback {
		return nil, false
	}
	a.analyzing = true
	activation := a.activation
	session := s.Clone()
	return func() Result {
		return Result{
			SessionID:  session.ID,
			activation: activation,
			Text:       a.coach.Feedback(ctx, session, settings),
		}
	}, true
}

// Deliver stores res if it belongs to the current activation.
func (a *Analyzer) Deliver(res Result) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if res.activation != a.activation || res.SessionID != a.activeID {
		return false
	}
	a.analyzing = false
	a.feedback = res.Text
	a.hasFeedback = true
	return true
}

// Analyzing reports whether a request for the current activation is running.
func (a *Analyzer) Analyzing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.analyzing
}

// Feedback returns the stored feedback of the current activation.
func (a *Analyzer) Feedback() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.feedback, a.hasFeedback
}
