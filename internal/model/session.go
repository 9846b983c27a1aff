package model

import "time"

// DateLayout is the calendar date format of a session.
const DateLayout = "2006-01-02"

// DefaultLocation is used until a better location is known.
const DefaultLocation = "Local Pitch"

// Session is one dated practice outing.
type Session struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Location string `json:"location"`
	Reps     []Rep  `json:"reps"`
	Notes    string `json:"notes,omitempty"`
}

// NewSession returns an empty session dated now.
func NewSession(id string, now time.Time) Session {
	return Session{
		ID:       id,
		Date:     now.Format(DateLayout),
		Location: DefaultLocation,
		Reps:     []Rep{},
	}
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	out := s
	out.Reps = make([]Rep, len(s.Reps))
	for i, r := range s.Reps {
		out.Reps[i] = r.Clone()
	}
	return out
}

// RepIndex returns the index of the rep with id, or -1.
func (s Session) RepIndex(id string) int {
	for i, r := range s.Reps {
		if r.ID == id {
			return i
		}
	}
	return -1
}
