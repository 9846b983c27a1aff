package model

import (
	"encoding/json"
	"time"
)

// ShootingDetail holds fields that only exist on shooting reps.
type ShootingDetail struct {
	Target ShotTarget
	Foot   Foot
}

// HeaderDetail holds fields that only exist on header reps.
type HeaderDetail struct {
	// Distance is the longest clearance in feet, nil when not recorded.
	Distance *float64
}

// Rep is one recorded set of attempts for a single drill.
// Exactly one of Shooting or Header is set, matching Drill.
type Rep struct {
	ID           string
	Drill        DrillType
	ExerciseName string
	ShotsTaken   int
	ShotsMade    int
	Timestamp    time.Time

	Shooting *ShootingDetail
	Header   *HeaderDetail
}

// NewShootingRep builds a shooting rep.
func NewShootingRep(id, name string, taken, made int, target ShotTarget, foot Foot, ts time.Time) Rep {
	return Rep{
		ID:           id,
		Drill:        DrillShooting,
		ExerciseName: name,
		ShotsTaken:   taken,
		ShotsMade:    made,
		Timestamp:    ts,
		Shooting:     &ShootingDetail{Target: target, Foot: foot},
	}
}

// NewHeaderRep builds a header rep. distance may be nil.
func NewHeaderRep(id, name string, taken, made int, distance *float64, ts time.Time) Rep {
	var d *float64
	if distance != nil {
		v := *distance
		d = &v
	}
	return Rep{
		ID:           id,
		Drill:        DrillHeader,
		ExerciseName: name,
		ShotsTaken:   taken,
		ShotsMade:    made,
		Timestamp:    ts,
		Header:       &HeaderDetail{Distance: d},
	}
}

// Accuracy returns made/taken as a ratio, 0 when nothing was taken.
func (r Rep) Accuracy() float64 {
	if r.ShotsTaken <= 0 {
		return 0
	}
	return float64(r.ShotsMade) / float64(r.ShotsTaken)
}

// Target returns the aimed zone of a shooting rep.
func (r Rep) Target() (ShotTarget, bool) {
	if r.Shooting == nil || r.Shooting.Target == "" {
		return "", false
	}
	return r.Shooting.Target, true
}

// StrikingFoot returns the foot of a shooting rep.
func (r Rep) StrikingFoot() (Foot, bool) {
	if r.Shooting == nil || r.Shooting.Foot == "" {
		return "", false
	}
	return r.Shooting.Foot, true
}

// Distance returns the longest clearance of a header rep.
func (r Rep) Distance() (float64, bool) {
	if r.Header == nil || r.Header.Distance == nil {
		return 0, false
	}
	return *r.Header.Distance, true
}

// Clone returns a copy that shares no pointers with r.
func (r Rep) Clone() Rep {
	out := r
	if r.Shooting != nil {
		s := *r.Shooting
		out.Shooting = &s
	}
	if r.Header != nil {
		out.Header = &HeaderDetail{}
		if r.Header.Distance != nil {
			d := *r.Header.Distance
			out.Header.Distance = &d
		}
	}
	return out
}

// repJSON is the flat persisted form of a rep.
type repJSON struct {
	ID           string     `json:"id"`
	DrillType    DrillType  `json:"drillType"`
	ExerciseName string     `json:"exerciseName"`
	ShotsTaken   *int       `json:"shotsTaken,omitempty"`
	ShotsMade    *int       `json:"shotsMade,omitempty"`
	Distance     *float64   `json:"distance,omitempty"`
	TargetArea   ShotTarget `json:"targetArea,omitempty"`
	Foot         Foot       `json:"foot,omitempty"`
	// Legacy field from older records, read and dropped.
	ClearedDefensiveThird *bool `json:"clearedDefensiveThird,omitempty"`
	Timestamp             int64 `json:"timestamp"`
}

// MarshalJSON implements json.Marshaler.
func (r Rep) MarshalJSON() ([]byte, error) {
	taken, made := r.ShotsTaken, r.ShotsMade
	out := repJSON{
		ID:           r.ID,
		DrillType:    r.Drill,
		ExerciseName: r.ExerciseName,
		ShotsTaken:   &taken,
		ShotsMade:    &made,
		Timestamp:    r.Timestamp.UnixMilli(),
	}
	switch r.Drill {
	case DrillShooting:
		if r.Shooting != nil {
			out.TargetArea = r.Shooting.Target
			out.Foot = r.Shooting.Foot
		}
	case DrillHeader:
		if r.Header != nil {
			out.Distance = r.Header.Distance
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rep) UnmarshalJSON(data []byte) error {
	var in repJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	rep := Rep{
		ID:           in.ID,
		Drill:        in.DrillType,
		ExerciseName: in.ExerciseName,
		Timestamp:    time.UnixMilli(in.Timestamp),
	}
	if in.ShotsTaken != nil {
		rep.ShotsTaken = *in.ShotsTaken
	}
	if in.ShotsMade != nil {
		rep.ShotsMade = *in.ShotsMade
	}
	// Reps with a missing or unknown drill type carry no payload and count
	// toward neither accuracy nor clearance.
	switch rep.Drill {
	case DrillShooting:
		rep.Shooting = &ShootingDetail{Target: in.TargetArea, Foot: in.Foot}
	case DrillHeader:
		rep.Header = &HeaderDetail{Distance: in.Distance}
	}
	*r = rep
	return nil
}
