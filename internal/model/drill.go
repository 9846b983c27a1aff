// Package model defines shared data structures.
package model

// DrillType identifies the kind of drill a rep records.
type DrillType string

const (
	DrillShooting DrillType = "Shooting"
	DrillHeader   DrillType = "Header"
)

// DrillTypes lists drill types in display order.
var DrillTypes = []DrillType{DrillShooting, DrillHeader}

// DefaultExerciseName returns the exercise label used when none is given.
func (d DrillType) DefaultExerciseName() string {
	if d == DrillHeader {
		return "Header Practice"
	}
	return "Shooting Drill"
}

// Valid reports whether d is a known drill type.
func (d DrillType) Valid() bool {
	return d == DrillShooting || d == DrillHeader
}

// ShotTarget is one of the named goal-mouth zones a shot is aimed at.
type ShotTarget string

const (
	TargetTopLeft     ShotTarget = "Top Left"
	TargetTopRight    ShotTarget = "Top Right"
	TargetBottomLeft  ShotTarget = "Bottom Left"
	TargetBottomRight ShotTarget = "Bottom Right"
	TargetCenter      ShotTarget = "Center"
	TargetCrossbar    ShotTarget = "Crossbar"
	TargetPost        ShotTarget = "Post"
)

// ShotTargets lists target zones in selector order.
var ShotTargets = []ShotTarget{
	TargetTopLeft,
	TargetTopRight,
	TargetCenter,
	TargetBottomLeft,
	TargetBottomRight,
	TargetCrossbar,
	TargetPost,
}

var targetLabels = map[ShotTarget]string{
	TargetTopLeft:     "Upper Left",
	TargetTopRight:    "Upper Right",
	TargetBottomLeft:  "Lower Left",
	TargetBottomRight: "Lower Right",
	TargetCenter:      "Center",
	TargetCrossbar:    "Crossbar",
	TargetPost:        "Post",
}

// Label returns the human-facing name of the zone.
func (t ShotTarget) Label() string {
	if label, ok := targetLabels[t]; ok {
		return label
	}
	return string(t)
}

// Valid reports whether t is a known zone.
func (t ShotTarget) Valid() bool {
	_, ok := targetLabels[t]
	return ok
}

// Foot is the striking foot of a shot.
type Foot string

const (
	FootLeft  Foot = "Left"
	FootRight Foot = "Right"
)

// Valid reports whether f is a known foot.
func (f Foot) Valid() bool {
	return f == FootLeft || f == FootRight
}

// Short returns the one-letter badge used in rep listings.
func (f Foot) Short() string {
	switch f {
	case FootLeft:
		return "L"
	case FootRight:
		return "R"
	default:
		return "-"
	}
}
