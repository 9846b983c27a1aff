package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShootingRepMarshalsFlatShape(t *testing.T) {
	ts := time.UnixMilli(1714557600000)
	rep := NewShootingRep("r1", "Finishing", 10, 7, TargetTopLeft, FootLeft, ts)

	data, err := json.Marshal(rep)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Shooting", got["drillType"])
	assert.Equal(t, "Top Left", got["targetArea"])
	assert.Equal(t, "Left", got["foot"])
	assert.Equal(t, float64(10), got["shotsTaken"])
	assert.Equal(t, float64(7), got["shotsMade"])
	assert.Equal(t, float64(1714557600000), got["timestamp"])
	assert.NotContains(t, got, "distance")
}

func TestHeaderRepOmitsShootingFields(t *testing.T) {
	dist := 42.0
	rep := NewHeaderRep("r2", "Clearances", 5, 3, &dist, time.UnixMilli(0))

	data, err := json.Marshal(rep)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Header", got["drillType"])
	assert.Equal(t, 42.0, got["distance"])
	assert.NotContains(t, got, "targetArea")
	assert.NotContains(t, got, "foot")

	var back Rep
	require.NoError(t, json.Unmarshal(data, &back))
	d, ok := back.Distance()
	require.True(t, ok)
	assert.Equal(t, 42.0, d)
	assert.Nil(t, back.Shooting)
}

func TestLegacyRepDecodes(t *testing.T) {
	raw := `{"id":"old","exerciseName":"Volleys","clearedDefensiveThird":true,"timestamp":1000}`

	var rep Rep
	require.NoError(t, json.Unmarshal([]byte(raw), &rep))
	assert.Equal(t, DrillType(""), rep.Drill)
	assert.False(t, rep.Drill.Valid())
	assert.Nil(t, rep.Shooting)
	assert.Nil(t, rep.Header)
	assert.Equal(t, 0, rep.ShotsTaken)
	assert.Equal(t, 0, rep.ShotsMade)
	assert.Equal(t, 0.0, rep.Accuracy())
	_, ok := rep.Target()
	assert.False(t, ok)
	assert.Equal(t, int64(1000), rep.Timestamp.UnixMilli())
}

func TestCloneDoesNotAlias(t *testing.T) {
	dist := 10.0
	s := NewSession("s1", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	s.Reps = append(s.Reps, NewHeaderRep("r1", "Headers", 4, 2, &dist, time.Time{}))
	dist = 99

	c := s.Clone()
	*c.Reps[0].Header.Distance = 50
	c.Reps[0].ExerciseName = "Changed"

	d, _ := s.Reps[0].Distance()
	assert.Equal(t, 10.0, d)
	assert.Equal(t, "Headers", s.Reps[0].ExerciseName)
	assert.Equal(t, "2024-05-01", s.Date)
	assert.Equal(t, DefaultLocation, s.Location)
	assert.Equal(t, 0, s.RepIndex("r1"))
	assert.Equal(t, -1, s.RepIndex("missing"))
}

func TestAccuracy(t *testing.T) {
	rep := NewShootingRep("r", "", 8, 6, TargetPost, FootRight, time.Time{})
	assert.InDelta(t, 0.75, rep.Accuracy(), 1e-9)
	assert.Equal(t, "Post", rep.Shooting.Target.Label())
	assert.Equal(t, "Lower Right", TargetBottomRight.Label())
	assert.Equal(t, "R", FootRight.Short())
}
