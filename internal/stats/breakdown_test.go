package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/ontarget/internal/model"
)

func TestDrillBreakdown(t *testing.T) {
	volley := model.NewShootingRep("", "volleys ", 4, 4, model.TargetPost, model.FootLeft, time.Time{})
	all := []model.Session{
		{ID: "b", Date: "2024-05-02", Reps: []model.Rep{shot(10, 5), volley}},
		{ID: "a", Date: "2024-05-01", Reps: []model.Rep{shot(10, 8), header(6, 3)}},
	}
	totals := NewReport(all, model.StatsConfig{}).DrillBreakdown()
	if len(totals) != 3 {
		t.Fatalf("expected 3 groups, got %+v", totals)
	}
	first := totals[0]
	if first.ExerciseName != "Shooting Drill" || first.Reps != 2 || first.Summary.TotalTaken != 20 || first.Summary.TotalMade != 13 {
		t.Fatalf("unexpected first group: %+v", first)
	}
	if first.Summary.Percentage != 65 {
		t.Fatalf("expected 65%%, got %v", first.Summary.Percentage)
	}
	if totals[1].Drill != model.DrillHeader || totals[2].ExerciseName != "volleys" || totals[2].Perfect != 1 {
		t.Fatalf("unexpected ordering: %+v", totals)
	}
}

func TestRenderDrillTable(t *testing.T) {
	totals := []DrillTotal{{
		Drill:        model.DrillShooting,
		ExerciseName: "Finishing",
		Reps:         2,
		Perfect:      1,
		Summary:      Summary{TotalTaken: 8, TotalMade: 6, Percentage: 75},
	}}
	var buf bytes.Buffer
	if err := RenderDrillTable(&buf, totals); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "Drills" {
		t.Fatalf("expected title, got %q", lines[0])
	}
	if lines[1] != "Drill    Exercise  Reps Made  Rate Perfect" {
		t.Fatalf("unexpected header %q", lines[1])
	}
	if lines[2] != "Shooting Finishing    2  6/8 75.0%       1" {
		t.Fatalf("unexpected row %q", lines[2])
	}
}
