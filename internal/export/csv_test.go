package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/ontarget/internal/model"
)

func exportSession() model.Session {
	dist := 35.5
	return model.Session{
		ID:       "s1",
		Date:     "2024-05-01",
		Location: "Pitch (51.50, -0.12)",
		Reps: []model.Rep{
			model.NewShootingRep("r1", "Finishing", 8, 3, model.TargetTopLeft, model.FootLeft, time.Time{}),
			model.NewHeaderRep("r2", "Clearances", 6, 4, &dist, time.Time{}),
			{ID: "r3", Drill: model.DrillHeader, ExerciseName: "Legacy", Header: &model.HeaderDetail{}},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, exportSession()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"Date,Location,Drill,Foot,Attempts,Success,Accuracy (%),Longest(ft)",
		`2024-05-01,"Pitch (51.50, -0.12)",Finishing,Left,8,3,37.5,`,
		`2024-05-01,"Pitch (51.50, -0.12)",Clearances,,6,4,66.7,35.5`,
		`2024-05-01,"Pitch (51.50, -0.12)",Legacy,,0,0,0.0,`,
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	path, err := WriteFile(dir, "OnTarget", exportSession())
	if err != nil {
		t.Fatalf("write file: %v", err)
	}
	if filepath.Base(path) != "OnTarget_2024-05-01.csv" {
		t.Fatalf("unexpected file name: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "Date,Location,Drill") {
		t.Fatalf("unexpected export contents: %q", data)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file cleaned up, found %d entries", len(entries))
	}
}

func TestFileNameStripsSeparators(t *testing.T) {
	if got := FileName("My/Team", "2024-05-01"); got != "My-Team_2024-05-01.csv" {
		t.Fatalf("unexpected file name %q", got)
	}
}
