package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/ontarget/internal/model"
	"github.com/verte-zerg/ontarget/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "ontarget.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	saved := []model.Session{
		{ID: "c", Date: "2024-05-03", Location: "Park", Reps: []model.Rep{shot(10, 9)}},
		{ID: "b", Date: "2024-05-02", Location: "Local Pitch", Reps: []model.Rep{shot(10, 5), header(4, 2)}},
		{ID: "a", Date: "2024-04-20", Location: "Local Pitch", Reps: []model.Rep{header(5, 5)}},
	}
	if err := st.SaveSessions(ctx, saved); err != nil {
		t.Fatalf("save sessions: %v", err)
	}

	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	report, err := BuildReport(ctx, st, model.StatsConfig{Since: &since, CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 || report.Sessions[0].ID != "c" || report.Sessions[1].ID != "b" {
		t.Fatalf("unexpected sessions: %+v", report.Sessions)
	}
	if report.Chronological[0].ID != "b" {
		t.Fatalf("expected oldest first, got %s", report.Chronological[0].ID)
	}
	acc := report.AccuracySeries()
	if len(acc) != 2 || acc[0] != 50 || acc[1] != 90 {
		t.Fatalf("unexpected accuracy series: %v", acc)
	}
	if clr := report.ClearanceSeries(); len(clr) != 1 || clr[0] != 50 {
		t.Fatalf("unexpected clearance series: %v", clr)
	}
}

func TestNewReportFilters(t *testing.T) {
	all := []model.Session{
		{ID: "c", Date: "2024-05-03", Location: "Park"},
		{ID: "b", Date: "2024-05-02", Location: "Local Pitch"},
		{ID: "a", Date: "2024-04-20", Location: "local pitch"},
	}
	r := NewReport(all, model.StatsConfig{Location: "LOCAL"})
	if len(r.Sessions) != 2 {
		t.Fatalf("expected 2 sessions by location, got %d", len(r.Sessions))
	}
	r = NewReport(all, model.StatsConfig{Last: 1})
	if len(r.Sessions) != 1 || r.Sessions[0].ID != "c" {
		t.Fatalf("expected newest session only, got %+v", r.Sessions)
	}
}

func TestRenderSessionTableAndSummary(t *testing.T) {
	sessions := []model.Session{
		{ID: "3f2a9c1e-aaaa", Date: "2024-05-02", Location: "Local Pitch", Reps: []model.Rep{shot(10, 7), shot(5, 5), header(3, 2)}},
	}
	var buf bytes.Buffer
	if err := RenderSessionTable(&buf, sessions); err != nil {
		t.Fatalf("render table: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"3f2a9c1e", "Local Pitch", "80.0%", "67%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, NewReport(sessions, model.StatsConfig{})); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out = buf.String()
	for _, want := range []string{"Sessions: 1", "Drills: 3", "Shots: 12/15 (80.0%)", "Clearances: 2/3 (67%)", "Best accuracy: 80.0% on 2024-05-02"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSessionTable(&buf, nil); err != nil {
		t.Fatalf("render table: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
	buf.Reset()
	if err := RenderTrend(&buf, Report{}, 80); err != nil || buf.Len() != 0 {
		t.Fatalf("expected no trend output, got %q (%v)", buf.String(), err)
	}
}
