package stats

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/ontarget/internal/model"
)

// SessionSource loads saved sessions, newest first.
type SessionSource interface {
	LoadSessions(ctx context.Context) ([]model.Session, error)
}

// Report contains filtered sessions prepared for rendering.
type Report struct {
	// Sessions is newest first, as stored.
	Sessions []model.Session
	// Chronological is Sessions reversed.
	Chronological []model.Session
	Window        int
}

// BuildReport loads and filters sessions for history output.
func BuildReport(ctx context.Context, src SessionSource, cfg model.StatsConfig) (Report, error) {
	all, err := src.LoadSessions(ctx)
	if err != nil {
		return Report{}, err
	}
	return NewReport(all, cfg), nil
}

// NewReport filters sessions according to cfg.
func NewReport(all []model.Session, cfg model.StatsConfig) Report {
	loc := strings.ToLower(strings.TrimSpace(cfg.Location))
	sessions := make([]model.Session, 0, len(all))
	for _, s := range all {
		if loc != "" && !strings.Contains(strings.ToLower(s.Location), loc) {
			continue
		}
		if cfg.Since != nil && !onOrAfter(s.Date, *cfg.Since) {
			continue
		}
		sessions = append(sessions, s)
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[:cfg.Last]
	}
	chrono := slices.Clone(sessions)
	slices.Reverse(chrono)
	return Report{
		Sessions:      sessions,
		Chronological: chrono,
		Window:        cfg.CurveWindow,
	}
}

func onOrAfter(date string, since time.Time) bool {
	parsed, err := time.ParseInLocation(model.DateLayout, date, since.Location())
	if err != nil {
		return true
	}
	return !parsed.Before(since)
}

// AccuracySeries returns per-session shooting accuracy, oldest first,
// skipping sessions without shooting attempts.
func (r Report) AccuracySeries() []float64 {
	return series(r.Chronological, Summarize)
}

// ClearanceSeries returns per-session clearance rate, oldest first,
// skipping sessions without header attempts.
func (r Report) ClearanceSeries() []float64 {
	return series(r.Chronological, Clearance)
}

func series(sessions []model.Session, fn func([]model.Rep) Summary) []float64 {
	out := make([]float64, 0, len(sessions))
	for _, s := range sessions {
		sum := fn(s.Reps)
		if sum.Empty() {
			continue
		}
		out = append(out, sum.Percentage)
	}
	return out
}

// RenderSessionTable prints one line per session.
func RenderSessionTable(w io.Writer, sessions []model.Session) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	tbl := table{
		headers: []string{"ID", "Date", "Location", "Drills", "Accuracy", "Clearance"},
		right:   map[int]bool{3: true, 4: true, 5: true},
	}
	for _, s := range sessions {
		acc, clr := "-", "-"
		if sum := Summarize(s.Reps); !sum.Empty() {
			acc = sum.PercentString() + "%"
		}
		if sum := Clearance(s.Reps); !sum.Empty() {
			clr = sum.WholePercentString() + "%"
		}
		tbl.rows = append(tbl.rows, []string{
			shortID(s.ID),
			s.Date,
			s.Location,
			strconv.Itoa(len(s.Reps)),
			acc,
			clr,
		})
	}
	if err := tbl.render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// RenderSummary prints totals across the report.
func RenderSummary(w io.Writer, r Report) error {
	if len(r.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var reps []model.Rep
	best := -1.0
	bestDate := ""
	for _, s := range r.Sessions {
		reps = append(reps, s.Reps...)
		if sum := Summarize(s.Reps); !sum.Empty() && sum.Percentage > best {
			best = sum.Percentage
			bestDate = s.Date
		}
	}
	shooting := Summarize(reps)
	header := Clearance(reps)

	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(r.Sessions)),
		fmt.Sprintf("Drills: %d", len(reps)),
		fmt.Sprintf("Shots: %d/%d (%s%%)", shooting.TotalMade, shooting.TotalTaken, shooting.PercentString()),
		fmt.Sprintf("Clearances: %d/%d (%s%%)", header.TotalMade, header.TotalTaken, header.WholePercentString()),
	}
	if best >= 0 {
		lines = append(lines, fmt.Sprintf("Best accuracy: %s%% on %s", FormatPercent1(best), bestDate))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// shortID trims UUIDs to their first group for display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
