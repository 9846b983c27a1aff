package stats

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/verte-zerg/ontarget/internal/model"
)

// DrillTotal folds every rep sharing a drill type and exercise name.
type DrillTotal struct {
	Drill        model.DrillType
	ExerciseName string
	Reps         int
	Perfect      int
	Summary      Summary
}

// DrillBreakdown groups the report's reps by exercise. Names compare
// case-insensitively; the first spelling seen wins. Most attempted first.
func (r Report) DrillBreakdown() []DrillTotal {
	type key struct {
		drill model.DrillType
		name  string
	}
	index := map[key]int{}
	var out []DrillTotal
	for _, s := range r.Chronological {
		for _, rep := range s.Reps {
			k := key{rep.Drill, strings.ToLower(strings.TrimSpace(rep.ExerciseName))}
			i, ok := index[k]
			if !ok {
				i = len(out)
				index[k] = i
				out = append(out, DrillTotal{Drill: rep.Drill, ExerciseName: strings.TrimSpace(rep.ExerciseName)})
			}
			t := &out[i]
			t.Reps++
			t.Summary.TotalTaken += rep.ShotsTaken
			t.Summary.TotalMade += rep.ShotsMade
			if IsPerfect(rep) {
				t.Perfect++
			}
		}
	}
	for i := range out {
		s := &out[i].Summary
		if s.TotalTaken > 0 {
			s.Percentage = Round1(100 * float64(s.TotalMade) / float64(s.TotalTaken))
		}
	}
	slices.SortStableFunc(out, func(a, b DrillTotal) int {
		if a.Summary.TotalTaken != b.Summary.TotalTaken {
			return b.Summary.TotalTaken - a.Summary.TotalTaken
		}
		return strings.Compare(a.ExerciseName, b.ExerciseName)
	})
	return out
}

// DrillRows renders totals as table cells: drill, exercise, reps, made/taken, rate, perfect.
func DrillRows(totals []DrillTotal) [][]string {
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{
			string(t.Drill),
			t.ExerciseName,
			strconv.Itoa(t.Reps),
			fmt.Sprintf("%d/%d", t.Summary.TotalMade, t.Summary.TotalTaken),
			t.Summary.PercentString() + "%",
			strconv.Itoa(t.Perfect),
		})
	}
	return rows
}

// DrillHeaders are the column titles matching DrillRows.
var DrillHeaders = []string{"Drill", "Exercise", "Reps", "Made", "Rate", "Perfect"}

// RenderDrillTable prints the per-exercise breakdown.
func RenderDrillTable(w io.Writer, totals []DrillTotal) error {
	if len(totals) == 0 {
		return nil
	}
	tbl := table{
		headers: DrillHeaders,
		rows:    DrillRows(totals),
		right:   map[int]bool{2: true, 3: true, 4: true, 5: true},
	}
	if _, err := fmt.Fprintln(w, "Drills"); err != nil {
		return err
	}
	if err := tbl.render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
