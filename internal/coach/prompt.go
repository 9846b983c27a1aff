// Package coach requests short coaching feedback for a recorded session.
package coach

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/ontarget/internal/model"
)

// RepLine renders the human-readable summary of one rep sent to the model.
func RepLine(r model.Rep) string {
	if r.Drill == model.DrillShooting {
		target, _ := r.Target()
		return fmt.Sprintf("- Shooting (%s): %d/%d goals to %s", r.ExerciseName, r.ShotsMade, r.ShotsTaken, target)
	}
	longest := "N/A"
	if d, ok := r.Distance(); ok && d != 0 {
		longest = strconv.FormatFloat(d, 'f', -1, 64)
	}
	return fmt.Sprintf("- Header (%s): %d/%d successful clearances, Longest: %s ft", r.ExerciseName, r.ShotsMade, r.ShotsTaken, longest)
}

// BuildPrompt assembles the coaching request for a session.
func BuildPrompt(s model.Session, name string, age int) string {
	lines := make([]string, len(s.Reps))
	for i, r := range s.Reps {
		lines[i] = RepLine(r)
	}
	ageContext := "Age unknown."
	if age > 0 {
		ageContext = fmt.Sprintf("The athlete is %d years old.", age)
	}
	nameContext := "The athlete"
	address := "the athlete"
	if name != "" {
		nameContext = fmt.Sprintf("The athlete's name is %s.", name)
		address = name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "As a world-class youth soccer coach, analyze this training session data for %s.\n", nameContext)
	fmt.Fprintf(&b, "%s\n\n", ageContext)
	fmt.Fprintf(&b, "Session Date: %s\n", s.Date)
	fmt.Fprintf(&b, "Location: %s\n", s.Location)
	b.WriteString("Exercises Recorded:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nINSTRUCTIONS:\n")
	fmt.Fprintf(&b, "1. Be highly encouraging and positive. Use %s's name in the feedback.\n", address)
	b.WriteString("2. Provide feedback that is appropriate for their age (don't be overly critical of children, be more technical for adults).\n")
	b.WriteString("3. Evaluate if their scores are \"good\" relative to their age and session type.\n")
	b.WriteString("4. Provide 1 actionable tip that makes them want to come back and beat their score.\n")
	b.WriteString("5. Keep it to a maximum of 3-4 sentences.\n")
	b.WriteString("6. Ensure the tone makes them feel like a champion in the making.\n")
	return b.String()
}

// Fallback is the encouraging message used whenever the model cannot answer.
func Fallback(name string) string {
	greeting := "Great effort today"
	if name != "" {
		greeting += ", " + name
	}
	return greeting + "! Your dedication is showing. Focus on your follow-through and you'll be hitting top bins in no time!"
}

// Age returns whole years between birthDate (YYYY-MM-DD) and now, 0 when unknown.
func Age(birthDate string, now time.Time) int {
	if birthDate == "" {
		return 0
	}
	born, err := time.ParseInLocation(model.DateLayout, birthDate, now.Location())
	if err != nil {
		return 0
	}
	years := now.Year() - born.Year()
	if !sameOrAfterBirthday(now, born) {
		years--
	}
	return max(years, 0)
}

func sameOrAfterBirthday(now, born time.Time) bool {
	if now.Month() != born.Month() {
		return now.Month() > born.Month()
	}
	return now.Day() >= born.Day()
}
