// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strconv"

	"github.com/verte-zerg/ontarget/internal/model"
)

const highSuccessRatio = 0.7

// Summary folds the attempts and successes of one drill type.
type Summary struct {
	TotalTaken int
	TotalMade  int
	// Percentage is 100*made/taken rounded to one decimal.
	Percentage float64
}

// Summarize computes shooting accuracy. Header reps are ignored.
func Summarize(reps []model.Rep) Summary {
	return fold(reps, model.DrillShooting)
}

// Clearance computes the header clearance rate. Shooting reps are ignored.
func Clearance(reps []model.Rep) Summary {
	return fold(reps, model.DrillHeader)
}

func fold(reps []model.Rep, drill model.DrillType) Summary {
	var s Summary
	for _, r := range reps {
		if r.Drill != drill {
			continue
		}
		s.TotalTaken += r.ShotsTaken
		s.TotalMade += r.ShotsMade
	}
	if s.TotalTaken > 0 {
		s.Percentage = Round1(100 * float64(s.TotalMade) / float64(s.TotalTaken))
	}
	return s
}

// Empty reports whether no attempts were folded.
func (s Summary) Empty() bool {
	return s.TotalTaken == 0
}

// PercentString renders the percentage with one fractional digit.
func (s Summary) PercentString() string {
	return FormatPercent1(s.Percentage)
}

// WholePercentString renders the percentage with no fractional digits.
func (s Summary) WholePercentString() string {
	if s.TotalTaken <= 0 {
		return "0"
	}
	return strconv.FormatFloat(100*float64(s.TotalMade)/float64(s.TotalTaken), 'f', 0, 64)
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatPercent1 formats v with exactly one fractional digit.
func FormatPercent1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// RepAccuracyString renders a single rep's accuracy, "0.0" when nothing was taken.
func RepAccuracyString(r model.Rep) string {
	if r.ShotsTaken <= 0 {
		return "0.0"
	}
	return FormatPercent1(Round1(100 * r.Accuracy()))
}

// IsPerfect reports whether every attempt in the rep succeeded.
func IsPerfect(r model.Rep) bool {
	return r.ShotsTaken > 0 && r.ShotsMade == r.ShotsTaken
}

// IsHighSuccess reports whether the rep reached the highlight threshold.
func IsHighSuccess(r model.Rep) bool {
	return r.Accuracy() >= highSuccessRatio
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// FormatDistance renders a header distance without trailing zeros.
func FormatDistance(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}
