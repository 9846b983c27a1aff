package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	sparkChars        = " .:-=+*#%@"
	trendLabelWidth   = len("Clearance ") + len(" 100.0%")
	fallbackTermWidth = 80
)

// TerminalWidth returns the width of stdout, or a fallback when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

// Sparkline renders values on a fixed 0-100 scale as one line of ASCII.
func Sparkline(values []float64) string {
	var b strings.Builder
	top := float64(len(sparkChars) - 1)
	for _, v := range values {
		idx := int(math.Round(math.Max(0, math.Min(100, v)) / 100 * top))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// tail keeps the newest values that fit in width.
func tail(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	return values[len(values)-width:]
}

// RenderTrend prints smoothed accuracy and clearance sparklines, oldest first.
func RenderTrend(w io.Writer, r Report, totalWidth int) error {
	if len(r.Chronological) == 0 {
		return nil
	}
	width := totalWidth - trendLabelWidth
	if width < 10 {
		width = 10
	}
	acc := tail(MovingAverage(r.AccuracySeries(), r.Window), width)
	clr := tail(MovingAverage(r.ClearanceSeries(), r.Window), width)

	if _, err := fmt.Fprintf(w, "Trend (moving average of %d)\n", max(r.Window, 1)); err != nil {
		return err
	}
	rows := []struct {
		label  string
		values []float64
	}{
		{"Accuracy ", acc},
		{"Clearance", clr},
	}
	for _, row := range rows {
		last := 0.0
		if len(row.values) > 0 {
			last = row.values[len(row.values)-1]
		}
		if _, err := fmt.Fprintf(w, "%s %s %s%%\n", row.label, Sparkline(row.values), FormatPercent1(Round1(last))); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
