// Package export writes sessions as CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/verte-zerg/ontarget/internal/model"
	"github.com/verte-zerg/ontarget/internal/stats"
)

// Header is the first row of every export.
var Header = []string{"Date", "Location", "Drill", "Foot", "Attempts", "Success", "Accuracy (%)", "Longest(ft)"}

// WriteCSV writes the header and one row per rep of s.
func WriteCSV(w io.Writer, s model.Session) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range s.Reps {
		if err := cw.Write(row(s, r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(s model.Session, r model.Rep) []string {
	foot := ""
	if f, ok := r.StrikingFoot(); ok {
		foot = string(f)
	}
	longest := ""
	if d, ok := r.Distance(); ok {
		longest = stats.FormatDistance(d)
	}
	return []string{
		s.Date,
		s.Location,
		r.ExerciseName,
		foot,
		strconv.Itoa(r.ShotsTaken),
		strconv.Itoa(r.ShotsMade),
		stats.RepAccuracyString(r),
		longest,
	}
}

// FileName returns "{appTitle}_{date}.csv" with path separators removed.
func FileName(appTitle, date string) string {
	clean := strings.NewReplacer("/", "-", "\\", "-", string(os.PathSeparator), "-")
	return clean.Replace(appTitle) + "_" + clean.Replace(date) + ".csv"
}

// WriteFile writes the export of s into dir and returns the file path.
func WriteFile(dir, appTitle string, s model.Session) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, FileName(appTitle, s.Date))
	tmpFile, err := os.CreateTemp(dir, "export-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := WriteCSV(tmpFile, s); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
