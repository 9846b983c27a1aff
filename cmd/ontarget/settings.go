package main

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/verte-zerg/ontarget/internal/coach"
	"github.com/verte-zerg/ontarget/internal/journal"
	"github.com/verte-zerg/ontarget/internal/model"
)

var settingKeys = []string{
	"app-title",
	"user-name",
	"birth-date",
	"theme-color",
	"profile-zoom",
	"profile-image",
	"app-icon",
}

var themeColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func splitAssignment(assignment string) (string, string, error) {
	key, value, ok := strings.Cut(assignment, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid setting %q (expected key=value)", assignment)
	}
	return strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value), nil
}

// applySetting validates and persists one key=value assignment.
func applySetting(ctx context.Context, settings *journal.Settings, assignment string) error {
	key, value, err := splitAssignment(assignment)
	if err != nil {
		return err
	}

	switch key {
	case "profile-image":
		return settings.SetImage(ctx, journal.ProfileImage, value)
	case "app-icon":
		return settings.SetImage(ctx, journal.AppIcon, value)
	}

	mutate, err := settingMutation(key, value)
	if err != nil {
		return err
	}
	if err := settings.Update(ctx, mutate); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func settingMutation(key, value string) (func(*model.UserSettings), error) {
	switch key {
	case "app-title":
		if value == "" {
			value = model.DefaultSettings().AppTitle
		}
		return func(s *model.UserSettings) { s.AppTitle = value }, nil
	case "user-name":
		return func(s *model.UserSettings) { s.UserName = value }, nil
	case "birth-date":
		if value != "" {
			if _, err := time.Parse(model.DateLayout, value); err != nil {
				return nil, fmt.Errorf("invalid birth-date %q (expected YYYY-MM-DD)", value)
			}
		}
		return func(s *model.UserSettings) { s.BirthDate = value }, nil
	case "theme-color":
		if !themeColorPattern.MatchString(value) {
			return nil, fmt.Errorf("invalid theme-color %q (expected #rrggbb)", value)
		}
		return func(s *model.UserSettings) { s.ThemeColor = value }, nil
	case "profile-zoom":
		zoom, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid profile-zoom %q (use a number)", value)
		}
		zoom = model.ClampZoom(zoom)
		return func(s *model.UserSettings) { s.ProfileZoom = zoom }, nil
	}
	return nil, fmt.Errorf("unknown setting %q (use one of: %s)", key, strings.Join(settingKeys, ", "))
}

func printSettings(w io.Writer, s model.UserSettings, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	imageState := func(v *string) string {
		if v == nil {
			return "(default)"
		}
		return "(custom)"
	}
	birth := s.BirthDate
	if age := coach.Age(s.BirthDate, now); age > 0 {
		birth = fmt.Sprintf("%s (age %d)", s.BirthDate, age)
	}
	rows := [][2]string{
		{"app-title", s.AppTitle},
		{"user-name", s.UserName},
		{"birth-date", birth},
		{"theme-color", s.ThemeColor},
		{"profile-zoom", strconv.FormatFloat(s.ProfileZoom, 'f', -1, 64)},
		{"profile-image", imageState(s.ProfileImage)},
		{"app-icon", imageState(s.AppIcon)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
