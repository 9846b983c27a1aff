package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/ontarget/internal/config"
	"github.com/verte-zerg/ontarget/internal/journal"
	"github.com/verte-zerg/ontarget/internal/model"
	"github.com/verte-zerg/ontarget/internal/store"
)

func TestResolveSession(t *testing.T) {
	sessions := []model.Session{
		{ID: "abc123", Date: "2024-05-02"},
		{ID: "abd456", Date: "2024-05-01"},
	}

	got, err := resolveSession(sessions, "latest")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.ID)

	got, err = resolveSession(sessions, "abd456")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", got.Date)

	got, err = resolveSession(sessions, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.ID)

	_, err = resolveSession(sessions, "ab")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveSession(sessions, "zzz")
	assert.ErrorContains(t, err, "not found")

	_, err = resolveSession(nil, "latest")
	assert.ErrorIs(t, err, errNoSessions)
}

func TestSettingMutationValidates(t *testing.T) {
	cases := []struct {
		key, value string
		wantErr    string
	}{
		{"birth-date", "15/06/2010", "birth-date"},
		{"theme-color", "green", "theme-color"},
		{"profile-zoom", "wide", "profile-zoom"},
		{"favorite-foot", "left", "unknown setting"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			_, err := settingMutation(tc.key, tc.value)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestApplySetting(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "ontarget.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	settings := journal.NewSettings(st, nil)
	require.NoError(t, settings.Load(ctx))

	require.NoError(t, applySetting(ctx, settings, "user-name = Sam"))
	require.NoError(t, applySetting(ctx, settings, "theme-color=#3366ff"))
	require.NoError(t, applySetting(ctx, settings, "profile-zoom=7"))
	require.NoError(t, applySetting(ctx, settings, "app-title="))
	require.NoError(t, applySetting(ctx, settings, "profile-image="+filepath.Join(t.TempDir(), "missing.png")))
	assert.Error(t, applySetting(ctx, settings, "user-name"))

	got := settings.Get()
	assert.Equal(t, "Sam", got.UserName)
	assert.Equal(t, "#3366ff", got.ThemeColor)
	assert.Equal(t, model.MaxProfileZoom, got.ProfileZoom)
	assert.Equal(t, "OnTarget", got.AppTitle)
	assert.Nil(t, got.ProfileImage)

	reloaded := journal.NewSettings(st, nil)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, "Sam", reloaded.Get().UserName)
}

func TestPrintSettings(t *testing.T) {
	s := model.DefaultSettings()
	s.BirthDate = "2010-06-15"
	var buf bytes.Buffer
	require.NoError(t, printSettings(&buf, s, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	out := buf.String()
	assert.Contains(t, out, "2010-06-15 (age 13)")
	assert.Contains(t, out, "#10b981")
	assert.Contains(t, out, "(default)")
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o600))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Coach.Model)
	assert.Nil(t, cfg.Location.Lookup)
}
