package journal

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/verte-zerg/ontarget/internal/model"
)

// ImageKind selects which embedded image a file replaces.
type ImageKind int

const (
	ProfileImage ImageKind = iota
	AppIcon
)

// Settings is the process-wide user settings container.
type Settings struct {
	mu       sync.RWMutex
	backend  SettingsBackend
	log      *zap.Logger
	settings model.UserSettings
}

// NewSettings returns a container holding defaults until Load is called.
func NewSettings(backend SettingsBackend, log *zap.Logger) *Settings {
	if log == nil {
		log = zap.NewNop()
	}
	return &Settings{backend: backend, log: log, settings: model.DefaultSettings()}
}

// Load reads persisted settings merged over defaults. On failure defaults stay in place.
func (s *Settings) Load(ctx context.Context) error {
	loaded, err := s.backend.LoadSettings(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.settings = model.DefaultSettings()
		s.log.Warn("failed to load settings, using defaults", zap.Error(err))
		return fmt.Errorf("failed to load settings: %w", err)
	}
	s.settings = loaded
	return nil
}

// Get returns a copy of the current settings.
func (s *Settings) Get() model.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSettings(s.settings)
}

// Update applies fn to a copy of the settings and persists the result.
func (s *Settings) Update(ctx context.Context, fn func(*model.UserSettings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneSettings(s.settings)
	fn(&next)
	next.ProfileZoom = model.ClampZoom(next.ProfileZoom)
	if err := s.backend.SaveSettings(ctx, next); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.settings = next
	return nil
}

// SetImage embeds the file at path as a data URL. A missing file or empty
// path leaves settings untouched. A new profile image resets the zoom.
func (s *Settings) SetImage(ctx context.Context, kind ImageKind, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("image file not found, ignoring", zap.String("path", path))
			return nil
		}
		return fmt.Errorf("failed to read image: %w", err)
	}
	url := DataURL(data)
	return s.Update(ctx, func(u *model.UserSettings) {
		switch kind {
		case ProfileImage:
			u.ProfileImage = &url
			u.ProfileZoom = 1
		case AppIcon:
			u.AppIcon = &url
		}
	})
}

// DataURL encodes data as a base64 data URL with a sniffed content type.
func DataURL(data []byte) string {
	return "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func cloneSettings(in model.UserSettings) model.UserSettings {
	out := in
	if in.ProfileImage != nil {
		v := *in.ProfileImage
		out.ProfileImage = &v
	}
	if in.AppIcon != nil {
		v := *in.AppIcon
		out.AppIcon = &v
	}
	return out
}
