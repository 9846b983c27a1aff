// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Coach    CoachConfig    `toml:"coach"`
	Location LocationConfig `toml:"location"`
	Log      LogConfig      `toml:"log"`
	Export   ExportConfig   `toml:"export"`
}

// CoachConfig maps coaching-feedback settings.
type CoachConfig struct {
	Model       *string   `toml:"model"`
	Temperature *float64  `toml:"temperature"`
	MaxTokens   *int      `toml:"max-tokens"`
	Timeout     *Duration `toml:"timeout"`
	APIKey      *string   `toml:"api-key"`
}

// LocationConfig maps the location lookup settings.
type LocationConfig struct {
	Lookup      *bool   `toml:"lookup"`
	IPInfoToken *string `toml:"ipinfo-token"`
}

// LogConfig maps log output settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// ExportConfig maps CSV export settings.
type ExportConfig struct {
	Dir *string `toml:"dir"`
}

// Duration decodes TOML strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ResolveAPIKey returns the Gemini key, preferring the environment over the file.
func (c CoachConfig) ResolveAPIKey() string {
	for _, name := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	if c.APIKey != nil {
		return strings.TrimSpace(*c.APIKey)
	}
	return ""
}
