// Package logging builds the application's zap logger.
//
// The TUI owns the terminal, so log output goes to a rotating file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params configures New.
type Params struct {
	File    string
	Level   string
	Verbose bool
}

// ParseLevel maps a config level name to a zap level. Unknown names are errors.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// New returns a JSON logger writing to p.File through lumberjack.
// An empty file path yields a no-op logger.
func New(p Params) (*zap.Logger, error) {
	level, err := ParseLevel(p.Level)
	if err != nil {
		return nil, err
	}
	if p.Verbose {
		level = zapcore.DebugLevel
	}
	if p.File == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(p.File), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	writer := &lumberjack.Logger{
		Filename:   p.File,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		Compress:   true,
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(writer),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core), nil
}
