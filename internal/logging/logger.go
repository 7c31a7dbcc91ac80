// Package logging provides config-driven categorized logging for typedrift.
// Every subsystem logs through a named child of one zap root logger, and
// categories can be switched off individually from the config file.
// Logs go to stderr so that reports on stdout stay machine-readable.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot   Category = "boot"   // CLI startup, config resolution
	CategoryWorld  Category = "world"  // Source collection
	CategoryLocate Category = "locate" // Definition locating and extraction
	CategoryVerify Category = "verify" // Verification engine
	CategoryReport Category = "report" // Report rendering
	CategoryWatch  Category = "watch"  // File watching / re-runs
)

// Options configures the root logger.
type Options struct {
	Level      string          // debug, info, warn, error
	Format     string          // console, json
	Categories map[string]bool // per-category toggles; missing means enabled
}

var (
	disabledMu sync.RWMutex
	disabled   = map[Category]bool{}
)

// New builds the root logger. An empty level defaults to warn.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if strings.TrimSpace(opts.Level) != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Sampling = nil
	switch strings.ToLower(opts.Format) {
	case "", "console", "text":
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	case "json":
		config.Encoding = "json"
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	disabledMu.Lock()
	disabled = map[Category]bool{}
	for name, enabled := range opts.Categories {
		if !enabled {
			disabled[Category(name)] = true
		}
	}
	disabledMu.Unlock()

	return logger, nil
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	disabledMu.RLock()
	defer disabledMu.RUnlock()
	return !disabled[category]
}

// For returns the named child logger for a category.
// A nil parent or a disabled category yields a no-op logger.
func For(parent *zap.Logger, category Category) *zap.Logger {
	if parent == nil || !IsCategoryEnabled(category) {
		return zap.NewNop()
	}
	return parent.Named(string(category))
}

// WithRunID tags every entry of a run with a fresh correlation id.
func WithRunID(parent *zap.Logger) (*zap.Logger, string) {
	id := uuid.NewString()
	if parent == nil {
		return zap.NewNop(), id
	}
	return parent.With(zap.String("run_id", id)), id
}
