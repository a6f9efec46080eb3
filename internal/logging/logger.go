// Package logging provides config-driven categorized logging for gradegen.
// Each category is a named child of one zap logger.
// Logging is controlled by debug_mode in the config - when false, no logs are written,
// so prompts and results on stdout are never interleaved with log lines.
package logging

import (
	"fmt"
	"sync"
	"time"

	"gradegen/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config resolution
	CategorySession   Category = "session"   // Session lifecycle
	CategoryCollector Category = "collector" // Field validation and appends
	CategoryGrading   Category = "grading"   // Aggregation and evaluation
	CategoryReport    Category = "report"    // Result rendering
	CategoryUI        Category = "ui"        // Interactive form
)

var (
	root     = zap.NewNop()
	settings config.LoggingConfig
	mu       sync.RWMutex
)

// Initialize builds the root logger from cfg.
// Should be called once at startup; calling it again replaces the logger.
func Initialize(cfg config.LoggingConfig) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	old := root
	root = l
	settings = cfg
	mu.Unlock()

	_ = old.Sync()

	if cfg.DebugMode {
		Get(CategoryBoot).Debug("logging initialized",
			zap.String("level", cfg.Level),
			zap.String("format", cfg.Format),
			zap.Int("category_filters", len(cfg.Categories)),
		)
	}
	return nil
}

// New builds a zap logger for cfg without installing it.
// Debug mode off yields a no-op logger.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	if !cfg.DebugMode {
		return zap.NewNop(), nil
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Level != "" {
		var err error
		level, err = zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	zc := zap.NewProductionConfig()
	if cfg.Format != "json" {
		zc = zap.NewDevelopmentConfig()
		zc.Development = false
	}
	zc.Level = level
	zc.Sampling = nil
	zc.OutputPaths = []string{"stderr"}
	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
	}
	zc.ErrorOutputPaths = []string{"stderr"}

	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// IsDebugMode returns whether debug logging is enabled
func IsDebugMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return settings.DebugMode
}

// Get returns the logger for the given category.
// Returns a no-op logger if debug mode is disabled or the category is disabled.
func Get(category Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if !settings.IsCategoryEnabled(string(category)) {
		return zap.NewNop()
	}
	return root.Named(string(category))
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() {
	mu.RLock()
	l := root
	mu.RUnlock()
	_ = l.Sync()
}

// Reset restores the no-op logger.
func Reset() {
	mu.Lock()
	old := root
	root = zap.NewNop()
	settings = config.LoggingConfig{}
	mu.Unlock()
	_ = old.Sync()
}

// NewSessionID returns an identifier correlating every log line of one session.
func NewSessionID() string {
	return uuid.NewString()
}

// Timer measures one operation and logs its duration on Stop.
type Timer struct {
	logger *zap.Logger
	op     string
	start  time.Time
}

// StartTimer begins timing op on the given category.
func StartTimer(category Category, op string) *Timer {
	return &Timer{logger: Get(category), op: op, start: time.Now()}
}

// Stop logs the elapsed time and returns it.
func (t *Timer) Stop(fields ...zap.Field) time.Duration {
	elapsed := time.Since(t.start)
	t.logger.Debug(t.op, append(fields, zap.Duration("elapsed", elapsed))...)
	return elapsed
}
