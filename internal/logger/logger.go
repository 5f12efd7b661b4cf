// Package logger is the process-wide levelled logger. The level is held in a
// zap.AtomicLevel so it can be flipped at runtime by the LogLevel feature flag.
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	atom  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar = zap.NewNop().Sugar()
)

// Init builds the global logger at the given level. format is "json" (default)
// or "console".
func Init(level, format string) error {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "console", "dev", "development":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
	}
	atom.SetLevel(parseLevel(level))
	cfg.Level = atom

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	Use(l)
	return nil
}

// Use replaces the underlying zap logger. Level changes made through SetLevel
// only apply to loggers built by Init.
func Use(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = l.Sugar()
}

// SetLevel changes the level of the global logger. Unknown values fall back to info.
func SetLevel(level string) {
	atom.SetLevel(parseLevel(level))
}

// GetLevel returns the current level name.
func GetLevel() string {
	return atom.Level().String()
}

// DebugEnabled reports whether debug entries would be written.
func DebugEnabled() bool {
	return current().Desugar().Core().Enabled(zapcore.DebugLevel)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = current().Sync()
}

func Debugf(format string, args ...interface{}) { current().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { current().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { current().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { current().Errorf(format, args...) }

// Debugw, Infow, Warnw and Errorw log a message with structured key/value pairs.
func Debugw(msg string, kv ...interface{}) { current().Debugw(msg, kv...) }
func Infow(msg string, kv ...interface{})  { current().Infow(msg, kv...) }
func Warnw(msg string, kv ...interface{})  { current().Warnw(msg, kv...) }
func Errorw(msg string, kv ...interface{}) { current().Errorw(msg, kv...) }

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func parseLevel(level string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
