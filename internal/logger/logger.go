// Package logger provides the shared structured logger for the triage
// pipeline. It wraps a zap logger behind package-level functions so
// components log without threading a logger through every constructor.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Init installs the process-wide logger. Verbose selects the human
// readable development encoder; otherwise production JSON is used.
func Init(verbose bool) error {
	var built *zap.Logger
	var err error
	if verbose {
		built, err = zap.NewDevelopment()
	} else {
		built, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	mu.Lock()
	log = built
	mu.Unlock()
	return nil
}

// Set replaces the process-wide logger. Useful for tests.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	log = l
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = log.Sync()
}

// Debug logs at debug level.
func Debug(msg string, fields ...zap.Field) {
	mu.RLock()
	defer mu.RUnlock()
	log.Debug(msg, fields...)
}

// Info logs at info level.
func Info(msg string, fields ...zap.Field) {
	mu.RLock()
	defer mu.RUnlock()
	log.Info(msg, fields...)
}

// Warn logs at warn level.
func Warn(msg string, fields ...zap.Field) {
	mu.RLock()
	defer mu.RUnlock()
	log.Warn(msg, fields...)
}

// Error logs at error level.
func Error(msg string, fields ...zap.Field) {
	mu.RLock()
	defer mu.RUnlock()
	log.Error(msg, fields...)
}
