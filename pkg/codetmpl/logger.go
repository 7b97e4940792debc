package codetmpl

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var logLevels = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
	"off":   zerolog.Disabled,
}

var (
	globalLogger      zerolog.Logger
	globalLoggerMutex sync.RWMutex
	globalLoggerOnce  sync.Once
)

func initGlobalLogger() {
	globalLoggerOnce.Do(func() {
		config := GetGlobalConfig()
		globalLoggerMutex.Lock()
		globalLogger = NewLogger(os.Stderr, config.LogLevel)
		globalLoggerMutex.Unlock()
	})
}

func parseLogLevel(level string) zerolog.Level {
	if l, ok := logLevels[level]; ok {
		return l
	}
	return zerolog.InfoLevel
}

// NewLogger creates a library logger writing JSON events to w
func NewLogger(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = io.Discard
	}
	return zerolog.New(w).
		Level(parseLogLevel(level)).
		With().
		Timestamp().
		Str("component", "codetmpl").
		Logger()
}

// GetLogger returns the package logger
func GetLogger() *zerolog.Logger {
	initGlobalLogger()
	globalLoggerMutex.RLock()
	defer globalLoggerMutex.RUnlock()
	l := globalLogger
	return &l
}

// SetLogger replaces the package logger, e.g. to route events into an
// application's own zerolog output.
func SetLogger(logger zerolog.Logger) {
	initGlobalLogger()
	globalLoggerMutex.Lock()
	globalLogger = logger
	globalLoggerMutex.Unlock()
}

// UpdateLoggerFromConfig updates the package logger level from the current
// global configuration
func UpdateLoggerFromConfig() {
	initGlobalLogger()
	level := parseLogLevel(GetGlobalConfig().LogLevel)
	globalLoggerMutex.Lock()
	globalLogger = globalLogger.Level(level)
	globalLoggerMutex.Unlock()
}
