// Package log provides centralized console logging using the zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger
var baseLogger *zap.Logger

// Init initializes the package-level logger. Output goes to stdout in a
// human-readable console format; debug enables debug level and caller info.
func Init(debug bool) error {
	zapLogger, err := newConsoleLogger(debug)
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}
	baseLogger = zapLogger
	log = zapLogger.Sugar()
	return nil
}

func newConsoleLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.DisableCaller = true
		cfg.EncoderConfig.TimeKey = ""
	}
	return cfg.Build(zap.AddCallerSkip(1))
}

// GetZapLogger returns the base zap logger.
func GetZapLogger() *zap.Logger {
	if baseLogger == nil {
		// Fallback logger if not initialized
		baseLogger, _ = newConsoleLogger(false)
		if baseLogger == nil {
			baseLogger = zap.NewNop()
		}
		log = baseLogger.Sugar()
	}
	return baseLogger
}

// GetSugaredLogger returns the sugared logger instance.
func GetSugaredLogger() *zap.SugaredLogger {
	if log == nil {
		GetZapLogger()
	}
	return log
}

// SetLogger replaces the package-level logger. Tests use it with zaptest or
// observer loggers.
func SetLogger(l *zap.Logger) {
	baseLogger = l
	log = l.Sugar()
}

// With returns a child sugared logger carrying the given key/value pairs.
func With(args ...any) *zap.SugaredLogger {
	return GetSugaredLogger().With(args...)
}

// Sync flushes any buffered log entries.
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

func Debug(args ...any) { GetSugaredLogger().Debug(args...) }
func Debugf(template string, args ...any) { GetSugaredLogger().Debugf(template, args...) }
func Info(args ...any) { GetSugaredLogger().Info(args...) }
func Infof(template string, args ...any) { GetSugaredLogger().Infof(template, args...) }
func Warn(args ...any) { GetSugaredLogger().Warn(args...) }
func Warnf(template string, args ...any) { GetSugaredLogger().Warnf(template, args...) }
func Error(args ...any) { GetSugaredLogger().Error(args...) }
func Errorf(template string, args ...any) { GetSugaredLogger().Errorf(template, args...) }

// IsDebugEnabled reports whether debug entries are emitted.
func IsDebugEnabled() bool {
	return GetZapLogger().Core().Enabled(zapcore.DebugLevel)
}
