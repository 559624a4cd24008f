package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides leveled, printf-style logging throughout the application.
type Logger struct {
	s *zap.SugaredLogger
}

// NewLogger creates a colored console Logger at the given level
// (debug, info, warn or error; anything else means info).
func NewLogger(level string) *Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.EncodeCaller = nil

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout),
			zap.LevelEnablerFunc(func(l zapcore.Level) bool {
				return l >= parseLevel(level) && l < zapcore.ErrorLevel
			})),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr),
			zap.LevelEnablerFunc(func(l zapcore.Level) bool {
				return l >= zapcore.ErrorLevel
			})),
	)
	return &Logger{s: zap.New(core).Sugar()}
}

// NewNopLogger returns a Logger that discards everything. Used by tests.
func NewNopLogger() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *Logger) Info(format string, args ...any) {
	l.s.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.s.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.s.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.s.Debugf(format, args...)
}

// Sync flushes buffered entries; call it before exit.
func (l *Logger) Sync() error {
	return l.s.Sync()
}
