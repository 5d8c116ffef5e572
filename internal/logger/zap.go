package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger. Children made with Named share the
// parent's level.
type Logger struct {
	*zap.SugaredLogger
	level  zap.AtomicLevel
	format string
}

// toZapLevel maps a level name to zap; unknown names mean debug.
func toZapLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.DebugLevel
	}
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	if format == JSONFormat {
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.TimeKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func newZapLogger(levelStr, format string) *Logger {
	return newZapLoggerAt(zap.NewAtomicLevelAt(toZapLevel(levelStr)), format)
}

func newZapLoggerAt(level zap.AtomicLevel, format string) *Logger {
	core := zapcore.NewCore(newEncoder(format), zapcore.Lock(os.Stdout), level)
	return &Logger{
		SugaredLogger: zap.New(core).Sugar(),
		level:         level,
		format:        format,
	}
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(levelStr string) {
	l.level.SetLevel(toZapLevel(levelStr))
}

// Level reports the current minimum level name.
func (l *Logger) Level() string {
	return l.level.Level().String()
}

// Named returns a child logger tagging every entry with component.
func (l *Logger) Named(component string) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With("component", component),
		level:         l.level,
		format:        l.format,
	}
}
