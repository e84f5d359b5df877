package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how verbosely a Logger writes.
type Options struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	// Quiet disables console output. File output is unaffected.
	Quiet bool `yaml:"quiet"`
}

// Logger provides leveled, printf-style logging on top of zap.
type Logger struct {
	serviceName string
	version     string

	zl    *zap.Logger
	level zap.AtomicLevel
	file  *lumberjack.Logger
}

// New creates a console logger at info level.
func New(serviceName, version string) *Logger {
	return NewWithOptions(serviceName, version, Options{Level: "info"})
}

// NewWithOptions creates a logger with a console core and, when File is set,
// a JSON core rotated by lumberjack.
func NewWithOptions(serviceName, version string, opts Options) *Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if lvl, err := zapcore.ParseLevel(strings.ToLower(opts.Level)); err == nil && opts.Level != "" {
		level.SetLevel(lvl)
	}

	var cores []zapcore.Core
	if !opts.Quiet {
		consoleConfig := zap.NewDevelopmentEncoderConfig()
		consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		if isTerminal() {
			consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			consoleConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stderr), level))
	}

	var file *lumberjack.Logger
	if opts.File != "" {
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 7),
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(file),
			level,
		))
	}

	zl := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddCallerSkip(2),
		zap.AddStacktrace(zap.ErrorLevel),
	).Named(serviceName)
	if version != "" {
		zl = zl.With(zap.String("version", version))
	}

	return &Logger{
		serviceName: serviceName,
		version:     version,
		zl:          zl,
		level:       level,
		file:        file,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zap.NewNop(), level: zap.NewAtomicLevel()}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// isTerminal checks if we're outputting to a terminal (for color support)
func isTerminal() bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	fileInfo, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// Named returns a child logger for a component of the service.
func (l *Logger) Named(component string) *Logger {
	child := *l
	child.zl = l.zl.Named(component)
	return &child
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l.level.SetLevel(lvl)
	return nil
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level string) bool {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return false
	}
	return l.level.Enabled(lvl)
}

func (l *Logger) log(level zapcore.Level, message string, fields []zap.Field) {
	if ce := l.zl.Check(level, message); ce != nil {
		ce.Write(fields...)
	}
}

func format(message string, args []interface{}) string {
	if len(args) > 0 {
		return fmt.Sprintf(message, args...)
	}
	return message
}

// Debug logs a debug message with optional formatting
func (l *Logger) Debug(message string, args ...interface{}) {
	l.log(zapcore.DebugLevel, format(message, args), nil)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(zapcore.DebugLevel, fmt.Sprintf(format, args...), nil)
}

// Info logs an info message with optional formatting
func (l *Logger) Info(message string, args ...interface{}) {
	l.log(zapcore.InfoLevel, format(message, args), nil)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(zapcore.InfoLevel, fmt.Sprintf(format, args...), nil)
}

// Warn logs a warning message with optional formatting
func (l *Logger) Warn(message string, args ...interface{}) {
	l.log(zapcore.WarnLevel, format(message, args), nil)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(zapcore.WarnLevel, fmt.Sprintf(format, args...), nil)
}

// Error logs an error message with optional formatting
func (l *Logger) Error(message string, args ...interface{}) {
	l.log(zapcore.ErrorLevel, format(message, args), nil)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(zapcore.ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// Fatalf logs a formatted fatal message and exits
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.log(zapcore.FatalLevel, fmt.Sprintf(format, args...), nil)
}

// WithFields returns a context that attaches fields to every message.
func (l *Logger) WithFields(fields map[string]string) *LogContext {
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.String(k, v))
	}
	return &LogContext{logger: l, fields: zf}
}

// Rotate closes the current log file and opens a new one.
func (l *Logger) Rotate() {
	if l.file == nil {
		return
	}
	if err := l.file.Rotate(); err != nil {
		l.Warn("Log rotation failed: %v", err)
	}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

// LogContext provides field-based logging
type LogContext struct {
	logger *Logger
	fields []zap.Field
}

func (c *LogContext) Debug(message string, args ...interface{}) {
	c.logger.log(zapcore.DebugLevel, format(message, args), c.fields)
}

func (c *LogContext) Info(message string, args ...interface{}) {
	c.logger.log(zapcore.InfoLevel, format(message, args), c.fields)
}

func (c *LogContext) Warn(message string, args ...interface{}) {
	c.logger.log(zapcore.WarnLevel, format(message, args), c.fields)
}

func (c *LogContext) Error(message string, args ...interface{}) {
	c.logger.log(zapcore.ErrorLevel, format(message, args), c.fields)
}
