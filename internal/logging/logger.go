package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity of a log message
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// ParseLevel converts a config string into a LogLevel
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LogLevelDebug, nil
	case "", "INFO":
		return LogLevelInfo, nil
	case "WARN", "WARNING":
		return LogLevelWarn, nil
	case "ERROR":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case LogLevelDebug:
		return logrus.DebugLevel
	case LogLevelWarn:
		return logrus.WarnLevel
	case LogLevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Options configures the process-wide log output
type Options struct {
	Level      LogLevel
	File       string // Optional rotating log file
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	NoColors   bool
	ShowCaller bool
	Output     io.Writer // Defaults to os.Stderr
}

var (
	base   *logrus.Logger
	baseMu sync.RWMutex
)

// Init configures the shared logrus logger. It is called once by the
// command at startup; components created before or after pick it up.
func Init(opts Options) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(opts.Level.logrusLevel())
	logger.SetFormatter(&formatter.Formatter{
		NoColors:        opts.NoColors,
		TimestampFormat: "2006-01-02 15:04:05.000",
		FieldsOrder:     []string{"component", "cycle"},
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, s[len(s)-1])
		},
	})

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	writers := []io.Writer{out}
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    orDefault(opts.MaxSizeMB, 20),
			MaxAge:     orDefault(opts.MaxAgeDays, 7),
			MaxBackups: orDefault(opts.MaxBackups, 3),
		})
	}
	logger.SetOutput(io.MultiWriter(writers...))
	logger.SetReportCaller(opts.ShowCaller)

	baseMu.Lock()
	base = logger
	baseMu.Unlock()
	return logger
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func root() *logrus.Logger {
	baseMu.RLock()
	logger := base
	baseMu.RUnlock()
	if logger != nil {
		return logger
	}
	return Init(Options{Level: LogLevelInfo})
}

// Logger provides structured logging for a single component
type Logger struct {
	component string
	fields    logrus.Fields
}

// NewLogger creates a new logger for a specific component
func NewLogger(component string) *Logger {
	return &Logger{component: component}
}

// Component returns the component name the logger was created with
func (l *Logger) Component() string {
	return l.component
}

func (l *Logger) entry(context map[string]interface{}) *logrus.Entry {
	e := root().WithField("component", l.component)
	if len(l.fields) > 0 {
		e = e.WithFields(l.fields)
	}
	if len(context) > 0 {
		e = e.WithFields(logrus.Fields(context))
	}
	return e
}

// Debug logs a debug message
func (l *Logger) Debug(message string) {
	l.entry(nil).Debug(message)
}

// DebugWithContext logs a debug message with context
func (l *Logger) DebugWithContext(message string, context map[string]interface{}) {
	l.entry(context).Debug(message)
}

// Info logs an info message
func (l *Logger) Info(message string) {
	l.entry(nil).Info(message)
}

// InfoWithContext logs an info message with context
func (l *Logger) InfoWithContext(message string, context map[string]interface{}) {
	l.entry(context).Info(message)
}

// Warn logs a warning message
func (l *Logger) Warn(message string) {
	l.entry(nil).Warn(message)
}

// WarnWithContext logs a warning message with context
func (l *Logger) WarnWithContext(message string, context map[string]interface{}) {
	l.entry(context).Warn(message)
}

// Error logs an error message
func (l *Logger) Error(message string, err error) {
	l.entry(nil).WithError(err).Error(message)
}

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(message string, err error, context map[string]interface{}) {
	l.entry(context).WithError(err).Error(message)
}

// WithContext returns a logger that adds the given fields to every entry
func (l *Logger) WithContext(context map[string]interface{}) *Logger {
	fields := make(logrus.Fields, len(l.fields)+len(context))
	for k, v := range l.fields {
		fields[k] = v
	}
	for k, v := range context {
		fields[k] = v
	}
	return &Logger{component: l.component, fields: fields}
}
