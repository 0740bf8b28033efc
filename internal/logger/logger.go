// Package logger provides the leveled logger used across tablekit.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// Log levels
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel converts a level name (case-insensitive) into a LogLevel
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO", "":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", name)
}

// sink is the state shared by a logger and the component loggers derived from it
type sink struct {
	mu         sync.Mutex
	level      LogLevel
	outputs    map[LogLevel][]io.Writer
	showFile   bool
	timeFormat string
}

// Logger writes leveled messages, optionally tagged with a component name
type Logger struct {
	*sink
	component string
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// GetLogger returns the default logger instance. It writes WARN and above to
// stderr until the level is changed.
func GetLogger() *Logger {
	once.Do(func() {
		defaultLogger = NewLogger(WARN)
		defaultLogger.SetShowFile(false)
		defaultLogger.AddOutput(DEBUG, os.Stderr)
	})
	return defaultLogger
}

// NewLogger creates a new logger instance with the specified minimum log level
func NewLogger(level LogLevel) *Logger {
	return &Logger{
		sink: &sink{
			level:      level,
			outputs:    make(map[LogLevel][]io.Writer),
			timeFormat: "2006-01-02 15:04:05",
			showFile:   true,
		},
	}
}

// With returns a logger sharing outputs and level that prefixes every message
// with component
func (l *Logger) With(component string) *Logger {
	if l.component != "" {
		component = l.component + "/" + component
	}
	return &Logger{sink: l.sink, component: component}
}

// SetLevel changes the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the minimum log level
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetTimeFormat sets the time format string used in log messages
func (l *Logger) SetTimeFormat(format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.timeFormat = format
}

// SetShowFile enables or disables showing file and line information in logs
func (l *Logger) SetShowFile(show bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showFile = show
}

// AddOutput adds an output writer receiving messages at level and above
func (l *Logger) AddOutput(level LogLevel, w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs[level] = append(l.outputs[level], w)
}

// AddFileOutput adds a file output for the specified log level
func (l *Logger) AddFileOutput(level LogLevel, filename string) error {
	// Ensure directory exists
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.AddOutput(level, file)
	return nil
}

// getCallerInfo returns the file and line number of the caller
func getCallerInfo() string {
	_, file, line, ok := runtime.Caller(4) // getCallerInfo, formatMessage, log, Debug/Info/..., caller
	if !ok {
		return "???:0"
	}
	// Get just the file name, not the full path
	file = filepath.Base(file)
	return fmt.Sprintf("%s:%d", file, line)
}

// formatMessage formats a log message with timestamp, level, component and caller info
func (l *Logger) formatMessage(level LogLevel, msg string) string {
	var b strings.Builder
	b.WriteString(time.Now().Format(l.timeFormat))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("]")
	if l.showFile {
		b.WriteString(" ")
		b.WriteString(getCallerInfo())
	}
	if l.component != "" {
		b.WriteString(" (")
		b.WriteString(l.component)
		b.WriteString(")")
	}
	b.WriteString(" - ")
	b.WriteString(msg)
	return b.String()
}

// log writes a message once to every writer registered at or below level
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	// Format the message
	var msg string
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	} else {
		msg = format
	}

	formattedMsg := l.formatMessage(level, msg)

	written := make(map[io.Writer]bool)
	for lvl := DEBUG; lvl <= level; lvl++ {
		for _, w := range l.outputs[lvl] {
			if written[w] {
				continue
			}
			written[w] = true
			fmt.Fprintln(w, formattedMsg)
		}
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// Global convenience functions that use the default logger

func Debug(format string, args ...interface{}) {
	GetLogger().Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	GetLogger().Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	GetLogger().Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	GetLogger().Error(format, args...)
}

// SetGlobalLevel sets the level for the default logger
func SetGlobalLevel(level LogLevel) {
	GetLogger().SetLevel(level)
}
