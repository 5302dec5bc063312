package optio

import (
	"fmt"
	stdio "io"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts "debug", "info", "success", "warn" or "error".
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "success":
		return LevelSuccess, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// LogFormat defines the output format for log messages
type LogFormat int

const (
	LogFormatSymbols LogFormat = iota // ● ◆ ✓ ▲ ✗
	LogFormatTagged                   // [INFO] [SUCCESS] [WARN] [ERROR] [DEBUG]
	LogFormatPlain                    // No prefix
	LogFormatCustom                   // User-defined template
)

// Logger writes leveled, optionally colored lines through an IOManager.
// Warnings and errors go to the error writer by default.
type Logger struct {
	io           *IOManager
	format       LogFormat
	template     string
	prefixes     map[LogLevel]string
	minLevel     LogLevel
	withTime     bool
	timeFormat   string
	errorsStderr bool
	theme        Theme

	mu sync.Mutex
}

// NewLogger creates a new logger bound to the given IOManager
func NewLogger(io *IOManager) *Logger {
	return &Logger{
		io:           io,
		format:       LogFormatSymbols,
		errorsStderr: true,
		timeFormat:   "15:04:05",
		theme:        DefaultTheme(),
		prefixes:     symbolPrefixes(),
	}
}

func symbolPrefixes() map[LogLevel]string {
	return map[LogLevel]string{
		LevelDebug:   "●",
		LevelInfo:    "◆",
		LevelSuccess: "✓",
		LevelWarning: "▲",
		LevelError:   "✗",
	}
}

func taggedPrefixes() map[LogLevel]string {
	return map[LogLevel]string{
		LevelDebug:   "[DEBUG]",
		LevelInfo:    "[INFO]",
		LevelSuccess: "[SUCCESS]",
		LevelWarning: "[WARN]",
		LevelError:   "[ERROR]",
	}
}

// WithFormat sets the log format and returns the logger for chaining
func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	switch format {
	case LogFormatSymbols:
		l.prefixes = symbolPrefixes()
	case LogFormatTagged:
		l.prefixes = taggedPrefixes()
	case LogFormatPlain:
		l.prefixes = make(map[LogLevel]string)
	case LogFormatCustom:
	}
	return l
}

// WithTemplate sets a custom template for LogFormatCustom
// Template variables: {{.Level}}, {{.Time}}, {{.Message}}, {{.Prefix}}
func (l *Logger) WithTemplate(template string) *Logger {
	l.template = template
	l.format = LogFormatCustom
	return l
}

// WithLevel drops messages below level.
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.minLevel = level
	return l
}

// WithTimestamp enables or disables timestamp in log output
func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.withTime = enabled
	return l
}

// WithTimeFormat sets the time format (Go time format string)
func (l *Logger) WithTimeFormat(format string) *Logger {
	l.timeFormat = format
	return l
}

// ErrorsToStderr controls whether errors and warnings go to stderr
func (l *Logger) ErrorsToStderr(enabled bool) *Logger {
	l.errorsStderr = enabled
	return l
}

// WithTheme sets a custom theme for semantic colors
func (l *Logger) WithTheme(theme Theme) *Logger {
	l.theme = theme
	return l
}

// Log outputs a log message at the specified level
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if level < l.minLevel {
		return
	}
	line := l.formatMessage(level, fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.selectWriter(level), line)
}

// Raw writes line as is, without prefix, timestamp or color. The level
// still selects the writer and is subject to WithLevel.
func (l *Logger) Raw(level LogLevel, line string) {
	if level < l.minLevel {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.selectWriter(level), line)
}

func (l *Logger) formatMessage(level LogLevel, msg string) string {
	if l.format == LogFormatCustom && l.template != "" {
		out := l.template
		out = strings.ReplaceAll(out, "{{.Level}}", level.String())
		out = strings.ReplaceAll(out, "{{.Message}}", msg)
		out = strings.ReplaceAll(out, "{{.Prefix}}", l.prefixes[level])
		if strings.Contains(out, "{{.Time}}") {
			out = strings.ReplaceAll(out, "{{.Time}}", time.Now().Format(l.timeFormat))
		}
		return l.colorize(level, out)
	}

	if strings.TrimSpace(msg) == "" {
		return msg
	}

	parts := make([]string, 0, 3)
	if p := l.prefixes[level]; p != "" {
		parts = append(parts, p)
	}
	if l.withTime {
		parts = append(parts, "["+time.Now().Format(l.timeFormat)+"]")
	}
	parts = append(parts, msg)
	return l.colorize(level, strings.Join(parts, " "))
}

func (l *Logger) colorize(level LogLevel, text string) string {
	var s Style
	switch level {
	case LevelDebug:
		s = l.theme.Debug
	case LevelInfo:
		s = l.theme.Info
	case LevelSuccess:
		s = l.theme.Success
	case LevelWarning:
		s = l.theme.Warning
	case LevelError:
		s = l.theme.Error
	}
	return l.io.Sprint(s, text)
}

func (l *Logger) selectWriter(level LogLevel) stdio.Writer {
	if l.errorsStderr && (level == LevelError || level == LevelWarning) {
		return l.io.Err()
	}
	return l.io.Out()
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	l.Log(LevelDebug, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) {
	l.Log(LevelInfo, format, args...)
}

// Success logs a success message
func (l *Logger) Success(format string, args ...any) {
	l.Log(LevelSuccess, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...any) {
	l.Log(LevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.Log(LevelError, format, args...)
}
