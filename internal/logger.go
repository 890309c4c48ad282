package internal

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/tuxx/goxkb/xkb"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	// LevelDebug for detailed debug information
	LevelDebug LogLevel = iota
	// LevelInfo for general operational information
	LevelInfo
	// LevelWarning for potentially problematic situations
	LevelWarning
	// LevelError for error conditions
	LevelError
	// LevelNone disables all logging
	LevelNone
)

var levelTags = [...]string{
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarning: "WARN",
	LevelError:   "ERROR",
	LevelNone:    "NONE",
}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelNone {
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
	return levelTags[l]
}

// Xkb is the libxkbcommon level that reports the same severities. The
// library has no "off" level; LevelNone keeps only critical messages.
func (l LogLevel) Xkb() xkb.LogLevel {
	switch {
	case l <= LevelDebug:
		return xkb.LogLevelDebug
	case l == LevelInfo:
		return xkb.LogLevelInfo
	case l == LevelWarning:
		return xkb.LogLevelWarning
	case l == LevelError:
		return xkb.LogLevelError
	}
	return xkb.LogLevelCritical
}

// ParseLogLevel maps a configuration value to a LogLevel
func ParseLogLevel(name string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "none":
		return LevelNone, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// Log output goes to stderr; stdout carries keymaps and key traces.
var logState = struct {
	sync.Mutex
	level  LogLevel
	debug  bool
	logger *log.Logger
}{
	level:  LevelInfo,
	logger: log.New(os.Stderr, "", 0),
}

// InitLogger sets the level. Debug mode forces LevelDebug and prefixes
// lines with a timestamp and the calling file.
func InitLogger(level LogLevel, debugEnabled bool) {
	logState.Lock()
	defer logState.Unlock()

	logState.level = level
	logState.debug = debugEnabled
	flags := 0
	if debugEnabled {
		logState.level = LevelDebug
		flags = log.Ltime | log.Lmicroseconds | log.Lshortfile
	}
	logState.logger.SetFlags(flags)
}

// CurrentLogLevel returns the level set by InitLogger
func CurrentLogLevel() LogLevel {
	logState.Lock()
	defer logState.Unlock()
	return logState.level
}

// SetLogOutput redirects log output, mainly for tests
func SetLogOutput(w io.Writer) {
	logState.logger.SetOutput(w)
}

// logf writes one line for the exported log functions. Debug lines need
// debug mode as well as the level.
func logf(level LogLevel, format string, args ...interface{}) {
	logState.Lock()
	enabled := level >= logState.level && (level > LevelDebug || logState.debug)
	logState.Unlock()
	if !enabled {
		return
	}

	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	// depth 3: Output, logf, the exported function
	logState.logger.Output(3, level.String()+": "+strings.TrimRight(message, "\n"))
}

// Debug logs debug level messages
func Debug(format string, args ...interface{}) { logf(LevelDebug, format, args...) }

// Info logs info level messages
func Info(format string, args ...interface{}) { logf(LevelInfo, format, args...) }

// Warn logs warning level messages
func Warn(format string, args ...interface{}) { logf(LevelWarning, format, args...) }

// Error logs error level messages
func Error(format string, args ...interface{}) { logf(LevelError, format, args...) }

// Fatal logs a fatal error message and exits the program
func Fatal(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	logState.logger.Output(2, "FATAL: "+strings.TrimRight(message, "\n"))
	os.Exit(1)
}
