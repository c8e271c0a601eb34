package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/natefinch/lumberjack"
)

// Level represents logging severity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var levelNames = map[Level]string{
	LevelError: "error",
	LevelWarn:  "warn",
	LevelInfo:  "info",
	LevelDebug: "debug",
	LevelTrace: "trace",
}

var levelTags = map[Level]string{
	LevelError: "ERR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DBG",
	LevelTrace: "TRC",
}

var (
	mu        sync.RWMutex
	level     = LevelWarn
	verbosity = 0
	logger    = log.New(os.Stderr, "radiostore ", log.LstdFlags|log.Lmsgprefix)
	rotating  *lumberjack.Logger
)

// SetOutput redirects log lines to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if rotating != nil {
		_ = rotating.Close()
		rotating = nil
	}
	logger.SetOutput(w)
}

// RotateTo sends log lines to a size-rotated file at path.
// Calling it again with the same path keeps the open file.
func RotateTo(path string) {
	mu.Lock()
	defer mu.Unlock()
	if rotating != nil {
		if rotating.Filename == path {
			return
		}
		_ = rotating.Close()
	}
	rotating = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28,
	}
	logger.SetOutput(rotating)
}

// SetVerbosity configures logger output from count of -v flags (0-4).
func SetVerbosity(count int) {
	count = max(0, min(count, 4))

	mu.Lock()
	defer mu.Unlock()
	verbosity = count
	switch count {
	case 0:
		level = LevelWarn
	case 1:
		level = LevelInfo
	case 2:
		level = LevelDebug
	default:
		level = LevelTrace
	}
}

// Verbosity returns the stored -v count.
func Verbosity() int {
	mu.RLock()
	defer mu.RUnlock()
	return verbosity
}

// LevelName returns current level label.
func LevelName() string {
	mu.RLock()
	defer mu.RUnlock()
	return level.String()
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseLevel returns Level + verbosity count from string.
func ParseLevel(s string) (Level, int, error) {
	switch strings.ToLower(s) {
	case "error":
		return LevelError, 0, nil
	case "warn", "warning":
		return LevelWarn, 0, nil
	case "info":
		return LevelInfo, 1, nil
	case "debug":
		return LevelDebug, 2, nil
	case "trace":
		return LevelTrace, 4, nil
	default:
		return LevelWarn, Verbosity(), fmt.Errorf("unknown level %s", s)
	}
}

func logf(l Level, format string, args ...any) {
	mu.RLock()
	enabled := l <= level
	mu.RUnlock()
	if !enabled {
		return
	}
	logger.Printf("[%s] %s", levelTags[l], fmt.Sprintf(format, args...))
}

// Errorf always prints.
func Errorf(format string, args ...any) {
	logf(LevelError, format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

func Infof(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

func Debugf(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

func Tracef(format string, args ...any) {
	logf(LevelTrace, format, args...)
}
