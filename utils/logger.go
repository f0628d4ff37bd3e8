package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Log levels written to the activity log
const (
	LevelInfo    = "INFO"
	LevelWarning = "WARNING"
	LevelError   = "ERROR"
)

// ActivityLogger appends "[YYYY-MM-DD HH:MM:SS] [LEVEL] message" lines to a file
type ActivityLogger struct {
	mu     sync.Mutex
	logger *log.Logger
	closer io.Closer
	now    func() time.Time
}

// NewActivityLogger opens (creating if needed) the log file in append mode
func NewActivityLogger(path string) (*ActivityLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	l := NewActivityLoggerWriter(file)
	l.closer = file
	return l, nil
}

// NewActivityLoggerWriter logs to an arbitrary writer
func NewActivityLoggerWriter(w io.Writer) *ActivityLogger {
	return &ActivityLogger{
		logger: log.New(w, "", 0),
		now:    time.Now,
	}
}

// Log writes one line at the given level
func (l *ActivityLogger) Log(level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := l.now().Format("2006-01-02 15:04:05")
	l.logger.Printf("[%s] [%s] %s", timestamp, level, message)
}

func (l *ActivityLogger) Info(format string, args ...interface{}) {
	l.Log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *ActivityLogger) Warning(format string, args ...interface{}) {
	l.Log(LevelWarning, fmt.Sprintf(format, args...))
}

func (l *ActivityLogger) Error(format string, args ...interface{}) {
	l.Log(LevelError, fmt.Sprintf(format, args...))
}

// Close closes the underlying file, if any
func (l *ActivityLogger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
