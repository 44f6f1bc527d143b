package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.Mutex
	logger  = newDiscardLogger()
	logFile *os.File
)

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init opens the diagnostic log file. The TUI owns the terminal, so entries
// only go to the file; if it cannot be opened they fall back to stderr.
func Init(path, level string) error {
	mu.Lock()
	defer mu.Unlock()

	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if path == "" {
		path = filepath.Join("tmp", fmt.Sprintf("scrape-dash-%s.log", time.Now().Format("20060102-150405")))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		l.SetOutput(os.Stderr)
		logger = l
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		l.SetOutput(os.Stderr)
		logger = l
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	l.SetOutput(f)
	logger = l
	return nil
}

// SetOutput redirects log entries to w. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// WithFields returns an entry carrying fields for structured diagnostics
func WithFields(fields logrus.Fields) *logrus.Entry {
	mu.Lock()
	defer mu.Unlock()
	return logger.WithFields(fields)
}

// Log writes a log message
func Log(format string, v ...interface{}) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Infof(format, v...)
}

// LogError writes an error log message
func LogError(err error, format string, v ...interface{}) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.WithError(err).Errorf(format, v...)
}

// CloseLog closes the log file
func CloseLog() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger.SetOutput(io.Discard)
}
