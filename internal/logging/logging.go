// Package logging configures the process-wide logrus logger.
//
// The dashboard runs in the alternate screen, so log output goes to a file
// under the config directory instead of stdout.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.RWMutex
	log = newDiscard()
)

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// ParseLevel maps a config level name to a logrus level, defaulting to info
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// New builds a logger writing to w
func New(level, format string, w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(ParseLevel(level))

	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			DisableColors:    true,
			QuoteEmptyFields: true,
		})
	}

	l.SetOutput(w)
	return l
}

// Init opens path for appending and installs it as the global logger.
// The returned closer must be called on shutdown.
func Init(level, format, path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	Set(New(level, format, f))
	return f, nil
}

// Set replaces the global logger
func Set(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = newDiscard()
	}
	log = l
}

// L returns the global logger. Before Init it discards everything.
func L() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Component returns an entry tagged with the component name
func Component(name string) *logrus.Entry {
	return L().WithField("component", name)
}
