// Package logging provides file-based debug logging for surf components.
// Every invocation gets a session ID; all components append to the same
// session log under ~/.surf/logs/ so command output stays clean for
// terminal use and scripting.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger writes structured log lines for one component to the shared
// session log file. All log methods write unconditionally; there is no
// level filtering.
type Logger struct {
	sessionID string
	component string
	file      *os.File
	logger    *log.Logger
	logPath   string
	mu        sync.Mutex
	closeOnce sync.Once
}

var (
	// sessionID identifies this process invocation in log file names.
	sessionID     string
	sessionIDOnce sync.Once

	// logDir is the directory where session log files live.
	logDir   string
	initOnce sync.Once
	initErr  error
)

func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

func initLogDirectory() error {
	initOnce.Do(func() {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			initErr = fmt.Errorf("failed to get home directory: %w", err)
			return
		}

		logDir = filepath.Join(homeDir, ".surf", "logs")
		if err := os.MkdirAll(logDir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
		}
	})
	return initErr
}

// NewLogger creates a logger for a specific component, writing to
// ~/.surf/logs/<session-id>-surf.log.
//
// If the log directory cannot be created or the log file cannot be opened,
// it returns a fallback logger that writes to stderr along with the error,
// so callers can detect fallback mode but keep logging.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, err), err
	}

	sessID := getSessionID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-surf.log", sessID))

	// Append mode: every component shares the session file.
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		wrapped := fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, wrapped), wrapped
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		file:      file,
		logger:    log.New(file, "", 0), // Timestamps are formatted in logf.
		logPath:   logPath,
	}, nil
}

// newFallbackLogger creates a stderr logger used when file logging fails.
func newFallbackLogger(component string, err error) *Logger {
	logger := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags)
	logger.Printf("WARNING: failed to initialize file logging, falling back to stderr: %v", err)

	return &Logger{
		sessionID: getSessionID(),
		component: component,
		logger:    logger,
	}
}

func (l *Logger) logf(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, v...)
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

// Printf logs a formatted message at info level.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.logf("INFO", format, v...)
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logf("DEBUG", format, v...)
}

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.logf("INFO", format, v...)
}

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logf("WARN", format, v...)
}

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logf("ERROR", format, v...)
}

// Writer returns an io.Writer for this logger's destination.
func (l *Logger) Writer() io.Writer {
	if l.file != nil {
		return l.file
	}
	return os.Stderr
}

// SessionID returns the invocation's session ID.
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path to the log file, empty in fallback mode.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}

// GetSessionID returns the current global session ID.
func GetSessionID() string {
	return getSessionID()
}

// GetLogDirectory returns the directory where logs are stored.
func GetLogDirectory() (string, error) {
	if err := initLogDirectory(); err != nil {
		return "", err
	}
	return logDir, nil
}
