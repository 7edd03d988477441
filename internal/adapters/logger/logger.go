// Package logger implements a logging adapter using log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger *slog.Logger
	level  *slog.LevelVar
	output io.Writer
	file   *lumberjack.Logger
	mu     sync.RWMutex
}

// New creates a new Logger writing human-readable text to stderr at info level.
func New() *Logger {
	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)
	l := &Logger{level: level, output: os.Stderr}
	l.rebuild()
	return l
}

// rebuild recreates the handler for the current output. Callers hold mu or own l exclusively.
func (l *Logger) rebuild() {
	var w io.Writer = l.output
	if l.file != nil {
		w = io.MultiWriter(l.output, l.file)
	}
	l.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l.level}))
}

// SetOutput updates the logger's output destination. A nil writer selects stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetFile additionally writes every record to a size-rotated log file.
// An empty path stops writing to the file.
func (l *Logger) SetFile(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var closeErr error
	if l.file != nil {
		closeErr = l.file.Close()
		l.file = nil
	}
	if path != "" {
		l.file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
		}
	}
	l.rebuild()
	return closeErr
}

// SetVerbose enables debug records.
func (l *Logger) SetVerbose(verbose bool) {
	if verbose {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	return l.SetFile("")
}

// Debug logs a diagnostic message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its cause chain, attaching zerr metadata as attributes.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	zerr.Log(context.Background(), l.logger, err)
}

var _ ports.Logger = (*Logger)(nil)
