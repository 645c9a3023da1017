// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package logging writes structured logs to a per-run file. The terminal
// belongs to the TUI, so nothing is logged to stdout or stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDir is where log files are created, relative to the working directory.
const DefaultDir = ".v2v-overview/logs"

// Logger logs one command run to a file.
type Logger struct {
	zerolog.Logger
	file      *os.File
	startTime time.Time
	command   string
}

// New creates a logger for a command run in DefaultDir.
func New(command, level string) (*Logger, error) {
	return NewInDir(DefaultDir, command, level)
}

// NewInDir creates a logger whose file lives in dir.
func NewInDir(dir, command, level string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02-150405")
	logPath := filepath.Join(dir, fmt.Sprintf("%s-%s.log", command, timestamp))

	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		file.Close()
		return nil, err
	}

	l := &Logger{
		file:      file,
		startTime: time.Now(),
		command:   command,
	}
	l.writeHeader()
	l.Logger = zerolog.New(file).Level(lvl).With().Timestamp().Str("command", command).Logger()
	return l, nil
}

// ParseLevel maps a config level name to a zerolog level. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

func (l *Logger) writeHeader() {
	fmt.Fprintf(l.file, "# v2v-overview %s started %s\n", l.command, l.startTime.Format(time.RFC3339))
}

// Z returns the underlying zerolog logger. A nil Logger yields a disabled one.
func (l *Logger) Z() zerolog.Logger {
	if l == nil || l.file == nil {
		return zerolog.Nop()
	}
	return l.Logger
}

// Close writes a footer, closes the file and returns its path.
func (l *Logger) Close() string {
	if l == nil || l.file == nil {
		return ""
	}
	l.Logger.Info().Dur("duration", time.Since(l.startTime).Round(time.Millisecond)).Msg("completed")

	path := l.file.Name()
	l.file.Close()
	l.file = nil
	return path
}

// NewWriter returns a zerolog logger writing to w, for tests and headless runs.
func NewWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
