// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionLogger writes one interactive session's events to a JSON lines file.
// The terminal belongs to the UI, so nothing is logged to stderr meanwhile.
type SessionLogger struct {
	file      *os.File
	logger    zerolog.Logger
	startTime time.Time
	id        string
}

// NewSessionLogger creates <dir>/<command>-<timestamp>.log.
func NewSessionLogger(dir, command string, level zerolog.Level) (*SessionLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02-150405")
	logPath := filepath.Join(dir, fmt.Sprintf("%s-%s.log", command, timestamp))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	l := &SessionLogger{
		file:      file,
		startTime: time.Now(),
		id:        uuid.NewString(),
	}
	l.logger = zerolog.New(file).Level(level).With().
		Timestamp().
		Str("session", l.id).
		Str("command", command).
		Logger()

	l.logger.Info().Msg("session started")
	return l, nil
}

// Logger returns the session logger, or a no-op logger for a nil receiver.
func (l *SessionLogger) Logger() zerolog.Logger {
	if l == nil || l.file == nil {
		return zerolog.Nop()
	}
	return l.logger
}

// Close writes the closing event, closes the file and returns its path.
func (l *SessionLogger) Close() string {
	if l == nil || l.file == nil {
		return ""
	}

	l.logger.Info().
		Dur("duration", time.Since(l.startTime).Round(time.Millisecond)).
		Msg("session ended")

	path := l.file.Name()
	l.file.Close()
	return path
}
