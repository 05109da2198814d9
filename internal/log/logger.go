// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package log provides the structured logger of the shouldmatch
// command.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Discard is a logger writing nothing.
var Discard = New(WithLevel(Silent), WithWriter(io.Discard))

// Fields are the structured key-value pairs of a log entry.
type Fields map[string]any

// Option configures a logger created by [New].
type Option func(*Logger)

// Logger writes leveled, structured log entries.  A nil Logger discards
// all entries.
type Logger struct {
	log zerolog.Logger
}

// New returns a logger writing at level Info to stderr unless given
// options say otherwise.
func New(oo ...Option) *Logger {
	l := &Logger{log: zerolog.New(nil).With().Timestamp().Logger()}
	for _, o := range append([]Option{
		WithWriter(os.Stderr), WithLevel(Info)}, oo...) {
		o(l)
	}
	return l
}

// WithLevel sets the minimal level of written entries.
func WithLevel(level Level) Option {
	return func(l *Logger) {
		l.log = l.log.Level(zerologLevel(level))
	}
}

// WithWriter sets the writer entries are written to.  A terminal gets
// human readable entries; everything else gets JSON.
func WithWriter(w io.Writer) Option {
	return func(l *Logger) {
		out := w
		if isTerminal(w) {
			out = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
				cw.TimeFormat = time.TimeOnly
				cw.Out = w
			})
		}
		l.log = l.log.Output(out)
	}
}

// WithFields adds given fields to every entry.
func WithFields(f Fields) Option {
	return func(l *Logger) {
		l.log = l.log.With().Fields(map[string]any(f)).Logger()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Error logs given message and error.
func (l *Logger) Error(msg string, err error) {
	if l == nil {
		return
	}
	l.log.Error().Err(err).Msg(msg)
}

// Info logs given message with given fields.
func (l *Logger) Info(msg string, f Fields) {
	if l == nil {
		return
	}
	l.log.Info().Fields(map[string]any(f)).Msg(msg)
}

// Verbose logs given message with given fields at the most verbose
// level.
func (l *Logger) Verbose(msg string, f Fields) {
	if l == nil {
		return
	}
	l.log.Debug().Fields(map[string]any(f)).Msg(msg)
}
