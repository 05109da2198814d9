// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

const (
	// Silent produces no log messages at all.
	Silent Level = iota

	// Error reports only failed generations.
	Error

	// Info is [Error] and reports written files.
	Info

	// Verbose is [Info] and reports each processed directory and
	// generated test.
	Verbose
)

// ErrLevel is returned for unknown textual log levels.
var ErrLevel = errors.New("log: unknown level")

var levels = []levelDesc{
	{"silent", zerolog.Disabled},
	{"error", zerolog.ErrorLevel},
	{"info", zerolog.InfoLevel},
	{"verbose", zerolog.DebugLevel},
}

type levelDesc struct {
	text  string
	level zerolog.Level
}

// Level determines the severity of logged messages.
type Level int8

func (l Level) String() string {
	text, err := l.MarshalText()
	if err != nil {
		return ""
	}
	return string(text)
}

func (l Level) MarshalText() ([]byte, error) {
	if l < Silent || l > Verbose {
		return nil, ErrLevel
	}
	return []byte(levels[l].text), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	textStr := string(bytes.ToLower(text))
	i := slices.IndexFunc(levels, func(l levelDesc) bool {
		return l.text == textStr
	})
	if i == -1 {
		return ErrLevel
	}
	*l = Level(i)
	return nil
}

func zerologLevel(l Level) zerolog.Level {
	if l < Silent || l > Verbose {
		panic("log: unknown level")
	}
	return levels[l].level
}
