// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package log_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/slukits/shouldmatch/internal/log"
	"github.com/stretchr/testify/suite"
)

func TestLogger(t *testing.T) {
	suite.Run(t, new(LoggerTest))
}

type LoggerTest struct {
	suite.Suite
}

func (t *LoggerTest) Test_log() {
	for _, level := range []log.Level{log.Error, log.Info, log.Verbose} {
		t.Run(fmt.Sprintf("%[1]v is logged at level %[1]v or more verbose", level), func() {
			got := encodeLog(level, level)

			t.Contains(got, "log message")
			t.Contains(got, "description")
		})

		t.Run(fmt.Sprintf("%v is not logged at a less verbose level", level), func() {
			got := encodeLog(level-1, level)
			t.Equal("", got)
		})
	}
}

func (t *LoggerTest) Test_fields_are_added_to_entries() {
	var buf bytes.Buffer
	l := log.New(log.WithWriter(&buf), log.WithFields(log.Fields{"run": 1}))
	l.Info("generated", log.Fields{"file": "a_gen_test.go"})

	t.Contains(buf.String(), `"run":1`)
	t.Contains(buf.String(), `"file":"a_gen_test.go"`)
}

func (t *LoggerTest) Test_nil_logger_discards() {
	var l *log.Logger
	t.NotPanics(func() {
		l.Error("log message", errors.New("description"))
		l.Info("log message", nil)
		l.Verbose("log message", nil)
	})
}

func encodeLog(logLevel, msgLevel log.Level) string {
	var buf bytes.Buffer
	l := log.New(log.WithLevel(logLevel), log.WithWriter(&buf))

	switch msgLevel {
	case log.Error:
		l.Error("log message", errors.New("description"))
	case log.Info:
		l.Info("log message", log.Fields{"error": "description"})
	case log.Verbose:
		l.Verbose("log message", log.Fields{"error": "description"})
	}

	return buf.String()
}
