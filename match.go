// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shouldmatch

import (
	"fmt"
	"testing"
)

// TB is the part of testing.TB a checked body reports through.  A
// failed match is reported by exactly one call of Fatal, i.e. through
// the go testing framework's fatal-assertion convention which stops the
// test's execution.
type TB interface {
	Helper()
	Logf(format string, args ...any)
	Fatal(args ...any)
}

// matchErr is the format-string of a synthesized failure message.
const matchErr = "Expected to match `%s`"

// Message returns the failure message of a mismatch with given pattern:
// the first given message verbatim if any is given; otherwise the
// message "Expected to match `<pattern>`" is synthesized from given
// pattern's rendering.
func Message(p Pattern, message ...string) string {
	if len(message) > 0 {
		return message[0]
	}
	return fmt.Sprintf(matchErr, p.String())
}

// gotLog is the format-string logging a mismatched value before a
// checked test fails.
const gotLog = "got: %s"

// Check runs given body and tests its result against given pattern.
// Check returns true if the result matches; otherwise it logs the result
// and fails given testing instance fatally with the failure message provided
// by [Message] for given pattern and optional message.  A body is
// executed as is, i.e. how it comes up with its result, be it an early
// return or its last statement, makes no difference.  A result of
// static type error is matched like a [Result], a pointer result like an
// [Option] of the pointed-to value:
//
//	func TestParse(t *testing.T) {
//	    shouldmatch.Check(t, func() error {
//	        _, err := strconv.Atoi("x")
//	        return err
//	    }, shouldmatch.Err())
//	}
func Check[R any](t TB, body func() R, p Pattern, message ...string) bool {
	t.Helper()
	r := body()
	if p.Match(view(r)) {
		return true
	}
	t.Logf(gotLog, render(view(r)))
	t.Fatal(Message(p, message...))
	return false
}

// Wrap returns a test function which runs given body and fails iff its
// result doesn't match given pattern, see [Check].  The returned
// function may be run by [testing.T.Run] or be returned by a generated
// test.
func Wrap[R any](
	body func() R, p Pattern, message ...string,
) func(*testing.T) {
	return func(t *testing.T) {
		t.Helper()
		Check(t, body, p, message...)
	}
}

// Run runs given body as sub-test of given testing instance with given
// name, see [Wrap].  Run reports whether the sub-test succeeded.
func Run[R any](
	t *testing.T, name string, body func() R, p Pattern, message ...string,
) bool {
	t.Helper()
	return t.Run(name, Wrap(body, p, message...))
}
