// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shouldmatch

import "testing"

// Default failure messages of the value-shape shortcuts.
const (
	OkErr   = "Expected `Ok`, but got `Err`"
	ErrErr  = "Expected `Err`, but got `Ok`"
	SomeErr = "Expected `Some`, but got `None`"
	NoneErr = "Expected `None`, but got `Some`"
)

// shortcut fixes the pattern and the default message of a value-shape
// shortcut.
type shortcut struct {
	pattern Pattern
	message string
}

func (s shortcut) msg(message []string) string {
	if len(message) > 0 {
		return message[0]
	}
	return s.message
}

var (
	okShortcut   = shortcut{pattern: Ok(), message: OkErr}
	errShortcut  = shortcut{pattern: Err(), message: ErrErr}
	someShortcut = shortcut{pattern: Some(), message: SomeErr}
	noneShortcut = shortcut{pattern: None(), message: NoneErr}
)

// CheckOk checks that given body's result is an Ok-variant.  It fails
// with [OkErr] unless an other message is given.
func CheckOk[R any](t TB, body func() R, message ...string) bool {
	t.Helper()
	return Check(t, body, okShortcut.pattern, okShortcut.msg(message))
}

// CheckErr checks that given body's result is an Err-variant.  It fails
// with [ErrErr] unless an other message is given.
func CheckErr[R any](t TB, body func() R, message ...string) bool {
	t.Helper()
	return Check(t, body, errShortcut.pattern, errShortcut.msg(message))
}

// CheckSome checks that given body's result is a Some-variant.  It fails
// with [SomeErr] unless an other message is given.
func CheckSome[R any](t TB, body func() R, message ...string) bool {
	t.Helper()
	return Check(t, body, someShortcut.pattern, someShortcut.msg(message))
}

// CheckNone checks that given body's result is the None-variant.  It
// fails with [NoneErr] unless an other message is given.
func CheckNone[R any](t TB, body func() R, message ...string) bool {
	t.Helper()
	return Check(t, body, noneShortcut.pattern, noneShortcut.msg(message))
}

// WrapOk is [Wrap] for [CheckOk].
func WrapOk[R any](body func() R, message ...string) func(*testing.T) {
	return Wrap(body, okShortcut.pattern, okShortcut.msg(message))
}

// WrapErr is [Wrap] for [CheckErr].
func WrapErr[R any](body func() R, message ...string) func(*testing.T) {
	return Wrap(body, errShortcut.pattern, errShortcut.msg(message))
}

// WrapSome is [Wrap] for [CheckSome].
func WrapSome[R any](body func() R, message ...string) func(*testing.T) {
	return Wrap(body, someShortcut.pattern, someShortcut.msg(message))
}

// WrapNone is [Wrap] for [CheckNone].
func WrapNone[R any](body func() R, message ...string) func(*testing.T) {
	return Wrap(body, noneShortcut.pattern, noneShortcut.msg(message))
}

// RunOk is [Run] for [CheckOk].
func RunOk[R any](
	t *testing.T, name string, body func() R, message ...string,
) bool {
	t.Helper()
	return t.Run(name, WrapOk(body, message...))
}

// RunErr is [Run] for [CheckErr].
func RunErr[R any](
	t *testing.T, name string, body func() R, message ...string,
) bool {
	t.Helper()
	return t.Run(name, WrapErr(body, message...))
}

// RunSome is [Run] for [CheckSome].
func RunSome[R any](
	t *testing.T, name string, body func() R, message ...string,
) bool {
	t.Helper()
	return t.Run(name, WrapSome(body, message...))
}

// RunNone is [Run] for [CheckNone].
func RunNone[R any](
	t *testing.T, name string, body func() R, message ...string,
) bool {
	t.Helper()
	return t.Run(name, WrapNone(body, message...))
}
