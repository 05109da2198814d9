// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shouldmatch_test

import (
	"errors"
	"fmt"
)

// tbFake records a check's reporting instead of failing the test which
// runs the check.
type tbFake struct {
	helped int
	logs   []string
	fatals []string
}

func (t *tbFake) Helper() { t.helped++ }

func (t *tbFake) Logf(format string, args ...any) {
	t.logs = append(t.logs, fmt.Sprintf(format, args...))
}

func (t *tbFake) Fatal(args ...any) {
	t.fatals = append(t.fatals, fmt.Sprint(args...))
}

// failed returns the single fatal message of a failed check and false
// if the check didn't fail exactly once.
func (t *tbFake) failed() (string, bool) {
	if len(t.fatals) != 1 {
		return "", false
	}
	return t.fatals[0], true
}

// shape is a user-defined enum with three variants.
type shape int

const (
	circle shape = iota
	square
	triangle
)

func (s shape) String() string {
	switch s {
	case circle:
		return "Circle"
	case square:
		return "Square"
	case triangle:
		return "Triangle"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// token is a sealed interface whose implementations are the variants of
// an enum carrying payloads.
type token interface{ isToken() }

type Number struct{ Value int }

type Word struct {
	Text  string
	Upper bool
	pos   int
}

func (Number) isToken() {}
func (Word) isToken()   {}

var errFx = errors.New("error")
