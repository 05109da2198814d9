// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/slukits/shouldmatch/internal/fx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) { goleak.VerifyTestMain(m) }

const parses = `package parse

import "strconv"

//shouldmatch:ok
//shouldmatch:test
func parses() (int, error) {
	return strconv.Atoi("42")
}
`

func Test_tree_arguments(t *testing.T) {
	for arg, exp := range map[string]struct {
		dir  string
		tree bool
	}{
		"a":      {"a", false},
		"a/...":  {"a", true},
		"./...":  {".", true},
		"...":    {".", true},
		"/...":   {"/", true},
		"a/b...": {"a/b...", false},
	} {
		dir, ok := tree(arg)
		assert.Equal(t, exp.dir, dir, arg)
		assert.Equal(t, exp.tree, ok, arg)
	}
}

func Test_run_generates_given_package(t *testing.T) {
	dir := fx.NewDir(t).MkMod("example.com/fx").
		MkTagged("shouldmatch", "parse.go", parses).
		MkTagged("shouldmatch", "a/parse.go", parses)
	out := &bytes.Buffer{}

	code := run(context.Background(), []string{"shouldmatch", dir.Name}, out)

	assert.Equal(t, 0, code, out.String())
	assert.True(t, dir.Exists("parse_gen_test.go"))
	assert.False(t, dir.Exists("a/parse_gen_test.go"))
	assert.Contains(t, dir.Read("parse_gen_test.go"), "func TestParses(")
}

func Test_run_generates_given_tree(t *testing.T) {
	dir := fx.NewDir(t).MkMod("example.com/fx").
		MkTagged("gen", "parse.go", parses).
		MkTagged("gen", "a/parse.go", parses)
	out := &bytes.Buffer{}

	code := run(context.Background(), []string{"shouldmatch",
		"--tag", "gen", "--suffix", "_sm_test.go", dir.Name + "/..."}, out)

	assert.Equal(t, 0, code, out.String())
	assert.True(t, dir.Exists("parse_sm_test.go"))
	assert.True(t, dir.Exists("a/parse_sm_test.go"))
}

func Test_run_fails_on_invalid_sources(t *testing.T) {
	dir := fx.NewDir(t).MkMod("example.com/fx").
		MkTagged("shouldmatch", "parse.go", "package parse\n\n"+
			"//shouldmatch:ok\nfunc parses(s string) error { return nil }\n")
	out := &bytes.Buffer{}

	code := run(context.Background(), []string{"shouldmatch",
		"--log-level", "error", dir.Name}, out)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "invalid signature")
}

func Test_run_fails_on_invalid_usage(t *testing.T) {
	out := &bytes.Buffer{}
	assert.Equal(t, 2, run(context.Background(),
		[]string{"shouldmatch", "--suffix", "_gen.go"}, out))
	assert.Equal(t, 2, run(context.Background(),
		[]string{"shouldmatch", "--unknown"}, out))
}

func Test_run_prints_usage_on_help(t *testing.T) {
	out := &bytes.Buffer{}
	assert.Equal(t, 0, run(context.Background(),
		[]string{"shouldmatch", "--help"}, out))
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "--watch")
}

func Test_run_watches_until_interrupted(t *testing.T) {
	dir := fx.NewDir(t).MkMod("example.com/fx")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int)
	go func() {
		done <- run(ctx, []string{"shouldmatch", "--watch",
			"--interval", "10ms", "--log-level", "silent", dir.Name}, &bytes.Buffer{})
	}()

	dir.MkTagged("shouldmatch", "parse.go", parses)
	require.Eventually(t, func() bool {
		return dir.Exists("parse_gen_test.go")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.Equal(t, 0, <-done)
}
