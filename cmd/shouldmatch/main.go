// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
Shouldmatch generates tests from functions annotated with shouldmatch
directives.  It is meant to be run by go generate:

	//go:generate go run github.com/slukits/shouldmatch/cmd/shouldmatch

Usage:

	shouldmatch [options] [dir | dir/...]...

Each given directory's go files carrying the shouldmatch build tag are
turned into test files; a directory ending in /... also generates in
its sub-directories.  Without directories the current working directory
is used, i.e. the directory of the file go generate runs on.  An
annotated source parse.go

	//go:build shouldmatch

	package parse

	//shouldmatch:err
	//shouldmatch:test
	func rejectsLetters() (int, error) {
		return strconv.Atoi("x")
	}

becomes the test TestRejectsLetters in parse_gen_test.go failing with
"Expected `Err`, but got `Ok`" if strconv.Atoi accepted letters.

With --watch shouldmatch keeps regenerating the test files of changed
sources of the given directories' trees until it is interrupted.
Settings may also be given by a YAML file (--config-file) or by
SHOULDMATCH_ prefixed environment variables like SHOULDMATCH_TAG.  The
exit status is 1 if a source fails to generate and 2 on invalid usage.
*/
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/slukits/shouldmatch/internal/config"
	"github.com/slukits/shouldmatch/internal/log"
	"github.com/slukits/shouldmatch/pkg/gen"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stderr)
	stop()
	os.Exit(code)
}

// run generates as directed by given command-line arguments and returns
// the process's exit status.  Logs and usage go to given writer.
func run(ctx context.Context, args []string, out io.Writer) int {
	cfg, err := config.Load(args, out)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		log.New(log.WithWriter(out), log.WithLevel(log.Error)).
			Error("configuration", err)
		return 2
	}

	g := &gen.Generator{
		Tag:      cfg.Tag,
		Suffix:   cfg.Suffix,
		Interval: cfg.Interval,
		Log:      log.New(log.WithWriter(out), log.WithLevel(cfg.Log.Level)),
	}
	if cfg.Watch {
		return watch(ctx, g, cfg.Dirs)
	}
	return generate(g, cfg.Dirs)
}

// tree returns the directory of given directory argument and true if
// the argument ends in /....
func tree(dir string) (string, bool) {
	if dir == "..." {
		return ".", true
	}
	if root, ok := strings.CutSuffix(dir, "/..."); ok {
		if root == "" {
			root = "/"
		}
		return root, true
	}
	return dir, false
}

func generate(g *gen.Generator, dirs []string) int {
	failed := false
	for _, d := range dirs {
		var err error
		if root, ok := tree(d); ok {
			_, err = g.Tree(root)
		} else {
			_, err = g.Package(root)
		}
		if err != nil {
			g.Log.Error("generate", err)
			failed = true
		}
	}
	if failed {
		return 1
	}
	return 0
}

func watch(ctx context.Context, g *gen.Generator, dirs []string) int {
	var wg sync.WaitGroup
	var mutex sync.Mutex
	failed := false
	for _, d := range dirs {
		root, _ := tree(d)
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := g.Watch(ctx, root, func(_ []*gen.Output, err error) {
				if err != nil {
					g.Log.Error("watch", err)
				}
			})
			if err != nil {
				g.Log.Error("watch", err)
				mutex.Lock()
				failed = true
				mutex.Unlock()
			}
		}()
	}
	wg.Wait()
	if failed {
		return 1
	}
	return 0
}
