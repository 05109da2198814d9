// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
Package gen generates tests from annotated functions.  A function whose
doc comment carries shouldmatch directives is replaced by a test running
the function's body and failing if the body's result doesn't match the
directed pattern:

	//go:build shouldmatch

	package parse_test

	//shouldmatch:match Err(_)
	//shouldmatch:test
	func rejectsLetters() (int, error) {
		return strconv.Atoi("x")
	}

becomes in the generated file parse_gen_test.go

	func TestRejectsLetters(t *testing.T) {
		inner := func() (int, error) {
			return strconv.Atoi("x")
		}
		shouldmatch.Check(t,
			func() shouldmatch.Result[int] { return shouldmatch.Try[int](inner()) },
			shouldmatch.Err(shouldmatch.Any()), "Expected to match `Err(_)`")
	}

The build tag keeps the annotated source out of regular builds while the
generated test file takes its place.
*/
package gen

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/slukits/shouldmatch/internal/log"
)

const (
	// DefaultTag is the build tag marking sources of generated tests.
	DefaultTag = "shouldmatch"

	// DefaultSuffix replaces the ".go" respectively "_test.go" suffix
	// of a source's file name to name its generated test file.
	DefaultSuffix = "_gen_test.go"

	// ImportPath is the import path of the runtime generated tests
	// call.
	ImportPath = "github.com/slukits/shouldmatch"
)

// ErrSuffix is returned for output suffixes which don't name a go test
// file.
var ErrSuffix = errors.New("gen: suffix must end in _test.go")

// ErrOutputCollision is returned for a tagged source whose generated
// file was already generated from an other source of its package, e.g.
// for x_test.go next to x.go.
var ErrOutputCollision = errors.New("gen: output already generated")

// Output is the generated test file of a source file.
type Output struct {

	// Source is the annotated source's file name.
	Source string

	// Path is the generated file's name.
	Path string

	// Tests are the names of the generated tests.
	Tests []string

	// Content is the generated file's formatted content.
	Content []byte
}

// A Generator turns sources carrying its build tag into test files.
// The zero Generator uses the default tag and suffix and doesn't log.
type Generator struct {

	// Tag is the build tag marking sources; defaults to [DefaultTag].
	Tag string

	// Suffix names a source's generated file; defaults to
	// [DefaultSuffix].
	Suffix string

	// Log reports processed directories and written files.
	Log *log.Logger

	// Interval is the quiet period after the last change of a watched
	// source before its package is generated; defaults to
	// [DefaultInterval].
	Interval time.Duration
}

func (g *Generator) tag() string {
	if g.Tag == "" {
		return DefaultTag
	}
	return g.Tag
}

func (g *Generator) suffix() string {
	if g.Suffix == "" {
		return DefaultSuffix
	}
	return g.Suffix
}

// OutputPath returns the path of the generated file of given source
// file path.
func (g *Generator) OutputPath(source string) string {
	base := strings.TrimSuffix(source, ".go")
	base = strings.TrimSuffix(base, "_test")
	return base + g.suffix()
}

// IsOutput returns true if given path names a generated file.
func (g *Generator) IsOutput(path string) bool {
	return strings.HasSuffix(path, g.suffix())
}

// Source generates the test file of given source file content.  The
// content's file name is used for error positions and to name the
// output.  importPath is the import path of the source's package.
// Returned output is nil if the source doesn't carry the generator's
// tag.
func (g *Generator) Source(
	filename string, src []byte, importPath string,
) (*Output, error) {
	if !strings.HasSuffix(g.suffix(), "_test.go") {
		return nil, ErrSuffix
	}
	fset := token.NewFileSet()
	af, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	s := &source{fs: fset, af: af, src: src}
	ee, tagged := s.constraints(g.tag())
	if !tagged {
		return nil, nil
	}
	if err := s.parseUnits(); err != nil {
		return nil, err
	}

	self := importPath == ImportPath &&
		!strings.HasSuffix(af.Name.Name, "_test")
	content, err := newEmitter(s, self).emit(g.OutputPath(filename), ee)
	if err != nil {
		return nil, err
	}
	out := &Output{Source: filename, Path: g.OutputPath(filename),
		Content: content}
	for _, u := range s.units {
		out.Tests = append(out.Tests, u.name)
	}
	return out, nil
}

// File generates and writes the test file of the source file with given
// path.  Returned output is nil if the file doesn't carry the
// generator's tag.
func (g *Generator) File(path string) (*Output, error) {
	out, err := g.generate(path)
	if err != nil || out == nil {
		return nil, err
	}
	return out, g.write(out)
}

func (g *Generator) generate(path string) (*Output, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	importPath, err := packagePath(filepath.Dir(path))
	if err != nil && !errors.Is(err, ErrNoModule) {
		return nil, err
	}
	return g.Source(path, src, importPath)
}

func (g *Generator) write(out *Output) error {
	if err := os.WriteFile(out.Path, out.Content, 0644); err != nil {
		return err
	}
	g.Log.Info("generated", log.Fields{
		"source": out.Source, "file": out.Path, "tests": len(out.Tests)})
	for _, t := range out.Tests {
		g.Log.Verbose("test", log.Fields{"file": out.Path, "name": t})
	}
	return nil
}

// Package generates the test files of all go files in given directory
// carrying the generator's tag.  A failing source doesn't stop the
// generation of the others; all errors are returned joined.  Of two
// tagged sources sharing a generated file only the first in
// lexicographical order is generated, the other fails with
// [ErrOutputCollision].
func (g *Generator) Package(dir string) ([]*Output, error) {
	g.Log.Verbose("package", log.Fields{"dir": dir})
	ee, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var oo []*Output
	var errs []error
	generated := map[string]string{}
	for _, e := range ee {
		if e.IsDir() || !g.isSource(e.Name()) {
			continue
		}
		out, err := g.generate(filepath.Join(dir, e.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if out == nil {
			continue
		}
		if src, ok := generated[out.Path]; ok {
			errs = append(errs, fmt.Errorf("%s: %w: %s from %s",
				out.Source, ErrOutputCollision, out.Path, src))
			continue
		}
		generated[out.Path] = out.Source
		if err := g.write(out); err != nil {
			errs = append(errs, err)
			continue
		}
		oo = append(oo, out)
	}
	return oo, errors.Join(errs...)
}

// Tree generates the test files of all packages in given root directory
// and its sub-directories.  Like go's ./... pattern directories named
// testdata or starting with . or _ are skipped.
func (g *Generator) Tree(root string) ([]*Output, error) {
	var oo []*Output
	var errs []error
	err := filepath.WalkDir(root, func(
		path string, d fs.DirEntry, err error,
	) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		out, err := g.Package(path)
		oo = append(oo, out...)
		if err != nil {
			errs = append(errs, err)
		}
		return nil
	})
	if err != nil {
		return oo, fmt.Errorf("gen: walk %s: %w", root, err)
	}
	return oo, errors.Join(errs...)
}

// isSource is true for go files which are not generated by g.
func (g *Generator) isSource(name string) bool {
	return strings.HasSuffix(name, ".go") && !g.IsOutput(name)
}

func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
