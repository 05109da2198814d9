// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fx provides temporary directory fixtures for tests of the
// generator and its command.
package fx

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Dir is a temporary directory of a test.  Its methods fatale the test
// they were created for if a file system operation fails.  Dir is
// removed after its test.
type Dir struct {
	T    testing.TB
	Name string
}

// NewDir creates a new temporary directory leveraging t.TempDir.
func NewDir(t testing.TB) *Dir {
	return &Dir{T: t, Name: t.TempDir()}
}

// Path joins given path elements to the directory's name.
func (d *Dir) Path(pp ...string) string {
	return filepath.Join(append([]string{d.Name}, pp...)...)
}

// MkPath creates given descending path of directories in d and returns
// its absolute path.
func (d *Dir) MkPath(dd ...string) string {
	d.T.Helper()
	path := d.Path(dd...)
	if err := os.MkdirAll(path, 0711); err != nil {
		d.T.Fatalf("fx: mk-path: %v", err)
	}
	return path
}

// MkFile writes a file with given slash separated name relative to d
// and given content creating missing directories.
func (d *Dir) MkFile(name, content string) *Dir {
	d.T.Helper()
	path := d.Path(filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0711); err != nil {
		d.T.Fatalf("fx: mk-file: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		d.T.Fatalf("fx: mk-file: write: %v", err)
	}
	return d
}

// MkMod adds a go.mod file with given module path to d.
func (d *Dir) MkMod(module string) *Dir {
	d.T.Helper()
	return d.MkFile("go.mod", fmt.Sprintf("module %s\n\ngo 1.23\n", module))
}

// MkTagged adds a go file with given name to d whose content is
// prefixed by a build constraint requiring given tag.
func (d *Dir) MkTagged(tag, name, content string) *Dir {
	d.T.Helper()
	return d.MkFile(name, fmt.Sprintf("//go:build %s\n\n%s", tag, content))
}

// Read returns the content of the file with given slash separated name
// relative to d.
func (d *Dir) Read(name string) string {
	d.T.Helper()
	bb, err := os.ReadFile(d.Path(filepath.FromSlash(name)))
	if err != nil {
		d.T.Fatalf("fx: read: %v", err)
	}
	return string(bb)
}

// Exists returns true iff a file with given slash separated name
// relative to d exists.
func (d *Dir) Exists(name string) bool {
	_, err := os.Stat(d.Path(filepath.FromSlash(name)))
	return err == nil
}

// Remove removes the file with given slash separated name relative to
// d.
func (d *Dir) Remove(name string) {
	d.T.Helper()
	if err := os.Remove(d.Path(filepath.FromSlash(name))); err != nil {
		d.T.Fatalf("fx: remove: %v", err)
	}
}
