// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package gen

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ErrNoModule is returned if no go.mod file is found in a directory or
// any of its parents.
var ErrNoModule = errors.New("gen: no module found in path")

// findModule returns the directory and the module path of the first
// go.mod file found in given directory ascending towards the root.
func findModule(dir string) (modDir, modPath string, err error) {
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}
	for d := dir; ; d = filepath.Dir(d) {
		bb, err := os.ReadFile(filepath.Join(d, "go.mod"))
		if err == nil {
			modPath = modfile.ModulePath(bb)
			if modPath == "" {
				return "", "", fmt.Errorf(
					"gen: %s: go.mod without module path", d)
			}
			return d, modPath, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", "", err
		}
		if d == filepath.Dir(d) {
			break
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrNoModule, dir)
}

// packagePath returns the import path of the package in given
// directory.
func packagePath(dir string) (string, error) {
	modDir, modPath, err := findModule(dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(modDir, abs)
	if err != nil {
		return "", err
	}
	return path.Join(modPath, filepath.ToSlash(rel)), nil
}
