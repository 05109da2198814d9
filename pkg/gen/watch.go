// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package gen

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/slukits/shouldmatch/internal/log"
)

// DefaultInterval is the default quiet period of a watching generator.
var DefaultInterval = 200 * time.Millisecond

// Report receives the outputs and errors of a watching generator's
// generation.
type Report func(oo []*Output, err error)

func (g *Generator) interval() time.Duration {
	if g.Interval == 0 {
		return DefaultInterval
	}
	return g.Interval
}

// Watch generates the test files of given root directory's tree and
// keeps doing so for every package whose go files change until given
// context is done.  Each generation is reported to given report.  The
// generated file of a removed source is removed as well.  Watch blocks
// until the context is done and returns nil unless the file system
// watcher fails.
func (g *Generator) Watch(
	ctx context.Context, root string, report Report,
) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := g.watchTree(w, root); err != nil {
		return err
	}
	report(g.Tree(root))

	dirty := map[string]bool{}
	var quiet <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if g.changed(w, ev) {
				dirty[filepath.Dir(ev.Name)] = true
				quiet = time.After(g.interval())
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			report(nil, err)
		case <-quiet:
			for dir := range dirty {
				report(g.Package(dir))
			}
			dirty, quiet = map[string]bool{}, nil
		}
	}
}

// changed handles given event and returns true if it changed a source
// file.
func (g *Generator) changed(w *fsnotify.Watcher, ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := g.watchTree(w, ev.Name); err != nil {
				g.Log.Error("watch", err)
			}
			return false
		}
	}
	if !g.isSource(filepath.Base(ev.Name)) {
		return false
	}
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		g.removeOutput(ev.Name)
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)
}

// watchTree adds given directory and its sub-directories to given
// watcher skipping the directories [Generator.Tree] skips.
func (g *Generator) watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(
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
		g.Log.Verbose("watch", log.Fields{"dir": path})
		return w.Add(path)
	})
}

// removeOutput removes the generated file of given removed source if it
// exists, was generated and no other source shares it.
func (g *Generator) removeOutput(source string) {
	path := g.OutputPath(source)
	base := strings.TrimSuffix(path, g.suffix())
	for _, s := range []string{base + ".go", base + "_test.go"} {
		if _, err := os.Stat(s); err == nil {
			return
		}
	}
	bb, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(bb, []byte(Header)) {
		return
	}
	if err := os.Remove(path); err != nil &&
		!errors.Is(err, os.ErrNotExist) {
		g.Log.Error("remove", err)
		return
	}
	g.Log.Info("removed", log.Fields{"source": source, "file": path})
}
