// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package gen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/format"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/imports"
)

// Header is the first line of each generated file.
const Header = "// Code generated by shouldmatch. DO NOT EDIT."

// matchErr is the format-string of the failure message of the match
// generator if no message is given.
const matchErr = "Expected to match `%s`"

// edit replaces the source bytes from from to to with text.
type edit struct {
	from, to int
	text string
}

// splice applies given non-overlapping edits to given source.
func splice(src []byte, ee []edit) []byte {
	sort.Slice(ee, func(i, j int) bool { return ee[i].from < ee[j].from })
	buf, last := bytes.Buffer{}, 0
	for _, e := range ee {
		buf.Write(src[last:e.from])
		buf.WriteString(e.text)
		last = e.to
	}
	buf.Write(src[last:])
	return buf.Bytes()
}

// constraints returns the edits removing given tag from the build
// constraints of given source and true if the source's build constraint
// requires given tag.
func (s *source) constraints(tag string) (ee []edit, tagged bool) {
	for _, cg := range s.af.Comments {
		if cg.Pos() >= s.af.Package {
			break
		}
		for _, c := range cg.List {
			switch {
			case constraint.IsGoBuild(c.Text):
				x, err := constraint.Parse(c.Text)
				if err != nil || !requires(x, tag) {
					continue
				}
				tagged = true
				e := s.lineEdit(c)
				if x = dropTag(x, tag); x != nil {
					e = edit{from: e.from, to: s.offset(c.End()),
						text: "//go:build " + x.String()}
				}
				ee = append(ee, e)
			case constraint.IsPlusBuild(c.Text):
				ee = append(ee, s.lineEdit(c))
			}
		}
	}
	if !tagged {
		return nil, false
	}
	return ee, true
}

// lineEdit removes given comment's line.
func (s *source) lineEdit(c *ast.Comment) edit {
	e := edit{from: s.offset(c.Pos()), to: s.offset(c.End())}
	if e.to < len(s.src) && s.src[e.to] == '\n' {
		e.to++
	}
	return e
}

func (s *source) offset(p token.Pos) int {
	return s.fs.File(p).Offset(p)
}

// requires is true iff given constraint can't be satisfied without
// given tag.
func requires(x constraint.Expr, tag string) bool {
	switch x := x.(type) {
	case *constraint.TagExpr:
		return x.Tag == tag
	case *constraint.AndExpr:
		return requires(x.X, tag) || requires(x.Y, tag)
	case *constraint.OrExpr:
		return requires(x.X, tag) && requires(x.Y, tag)
	}
	return false
}

// dropTag removes given required tag from given constraint.  Returned
// expression is nil if nothing but the tag was required.
func dropTag(x constraint.Expr, tag string) constraint.Expr {
	switch x := x.(type) {
	case *constraint.TagExpr:
		if x.Tag == tag {
			return nil
		}
	case *constraint.AndExpr:
		l, r := dropTag(x.X, tag), dropTag(x.Y, tag)
		switch {
		case l == nil:
			return r
		case r == nil:
			return l
		}
		return &constraint.AndExpr{X: l, Y: r}
	case *constraint.OrExpr:
		l, r := dropTag(x.X, tag), dropTag(x.Y, tag)
		if l == nil || r == nil {
			return nil
		}
		return &constraint.OrExpr{X: l, Y: r}
	}
	return x
}

// emitter writes the test file of a source.
type emitter struct {
	*source

	// sel qualifies the runtime's identifiers; testing qualifies
	// identifiers of package testing.
	sel, testing string

	// t and inner are the local names of an emitted test.
	t, inner string

	// imports maps an import path to the name it needs to be added
	// with; the empty name adds a default import.
	imports map[string]string
}

// newEmitter figures the names an emitted test of given source refers
// to its runtime and package testing.  self is true if the emitted file
// is part of the runtime package.
func newEmitter(s *source, self bool) *emitter {
	e := &emitter{source: s, imports: map[string]string{},
		t: s.fresh("t"), inner: s.fresh("inner")}
	if len(s.units) == 0 {
		return e
	}

	imported := func(path string) (string, bool) {
		sel, ok := selector(s.af, path)
		if ok {
			return sel, true
		}
		base := path[strings.LastIndex(path, "/")+1:]
		if sel = s.fresh(base); sel != base {
			e.imports[path] = sel
		} else {
			e.imports[path] = ""
		}
		return sel, false
	}
	if self {
		e.sel = ""
	} else {
		e.sel, _ = imported(ImportPath)
	}
	e.testing, _ = imported("testing")
	return e
}

// qualify returns given name qualified by given selector.
func qualify(sel, name string) string {
	if sel == "" {
		return name
	}
	return sel + "." + name
}

// emit returns the formatted test file of the emitter's source.  Given
// edits are applied next to the replacements of the units.
func (e *emitter) emit(filename string, ee []edit) ([]byte, error) {
	for _, u := range e.units {
		text, err := e.unit(u)
		if err != nil {
			return nil, err
		}
		ee = append(ee, edit{
			from: e.offset(u.decl.Pos()), to: e.offset(u.decl.End()),
			text: text,
		})
	}
	src := append([]byte(Header+"\n\n"), splice(e.src, ee)...)

	fs := token.NewFileSet()
	af, err := parser.ParseFile(fs, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("%s: generated source: %w", filename, err)
	}
	for path, name := range e.imports {
		astutil.AddNamedImport(fs, af, name, path)
	}
	buf := bytes.Buffer{}
	if err := format.Node(&buf, fs, af); err != nil {
		return nil, fmt.Errorf("%s: format: %w", filename, err)
	}
	return imports.Process(filename, buf.Bytes(), &imports.Options{
		FormatOnly: true, Comments: true, TabIndent: true, TabWidth: 8,
	})
}

// unit returns the test wrapping given unit's function body.
func (e *emitter) unit(u *unit) (string, error) {
	b := &strings.Builder{}
	fmt.Fprintf(b, "func %s(%s *%s) {\n", u.name, e.t,
		qualify(e.testing, "T"))
	fmt.Fprintf(b, "%s := func() %s %s\n", e.inner, u.results,
		e.text(u.decl.Body))

	body := e.inner
	switch u.adapter {
	case tryAdapter:
		body = e.adapted("Result", u)
	case maybeAdapter:
		body = e.adapted("Option", u)
	}

	args := []string{e.t, body}
	check := "Check"
	if u.dd.verb == verbMatch {
		p, err := lowerPattern(u.dd.pattern, e.sel)
		if err != nil {
			return "", fmt.Errorf("%s: %w", e.fs.Position(u.dd.patternPos),
				err)
		}
		msg := fmt.Sprintf(matchErr, p.text)
		if u.dd.message != nil {
			msg = *u.dd.message
		}
		args = append(args, p.code, strconv.Quote(msg))
	} else {
		check = shortcuts[u.dd.verb]
		if u.dd.message != nil {
			args = append(args, strconv.Quote(*u.dd.message))
		}
	}
	fmt.Fprintf(b, "%s(%s)\n}", qualify(e.sel, check),
		strings.Join(args, ", "))
	return b.String(), nil
}

// adapted returns a function literal viewing the two results of given
// unit's inner function as given runtime type.
func (e *emitter) adapted(typ string, u *unit) string {
	return fmt.Sprintf("func() %s[%s] { return %s[%s](%s()) }",
		qualify(e.sel, typ), u.valueType,
		qualify(e.sel, string(u.adapter)), u.valueType, e.inner)
}
