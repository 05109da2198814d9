// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package gen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrSignature is wrapped by errors of annotated functions which can't
// be wrapped into a test.
var ErrSignature = errors.New("invalid signature")

// adapter names the runtime constructor turning a two-valued result
// into a single value the runtime checks can match.
type adapter string

const (
	noAdapter    adapter = ""
	tryAdapter   adapter = "Try"
	maybeAdapter adapter = "Maybe"
)

// unit is an annotated function which is emitted as test.
type unit struct {
	decl *ast.FuncDecl
	dd   directives

	// name is the emitted function's name.
	name string

	// results is the source text of the annotated function's result
	// list.
	results string

	// adapter turns a (T, error) or (T, bool) result into a Result[T]
	// respectively Option[T].
	adapter adapter

	// valueType is the source text of T if adapter is set.
	valueType string
}

// source is a parsed source file carrying the generator's tag.
type source struct {
	fs  *token.FileSet
	af  *ast.File
	src []byte

	// units are the source's annotated functions.
	units []*unit

	// idents are all identifier names of the source.
	idents map[string]bool
}

// parseUnits collects the annotated functions of given source.  An
// error is returned if a directive is not attached to a function
// declaration or an annotated function's signature has no test
// wrapping.
func (s *source) parseUnits() error {
	s.idents = identifiers(s.af)
	docs := map[*ast.CommentGroup]bool{}
	var errs []error
	for _, d := range s.af.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || fd.Doc == nil {
			continue
		}
		docs[fd.Doc] = true
		dd, found, err := parseDirectives(s.fs, fd.Doc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !found {
			continue
		}
		if err := s.patternIdents(dd); err != nil {
			errs = append(errs, err)
			continue
		}
		u, err := s.newUnit(fd, dd)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.units = append(s.units, u)
	}

	for _, cg := range s.af.Comments {
		if docs[cg] || !hasDirective(cg) {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %w: not attached to a function",
			s.fs.Position(cg.Pos()), ErrDirective))
	}

	if err := s.uniqueNames(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// patternIdents adds the identifiers of given directives' pattern to
// the source's identifiers.
func (s *source) patternIdents(dd directives) error {
	if dd.verb != verbMatch {
		return nil
	}
	x, err := parser.ParseExpr(dd.pattern)
	if err != nil {
		return fmt.Errorf("%s: %w: %s: %v", s.fs.Position(dd.patternPos),
			ErrPattern, dd.pattern, err)
	}
	for id := range identifiers(x) {
		s.idents[id] = true
	}
	return nil
}

func (s *source) newUnit(fd *ast.FuncDecl, dd directives) (*unit, error) {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%s: %w: %s: %s", s.fs.Position(fd.Pos()),
			ErrSignature, fd.Name.Name, fmt.Sprintf(format, args...))
	}
	switch {
	case fd.Recv != nil:
		return nil, invalid("methods can't be wrapped")
	case fd.Type.TypeParams != nil && len(fd.Type.TypeParams.List) > 0:
		return nil, invalid("generic functions can't be wrapped")
	case fd.Type.Params != nil && len(fd.Type.Params.List) > 0:
		return nil, invalid("expected no parameters")
	case fd.Body == nil:
		return nil, invalid("missing body")
	case fd.Type.Results == nil || len(fd.Type.Results.List) == 0:
		return nil, invalid("expected a result")
	}

	u := &unit{decl: fd, dd: dd, name: unitName(fd.Name.Name, dd.test),
		results: s.text(fd.Type.Results)}

	tt := flatten(fd.Type.Results)
	switch len(tt) {
	case 1:
		return u, nil
	case 2:
		switch ident(tt[1]) {
		case "error":
			u.adapter = tryAdapter
		case "bool":
			u.adapter = maybeAdapter
		default:
			return nil, invalid("expected (T, error) or (T, bool) result")
		}
		u.valueType = s.text(tt[0])
		return u, nil
	}
	return nil, invalid("expected at most two results; got %d", len(tt))
}

// uniqueNames reports emitted units whose names collide with another
// top-level declaration.
func (s *source) uniqueNames() error {
	declared := map[string]ast.Node{}
	for _, d := range s.af.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				declared[d.Name.Name] = d
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					declared[spec.Name.Name] = d
				case *ast.ValueSpec:
					for _, n := range spec.Names {
						declared[n.Name] = d
					}
				}
			}
		}
	}
	var errs []error
	for _, u := range s.units {
		if u.name == u.decl.Name.Name {
			continue
		}
		if _, ok := declared[u.name]; ok {
			errs = append(errs, fmt.Errorf(
				"%s: %w: %s: test name %s is already declared",
				s.fs.Position(u.decl.Pos()), ErrSignature,
				u.decl.Name.Name, u.name))
		}
		declared[u.name] = u.decl
	}
	return errors.Join(errs...)
}

// text returns the source text of given node.
func (s *source) text(n ast.Node) string {
	f := s.fs.File(n.Pos())
	return string(s.src[f.Offset(n.Pos()):f.Offset(n.End())])
}

// fresh returns given name if it is not used by any identifier of the
// source; otherwise given name suffixed by the smallest number making
// it unused.
func (s *source) fresh(name string) string {
	if !s.idents[name] {
		return name
	}
	for i := 1; ; i++ {
		n := name + strconv.Itoa(i)
		if !s.idents[n] {
			return n
		}
	}
}

func identifiers(n ast.Node) map[string]bool {
	ii := map[string]bool{}
	ast.Inspect(n, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			ii[id.Name] = true
		}
		return true
	})
	return ii
}

// flatten returns the types of given field list, one for each value.
func flatten(fl *ast.FieldList) (tt []ast.Expr) {
	for _, f := range fl.List {
		if len(f.Names) == 0 {
			tt = append(tt, f.Type)
			continue
		}
		for range f.Names {
			tt = append(tt, f.Type)
		}
	}
	return tt
}

func ident(x ast.Expr) string {
	if id, ok := x.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

// unitName returns the name of the test emitted for a function with
// given name.  A marked function's name becomes Test followed by its
// capitalized name unless it already is a test name.
func unitName(name string, marked bool) string {
	if isTest(name) || !marked {
		return name
	}
	r, n := utf8.DecodeRuneInString(name)
	return "Test" + string(unicode.ToUpper(r)) + name[n:]
}

// isTest is true if given name is a test name in the sense of go test,
// i.e. it is Test followed by nothing or a not lower-case letter.
func isTest(name string) bool {
	if !strings.HasPrefix(name, "Test") {
		return false
	}
	if len(name) == len("Test") {
		return true
	}
	r, _ := utf8.DecodeRuneInString(name[len("Test"):])
	return !unicode.IsLower(r)
}

// selector returns the name a file refers to the package with given
// import path and true if the file imports that package.  A dot-import
// results in the empty selector.
func selector(af *ast.File, path string) (string, bool) {
	quoted := strconv.Quote(path)
	for _, i := range af.Imports {
		if i.Path.Value != quoted {
			continue
		}
		if i.Name != nil {
			if i.Name.Name != "." {
				return i.Name.Name, true
			}
			return "", true
		}
		return path[strings.LastIndex(path, "/")+1:], true
	}
	return "", false
}
