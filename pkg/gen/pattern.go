// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"

	"golang.org/x/exp/slices"
)

// ErrPattern is wrapped by errors of pattern expressions which are not
// go expressions.
var ErrPattern = errors.New("invalid pattern")

// constructors are the pattern constructors of package shouldmatch
// which may be used unqualified in a pattern expression.
var constructors = []string{
	"Any", "Lit", "Ok", "Err", "Some", "None", "Variant", "Or",
	"Satisfies",
}

// verbatim are constructors whose arguments are go values rather than
// patterns, i.e. they are not lowered.
var verbatim = []string{"Lit", "Satisfies"}

// pattern is a parsed pattern expression.
type pattern struct {

	// code is the go expression building the pattern with qualified
	// constructors.
	code string

	// text is the normalized source text of the pattern expression as
	// it is reported in the synthesized failure message.
	text string
}

// lowerPattern parses given pattern expression and returns it as go
// code which builds the described shouldmatch.Pattern whereas
// constructors are qualified by given selector.  The wildcard _ becomes
// Any(), an alternation a | b becomes Or(a, b) and a top-level
// expression which is not a constructor call becomes a literal.
func lowerPattern(src, sel string) (*pattern, error) {
	fs := token.NewFileSet()
	x, err := parser.ParseExprFrom(fs, "", src, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPattern, src, err)
	}
	text, err := printExpr(fs, x)
	if err != nil {
		return nil, err
	}
	code, err := printExpr(fs, (&lowering{sel: sel}).expr(x, true))
	if err != nil {
		return nil, err
	}
	return &pattern{code: code, text: text}, nil
}

func printExpr(fs *token.FileSet, x ast.Expr) (string, error) {
	buf := bytes.Buffer{}
	if err := format.Node(&buf, fs, x); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPattern, err)
	}
	return buf.String(), nil
}

type lowering struct{ sel string }

// qualified returns given constructor name qualified by the lowering's
// selector.
func (l *lowering) qualified(name string) ast.Expr {
	if l.sel == "" {
		return ast.NewIdent(name)
	}
	return &ast.SelectorExpr{
		X: ast.NewIdent(l.sel), Sel: ast.NewIdent(name)}
}

func (l *lowering) call(name string, args ...ast.Expr) ast.Expr {
	return &ast.CallExpr{Fun: l.qualified(name), Args: args}
}

// expr lowers given pattern expression; top is true for the outermost
// expression which must evaluate to a pattern.
func (l *lowering) expr(x ast.Expr, top bool) ast.Expr {
	switch x := x.(type) {
	case *ast.Ident:
		if x.Name == "_" {
			return l.call("Any")
		}
	case *ast.ParenExpr:
		return &ast.ParenExpr{X: l.expr(x.X, top)}
	case *ast.BinaryExpr:
		if x.Op == token.OR {
			var alternatives []ast.Expr
			for _, a := range l.alternatives(x, nil) {
				alternatives = append(alternatives, l.expr(a, false))
			}
			return l.call("Or", alternatives...)
		}
	case *ast.CallExpr:
		if name, ok := l.name(x.Fun); ok {
			return &ast.CallExpr{Fun: l.constructor(x.Fun),
				Args: l.args(name, x), Ellipsis: x.Ellipsis}
		}
	}
	if top {
		return l.call("Lit", x)
	}
	return x
}

// alternatives flattens a chain of | operations.
func (l *lowering) alternatives(x ast.Expr, aa []ast.Expr) []ast.Expr {
	if bx, ok := x.(*ast.BinaryExpr); ok && bx.Op == token.OR {
		return l.alternatives(bx.Y, l.alternatives(bx.X, aa))
	}
	return append(aa, x)
}

// name returns the constructor name of given function expression and
// true iff it names a pattern constructor.  The constructor may be
// unqualified, qualified by the lowering's selector or instantiated like
// Satisfies[int].
func (l *lowering) name(fun ast.Expr) (string, bool) {
	if ix, ok := fun.(*ast.IndexExpr); ok {
		fun = ix.X
	}
	var name string
	switch fun := fun.(type) {
	case *ast.Ident:
		name = fun.Name
	case *ast.SelectorExpr:
		id, ok := fun.X.(*ast.Ident)
		if !ok || l.sel == "" || id.Name != l.sel {
			return "", false
		}
		name = fun.Sel.Name
	default:
		return "", false
	}
	return name, slices.Contains(constructors, name)
}

// constructor qualifies given constructor expression.
func (l *lowering) constructor(fun ast.Expr) ast.Expr {
	switch fun := fun.(type) {
	case *ast.Ident:
		return l.qualified(fun.Name)
	case *ast.IndexExpr:
		return &ast.IndexExpr{X: l.constructor(fun.X), Index: fun.Index}
	}
	return fun
}

// args lowers the arguments of given call of the constructor with given
// name.  The name argument of Variant and the arguments of verbatim
// constructors are kept as is.
func (l *lowering) args(name string, x *ast.CallExpr) []ast.Expr {
	if slices.Contains(verbatim, name) {
		return x.Args
	}
	aa := make([]ast.Expr, len(x.Args))
	for i, a := range x.Args {
		if name == "Variant" && i == 0 {
			aa[i] = a
			continue
		}
		aa[i] = l.expr(a, false)
	}
	return aa
}
