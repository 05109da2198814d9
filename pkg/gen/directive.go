// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package gen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"strconv"
	"strings"
)

// DirectivePrefix starts each comment line the generator interprets.
const DirectivePrefix = "//shouldmatch:"

var (
	// ErrDirective is wrapped by errors of malformed directives.
	ErrDirective = errors.New("invalid directive")

	// ErrNoVerb is wrapped by errors of directive groups which lack
	// one of the generator verbs match, ok, err, some or none.
	ErrNoVerb = errors.New("missing generator directive")
)

// verb selects the generator of an annotated function.
type verb string

const (
	verbMatch verb = "match"
	verbOk    verb = "ok"
	verbErr   verb = "err"
	verbSome  verb = "some"
	verbNone  verb = "none"
)

// shortcuts maps a shortcut's verb to the runtime check implementing
// it.
var shortcuts = map[verb]string{
	verbOk:   "CheckOk",
	verbErr:  "CheckErr",
	verbSome: "CheckSome",
	verbNone: "CheckNone",
}

const (
	keyMessage = "message"
	keyTest    = "test"
)

// directives are the parsed shouldmatch directives of a function's doc
// comment.
type directives struct {
	verb verb

	// pattern is the pattern's source text of the match verb.
	pattern string

	// patternPos is the position of the match directive.
	patternPos token.Pos

	// message is the custom failure message; nil if none is given.
	message *string

	// test is true if the function is marked as test.
	test bool
}

// parseDirectives parses the shouldmatch directives of given comment
// group.  Returned found is false iff the group holds no such directive.
// Directives may be given in any order and interleaved with other
// comment lines.
func parseDirectives(
	fs *token.FileSet, cg *ast.CommentGroup,
) (dd directives, found bool, err error) {

	if cg == nil {
		return dd, false, nil
	}
	positioned := func(c *ast.Comment, err error, format string, args ...any) error {
		return fmt.Errorf("%s: %w: %s", fs.Position(c.Pos()), err,
			fmt.Sprintf(format, args...))
	}

	for _, c := range cg.List {
		if !strings.HasPrefix(c.Text, DirectivePrefix) {
			continue
		}
		found = true
		key, arg := strings.TrimPrefix(c.Text, DirectivePrefix), ""
		if i := strings.IndexAny(key, " \t"); i >= 0 {
			key, arg = key[:i], strings.TrimSpace(key[i:])
		}

		switch v := verb(key); v {
		case verbMatch, verbOk, verbErr, verbSome, verbNone:
			if dd.verb != "" {
				return dd, found, positioned(c, ErrDirective,
					"%s: generator already set to %s", v, dd.verb)
			}
			if v == verbMatch && arg == "" {
				return dd, found, positioned(c, ErrDirective,
					"match: missing pattern")
			}
			if v != verbMatch && arg != "" {
				return dd, found, positioned(c, ErrDirective,
					"%s: unexpected argument %q", v, arg)
			}
			dd.verb, dd.pattern, dd.patternPos = v, arg, c.Pos()
		case keyMessage:
			if dd.message != nil {
				return dd, found, positioned(c, ErrDirective,
					"message: given twice")
			}
			msg, err := strconv.Unquote(arg)
			if err != nil {
				return dd, found, positioned(c, ErrDirective,
					"message: expected go string literal; got %q", arg)
			}
			dd.message = &msg
		case keyTest:
			if arg != "" {
				return dd, found, positioned(c, ErrDirective,
					"test: unexpected argument %q", arg)
			}
			dd.test = true
		default:
			return dd, found, positioned(c, ErrDirective,
				"unknown directive %q", key)
		}
	}

	if found && dd.verb == "" {
		return dd, found, fmt.Errorf("%s: %w", fs.Position(cg.Pos()),
			ErrNoVerb)
	}
	return dd, found, nil
}

// hasDirective returns true iff given comment group contains a
// shouldmatch directive.
func hasDirective(cg *ast.CommentGroup) bool {
	for _, c := range cg.List {
		if strings.HasPrefix(c.Text, DirectivePrefix) {
			return true
		}
	}
	return false
}
