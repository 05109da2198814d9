// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"github.com/slukits/shouldmatch/internal/fx"
	"github.com/stretchr/testify/suite"
)

func TestGenerator(t *testing.T) {
	suite.Run(t, new(GeneratorTest))
}

type GeneratorTest struct {
	suite.Suite
}

// parsed parses given generated content failing the test if it is not
// valid go.
func (s *GeneratorTest) parsed(content []byte) *ast.File {
	af, err := parser.ParseFile(token.NewFileSet(), "gen_test.go",
		content, parser.ParseComments)
	s.Require().NoError(err, string(content))
	return af
}

func (s *GeneratorTest) imports(af *ast.File) map[string]string {
	ii := map[string]string{}
	for _, i := range af.Imports {
		path, _ := strconv.Unquote(i.Path.Value)
		ii[path] = ""
		if i.Name != nil {
			ii[path] = i.Name.Name
		}
	}
	return ii
}

const rejectsLetters = `package parse_test

import "strconv"

// rejectsLetters fails on letters.
//
//shouldmatch:match Err( _ )
//shouldmatch:test
func rejectsLetters() (int, error) {
	return strconv.Atoi("x")
}
`

func (s *GeneratorTest) Test_ignores_untagged_sources() {
	out, err := (&Generator{}).Source("fx.go", []byte(rejectsLetters), "")
	s.NoError(err)
	s.Nil(out)
}

func (s *GeneratorTest) Test_ignores_sources_of_other_tags() {
	out, err := (&Generator{Tag: "other"}).Source("fx.go",
		[]byte("//go:build shouldmatch\n\n"+rejectsLetters), "")
	s.NoError(err)
	s.Nil(out)
}

func (s *GeneratorTest) Test_wraps_annotated_function_into_test() {
	out, err := generate(rejectsLetters)
	s.Require().NoError(err)

	s.Equal("fx_gen_test.go", out.Path)
	s.Equal([]string{"TestRejectsLetters"}, out.Tests)
	content := string(out.Content)
	s.True(strings.HasPrefix(content, Header+"\n"))
	s.NotContains(content, "go:build")
	s.Contains(content, "func TestRejectsLetters(t *testing.T) {")
	s.Contains(content, "inner := func() (int, error) {")
	s.Contains(content, `return strconv.Atoi("x")`)
	s.Contains(content, "shouldmatch.Try[int](inner())")
	s.Contains(content, "shouldmatch.Err(shouldmatch.Any()), "+
		strconv.Quote(fmt.Sprintf(matchErr, "Err(_)")))

	ii := s.imports(s.parsed(out.Content))
	s.Contains(ii, "testing")
	s.Contains(ii, ImportPath)
	s.Contains(ii, "strconv")
}

func (s *GeneratorTest) Test_keeps_doc_comment_in_order() {
	out, err := generate(rejectsLetters)
	s.Require().NoError(err)
	s.Contains(string(out.Content), "// rejectsLetters fails on letters.\n"+
		"//\n//shouldmatch:match Err( _ )\n//shouldmatch:test\n"+
		"func TestRejectsLetters(")
}

func (s *GeneratorTest) Test_keeps_unmarked_function_name() {
	out, err := generate("package fx\n\n//shouldmatch:ok\n" +
		"func parses() error { return nil }\n")
	s.Require().NoError(err)
	s.Equal([]string{"parses"}, out.Tests)
	s.Contains(string(out.Content), "func parses(t *testing.T) {")
	s.Contains(string(out.Content), "shouldmatch.CheckOk(t, inner)")
}

func (s *GeneratorTest) Test_passes_custom_message_verbatim() {
	out, err := generate("package fx\n\n//shouldmatch:none\n" +
		"//shouldmatch:message \"Custom `failure` text\"\n" +
		"func absent() *int { return nil }\n\n" +
		"//shouldmatch:match Ok(1)\n" +
		"//shouldmatch:message \"no one\"\n" +
		"func one() (int, error) { return 1, nil }\n")
	s.Require().NoError(err)
	s.Contains(string(out.Content), "shouldmatch.CheckNone(t, inner, "+
		strconv.Quote("Custom `failure` text")+")")
	s.Contains(string(out.Content), `shouldmatch.Ok(1), "no one")`)
}

func (s *GeneratorTest) Test_adapts_comma_ok_results() {
	out, err := generate("package fx\n\nvar m = map[string]int{}\n\n" +
		"//shouldmatch:some\nfunc found() (v int, ok bool) {\n" +
		"\tv, ok = m[\"a\"]\n\treturn\n}\n")
	s.Require().NoError(err)
	s.Contains(string(out.Content), "inner := func() (v int, ok bool) {")
	s.Contains(string(out.Content), "shouldmatch.Maybe[int](inner())")
	s.Contains(string(out.Content), "shouldmatch.CheckSome(t, func() "+
		"shouldmatch.Option[int] {")
}

func (s *GeneratorTest) Test_copies_other_declarations_verbatim() {
	out, err := generate("package fx\n\ntype token int\n\n" +
		"func lex() token { return 1 }\n\n" +
		"//shouldmatch:match token(1)\nfunc lexes() token { return lex() }\n")
	s.Require().NoError(err)
	s.Contains(string(out.Content), "type token int")
	s.Contains(string(out.Content), "func lex() token { return 1 }")
	s.Contains(string(out.Content), "shouldmatch.Lit(token(1))")
}

func (s *GeneratorTest) Test_keeps_remaining_build_constraint() {
	out, err := (&Generator{}).Source("fx.go", []byte(
		"//go:build shouldmatch && linux\n// +build shouldmatch,linux\n\n"+
			rejectsLetters), "")
	s.Require().NoError(err)
	s.Contains(string(out.Content), "//go:build linux\n")
	s.NotContains(string(out.Content), "+build")
	s.NotContains(string(out.Content), "go:build shouldmatch")
}

func (s *GeneratorTest) Test_reuses_existing_import_name() {
	out, err := generate("package fx\n\n" +
		"import sm \"github.com/slukits/shouldmatch\"\n\n" +
		"var _ = sm.Any\n\n" +
		"//shouldmatch:match Some(_)\nfunc some() *int { return new(int) }\n")
	s.Require().NoError(err)
	s.Contains(string(out.Content), "sm.Check(t, inner, sm.Some(sm.Any()), ")
	s.Equal("sm", s.imports(s.parsed(out.Content))[ImportPath])
}

func (s *GeneratorTest) Test_supports_dot_imports() {
	out, err := generate("package fx\n\n" +
		"import . \"github.com/slukits/shouldmatch\"\n\n" +
		"var _ = Any\n\n" +
		"//shouldmatch:match Some(_)\nfunc some() *int { return new(int) }\n")
	s.Require().NoError(err)
	s.Contains(string(out.Content), "Check(t, inner, Some(Any()), ")
	s.Equal(".", s.imports(s.parsed(out.Content))[ImportPath])
}

func (s *GeneratorTest) Test_avoids_capturing_identifiers_of_body() {
	out, err := generate("package fx\n\nvar t, inner = 1, 2\n\n" +
		"//shouldmatch:match 3\nfunc sum() int { return t + inner }\n")
	s.Require().NoError(err)
	s.Contains(string(out.Content), "func sum(t1 *testing.T) {")
	s.Contains(string(out.Content), "inner1 := func() int {")
	s.Contains(string(out.Content), "return t + inner")
	s.Contains(string(out.Content), "shouldmatch.Check(t1, inner1, ")
}

func (s *GeneratorTest) Test_does_not_import_its_own_package() {
	out, err := (&Generator{}).Source("fx.go", []byte(
		"//go:build shouldmatch\n\npackage shouldmatch\n\n"+
			"//shouldmatch:ok\nfunc ok() error { return nil }\n"),
		ImportPath)
	s.Require().NoError(err)
	s.Contains(string(out.Content), "CheckOk(t, inner)")
	s.NotContains(s.imports(s.parsed(out.Content)), ImportPath)
}

func (s *GeneratorTest) Test_rejects_suffix_of_non_test_file() {
	_, err := (&Generator{Suffix: "_gen.go"}).Source("fx.go",
		[]byte(rejectsLetters), "")
	s.ErrorIs(err, ErrSuffix)
}

func (s *GeneratorTest) Test_names_output_after_source() {
	g := &Generator{}
	s.Equal("a/parse_gen_test.go", g.OutputPath("a/parse.go"))
	s.Equal("a/parse_gen_test.go", g.OutputPath("a/parse_test.go"))
	g.Suffix = "_sm_test.go"
	s.Equal("a/parse_sm_test.go", g.OutputPath("a/parse.go"))
	s.True(g.IsOutput("a/parse_sm_test.go"))
	s.False(g.IsOutput("a/parse_test.go"))
}

func (s *GeneratorTest) Test_package_writes_test_files() {
	dir := fx.NewDir(s.T()).MkMod("example.com/fx").
		MkTagged(DefaultTag, "parse.go", rejectsLetters).
		MkFile("plain.go", "package parse\n")

	oo, err := (&Generator{}).Package(dir.Name)

	s.Require().NoError(err)
	s.Require().Len(oo, 1)
	s.Equal(dir.Path("parse_gen_test.go"), oo[0].Path)
	s.Equal(string(oo[0].Content), dir.Read("parse_gen_test.go"))
	s.False(dir.Exists("plain_gen_test.go"))
}

func (s *GeneratorTest) Test_package_generates_valid_sources_despite_errors() {
	dir := fx.NewDir(s.T()).MkMod("example.com/fx").
		MkTagged(DefaultTag, "parse.go", rejectsLetters).
		MkTagged(DefaultTag, "broken.go", "package parse_test\n\n"+
			"//shouldmatch:ok\nfunc f(int) error { return nil }\n")

	oo, err := (&Generator{}).Package(dir.Name)

	s.ErrorIs(err, ErrSignature)
	s.Len(oo, 1)
	s.True(dir.Exists("parse_gen_test.go"))
	s.False(dir.Exists("broken_gen_test.go"))
}

func (s *GeneratorTest) Test_package_fails_on_sources_sharing_an_output() {
	dir := fx.NewDir(s.T()).MkMod("example.com/fx").
		MkTagged(DefaultTag, "parse.go", rejectsLetters).
		MkTagged(DefaultTag, "parse_test.go", strings.Replace(
			rejectsLetters, "rejectsLetters", "rejectsSigns", -1))

	oo, err := (&Generator{}).Package(dir.Name)

	s.ErrorIs(err, ErrOutputCollision)
	s.ErrorContains(err, "parse_test.go")
	s.Require().Len(oo, 1)
	s.Equal(dir.Path("parse.go"), oo[0].Source)
	s.Contains(dir.Read("parse_gen_test.go"), "func TestRejectsLetters(")
	s.NotContains(dir.Read("parse_gen_test.go"), "TestRejectsSigns")
}

func (s *GeneratorTest) Test_tree_skips_ignored_directories() {
	dir := fx.NewDir(s.T()).MkMod("example.com/fx").
		MkTagged(DefaultTag, "a/parse.go", rejectsLetters).
		MkTagged(DefaultTag, "a/b/parse.go", rejectsLetters).
		MkTagged(DefaultTag, "testdata/parse.go", rejectsLetters).
		MkTagged(DefaultTag, "_skip/parse.go", rejectsLetters).
		MkTagged(DefaultTag, ".hidden/parse.go", rejectsLetters)

	oo, err := (&Generator{}).Tree(dir.Name)

	s.Require().NoError(err)
	s.Len(oo, 2)
	s.True(dir.Exists("a/parse_gen_test.go"))
	s.True(dir.Exists("a/b/parse_gen_test.go"))
	s.False(dir.Exists("testdata/parse_gen_test.go"))
	s.False(dir.Exists("_skip/parse_gen_test.go"))
	s.False(dir.Exists(".hidden/parse_gen_test.go"))
}

func (s *GeneratorTest) Test_file_resolves_import_path_of_its_module() {
	dir := fx.NewDir(s.T()).MkMod(ImportPath).MkTagged(DefaultTag,
		"ok.go", "package shouldmatch\n\n"+
			"//shouldmatch:ok\nfunc ok() error { return nil }\n")

	out, err := (&Generator{}).File(dir.Path("ok.go"))

	s.Require().NoError(err)
	s.NotContains(s.imports(s.parsed(out.Content)), ImportPath)
}
