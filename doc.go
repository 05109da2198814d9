// Package shouldmatch turns a function body producing a value into a
// test whose pass/fail criterion is that the produced value matches a
// structural pattern.  It spares tests of enum-shaped results, i.e.
// success/failure or presence/absence, the unwrap-and-compare
// boilerplate:
//
//	func TestParse(t *testing.T) {
//	    shouldmatch.Check(t, func() shouldmatch.Result[int] {
//	        return shouldmatch.Try[int](strconv.Atoi("x"))
//	    }, shouldmatch.Err())
//	}
//
// A failing match logs the produced value and fatales the test with the
// given message or, if none is given, with the message
//
//	Expected to match `<pattern>`
//
// The four value-shape shortcuts [CheckOk], [CheckErr], [CheckSome] and
// [CheckNone] fix the pattern to the respective variant with any payload
// and fail by default with a message like "Expected `Ok`, but got
// `Err`".  [Wrap] and its shortcuts return the check as test function
// while [Run] and its shortcuts register it as sub-test.
//
// Patterns are built from [Any], [Lit], [Ok], [Err], [Some], [None],
// [Variant], [Or] and [Satisfies].  Values are matched by their variant
// if they are [Tagged] like [Result] and [Option].  go's native shapes
// are viewed through a body's static result type: an error result is a
// Result which is Ok if nil while a pointer result is an Option which is
// Some of the pointed-to value if not nil.  User-defined enums are
// matched by [Variant] through [Tagged], their String method or the
// name of their dynamic type, e.g. for structs implementing a sealed
// interface.
//
// The command cmd/shouldmatch lifts the checks to the declaration level.
// Given a regular file of a package parser with the directive
//
//	//go:generate go run github.com/slukits/shouldmatch/cmd/shouldmatch
//
// and a file which is excluded from regular builds by the shouldmatch
// build tag
//
//	//go:build shouldmatch
//
//	package parser
//
//	//shouldmatch:match Err("invalid syntax") | Err("empty input")
//	//shouldmatch:test
//	func parseGarbage() (int, error) {
//	    return Parse("x")
//	}
//
// go generate writes a test file containing a test TestParseGarbage
// which runs the body of parseGarbage and fails with the message
//
//	Expected to match `Err("invalid syntax") | Err("empty input")`
//
// unless the (int, error) result is an error with one of the two
// messages.  The directives
//
//	//shouldmatch:match <pattern>
//	//shouldmatch:ok
//	//shouldmatch:err
//	//shouldmatch:some
//	//shouldmatch:none
//	//shouldmatch:message "<custom failure message>"
//	//shouldmatch:test
//
// may be given in any order; exactly one of the first five is required.
// All comment lines of an annotated function are kept for the generated
// test.
package shouldmatch
