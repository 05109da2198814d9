// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shouldmatch

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// A Pattern describes the accepted shapes of a value.  Match must be a
// pure and total test, i.e. it neither has side effects nor panics for
// any given value.  String renders the pattern the way it is reported
// in a synthesized failure message.
type Pattern interface {
	Match(v any) bool
	String() string
}

// Any returns the wildcard pattern matching every value.
func Any() Pattern { return wildcard{} }

type wildcard struct{}

func (wildcard) Match(any) bool { return true }
func (wildcard) String() string { return "_" }

// Lit returns a pattern matching values equal to given literal.  Next
// to go-cmp's notion of equality (unexported fields included) a literal
// matches
//   - an error wrapping it if the literal is an error,
//   - an error whose message it is if the literal is a string,
//   - a number of a different numeric type of the same sign if it
//     converts losslessly,
//   - any nil-able nil value if the literal is nil.
func Lit(v any) Pattern { return literal{v: v} }

type literal struct{ v any }

func (l literal) Match(v any) bool { return equal(v, l.v) }
func (l literal) String() string   { return render(l.v) }

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

func equal(v, lit any) bool {
	if isNilValue(lit) {
		return isNilValue(v)
	}
	switch lit := lit.(type) {
	case error:
		err, ok := v.(error)
		return ok && !isNilValue(err) && errors.Is(err, lit)
	case string:
		if err, ok := v.(error); ok {
			return !isNilValue(err) && err.Error() == lit
		}
	}
	lv, vv := reflect.ValueOf(lit), reflect.ValueOf(v)
	if isNumber(lv.Kind()) && isNumber(vv.Kind()) && lv.Type() != vv.Type() {
		if !lv.CanConvert(vv.Type()) || signMismatch(lv, vv) {
			return false
		}
		converted := lv.Convert(vv.Type())
		if converted.Convert(lv.Type()).Interface() != lit {
			return false
		}
		return converted.Interface() == v
	}
	return cmp.Equal(v, lit, exportAll)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64, reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// signMismatch reports if one of given numbers is negative while the
// other is of an unsigned kind.  A conversion between the two may round
// trip anyway, e.g. int64(-1) and uint64(math.MaxUint64).
func signMismatch(a, b reflect.Value) bool {
	return negative(a) && isUnsigned(b.Kind()) ||
		negative(b) && isUnsigned(a.Kind())
}

func negative(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64:
		return v.Int() < 0
	case reflect.Float32, reflect.Float64:
		return v.Float() < 0
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// render returns the textual representation of a value as it is used in
// patterns and failure logs: strings and error messages are quoted,
// Stringer are rendered by their String method and everything else by
// its go-syntax representation.
func render(v any) string {
	if isNilValue(v) {
		return "nil"
	}
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case error:
		return strconv.Quote(v.Error())
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%#v", v)
}

// lift turns given value into a pattern: patterns are returned as is
// while any other value becomes a literal pattern.
func lift(v any) Pattern {
	if p, ok := v.(Pattern); ok {
		return p
	}
	return Lit(v)
}

func liftAll(vv []any) []Pattern {
	pp := make([]Pattern, len(vv))
	for i, v := range vv {
		pp[i] = lift(v)
	}
	return pp
}

// Variant returns a pattern matching values being the variant of given
// name, see [Tagged].  If no payload patterns are given a matched
// variant's payload is ignored; otherwise the payload must have as many
// values as patterns are given and each value must match its pattern.
// Payload arguments which are not patterns are taken as literals.
// Values which are not Tagged are matched by the result of their String
// method or by the name of their dynamic type with their exported
// fields as payload.
func Variant(name string, payload ...any) Pattern {
	if len(payload) == 0 {
		return variant{name: name, rest: true}
	}
	return variant{name: name, payload: liftAll(payload)}
}

type variant struct {
	name    string
	payload []Pattern

	// rest indicates that a variant's payload is ignored
	rest bool
}

func (p variant) Match(v any) bool {
	name, payload, ok := variantOf(v)
	if !ok || name != p.name {
		return false
	}
	if p.rest {
		return true
	}
	if len(payload) != len(p.payload) {
		return false
	}
	for i, pp := range p.payload {
		if !pp.Match(payload[i]) {
			return false
		}
	}
	return true
}

func (p variant) String() string {
	if p.rest {
		return p.name
	}
	ss := make([]string, len(p.payload))
	for i, pp := range p.payload {
		ss[i] = pp.String()
	}
	return fmt.Sprintf("%s(%s)", p.name, strings.Join(ss, ", "))
}

// oneOf returns the pattern of a built-in variant carrying exactly one
// value matching given optional payload pattern which defaults to the
// wildcard.
func oneOf(name string, payload []any) Pattern {
	switch len(payload) {
	case 0:
		return variant{name: name, payload: []Pattern{Any()}}
	case 1:
		return variant{name: name, payload: []Pattern{lift(payload[0])}}
	}
	panic(fmt.Sprintf("shouldmatch: %s: at most one payload pattern "+
		"expected; got %d", name, len(payload)))
}

// Ok returns a pattern matching the Ok-variant of a [Result] (or of a
// result of static type error which is nil).  An optional payload
// pattern constrains the carried value; it defaults to [Any].
func Ok(payload ...any) Pattern { return oneOf(OkVariant, payload) }

// Err returns a pattern matching the Err-variant of a [Result] (or of a
// result of static type error which isn't nil).  An optional payload
// pattern constrains the carried error; note that a string literal
// matches an error with this message, e.g. Err("error").
func Err(payload ...any) Pattern { return oneOf(ErrVariant, payload) }

// Some returns a pattern matching the Some-variant of an [Option] (or of
// a non-nil pointer result whose pointed-to value is the payload).
func Some(payload ...any) Pattern { return oneOf(SomeVariant, payload) }

// None returns a pattern matching the None-variant of an [Option] (or of
// a nil pointer result).
func None() Pattern { return variant{name: NoneVariant, rest: true} }

// Or returns a pattern matching values which are matched by at least one
// of given alternatives.  Alternatives which are not patterns are taken
// as literals.
func Or(alternatives ...any) Pattern {
	return alternation(liftAll(alternatives))
}

type alternation []Pattern

func (a alternation) Match(v any) bool {
	for _, p := range a {
		if p.Match(v) {
			return true
		}
	}
	return false
}

func (a alternation) String() string {
	ss := make([]string, len(a))
	for i, p := range a {
		ss[i] = p.String()
	}
	return strings.Join(ss, " | ")
}

// Satisfies returns a pattern matching values of type T for which given
// predicate holds.  The predicate must be pure.  Given description is
// the pattern's rendering.
func Satisfies[T any](description string, predicate func(T) bool) Pattern {
	return guard{desc: description, match: func(v any) bool {
		t, ok := v.(T)
		return ok && predicate(t)
	}}
}

type guard struct {
	desc  string
	match func(any) bool
}

func (g guard) Match(v any) bool { return g.match(v) }
func (g guard) String() string   { return g.desc }
