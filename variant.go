// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shouldmatch

import (
	"errors"
	"fmt"
	"reflect"
)

// Tagged is implemented by enum-shaped values, i.e. values which are
// exactly one of several named variants each carrying an optional
// payload.  [Result] and [Option] are Tagged; so may be any type of a
// test's production code which should be matchable by [Variant].
type Tagged interface {

	// Variant returns the name of the variant the value is.
	Variant() string

	// Payload returns the values the variant carries in the order they
	// are matched by a variant-pattern's payload patterns.
	Payload() []any
}

// Variant names of the built-in sum types.
const (
	OkVariant   = "Ok"
	ErrVariant  = "Err"
	SomeVariant = "Some"
	NoneVariant = "None"
)

// Unit is the value of an Ok-variant which carries no information.
type Unit struct{}

func (Unit) String() string { return "()" }

// Result is either the Ok-variant carrying a value of type T or the
// Err-variant carrying an error.  The zero value is Ok with T's zero
// value.
type Result[T any] struct {
	val T
	err error
}

// OkOf returns the Ok-variant of a Result carrying given value.
func OkOf[T any](v T) Result[T] { return Result[T]{val: v} }

// ErrOf returns the Err-variant of a Result carrying given error.  A
// nil error is replaced by an error stating that fact to keep the
// variant an Err-variant.
func ErrOf[T any](err error) Result[T] {
	if err == nil {
		err = errNilErr
	}
	return Result[T]{err: err}
}

var errNilErr = errors.New("shouldmatch: nil error")

// Try adapts go's (value, error) convention to a Result, i.e. a non-nil
// error makes an Err-variant while the value is ignored; otherwise the
// Ok-variant of given value is returned.
func Try[T any](v T, err error) Result[T] {
	if err != nil {
		return Result[T]{err: err}
	}
	return Result[T]{val: v}
}

// IsOk returns true iff r is the Ok-variant.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Get returns r's value and error in go's (value, error) convention.
func (r Result[T]) Get() (T, error) { return r.val, r.err }

// Variant returns "Ok" or "Err".
func (r Result[T]) Variant() string {
	if r.err != nil {
		return ErrVariant
	}
	return OkVariant
}

// Payload returns the value for the Ok-variant and the error for the
// Err-variant.
func (r Result[T]) Payload() []any {
	if r.err != nil {
		return []any{r.err}
	}
	return []any{r.val}
}

func (r Result[T]) String() string {
	if r.err != nil {
		return fmt.Sprintf("Err(%s)", render(r.err))
	}
	return fmt.Sprintf("Ok(%s)", render(r.val))
}

// Option is either the Some-variant carrying a value of type T or the
// None-variant carrying nothing.  The zero value is None.
type Option[T any] struct {
	val T
	ok  bool
}

// SomeOf returns the Some-variant of an Option carrying given value.
func SomeOf[T any](v T) Option[T] { return Option[T]{val: v, ok: true} }

// NoneOf returns the None-variant of an Option.
func NoneOf[T any]() Option[T] { return Option[T]{} }

// Maybe adapts go's comma-ok convention to an Option.
func Maybe[T any](v T, ok bool) Option[T] {
	if !ok {
		return Option[T]{}
	}
	return Option[T]{val: v, ok: true}
}

// IsSome returns true iff o is the Some-variant.
func (o Option[T]) IsSome() bool { return o.ok }

// Get returns o's value and true for the Some-variant; T's zero value
// and false otherwise.
func (o Option[T]) Get() (T, bool) { return o.val, o.ok }

// Variant returns "Some" or "None".
func (o Option[T]) Variant() string {
	if o.ok {
		return SomeVariant
	}
	return NoneVariant
}

// Payload returns the value of a Some-variant and nil for None.
func (o Option[T]) Payload() []any {
	if o.ok {
		return []any{o.val}
	}
	return nil
}

func (o Option[T]) String() string {
	if o.ok {
		return fmt.Sprintf("Some(%s)", render(o.val))
	}
	return NoneVariant
}

// tagged is the variant view of go-native shapes like a result of
// static type error or a pointer result.
type tagged struct {
	name    string
	payload []any
}

func (t tagged) Variant() string { return t.name }
func (t tagged) Payload() []any  { return t.payload }

func (t tagged) String() string {
	if len(t.payload) == 0 {
		return t.name
	}
	return fmt.Sprintf("%s(%s)", t.name, render(t.payload[0]))
}

var (
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
	taggedType = reflect.TypeOf((*Tagged)(nil)).Elem()
)

// view returns the value a pattern is matched against for given result
// of static type R.  A result of static type error is viewed as Result,
// a pointer result which isn't Tagged as Option of the pointed-to
// value; any other result is returned as is.
func view[R any](r R) any {
	rt := reflect.TypeOf((*R)(nil)).Elem()
	switch {
	case rt == errorType:
		if err, _ := any(r).(error); err != nil {
			return tagged{name: ErrVariant, payload: []any{err}}
		}
		return tagged{name: OkVariant, payload: []any{Unit{}}}
	case rt.Kind() == reflect.Pointer && !rt.Implements(taggedType):
		rv := reflect.ValueOf(r)
		if rv.IsNil() {
			return tagged{name: NoneVariant}
		}
		return tagged{name: SomeVariant, payload: []any{
			rv.Elem().Interface()}}
	}
	return r
}

// variantOf resolves the variant name and payload of given value.  A
// Tagged value provides both.  A fmt.Stringer is the variant its String
// method returns without payload.  Other values are the variant named
// like their (dereferenced) dynamic type with their exported fields as
// payload.  The last two cases serve go's typical enum idioms of
// constants of a Stringer type respectively structs implementing a
// sealed interface.
func variantOf(v any) (name string, payload []any, ok bool) {
	switch v := v.(type) {
	case nil:
		return "", nil, false
	case Tagged:
		if isNilValue(v) {
			return "", nil, false
		}
		return v.Variant(), v.Payload(), true
	case fmt.Stringer:
		if isNilValue(v) {
			return "", nil, false
		}
		return v.String(), nil, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", nil, false
		}
		rv = rv.Elem()
	}
	if rv.Type().Name() == "" {
		return "", nil, false
	}
	if rv.Kind() == reflect.Struct {
		for i := 0; i < rv.NumField(); i++ {
			if !rv.Type().Field(i).IsExported() {
				continue
			}
			payload = append(payload, rv.Field(i).Interface())
		}
	}
	return rv.Type().Name(), payload, true
}
