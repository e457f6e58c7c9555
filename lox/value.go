// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lox provides a Lox interpreter.
//
// Lox values are represented by the Value interface.
// The following built-in Value types are known to the evaluator:
//
//	NilType     -- nil
//	Bool        -- true or false
//	Number      -- a float64
//	String      -- a Go string
//	*Function   -- a function declared in Lox
//	*Builtin    -- a function implemented in Go
//
// The evaluator walks the syntax tree produced by package syntax,
// using the variable bindings computed by package resolve.
// Variables live in a chain of environments (Env): one for the
// global scope and one for each executing block and function call.
// A function value captures the environment in which it was declared,
// which therefore lives as long as the function does.
package lox // import "go.lox.dev/lox"

import (
	"math"
	"strconv"
	"strings"
)

// Value is a value in the Lox interpreter.
type Value interface {
	// String returns the string representation of the value,
	// as printed by the print statement.
	String() string

	// Type returns a short string describing the value's type.
	Type() string

	// Truth returns the truth value of an object.
	Truth() Bool
}

// A Callable value f may be the operand of a function call, f(x).
//
// Clients should use the Call function, never the CallInternal method.
type Callable interface {
	Value
	Name() string
	Arity() int
	CallInternal(thread *Thread, args []Value) (Value, error)
}

var (
	_ Callable = (*Builtin)(nil)
	_ Callable = (*Function)(nil)
)

// NilType is the type of nil. Its only legal value is Nil.
// (We represent it as a number, not struct{}, so that Nil may be constant.)
type NilType byte

const Nil = NilType(0)

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "nil" }
func (NilType) Truth() Bool    { return False }

// Bool is the type of a Lox bool.
type Bool bool

const (
	False Bool = false
	True  Bool = true
)

func (b Bool) String() string {
	if b {
		return "true"
	} else {
		return "false"
	}
}
func (b Bool) Type() string { return "bool" }
func (b Bool) Truth() Bool  { return b }

// Number is the type of a Lox number, an IEEE 754 double.
type Number float64

// String formats the number in its shortest form, without
// a trailing ".0" for integral values. Magnitudes of 1e21 and
// above use an upper-case exponent, as in 1E+21.
func (x Number) String() string {
	f := float64(x)
	if math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.Replace(strconv.FormatFloat(f, 'g', -1, 64), "e", "E", 1)
}
func (x Number) Type() string { return "number" }
func (x Number) Truth() Bool  { return True }

// String is the type of a Lox string.
type String string

func (s String) String() string { return string(s) }
func (s String) Type() string   { return "string" }
func (s String) Truth() Bool    { return True }

// Truth reports the truthiness of x: nil and false are falsy,
// every other value is truthy.
func Truth(x Value) bool { return bool(x.Truth()) }

// Stringify returns the display form of a value, as written by print.
func Stringify(x Value) string { return x.String() }

// Equal reports whether two values are equal.
// Values of different types are never equal; nil equals only nil;
// callables are equal only to themselves.
func Equal(x, y Value) bool {
	switch x := x.(type) {
	case NilType:
		_, ok := y.(NilType)
		return ok
	case Bool:
		y, ok := y.(Bool)
		return ok && x == y
	case Number:
		y, ok := y.(Number)
		return ok && (x == y || x != x && y != y) // NaN is equal to itself
	case String:
		y, ok := y.(String)
		return ok && x == y
	}
	return x == y // reference identity
}
