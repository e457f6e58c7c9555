// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

import (
	"fmt"

	"go.lox.dev/syntax"
)

// A Function is a function declared in Lox, together with the
// environment in which it was declared.
type Function struct {
	decl    *syntax.FunStmt
	closure *Env
	interp  *Interpreter
}

func (fn *Function) Name() string   { return fn.decl.Name.Lexeme }
func (fn *Function) Arity() int     { return len(fn.decl.Params) }
func (fn *Function) String() string { return "<fn " + fn.Name() + ">" }
func (fn *Function) Type() string   { return "function" }
func (fn *Function) Truth() Bool    { return True }

// Decl returns the declaration of the function.
func (fn *Function) Decl() *syntax.FunStmt { return fn.decl }

// CallInternal binds the arguments to the parameters in a new
// environment enclosed by the closure, and executes the body there.
func (fn *Function) CallInternal(thread *Thread, args []Value) (Value, error) {
	env := NewEnv(fn.closure)
	for i, param := range fn.decl.Params {
		env.Define(param.Lexeme, args[i])
	}
	ctl, err := fn.interp.execBlock(fn.decl.Body, env)
	if err != nil {
		return nil, err
	}
	switch ctl.kind {
	case returning:
		return ctl.value, nil
	case breaking, continuing:
		return nil, fn.interp.errorf(ctl.token, "Can't use '%s' outside of a loop.", ctl.token.Lexeme)
	}
	return Nil, nil
}

// A Builtin is a function implemented in Go.
type Builtin struct {
	name  string
	arity int
	fn    func(thread *Thread, b *Builtin, args []Value) (Value, error)
}

// NewBuiltin returns a new Builtin value with the specified name,
// arity and implementation. The interpreter checks the number of
// arguments before calling fn.
func NewBuiltin(name string, arity int, fn func(thread *Thread, b *Builtin, args []Value) (Value, error)) *Builtin {
	return &Builtin{name: name, arity: arity, fn: fn}
}

func (b *Builtin) Name() string   { return b.name }
func (b *Builtin) Arity() int     { return b.arity }
func (b *Builtin) String() string { return "<native fn>" }
func (b *Builtin) Type() string   { return "builtin_function" }
func (b *Builtin) Truth() Bool    { return True }

func (b *Builtin) CallInternal(thread *Thread, args []Value) (Value, error) {
	return b.fn(thread, b, args)
}

// Call calls the function fn with the specified arguments.
// It checks the argument count and maintains the thread's call stack.
// The line is that of the call, and is recorded in the caller's frame.
func Call(thread *Thread, fn Value, args []Value, line int) (Value, error) {
	c, ok := fn.(Callable)
	if !ok {
		return nil, fmt.Errorf("Can only call functions and classes.")
	}
	if len(args) != c.Arity() {
		return nil, fmt.Errorf("Expected %d arguments but got %d.", c.Arity(), len(args))
	}

	if debug {
		fmt.Printf("call of %s %v\n", c.Name(), args)
	}

	thread.top().line = line
	thread.push(c)
	res, err := c.CallInternal(thread, args)
	thread.pop()

	// Sanity check: nil is not a valid Lox value.
	if err == nil && res == nil {
		return nil, fmt.Errorf("internal error: nil (not Nil) returned from %s", fn)
	}
	return res, err
}
