// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

import (
	"fmt"
	"log"
	"strings"

	"go.lox.dev/resolve"
	"go.lox.dev/syntax"
)

const debug = false

// A Thread contains the state of a Lox thread,
// such as its call stack.
// The Thread is threaded throughout the evaluator.
type Thread struct {
	// Name is an optional name that describes the thread, for debugging.
	Name string

	// Print is the client-supplied implementation of the Lox
	// print statement. If nil, fmt.Println(msg) is used instead.
	Print func(thread *Thread, msg string)

	// stack is the stack of active calls, outermost first.
	// The first frame, if any, is the top level.
	stack []*frame
}

// A frame records an active call and the line of its current
// point of execution.
type frame struct {
	callable Callable // nil for the top level
	line     int
}

func (thread *Thread) push(c Callable) {
	thread.stack = append(thread.stack, &frame{callable: c})
}

func (thread *Thread) pop() {
	thread.stack = thread.stack[:len(thread.stack)-1]
}

// top returns the innermost frame, creating the top-level frame if needed.
func (thread *Thread) top() *frame {
	if len(thread.stack) == 0 {
		thread.push(nil)
	}
	return thread.stack[len(thread.stack)-1]
}

func (thread *Thread) print(msg string) {
	if thread.Print != nil {
		thread.Print(thread, msg)
	} else {
		fmt.Println(msg)
	}
}

// CallStackDepth returns the number of frames in the current call stack,
// including the top level.
func (thread *Thread) CallStackDepth() int { return len(thread.stack) }

// CallStack returns a new slice containing the thread's stack of call frames.
func (thread *Thread) CallStack() CallStack {
	stack := make(CallStack, len(thread.stack))
	for i, fr := range thread.stack {
		name := "<toplevel>"
		if fr.callable != nil {
			name = fr.callable.Name()
		}
		stack[i] = CallFrame{Name: name, Line: fr.line}
	}
	return stack
}

// A CallFrame represents the function name and current
// line of execution of an active call frame.
type CallFrame struct {
	Name string
	Line int
}

// A CallStack is a stack of call frames, outermost first.
type CallStack []CallFrame

// At returns a copy of the frame at depth i.
// At(0) returns the innermost frame.
func (stack CallStack) At(i int) CallFrame { return stack[len(stack)-1-i] }

// String returns a user-friendly description of the stack.
func (stack CallStack) String() string {
	out := new(strings.Builder)
	fmt.Fprintf(out, "Traceback (most recent call last):\n")
	for _, fr := range stack {
		fmt.Fprintf(out, "  [line %d] in %s\n", fr.Line, fr.Name)
	}
	return out.String()
}

// An EvalError is a Lox runtime error and its associated call stack.
type EvalError struct {
	Msg       string
	Line      int
	CallStack CallStack
}

// Error returns the message followed by the line on which the error occurred.
func (e *EvalError) Error() string { return fmt.Sprintf("%s\n[line %d]", e.Msg, e.Line) }

// Backtrace returns a user-friendly error message describing the stack
// of calls that led to this error.
func (e *EvalError) Backtrace() string {
	return fmt.Sprintf("%sError: %s", e.CallStack, e.Msg)
}

// An Interpreter executes resolved Lox programs.
// Global variables persist from one call of Interpret to the next.
//
// An Interpreter must not be used by more than one goroutine at a time.
type Interpreter struct {
	thread  *Thread
	globals *Env
	env     *Env // current environment
	locals  resolve.Locals
}

// NewInterpreter returns an interpreter whose global environment
// contains the built-in functions of the Universe.
// If thread is nil, a new Thread is used.
func NewInterpreter(thread *Thread) *Interpreter {
	if thread == nil {
		thread = new(Thread)
	}
	globals := NewEnv(nil)
	for name, v := range Universe {
		globals.Define(name, v)
	}
	return &Interpreter{
		thread:  thread,
		globals: globals,
		env:     globals,
		locals:  make(resolve.Locals),
	}
}

// Globals returns the global environment.
func (in *Interpreter) Globals() *Env { return in.globals }

// Thread returns the interpreter's thread.
func (in *Interpreter) Thread() *Thread { return in.thread }

// Interpret executes a program in the global environment.
// The locals table, produced by resolve.File for the same statements,
// is added to those of previous programs run by this interpreter.
//
// Execution stops at the first runtime error, which is returned
// as an *EvalError. Side effects that occurred before it remain.
func (in *Interpreter) Interpret(stmts []syntax.Stmt, locals resolve.Locals) error {
	in.begin(locals)
	for _, stmt := range stmts {
		ctl, err := in.exec(stmt)
		if err != nil {
			return err
		}
		switch ctl.kind {
		case breaking, continuing:
			return in.errorf(ctl.token, "Can't use '%s' outside of a loop.", ctl.token.Lexeme)
		case returning:
			return in.errorf(ctl.token, "Cannot return from top-level code.")
		}
	}
	return nil
}

// Evaluate evaluates an expression in the global environment.
func (in *Interpreter) Evaluate(e syntax.Expr, locals resolve.Locals) (Value, error) {
	in.begin(locals)
	return in.eval(e)
}

func (in *Interpreter) begin(locals resolve.Locals) {
	for e, depth := range locals {
		in.locals[e] = depth
	}
	in.env = in.globals
	in.thread.stack = in.thread.stack[:0]
	in.thread.push(nil)
}

func (in *Interpreter) errorf(tok syntax.Token, format string, args ...interface{}) *EvalError {
	in.thread.top().line = tok.Line
	return &EvalError{
		Msg:       fmt.Sprintf(format, args...),
		Line:      tok.Line,
		CallStack: in.thread.CallStack(),
	}
}

type controlKind uint8

const (
	normal controlKind = iota
	returning
	breaking
	continuing
)

// A control is the outcome of executing a statement.
// Any kind other than normal stops the enclosing statement sequence
// and propagates outwards until a loop (break, continue) or a
// function call (return) consumes it.
type control struct {
	kind  controlKind
	value Value        // result of return
	token syntax.Token // the return, break or continue keyword
}

// execBlock executes stmts in env, then restores the current environment.
func (in *Interpreter) execBlock(stmts []syntax.Stmt, env *Env) (control, error) {
	prev := in.env
	in.env = env
	defer func() { in.env = prev }()

	for _, stmt := range stmts {
		ctl, err := in.exec(stmt)
		if err != nil || ctl.kind != normal {
			return ctl, err
		}
	}
	return control{}, nil
}

func (in *Interpreter) exec(stmt syntax.Stmt) (control, error) {
	switch stmt := stmt.(type) {
	case *syntax.ExprStmt:
		_, err := in.eval(stmt.X)
		return control{}, err

	case *syntax.PrintStmt:
		v, err := in.eval(stmt.X)
		if err != nil {
			return control{}, err
		}
		in.thread.print(Stringify(v))
		return control{}, nil

	case *syntax.VarStmt:
		var v Value = Nil
		if stmt.Init != nil {
			var err error
			if v, err = in.eval(stmt.Init); err != nil {
				return control{}, err
			}
		}
		in.env.Define(stmt.Name.Lexeme, v)
		return control{}, nil

	case *syntax.BlockStmt:
		return in.execBlock(stmt.Stmts, NewEnv(in.env))

	case *syntax.IfStmt:
		cond, err := in.eval(stmt.Cond)
		if err != nil {
			return control{}, err
		}
		if Truth(cond) {
			return in.exec(stmt.Then)
		} else if stmt.Else != nil {
			return in.exec(stmt.Else)
		}
		return control{}, nil

	case *syntax.WhileStmt:
		for {
			cond, err := in.eval(stmt.Cond)
			if err != nil {
				return control{}, err
			}
			if !Truth(cond) {
				break
			}
			ctl, err := in.exec(stmt.Body)
			if err != nil {
				return control{}, err
			}
			switch ctl.kind {
			case breaking:
				return control{}, nil
			case returning:
				return ctl, nil
			}
			// normal or continuing: check the condition again.
		}
		return control{}, nil

	case *syntax.FunStmt:
		fn := &Function{decl: stmt, closure: in.env, interp: in}
		in.env.Define(stmt.Name.Lexeme, fn)
		return control{}, nil

	case *syntax.ReturnStmt:
		var v Value = Nil
		if stmt.Result != nil {
			var err error
			if v, err = in.eval(stmt.Result); err != nil {
				return control{}, err
			}
		}
		return control{kind: returning, value: v, token: stmt.Keyword}, nil

	case *syntax.BranchStmt:
		if stmt.Token.Kind == syntax.BREAK {
			return control{kind: breaking, token: stmt.Token}, nil
		}
		return control{kind: continuing, token: stmt.Token}, nil
	}

	log.Fatalf("line %d: unexpected statement %T", stmt.Line(), stmt)
	panic("unreachable")
}

func (in *Interpreter) eval(e syntax.Expr) (Value, error) {
	switch e := e.(type) {
	case *syntax.Literal:
		return literal(e.Value), nil

	case *syntax.Grouping:
		return in.eval(e.X)

	case *syntax.Unary:
		x, err := in.eval(e.X)
		if err != nil {
			return nil, err
		}
		switch e.Op.Kind {
		case syntax.MINUS:
			if x, ok := x.(Number); ok {
				return -x, nil
			}
			return nil, in.errorf(e.Op, "Operand must be a number.")
		case syntax.BANG:
			return !x.Truth(), nil
		}

	case *syntax.Binary:
		x, err := in.eval(e.X)
		if err != nil {
			return nil, err
		}
		y, err := in.eval(e.Y)
		if err != nil {
			return nil, err
		}
		return in.binary(e.Op, x, y)

	case *syntax.Logical:
		x, err := in.eval(e.X)
		if err != nil {
			return nil, err
		}
		if e.Op.Kind == syntax.OR {
			if Truth(x) {
				return x, nil
			}
		} else if !Truth(x) {
			return x, nil
		}
		return in.eval(e.Y)

	case *syntax.Variable:
		return in.lookup(e, e.Name)

	case *syntax.Assign:
		v, err := in.eval(e.Value)
		if err != nil {
			return nil, err
		}
		if depth, ok := in.locals[e]; ok {
			in.env.AssignAt(depth, e.Name.Lexeme, v)
		} else if !in.globals.Assign(e.Name.Lexeme, v) {
			return nil, in.errorf(e.Name, "Undefined variable '%s'.", e.Name.Lexeme)
		}
		return v, nil

	case *syntax.Call:
		return in.call(e)
	}

	log.Fatalf("line %d: unexpected expr %T", e.Line(), e)
	panic("unreachable")
}

func literal(v interface{}) Value {
	switch v := v.(type) {
	case nil:
		return Nil
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case string:
		return String(v)
	}
	log.Fatalf("unexpected literal %T", v)
	panic("unreachable")
}

// lookup returns the value of the variable named by the reference e.
func (in *Interpreter) lookup(e syntax.Expr, name syntax.Token) (Value, error) {
	if depth, ok := in.locals[e]; ok {
		if v, ok := in.env.GetAt(depth, name.Lexeme); ok {
			return v, nil
		}
	} else if v, ok := in.globals.Get(name.Lexeme); ok {
		return v, nil
	}
	return nil, in.errorf(name, "Undefined variable '%s'.", name.Lexeme)
}

// binary applies a strict binary operator to its evaluated operands.
func (in *Interpreter) binary(op syntax.Token, x, y Value) (Value, error) {
	switch op.Kind {
	case syntax.EQUAL_EQUAL:
		return Bool(Equal(x, y)), nil
	case syntax.BANG_EQUAL:
		return Bool(!Equal(x, y)), nil

	case syntax.PLUS:
		switch x := x.(type) {
		case Number:
			if y, ok := y.(Number); ok {
				return x + y, nil
			}
		case String:
			if y, ok := y.(String); ok {
				return x + y, nil
			}
		}
		return nil, in.errorf(op, "Operands must be two numbers or two strings.")
	}

	xn, ok1 := x.(Number)
	yn, ok2 := y.(Number)
	if !ok1 || !ok2 {
		return nil, in.errorf(op, "Operands must be numbers.")
	}
	switch op.Kind {
	case syntax.MINUS:
		return xn - yn, nil
	case syntax.STAR:
		return xn * yn, nil
	case syntax.SLASH:
		if yn == 0 {
			return nil, in.errorf(op, "Division by zero.")
		}
		return xn / yn, nil
	case syntax.GREATER:
		return Bool(xn > yn), nil
	case syntax.GREATER_EQUAL:
		return Bool(xn >= yn), nil
	case syntax.LESS:
		return Bool(xn < yn), nil
	case syntax.LESS_EQUAL:
		return Bool(xn <= yn), nil
	}
	log.Fatalf("line %d: unexpected binary operator %s", op.Line, op.Kind)
	panic("unreachable")
}

func (in *Interpreter) call(e *syntax.Call) (Value, error) {
	fn, err := in.eval(e.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		v, err := in.eval(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	res, err := Call(in.thread, fn, args, e.Paren.Line)
	if err != nil {
		if _, ok := err.(*EvalError); ok {
			return nil, err
		}
		return nil, in.errorf(e.Paren, "%s", err)
	}
	return res, nil
}
