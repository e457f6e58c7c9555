// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve defines a name-resolution pass for Lox abstract
// syntax trees.
//
// The resolver runs once over a syntax tree before evaluation. For
// every variable reference or assignment that refers to a local
// variable it records the number of scopes between the use and the
// declaration. References that are not found in any enclosing block
// or function scope are global and are looked up by name at run time.
//
// The resolver also reports the static errors that the parser cannot
// see: reading a local variable in its own initializer, declaring a
// name twice in the same local scope, return outside a function, and
// break or continue outside a loop.
//
// Environments: the evaluator creates a new environment for each
// block and each function call, and the resolver pushes a scope at
// exactly the same places. A function's parameters and its body
// share a single scope, since the body statements are executed
// directly in the call environment. The distances it records are
// therefore valid hop counts in the evaluator's environment chain.
package resolve // import "go.lox.dev/resolve"

import (
	"fmt"

	"github.com/edwingeng/deque"

	"go.lox.dev/syntax"
)

const debug = false

// AllowTopLevelBranch permits break and continue outside of any loop.
// The statements are then rejected at run time instead.
var AllowTopLevelBranch = false

// Locals maps each resolved local variable reference (a *syntax.Variable
// or *syntax.Assign node) to the number of environments between the
// use and its declaration. A reference absent from the table is global.
//
// The table is keyed by node identity: two uses of the same name at
// different places in the tree have distinct entries.
type Locals map[syntax.Expr]int

// File resolves the specified program.
// The returned error, if non-nil, is a syntax.ErrorList.
// The table is returned even when errors were found.
func File(stmts []syntax.Stmt) (Locals, error) {
	r := newResolver()
	r.stmts(stmts)
	return r.locals, r.errors.Err()
}

// Expr resolves the specified expression, which is evaluated in the
// global environment. Every name in it is therefore global.
func Expr(e syntax.Expr) (Locals, error) {
	r := newResolver()
	r.expr(e)
	return r.locals, r.errors.Err()
}

// Declaration states of a name within a scope.
const (
	declared = false // name is in scope but its initializer is still running
	defined  = true
)

type funcKind uint8

const (
	notFunction funcKind = iota
	function
)

type resolver struct {
	// scopes is the stack of local block and function scopes,
	// innermost at the back. Each element is a map[string]bool
	// from name to declaration state. The global scope is not
	// represented; an empty stack means top level.
	scopes deque.Deque

	locals Locals
	errors syntax.ErrorList

	fn    funcKind // kind of the innermost enclosing function
	loops int      // number of loops enclosing the current statement in this function
}

func newResolver() *resolver {
	return &resolver{
		scopes: deque.NewDeque(),
		locals: make(Locals),
	}
}

func (r *resolver) errorf(tok syntax.Token, format string, args ...interface{}) {
	r.errors = append(r.errors, syntax.ErrorAt(tok, fmt.Sprintf(format, args...)))
}

func (r *resolver) push() { r.scopes.PushBack(make(map[string]bool)) }

func (r *resolver) pop() { r.scopes.PopBack() }

// innermost returns the innermost local scope, or nil at top level.
func (r *resolver) innermost() map[string]bool {
	if r.scopes.Len() == 0 {
		return nil
	}
	return r.scopes.Back().(map[string]bool)
}

// declare adds a name to the innermost scope, marking it not yet ready.
// Globals may be redeclared freely.
func (r *resolver) declare(name syntax.Token) {
	scope := r.innermost()
	if scope == nil {
		return
	}
	if _, ok := scope[name.Lexeme]; ok {
		r.errorf(name, "Variable '%s' already declared in this scope.", name.Lexeme)
	}
	scope[name.Lexeme] = declared
}

func (r *resolver) define(name syntax.Token) {
	if scope := r.innermost(); scope != nil {
		scope[name.Lexeme] = defined
	}
}

// use records the binding distance of the reference e to name,
// searching from the innermost scope outwards.
func (r *resolver) use(e syntax.Expr, name syntax.Token) {
	n := r.scopes.Len()
	for i := n - 1; i >= 0; i-- {
		scope := r.scopes.Peek(i).(map[string]bool)
		if _, ok := scope[name.Lexeme]; ok {
			r.locals[e] = n - 1 - i
			if debug {
				fmt.Printf("resolve: %s at line %d: local, depth %d\n", name.Lexeme, name.Line, n-1-i)
			}
			return
		}
	}
	if debug {
		fmt.Printf("resolve: %s at line %d: global\n", name.Lexeme, name.Line)
	}
}

func (r *resolver) stmts(stmts []syntax.Stmt) {
	for _, stmt := range stmts {
		r.stmt(stmt)
	}
}

func (r *resolver) stmt(stmt syntax.Stmt) {
	switch stmt := stmt.(type) {
	case *syntax.ExprStmt:
		r.expr(stmt.X)

	case *syntax.PrintStmt:
		r.expr(stmt.X)

	case *syntax.VarStmt:
		r.declare(stmt.Name)
		if stmt.Init != nil {
			r.expr(stmt.Init)
		}
		r.define(stmt.Name)

	case *syntax.BlockStmt:
		r.push()
		r.stmts(stmt.Stmts)
		r.pop()

	case *syntax.IfStmt:
		r.expr(stmt.Cond)
		r.stmt(stmt.Then)
		if stmt.Else != nil {
			r.stmt(stmt.Else)
		}

	case *syntax.WhileStmt:
		r.expr(stmt.Cond)
		r.loops++
		r.stmt(stmt.Body)
		r.loops--

	case *syntax.FunStmt:
		// The name is defined before the body is resolved
		// so that the function may refer to itself.
		r.declare(stmt.Name)
		r.define(stmt.Name)
		r.function(stmt)

	case *syntax.ReturnStmt:
		if r.fn == notFunction {
			r.errorf(stmt.Keyword, "Cannot return from top-level code.")
		}
		if stmt.Result != nil {
			r.expr(stmt.Result)
		}

	case *syntax.BranchStmt:
		if r.loops == 0 && !AllowTopLevelBranch {
			r.errorf(stmt.Token, "Can't use '%s' outside of a loop.", stmt.Token.Lexeme)
		}

	default:
		panic(fmt.Sprintf("unexpected stmt %T", stmt))
	}
}

func (r *resolver) function(fn *syntax.FunStmt) {
	enclosingFn, enclosingLoops := r.fn, r.loops
	r.fn, r.loops = function, 0

	r.push()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.stmts(fn.Body)
	r.pop()

	r.fn, r.loops = enclosingFn, enclosingLoops
}

func (r *resolver) expr(e syntax.Expr) {
	switch e := e.(type) {
	case *syntax.Literal:
		// no-op

	case *syntax.Grouping:
		r.expr(e.X)

	case *syntax.Unary:
		r.expr(e.X)

	case *syntax.Binary:
		r.expr(e.X)
		r.expr(e.Y)

	case *syntax.Logical:
		r.expr(e.X)
		r.expr(e.Y)

	case *syntax.Variable:
		if scope := r.innermost(); scope != nil {
			if state, ok := scope[e.Name.Lexeme]; ok && state == declared {
				r.errorf(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.use(e, e.Name)

	case *syntax.Assign:
		r.expr(e.Value)
		r.use(e, e.Name)

	case *syntax.Call:
		r.expr(e.Callee)
		for _, arg := range e.Args {
			r.expr(arg)
		}

	default:
		panic(fmt.Sprintf("unexpected expr %T", e))
	}
}
