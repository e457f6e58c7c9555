// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

import (
	"errors"

	"go.lox.dev/resolve"
	"go.lox.dev/syntax"
)

// Exit statuses of a Lox program run, following sysexits.h.
const (
	ExitUsage   = 64 // EX_USAGE: bad command line
	ExitStatic  = 65 // EX_DATAERR: scan, parse or resolve error
	ExitRuntime = 70 // EX_SOFTWARE: runtime error
)

// ExecFile scans, parses, resolves and executes a Lox program
// in the interpreter's global environment.
//
// If the program has static errors, nothing is executed and the
// error is a syntax.ErrorList. A runtime error is an *EvalError.
func (in *Interpreter) ExecFile(src []byte) error {
	stmts, err := syntax.ParseFile(src)
	if err != nil {
		return err
	}
	locals, err := resolve.File(stmts)
	if err != nil {
		return err
	}
	return in.Interpret(stmts, locals)
}

// EvalExpr scans, parses, resolves and evaluates a single
// Lox expression in the interpreter's global environment.
// Any tokens after the expression are a static error.
func (in *Interpreter) EvalExpr(src []byte) (Value, error) {
	e, err := syntax.ParseExprSource(src)
	if err != nil {
		return nil, err
	}
	locals, err := resolve.Expr(e)
	if err != nil {
		return nil, err
	}
	return in.Evaluate(e, locals)
}

// ExitStatus returns the process exit status that reports err:
// 0 for nil, ExitStatic for static errors, ExitRuntime for runtime
// errors, and 1 for any other error.
func ExitStatus(err error) int {
	var static syntax.ErrorList
	var runtime *EvalError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &static):
		return ExitStatic
	case errors.As(err, &runtime):
		return ExitRuntime
	}
	return 1
}
