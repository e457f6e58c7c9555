// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides a read/eval/print loop for Lox.
//
// It supports readline-style command editing when the standard input
// is a terminal, and reads plain lines otherwise.
//
// Each line is run against a single interpreter, so declarations
// made by one line are visible to the next. A line that does not end
// with ';' or '}' is parsed as an expression and its value is
// printed. Otherwise the line is executed as a program for its side
// effects. Errors are printed and the loop continues.
package repl // import "go.lox.dev/repl"

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"golang.org/x/term"

	"go.lox.dev/lox"
	"go.lox.dev/syntax"
)

// Backtrace causes runtime errors to be printed with their call stack.
var Backtrace = false

// REPL executes a read, eval, print loop on the standard streams,
// using a new interpreter for the specified thread.
func REPL(thread *lox.Thread) {
	in := lox.NewInterpreter(thread)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		if err := Run(in, os.Stdin, os.Stdout, os.Stderr); err != nil {
			PrintError(os.Stderr, err)
		}
		return
	}

	rl, err := readline.New("> ")
	if err != nil {
		PrintError(os.Stderr, err)
		return
	}
	defer rl.Close()

	s := newSession(in, os.Stdout, os.Stderr)
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			// Control-C abandons the current line.
			fmt.Println(err)
			continue
		} else if err != nil {
			break
		}
		s.rep(line)
	}
	fmt.Println()
}

// Run reads lines from r until end of input and runs each one,
// writing values to stdout and errors to stderr. If the
// interpreter's thread has no Print function, print statements
// also write to stdout.
//
// It returns an error only if reading failed.
func Run(in *lox.Interpreter, r io.Reader, stdout, stderr io.Writer) error {
	s := newSession(in, stdout, stderr)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s.rep(sc.Text())
	}
	return sc.Err()
}

type session struct {
	in             *lox.Interpreter
	stdout, stderr io.Writer
}

func newSession(in *lox.Interpreter, stdout, stderr io.Writer) *session {
	if thread := in.Thread(); thread.Print == nil {
		thread.Print = func(_ *lox.Thread, msg string) { fmt.Fprintln(stdout, msg) }
	}
	return &session{in: in, stdout: stdout, stderr: stderr}
}

// rep evaluates and prints one line.
func (s *session) rep(line string) {
	tokens, err := syntax.Scan([]byte(line))
	if len(tokens) == 1 && err == nil {
		return // blank or comment
	}

	if isExpr(tokens) {
		v, err := s.in.EvalExpr([]byte(line))
		if err != nil {
			PrintError(s.stderr, err)
			return
		}
		fmt.Fprintln(s.stdout, lox.Stringify(v))
		return
	}

	if err := s.in.ExecFile([]byte(line)); err != nil {
		PrintError(s.stderr, err)
	}
}

// isExpr reports whether a line should be treated as an expression:
// its last token is neither ';' nor '}'.
func isExpr(tokens []syntax.Token) bool {
	if len(tokens) < 2 {
		return true
	}
	switch tokens[len(tokens)-2].Kind {
	case syntax.SEMICOLON, syntax.RIGHT_BRACE:
		return false
	}
	return true
}

var errorColor = color.New(color.FgRed)

// PrintError prints the error to w, or its backtrace if it is a Lox
// evaluation error and Backtrace is set. The message is red only
// when w is a terminal and color output is enabled.
func PrintError(w io.Writer, err error) {
	msg := err.Error()
	var evalErr *lox.EvalError
	if Backtrace && errors.As(err, &evalErr) {
		msg = evalErr.Backtrace()
	}
	if isTerminal(w) {
		errorColor.Fprintln(w, msg)
	} else {
		fmt.Fprintln(w, msg)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
