// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"log"
	"strings"
)

// Sprint returns the fully parenthesized, Lisp-like form of an
// expression, for example (+ 1.0 (* 2.0 3.0)).
func Sprint(e Expr) string {
	var buf strings.Builder
	writeExpr(&buf, e)
	return buf.String()
}

func writeExpr(out *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Literal:
		switch v := e.Value.(type) {
		case nil:
			out.WriteString("nil")
		case bool:
			fmt.Fprintf(out, "%t", v)
		default:
			out.WriteString(FormatLiteral(v))
		}
	case *Grouping:
		parenthesize(out, "group", e.X)
	case *Unary:
		parenthesize(out, e.Op.Lexeme, e.X)
	case *Binary:
		parenthesize(out, e.Op.Lexeme, e.X, e.Y)
	case *Logical:
		parenthesize(out, e.Op.Lexeme, e.X, e.Y)
	case *Variable:
		out.WriteString(e.Name.Lexeme)
	case *Assign:
		fmt.Fprintf(out, "(= %s ", e.Name.Lexeme)
		writeExpr(out, e.Value)
		out.WriteByte(')')
	case *Call:
		parenthesize(out, "call", append([]Expr{e.Callee}, e.Args...)...)
	default:
		log.Fatalf("line %d: unexpected expr %T", e.Line(), e)
	}
}

func parenthesize(out *strings.Builder, name string, exprs ...Expr) {
	out.WriteByte('(')
	out.WriteString(name)
	for _, x := range exprs {
		out.WriteByte(' ')
		writeExpr(out, x)
	}
	out.WriteByte(')')
}
