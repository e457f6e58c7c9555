// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *ExprStmt:
		Walk(n.X, f)

	case *PrintStmt:
		Walk(n.X, f)

	case *VarStmt:
		if n.Init != nil {
			Walk(n.Init, f)
		}

	case *BlockStmt:
		walkStmts(n.Stmts, f)

	case *IfStmt:
		Walk(n.Cond, f)
		Walk(n.Then, f)
		if n.Else != nil {
			Walk(n.Else, f)
		}

	case *WhileStmt:
		Walk(n.Cond, f)
		Walk(n.Body, f)

	case *FunStmt:
		walkStmts(n.Body, f)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, f)
		}

	case *BranchStmt, *Literal, *Variable:
		// no-op

	case *Grouping:
		Walk(n.X, f)

	case *Unary:
		Walk(n.X, f)

	case *Binary:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *Logical:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *Assign:
		Walk(n.Value, f)

	case *Call:
		Walk(n.Callee, f)
		for _, arg := range n.Args {
			Walk(arg, f)
		}

	default:
		panic(n)
	}

	f(nil)
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, f)
	}
}
