// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides a Lox scanner, parser and abstract syntax tree.
package syntax

// A Node is a node in a Lox syntax tree.
type Node interface {
	// Line returns the source line on which the node starts.
	Line() int
}

// An Expr is a Lox expression.
//
// Expressions are always represented by pointers, and the identity
// of the pointer is the identity of the node: the resolver keys its
// bindings by node, so two references to the same name at different
// places in the source are distinct.
type Expr interface {
	Node
	expr()
}

func (*Assign) expr()   {}
func (*Binary) expr()   {}
func (*Call) expr()     {}
func (*Grouping) expr() {}
func (*Literal) expr()  {}
func (*Logical) expr()  {}
func (*Unary) expr()    {}
func (*Variable) expr() {}

// A Literal represents a literal value: nil, true, false, a number or a string.
type Literal struct {
	Token Token       // NIL | TRUE | FALSE | NUMBER | STRING
	Value interface{} // = nil | bool | float64 | string
}

func (x *Literal) Line() int { return x.Token.Line }

// A Grouping represents a parenthesized expression: (X).
type Grouping struct {
	Lparen Token
	X      Expr
}

func (x *Grouping) Line() int { return x.Lparen.Line }

// A Unary represents a prefix operation: Op X.
type Unary struct {
	Op Token // = BANG | MINUS
	X  Expr
}

func (x *Unary) Line() int { return x.Op.Line }

// A Binary represents a strict binary operation: X Op Y.
type Binary struct {
	X  Expr
	Op Token
	Y  Expr
}

func (x *Binary) Line() int { return x.X.Line() }

// A Logical represents a short-circuit operation: X and Y, X or Y.
type Logical struct {
	X  Expr
	Op Token // = AND | OR
	Y  Expr
}

func (x *Logical) Line() int { return x.X.Line() }

// A Variable represents a reference to a variable.
type Variable struct {
	Name Token
}

func (x *Variable) Line() int { return x.Name.Line }

// An Assign represents an assignment to a variable: Name = Value.
type Assign struct {
	Name  Token
	Value Expr
}

func (x *Assign) Line() int { return x.Name.Line }

// A Call represents a function call: Callee(Args).
type Call struct {
	Callee Expr
	Paren  Token // closing parenthesis; locates runtime errors
	Args   []Expr
}

func (x *Call) Line() int { return x.Callee.Line() }

// A Stmt is a Lox statement.
type Stmt interface {
	Node
	stmt()
}

func (*BlockStmt) stmt()  {}
func (*BranchStmt) stmt() {}
func (*ExprStmt) stmt()   {}
func (*FunStmt) stmt()    {}
func (*IfStmt) stmt()     {}
func (*PrintStmt) stmt()  {}
func (*ReturnStmt) stmt() {}
func (*VarStmt) stmt()    {}
func (*WhileStmt) stmt()  {}

// An ExprStmt is an expression evaluated for side effects.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) Line() int { return x.X.Line() }

// A PrintStmt writes the display form of X.
type PrintStmt struct {
	Print Token
	X     Expr
}

func (x *PrintStmt) Line() int { return x.Print.Line }

// A VarStmt declares a variable: var Name = Init.
type VarStmt struct {
	Name Token
	Init Expr // may be nil
}

func (x *VarStmt) Line() int { return x.Name.Line }

// A BlockStmt is a braced sequence of statements with its own scope.
type BlockStmt struct {
	Lbrace Token
	Stmts  []Stmt
}

func (x *BlockStmt) Line() int { return x.Lbrace.Line }

// An IfStmt is a conditional: if (Cond) Then else Else.
type IfStmt struct {
	If   Token
	Cond Expr
	Then Stmt
	Else Stmt // may be nil
}

func (x *IfStmt) Line() int { return x.If.Line }

// A WhileStmt is a loop: while (Cond) Body.
// 'for' loops are desugared into WhileStmts.
type WhileStmt struct {
	While Token
	Cond  Expr
	Body  Stmt
}

func (x *WhileStmt) Line() int { return x.While.Line }

// A FunStmt declares a named function.
type FunStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

func (x *FunStmt) Line() int { return x.Name.Line }

// A ReturnStmt returns from a function.
type ReturnStmt struct {
	Keyword Token
	Result  Expr // may be nil
}

func (x *ReturnStmt) Line() int { return x.Keyword.Line }

// A BranchStmt changes the flow of control of the innermost loop: break, continue.
type BranchStmt struct {
	Token Token // = BREAK | CONTINUE
}

func (x *BranchStmt) Line() int { return x.Token.Line }
