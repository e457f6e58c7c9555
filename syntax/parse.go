// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a recursive-descent parser for Lox.
//
// Grammar, lowest precedence first:
//
//	program     = declaration* EOF
//	declaration = funDecl | varDecl | statement
//	funDecl     = "fun" IDENT "(" params? ")" block
//	varDecl     = "var" IDENT ( "=" expression )? ";"
//	statement   = exprStmt | forStmt | ifStmt | printStmt | returnStmt
//	            | whileStmt | breakStmt | continueStmt | block
//	expression  = assignment
//	assignment  = IDENT "=" assignment | or
//	or          = and ( "or" and )*
//	and         = equality ( "and" equality )*
//	equality    = comparison ( ( "!=" | "==" ) comparison )*
//	comparison  = term ( ( ">" | ">=" | "<" | "<=" ) term )*
//	term        = factor ( ( "-" | "+" ) factor )*
//	factor      = unary ( ( "/" | "*" ) unary )*
//	unary       = ( "!" | "-" ) unary | call
//	call        = primary ( "(" arguments? ")" )*
//	primary     = NUMBER | STRING | "true" | "false" | "nil" | IDENT | "(" expression ")"

// maxArgs is the largest number of arguments or parameters a call or
// function may have.
const maxArgs = 255

// Parse parses a Lox program from its tokens, which must end with EOF.
//
// A syntax error does not stop parsing: the parser skips to the
// start of the next statement and continues, so that one call may
// report several errors. The error, if non-nil, is an ErrorList;
// the statements that parsed successfully are returned regardless.
func Parse(tokens []Token) ([]Stmt, error) {
	p := newParser(tokens)
	var stmts []Stmt
	for !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.errs.Err()
}

// ParseExpr parses a single expression from its tokens.
// The expression must be followed by EOF.
func ParseExpr(tokens []Token) (expr Expr, err error) {
	p := newParser(tokens)
	defer func() {
		if e := recover(); e != nil {
			if e != errSync {
				panic(e)
			}
			expr = nil
		}
		err = p.errs.Err()
	}()
	expr = p.expression()
	if !p.atEnd() {
		p.report(p.peek(), "Expect end of expression.")
	}
	return expr, nil
}

// ParseFile scans and parses a Lox program.
// Scan errors are listed before parse errors.
func ParseFile(src []byte) ([]Stmt, error) {
	tokens, scanErr := Scan(src)
	stmts, parseErr := Parse(tokens)
	return stmts, joinErrors(scanErr, parseErr)
}

// ParseExprSource scans and parses a single Lox expression.
// Scan errors are listed before parse errors.
func ParseExprSource(src []byte) (Expr, error) {
	tokens, scanErr := Scan(src)
	expr, parseErr := ParseExpr(tokens)
	return expr, joinErrors(scanErr, parseErr)
}

func joinErrors(errs ...error) error {
	var list ErrorList
	for _, err := range errs {
		if err != nil {
			list = append(list, err.(ErrorList)...)
		}
	}
	return list.Err()
}

// errSync is the panic value used to unwind the parser to the
// nearest statement boundary after a syntax error.
var errSync = new(int)

type parser struct {
	tokens  []Token
	current int
	errs    ErrorList
}

func newParser(tokens []Token) *parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], Token{Kind: EOF, Line: line})
	}
	return &parser{tokens: tokens}
}

// -- token helpers --

func (p *parser) peek() Token     { return p.tokens[p.current] }
func (p *parser) previous() Token { return p.tokens[p.current-1] }
func (p *parser) atEnd() bool     { return p.peek().Kind == EOF }

func (p *parser) check(kind Kind) bool {
	return !p.atEnd() && p.peek().Kind == kind
}

func (p *parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

// match consumes the next token if its kind is one of kinds.
func (p *parser) match(kinds ...Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

// consume consumes a token of the specified kind, or fails with msg.
func (p *parser) consume(kind Kind, msg string) Token {
	if p.check(kind) {
		return p.advance()
	}
	panic(p.fail(p.peek(), msg))
}

// report records an error at tok without unwinding.
func (p *parser) report(tok Token, msg string) {
	p.errs = append(p.errs, ErrorAt(tok, msg))
}

// fail records an error at tok and returns the value
// with which the caller should panic.
func (p *parser) fail(tok Token, msg string) interface{} {
	p.report(tok, msg)
	return errSync
}

// synchronize discards tokens until the probable start of the next statement.
func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Kind == SEMICOLON {
			return
		}
		switch p.peek().Kind {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.advance()
	}
}

// -- statements --

// declaration parses one declaration. After a syntax error it
// synchronizes and returns nil.
func (p *parser) declaration() (stmt Stmt) {
	defer func() {
		if e := recover(); e != nil {
			if e != errSync {
				panic(e)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	switch {
	case p.match(FUN):
		return p.function()
	case p.match(VAR):
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *parser) function() *FunStmt {
	name := p.consume(IDENTIFIER, "Expect function name.")
	p.consume(LEFT_PAREN, "Expect '(' after function name.")
	var params []Token
	if !p.check(RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.report(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(IDENTIFIER, "Expect parameter name."))
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.consume(RIGHT_PAREN, "Expect ')' after parameters.")
	p.consume(LEFT_BRACE, "Expect '{' before function body.")
	return &FunStmt{Name: name, Params: params, Body: p.block()}
}

func (p *parser) varDeclaration() *VarStmt {
	name := p.consume(IDENTIFIER, "Expect variable name.")
	var init Expr
	if p.match(EQUAL) {
		init = p.expression()
	}
	p.consume(SEMICOLON, "Expect ';' after variable declaration.")
	return &VarStmt{Name: name, Init: init}
}

func (p *parser) statement() Stmt {
	switch {
	case p.match(FOR):
		return p.forStatement()
	case p.match(IF):
		return p.ifStatement()
	case p.match(PRINT):
		keyword := p.previous()
		x := p.expression()
		p.consume(SEMICOLON, "Expect ';' after value.")
		return &PrintStmt{Print: keyword, X: x}
	case p.match(RETURN):
		return p.returnStatement()
	case p.match(WHILE):
		keyword := p.previous()
		p.consume(LEFT_PAREN, "Expect '(' after 'while'.")
		cond := p.expression()
		p.consume(RIGHT_PAREN, "Expect ')' after condition.")
		return &WhileStmt{While: keyword, Cond: cond, Body: p.statement()}
	case p.match(BREAK, CONTINUE):
		keyword := p.previous()
		p.consume(SEMICOLON, "Expect ';' after '"+keyword.Lexeme+"'.")
		return &BranchStmt{Token: keyword}
	case p.match(LEFT_BRACE):
		lbrace := p.previous()
		return &BlockStmt{Lbrace: lbrace, Stmts: p.block()}
	}

	x := p.expression()
	p.consume(SEMICOLON, "Expect ';' after expression.")
	return &ExprStmt{X: x}
}

// block parses the remainder of a block whose '{' has been consumed.
func (p *parser) block() []Stmt {
	var stmts []Stmt
	for !p.check(RIGHT_BRACE) && !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

func (p *parser) ifStatement() *IfStmt {
	keyword := p.previous()
	p.consume(LEFT_PAREN, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(RIGHT_PAREN, "Expect ')' after if condition.")
	stmt := &IfStmt{If: keyword, Cond: cond, Then: p.statement()}
	if p.match(ELSE) {
		stmt.Else = p.statement()
	}
	return stmt
}

func (p *parser) returnStatement() *ReturnStmt {
	keyword := p.previous()
	var result Expr
	if !p.check(SEMICOLON) {
		result = p.expression()
	}
	p.consume(SEMICOLON, "Expect ';' after return value.")
	return &ReturnStmt{Keyword: keyword, Result: result}
}

// forStatement parses a C-style for loop and desugars it:
//
//	for (init; cond; incr) body
//
// becomes
//
//	{ init; while (cond) { body; incr; } }
func (p *parser) forStatement() Stmt {
	keyword := p.previous()
	p.consume(LEFT_PAREN, "Expect '(' after 'for'.")

	var init Stmt
	switch {
	case p.match(SEMICOLON):
		// no initializer
	case p.match(VAR):
		init = p.varDeclaration()
	default:
		x := p.expression()
		p.consume(SEMICOLON, "Expect ';' after expression.")
		init = &ExprStmt{X: x}
	}

	var cond Expr
	if !p.check(SEMICOLON) {
		cond = p.expression()
	}
	p.consume(SEMICOLON, "Expect ';' after loop condition.")

	var incr Expr
	if !p.check(RIGHT_PAREN) {
		incr = p.expression()
	}
	p.consume(RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if incr != nil {
		body = &BlockStmt{Lbrace: keyword, Stmts: []Stmt{body, &ExprStmt{X: incr}}}
	}
	if cond == nil {
		cond = &Literal{Token: Token{Kind: TRUE, Lexeme: "true", Line: keyword.Line}, Value: true}
	}
	var loop Stmt = &WhileStmt{While: keyword, Cond: cond, Body: body}
	if init != nil {
		loop = &BlockStmt{Lbrace: keyword, Stmts: []Stmt{init, loop}}
	}
	return loop
}

// -- expressions --

func (p *parser) expression() Expr {
	return p.assignment()
}

func (p *parser) assignment() Expr {
	x := p.or()
	if p.match(EQUAL) {
		equals := p.previous()
		value := p.assignment()
		if v, ok := x.(*Variable); ok {
			return &Assign{Name: v.Name, Value: value}
		}
		// Not fatal: the parser is not confused.
		p.report(equals, "Invalid assignment target.")
	}
	return x
}

func (p *parser) or() Expr {
	x := p.and()
	for p.match(OR) {
		op := p.previous()
		x = &Logical{X: x, Op: op, Y: p.and()}
	}
	return x
}

func (p *parser) and() Expr {
	x := p.equality()
	for p.match(AND) {
		op := p.previous()
		x = &Logical{X: x, Op: op, Y: p.equality()}
	}
	return x
}

// binary parses a left-associative chain of operands
// separated by any of the operators in ops.
func (p *parser) binary(operand func() Expr, ops ...Kind) Expr {
	x := operand()
	for p.match(ops...) {
		op := p.previous()
		x = &Binary{X: x, Op: op, Y: operand()}
	}
	return x
}

func (p *parser) equality() Expr {
	return p.binary(p.comparison, BANG_EQUAL, EQUAL_EQUAL)
}

func (p *parser) comparison() Expr {
	return p.binary(p.term, GREATER, GREATER_EQUAL, LESS, LESS_EQUAL)
}

func (p *parser) term() Expr {
	return p.binary(p.factor, MINUS, PLUS)
}

func (p *parser) factor() Expr {
	return p.binary(p.unary, SLASH, STAR)
}

func (p *parser) unary() Expr {
	if p.match(BANG, MINUS) {
		op := p.previous()
		return &Unary{Op: op, X: p.unary()}
	}
	return p.call()
}

func (p *parser) call() Expr {
	x := p.primary()
	for p.match(LEFT_PAREN) {
		x = p.finishCall(x)
	}
	return x
}

func (p *parser) finishCall(callee Expr) *Call {
	var args []Expr
	if !p.check(RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				p.report(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren := p.consume(RIGHT_PAREN, "Expect ')' after arguments.")
	return &Call{Callee: callee, Paren: paren, Args: args}
}

func (p *parser) primary() Expr {
	switch tok := p.peek(); tok.Kind {
	case FALSE:
		p.advance()
		return &Literal{Token: tok, Value: false}
	case TRUE:
		p.advance()
		return &Literal{Token: tok, Value: true}
	case NIL:
		p.advance()
		return &Literal{Token: tok, Value: nil}
	case NUMBER, STRING:
		p.advance()
		return &Literal{Token: tok, Value: tok.Literal}
	case IDENTIFIER:
		p.advance()
		return &Variable{Name: tok}
	case LEFT_PAREN:
		p.advance()
		x := p.expression()
		p.consume(RIGHT_PAREN, "Expect ')' after expression.")
		return &Grouping{Lparen: tok, X: x}
	}
	panic(p.fail(p.peek(), "Expect expression."))
}
