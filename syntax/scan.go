// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A lexical scanner for Lox.

import (
	"strconv"
	"unicode/utf8"
)

// A Scanner produces the tokens of a source text on demand.
//
// The token sequence is produced in a single pass and cannot be
// restarted; to scan the text again, create a new Scanner.
// Errors do not stop scanning: the offending text is skipped,
// the error is recorded, and scanning resumes.
type Scanner struct {
	src   []byte
	start int // start of the current token
	pos   int // current read offset
	line  int // current line number (1-based)
	done  bool
	errs  ErrorList
}

// NewScanner returns a scanner positioned at the start of src.
func NewScanner(src []byte) *Scanner {
	return &Scanner{src: src, line: 1}
}

// Errors returns the errors found so far.
func (sc *Scanner) Errors() ErrorList { return sc.errs }

// Scan returns all the tokens of src, terminated by a single EOF token.
// The error, if non-nil, is an ErrorList; the tokens are valid
// (with the erroneous text omitted) even when it is not.
func Scan(src []byte) ([]Token, error) {
	sc := NewScanner(src)
	var tokens []Token
	for {
		tok := sc.Next()
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return tokens, sc.errs.Err()
}

// Next returns the next token. At end of input it returns an EOF
// token, and continues to do so on subsequent calls.
func (sc *Scanner) Next() Token {
	for !sc.done {
		sc.skipSpace()
		sc.start = sc.pos
		if sc.eof() {
			break
		}
		if tok, ok := sc.scanToken(); ok {
			return tok
		}
	}
	sc.done = true
	return Token{Kind: EOF, Line: sc.line}
}

func (sc *Scanner) eof() bool { return sc.pos >= len(sc.src) }

func (sc *Scanner) peek() byte {
	if sc.eof() {
		return 0
	}
	return sc.src[sc.pos]
}

func (sc *Scanner) peekNext() byte {
	if sc.pos+1 >= len(sc.src) {
		return 0
	}
	return sc.src[sc.pos+1]
}

func (sc *Scanner) advance() byte {
	c := sc.src[sc.pos]
	sc.pos++
	return c
}

// match consumes the next byte if it is c.
func (sc *Scanner) match(c byte) bool {
	if sc.eof() || sc.src[sc.pos] != c {
		return false
	}
	sc.pos++
	return true
}

func (sc *Scanner) error(line int, msg string) {
	sc.errs = append(sc.errs, Error{Line: line, Msg: msg})
}

// skipSpace skips whitespace and comments.
func (sc *Scanner) skipSpace() {
	for !sc.eof() {
		switch c := sc.peek(); c {
		case ' ', '\t', '\r':
			sc.pos++
		case '\n':
			sc.line++
			sc.pos++
		case '/':
			switch sc.peekNext() {
			case '/':
				for !sc.eof() && sc.peek() != '\n' {
					sc.pos++
				}
			case '*':
				sc.pos += len("/*")
				for !sc.eof() {
					if sc.peek() == '*' && sc.peekNext() == '/' {
						sc.pos += len("*/")
						break
					}
					if sc.advance() == '\n' {
						sc.line++
					}
				}
			default:
				return
			}
		default:
			return
		}
	}
}

func (sc *Scanner) token(kind Kind, literal interface{}) Token {
	return Token{
		Kind:    kind,
		Lexeme:  string(sc.src[sc.start:sc.pos]),
		Literal: literal,
		Line:    sc.line,
	}
}

// scanToken scans one token starting at sc.start.
// It reports false if the text did not form a token.
func (sc *Scanner) scanToken() (Token, bool) {
	c := sc.advance()
	switch c {
	case '(':
		return sc.token(LEFT_PAREN, nil), true
	case ')':
		return sc.token(RIGHT_PAREN, nil), true
	case '{':
		return sc.token(LEFT_BRACE, nil), true
	case '}':
		return sc.token(RIGHT_BRACE, nil), true
	case ',':
		return sc.token(COMMA, nil), true
	case '.':
		return sc.token(DOT, nil), true
	case '-':
		return sc.token(MINUS, nil), true
	case '+':
		return sc.token(PLUS, nil), true
	case ';':
		return sc.token(SEMICOLON, nil), true
	case '*':
		return sc.token(STAR, nil), true
	case '/':
		// Comments were consumed by skipSpace.
		return sc.token(SLASH, nil), true
	case '!':
		return sc.either('=', BANG_EQUAL, BANG), true
	case '=':
		return sc.either('=', EQUAL_EQUAL, EQUAL), true
	case '<':
		return sc.either('=', LESS_EQUAL, LESS), true
	case '>':
		return sc.either('=', GREATER_EQUAL, GREATER), true
	case '"':
		return sc.scanString()
	}

	switch {
	case isDigit(c):
		return sc.scanNumber(), true
	case isIdentStart(c):
		return sc.scanIdent(), true
	}

	// Report the whole (possibly multi-byte) character.
	sc.pos = sc.start
	r, size := utf8.DecodeRune(sc.src[sc.pos:])
	sc.pos += size
	sc.error(sc.line, "Unexpected character: "+string(r))
	return Token{}, false
}

// either returns a two-character token if the next byte is c,
// otherwise the one-character token.
func (sc *Scanner) either(c byte, two, one Kind) Token {
	if sc.match(c) {
		return sc.token(two, nil)
	}
	return sc.token(one, nil)
}

func (sc *Scanner) scanString() (Token, bool) {
	for !sc.eof() && sc.peek() != '"' {
		if sc.advance() == '\n' {
			sc.line++
		}
	}
	if sc.eof() {
		sc.error(sc.line, "Unterminated string.")
		return Token{}, false
	}
	sc.pos++ // closing quote

	value := string(sc.src[sc.start+1 : sc.pos-1])
	return sc.token(STRING, value), true
}

func (sc *Scanner) scanNumber() Token {
	for isDigit(sc.peek()) {
		sc.pos++
	}
	// A trailing '.' belongs to the number only if a digit follows.
	if sc.peek() == '.' && isDigit(sc.peekNext()) {
		sc.pos++
		for isDigit(sc.peek()) {
			sc.pos++
		}
	}
	f, err := strconv.ParseFloat(string(sc.src[sc.start:sc.pos]), 64)
	if err != nil {
		// Only range errors are possible; f is then ±Inf.
		sc.error(sc.line, "Invalid number literal.")
	}
	return sc.token(NUMBER, f)
}

func (sc *Scanner) scanIdent() Token {
	for isIdent(sc.peek()) {
		sc.pos++
	}
	kind, ok := keywords[string(sc.src[sc.start:sc.pos])]
	if !ok {
		kind = IDENTIFIER
	}
	return sc.token(kind, nil)
}

func isDigit(c byte) bool      { return '0' <= c && c <= '9' }
func isIdentStart(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_' }
func isIdent(c byte) bool      { return isIdentStart(c) || isDigit(c) }
