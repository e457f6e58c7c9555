// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"strings"
)

// An Error describes a static (scan, parse or resolve) error.
type Error struct {
	Line  int
	Where string // "", " at end", or " at 'lexeme'"
	Msg   string
}

func (e Error) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Msg)
}

// ErrorAt returns an Error anchored at the specified token.
func ErrorAt(tok Token, msg string) Error {
	if tok.Kind == EOF {
		return Error{Line: tok.Line, Where: " at end", Msg: msg}
	}
	return Error{Line: tok.Line, Where: " at '" + tok.Lexeme + "'", Msg: msg}
}

// An ErrorList is a list of static errors in the order they were found.
type ErrorList []Error

func (e ErrorList) Error() string {
	var buf strings.Builder
	for i, err := range e {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(err.Error())
	}
	return buf.String()
}

// Err returns the list as an error, or nil if it is empty.
func (e ErrorList) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
