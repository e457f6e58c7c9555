// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

import (
	"errors"
	"time"
)

// Universe defines the set of built-in functions predeclared in the
// global environment of every Interpreter.
var Universe = map[string]Value{
	"clock": NewBuiltin("clock", 0, clock),
}

// NowFunc is a function that generates the current time. It is exported
// so that it can be overridden, for example by applications that require
// their Lox programs to be fully deterministic.
var NowFunc = time.Now

// clock returns the number of seconds since the Unix epoch.
func clock(thread *Thread, _ *Builtin, args []Value) (Value, error) {
	if NowFunc == nil {
		return nil, errors.New("clock: time is not available")
	}
	return Number(float64(NowFunc().UnixNano()) / 1e9), nil
}
