// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox

import (
	"bytes"
	"fmt"
	"sort"
)

// An Env is a mapping from names to values, linked to the
// environment of the enclosing scope. The global environment
// has no enclosing environment.
type Env struct {
	values    map[string]Value
	enclosing *Env
}

// NewEnv returns a new empty environment enclosed by the specified
// one, which is nil for a global environment.
func NewEnv(enclosing *Env) *Env {
	return &Env{values: make(map[string]Value), enclosing: enclosing}
}

// Enclosing returns the environment of the enclosing scope, or nil.
func (env *Env) Enclosing() *Env { return env.enclosing }

// Define binds name to v in this environment,
// replacing any previous binding of the same name.
func (env *Env) Define(name string, v Value) { env.values[name] = v }

// Get returns the value of name, searching outwards from this environment.
func (env *Env) Get(name string) (Value, bool) {
	for e := env; e != nil; e = e.enclosing {
		if v, ok := e.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign updates an existing binding of name, searching outwards.
// It reports whether a binding was found.
func (env *Env) Assign(name string, v Value) bool {
	for e := env; e != nil; e = e.enclosing {
		if _, ok := e.values[name]; ok {
			e.values[name] = v
			return true
		}
	}
	return false
}

// GetAt returns the value of name in the environment depth hops outwards.
func (env *Env) GetAt(depth int, name string) (Value, bool) {
	v, ok := env.ancestor(depth).values[name]
	return v, ok
}

// AssignAt binds name to v in the environment depth hops outwards.
func (env *Env) AssignAt(depth int, name string, v Value) {
	env.ancestor(depth).values[name] = v
}

func (env *Env) ancestor(depth int) *Env {
	e := env
	for i := 0; i < depth; i++ {
		e = e.enclosing
	}
	return e
}

// Keys returns a new sorted slice of the names bound in this
// environment, excluding enclosing ones.
func (env *Env) Keys() []string {
	names := make([]string, 0, len(env.values))
	for name := range env.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns the bindings of this environment in the form
// {name: value, ...}, sorted by name.
func (env *Env) String() string {
	buf := new(bytes.Buffer)
	buf.WriteByte('{')
	sep := ""
	for _, name := range env.Keys() {
		buf.WriteString(sep)
		fmt.Fprintf(buf, "%s: %s", name, env.values[name])
		sep = ", "
	}
	buf.WriteByte('}')
	return buf.String()
}
