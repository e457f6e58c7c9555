// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loxtest defines utilities for testing Lox programs.
//
// A scenario file is a YAML sequence of scenarios, each a Lox program
// together with the output and exit status it must produce:
//
//	- name: closure counter
//	  source: |
//	    fun makeCounter() { ... }
//	  stdout: |
//	    1
//	    2
//
//	- name: division by zero
//	  source: print 1 / 0;
//	  stderr: |
//	    Division by zero.
//	    [line 1]
//	  status: 70
//
// Run executes a scenario through the whole pipeline with output
// captured in buffers, and RunFile checks every scenario of a file
// as a subtest.
package loxtest // import "go.lox.dev/loxtest"

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"go.lox.dev/lox"
	"go.lox.dev/resolve"
)

// A Scenario is a Lox program and its expected outcome.
type Scenario struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`

	// Mode is "run" (the default) to execute Source as a program,
	// or "evaluate" to evaluate it as a single expression and
	// print its value.
	Mode string `yaml:"mode"`

	// Options names dialect switches to enable, e.g. "lenientbranch".
	Options []string `yaml:"options"`

	// Backtrace reports runtime errors with their call stack.
	Backtrace bool `yaml:"backtrace"`

	Stdout string `yaml:"stdout"`
	Stderr string `yaml:"stderr"`
	Status int    `yaml:"status"`
}

// A Result is the observed outcome of a scenario.
type Result struct {
	Stdout string
	Stderr string
	Status int
}

// Load reads the scenarios of the specified YAML file.
func Load(filename string) ([]*Scenario, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var scenarios []*Scenario
	if err := dec.Decode(&scenarios); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("loxtest: %s is empty", filename)
		}
		return nil, fmt.Errorf("loxtest: parse %s: %w", filename, err)
	}
	for i, s := range scenarios {
		if s.Name == "" {
			s.Name = fmt.Sprintf("scenario%d", i)
		}
		switch s.Mode {
		case "", "run", "evaluate":
		default:
			return nil, fmt.Errorf("loxtest: %s: %s: unknown mode %q", filename, s.Name, s.Mode)
		}
	}
	return scenarios, nil
}

// Run executes the scenario with a fresh interpreter.
// Its dialect options are in effect only for the duration of the call.
func Run(s *Scenario) Result {
	defer func(prev bool) { resolve.AllowTopLevelBranch = prev }(resolve.AllowTopLevelBranch)
	for _, opt := range s.Options {
		switch opt {
		case "lenientbranch":
			resolve.AllowTopLevelBranch = true
		default:
			return Result{Stderr: fmt.Sprintf("unknown option %q\n", opt), Status: 1}
		}
	}

	var stdout, stderr bytes.Buffer
	thread := &lox.Thread{
		Name:  s.Name,
		Print: func(_ *lox.Thread, msg string) { fmt.Fprintln(&stdout, msg) },
	}
	in := lox.NewInterpreter(thread)

	var err error
	if s.Mode == "evaluate" {
		var v lox.Value
		if v, err = in.EvalExpr([]byte(s.Source)); err == nil {
			fmt.Fprintln(&stdout, lox.Stringify(v))
		}
	} else {
		err = in.ExecFile([]byte(s.Source))
	}
	if err != nil {
		var evalErr *lox.EvalError
		if s.Backtrace && errors.As(err, &evalErr) {
			fmt.Fprintln(&stderr, evalErr.Backtrace())
		} else {
			fmt.Fprintln(&stderr, err)
		}
	}
	return Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
		Status: lox.ExitStatus(err),
	}
}

// RunFile runs each scenario of the specified file as a subtest of t
// and reports any difference from the expected outcome.
func RunFile(t *testing.T, filename string) {
	t.Helper()
	scenarios, err := Load(filename)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range scenarios {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			got := Run(s)
			want := Result{Stdout: s.Stdout, Stderr: s.Stderr, Status: s.Status}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%s: outcome mismatch (-want +got):\n%s\nsource:\n%s",
					s.Name, diff, strings.TrimSpace(s.Source))
			}
		})
	}
}

// DataFile returns the name of the specified test data file,
// located in the package directory pkgdir of this module.
var DataFile = func(pkgdir, filename string) string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Dir(filepath.Dir(file))
	return filepath.Join(root, pkgdir, filename)
}
