// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"go.lox.dev/loxtest"
)

// runLox runs the command with the specified arguments. If src is
// non-empty, it is written to a temporary file whose name is
// appended to the arguments.
func runLox(t *testing.T, src string, args ...string) (stdout, stderr string, status int) {
	t.Helper()
	if src != "" {
		filename := filepath.Join(t.TempDir(), "test.lox")
		if err := os.WriteFile(filename, []byte(src), 0666); err != nil {
			t.Fatal(err)
		}
		args = append(args, filename)
	}
	var out, errOut bytes.Buffer
	status = execute(args, &out, &errOut)
	return out.String(), errOut.String(), status
}

func TestUsage(t *testing.T) {
	const usageText = "Usage: lox tokenize|parse|evaluate|run <filename>\n       lox repl\n"
	for _, test := range []struct {
		args       []string
		wantStderr string // "*" means any non-empty text
	}{
		{nil, ""},
		{[]string{"frobnicate"}, "Unknown command: frobnicate\n"},
		{[]string{"run"}, ""},
		{[]string{"run", "a.lox", "b.lox"}, ""},
		{[]string{"parse", "-j", "a.lox"}, "*"},
	} {
		stdout, stderr, status := runLox(t, "", test.args...)
		if status != 64 {
			t.Errorf("lox %v: status %d, want 64", test.args, status)
		}
		if stdout != usageText {
			t.Errorf("lox %v: stdout = %q", test.args, stdout)
		}
		if test.wantStderr == "*" {
			if stderr == "" {
				t.Errorf("lox %v: no error message", test.args)
			}
		} else if stderr != test.wantStderr {
			t.Errorf("lox %v: stderr = %q, want %q", test.args, stderr, test.wantStderr)
		}
	}
}

func TestTokenize(t *testing.T) {
	stdout, stderr, status := runLox(t, "var x = 42;\nprint \"hi\" + x;", "tokenize")
	want := `VAR var null
IDENTIFIER x null
EQUAL = null
NUMBER 42 42.0
SEMICOLON ; null
PRINT print null
STRING "hi" hi
PLUS + null
IDENTIFIER x null
SEMICOLON ; null
EOF  null
`
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
	if stderr != "" || status != 0 {
		t.Errorf("stderr = %q, status = %d", stderr, status)
	}
}

func TestTokenizeErrors(t *testing.T) {
	stdout, stderr, status := runLox(t, "(\n$\n\"open", "tokenize")
	if want := "LEFT_PAREN ( null\nEOF  null\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
	if want := "[line 2] Error: Unexpected character: $\n[line 3] Error: Unterminated string.\n"; stderr != want {
		t.Errorf("stderr = %q, want %q", stderr, want)
	}
	if status != 65 {
		t.Errorf("status = %d, want 65", status)
	}
}

func TestTokenizeJSON(t *testing.T) {
	stdout, _, status := runLox(t, `x = 1.5; "s"`, "tokenize", "-j")
	if status != 0 {
		t.Fatalf("status = %d", status)
	}
	var got []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
		var s structpb.Struct
		if err := protojson.Unmarshal([]byte(line), &s); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
		got = append(got, s.AsMap())
	}
	want := []map[string]interface{}{
		{"kind": "IDENTIFIER", "lexeme": "x", "literal": nil, "line": 1.0},
		{"kind": "EQUAL", "lexeme": "=", "literal": nil, "line": 1.0},
		{"kind": "NUMBER", "lexeme": "1.5", "literal": 1.5, "line": 1.0},
		{"kind": "SEMICOLON", "lexeme": ";", "literal": nil, "line": 1.0},
		{"kind": "STRING", "lexeme": `"s"`, "literal": "s", "line": 1.0},
		{"kind": "EOF", "lexeme": "", "literal": nil, "line": 1.0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	for _, test := range []struct {
		src, stdout, stderr string
		status              int
	}{
		{"1 + 2 * (3 - x)", "(+ 1.0 (* 2.0 (group (- 3.0 x))))\n", "", 0},
		{`a = "s" or !b`, "(= a (or s (! b)))\n", "", 0},
		{"(1 +", "", "[line 1] Error at end: Expect expression.\n", 65},
		{"1 @ 2", "", "[line 1] Error: Unexpected character: @\n[line 1] Error at '2': Expect end of expression.\n", 65},
		{"1 2", "", "[line 1] Error at '2': Expect end of expression.\n", 65},
	} {
		stdout, stderr, status := runLox(t, test.src, "parse")
		if stdout != test.stdout || stderr != test.stderr || status != test.status {
			t.Errorf("parse %q = (%q, %q, %d), want (%q, %q, %d)",
				test.src, stdout, stderr, status, test.stdout, test.stderr, test.status)
		}
	}
}

func TestEvaluate(t *testing.T) {
	for _, test := range []struct {
		src, stdout, stderr string
		status              int
	}{
		{"(1 + 2) * 4 / 3", "4\n", "", 0},
		{`"con" + "cat"`, "concat\n", "", 0},
		{"10 / 4 == 2.5", "true\n", "", 0},
		{"1 < nil", "", "Operands must be numbers.\n[line 1]\n", 70},
		{"-", "", "[line 1] Error at end: Expect expression.\n", 65},
		{"1 2 3", "", "[line 1] Error at '2': Expect end of expression.\n", 65},
	} {
		stdout, stderr, status := runLox(t, test.src, "evaluate")
		if stdout != test.stdout || stderr != test.stderr || status != test.status {
			t.Errorf("evaluate %q = (%q, %q, %d), want (%q, %q, %d)",
				test.src, stdout, stderr, status, test.stdout, test.stderr, test.status)
		}
	}
}

func TestShowEnv(t *testing.T) {
	defer func(prev bool) { *showenv = prev }(*showenv)
	*showenv = true

	stdout, stderr, status := runLox(t, "var b = 2; var a = \"x\"; fun f() {}", "run")
	if stdout != "" || status != 0 {
		t.Fatalf("stdout = %q, status = %d", stdout, status)
	}
	if want := "a = x\nb = 2\nf = <fn f>\n"; stderr != want {
		t.Errorf("stderr = %q, want %q", stderr, want)
	}
}

func TestBacktraceFlag(t *testing.T) {
	defer func(prev bool) { *backtrace = prev }(*backtrace)
	*backtrace = true

	_, stderr, status := runLox(t, "fun f() {\n  return nil + 1;\n}\nf();", "run")
	want := `Traceback (most recent call last):
  [line 4] in <toplevel>
  [line 2] in f
Error: Operands must be two numbers or two strings.
`
	if stderr != want || status != 70 {
		t.Errorf("stderr = %q, status %d; want %q, 70", stderr, status, want)
	}
}

// TestRunScenarios runs the interpreter's scenario files through the
// run command and checks the outputs and exit statuses.
func TestRunScenarios(t *testing.T) {
	for _, file := range []string{"scope.yaml", "control.yaml", "functions.yaml", "values.yaml"} {
		scenarios, err := loxtest.Load(loxtest.DataFile("lox", filepath.Join("testdata", file)))
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range scenarios {
			if s.Mode == "evaluate" || len(s.Options) > 0 || s.Backtrace {
				continue
			}
			stdout, stderr, status := runLox(t, s.Source, "run")
			got := loxtest.Result{Stdout: stdout, Stderr: stderr, Status: status}
			want := loxtest.Result{Stdout: s.Stdout, Stderr: s.Stderr, Status: s.Status}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("%s: %s: mismatch (-want +got):\n%s", file, s.Name, diff)
			}
		}
	}
}
