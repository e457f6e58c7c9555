// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lox_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"go.lox.dev/lox"
	"go.lox.dev/loxtest"
	"go.lox.dev/resolve"
	"go.lox.dev/syntax"
)

func TestScenarios(t *testing.T) {
	for _, file := range []string{
		"testdata/scope.yaml",
		"testdata/control.yaml",
		"testdata/functions.yaml",
		"testdata/values.yaml",
	} {
		loxtest.RunFile(t, file)
	}
}

func TestEvalExpr(t *testing.T) {
	in := lox.NewInterpreter(nil)
	for _, test := range []struct{ src, want string }{
		{`123`, `123`},
		{`-1`, `-1`},
		{`1.5 * 2`, `3`},
		{`7 / 2`, `3.5`},
		{`"a" + "b"`, `ab`},
		{`1 + 2`, `3`},
		{`!true`, `false`},
		{`!nil`, `true`},
		{`nil`, `nil`},
		{`1 == 1.0`, `true`},
		{`"1" == 1`, `false`},
		{`nil or 0`, `0`},
		{`false and 1`, `false`},
		{`(((1)))`, `1`},
		{`clock`, `<native fn>`},
		{`1 / 0`, "Division by zero.\n[line 1]"},
		{`x`, "Undefined variable 'x'.\n[line 1]"},
		{`true + 1`, "Operands must be two numbers or two strings.\n[line 1]"},
		{`nil > nil`, "Operands must be numbers.\n[line 1]"},
		{`-nil`, "Operand must be a number.\n[line 1]"},
		{`"s"()`, "Can only call functions and classes.\n[line 1]"},
		{`1 +`, `[line 1] Error at end: Expect expression.`},
		{`1 2 3`, `[line 1] Error at '2': Expect end of expression.`},
	} {
		var got string
		if v, err := in.EvalExpr([]byte(test.src)); err != nil {
			got = err.Error()
		} else {
			got = lox.Stringify(v)
		}
		if got != test.want {
			t.Errorf("eval %s = %s, want %s", test.src, got, test.want)
		}
	}
}

func TestPrint(t *testing.T) {
	const src = `
print "hello";
fun f() { print "world"; }
f();
`
	buf := new(bytes.Buffer)
	print := func(thread *lox.Thread, msg string) {
		stack := thread.CallStack()
		fmt.Fprintf(buf, "%s: %s: %s\n", thread.Name, stack.At(0).Name, msg)
	}
	thread := &lox.Thread{Name: "main", Print: print}
	if err := lox.NewInterpreter(thread).ExecFile([]byte(src)); err != nil {
		t.Fatal(err)
	}
	want := "main: <toplevel>: hello\n" +
		"main: f: world\n"
	if got := buf.String(); got != want {
		t.Errorf("output was %s, want %s", got, want)
	}
}

// TestPersistentGlobals runs several programs in one interpreter,
// as the REPL does.
func TestPersistentGlobals(t *testing.T) {
	var out []string
	thread := &lox.Thread{Print: func(_ *lox.Thread, msg string) { out = append(out, msg) }}
	in := lox.NewInterpreter(thread)
	for _, src := range []string{
		`var count = 0;`,
		`fun inc() { count = count + 1; return count; }`,
		`{ var local = inc(); print local; }`,
		`print undefinedName;`, // runtime error; the interpreter stays usable
		`print inc();`,
		`{ var x = 1; print x / 0; }`,
		`var x = "global"; print x;`,
	} {
		in.ExecFile([]byte(src))
	}
	want := []string{"1", "2", "global"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if got := in.Globals().Keys(); !cmp.Equal(got, []string{"clock", "count", "inc", "x"}) {
		t.Errorf("globals = %v", got)
	}
}

// TestLocalsAccumulate checks that bindings resolved for earlier
// programs remain valid when a closure from one program is called
// by a later one.
func TestLocalsAccumulate(t *testing.T) {
	var out []string
	thread := &lox.Thread{Print: func(_ *lox.Thread, msg string) { out = append(out, msg) }}
	in := lox.NewInterpreter(thread)

	run := func(src string) {
		stmts, err := syntax.ParseFile([]byte(src))
		if err != nil {
			t.Fatal(err)
		}
		locals, err := resolve.File(stmts)
		if err != nil {
			t.Fatal(err)
		}
		if err := in.Interpret(stmts, locals); err != nil {
			t.Fatal(err)
		}
	}
	run(`fun make() { var n = "closed"; fun get() { return n; } return get; } var get = make();`)
	run(`print get();`)
	if diff := cmp.Diff([]string{"closed"}, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestBacktrace(t *testing.T) {
	const src = `
fun f(x) { return 1 / x; }
fun g(x) { f(x); }
fun h() { return g(0); }
fun i() { return h(); }
i();
`
	err := lox.NewInterpreter(nil).ExecFile([]byte(src))
	switch err := err.(type) {
	case *lox.EvalError:
		got := err.Backtrace()
		const want = `Traceback (most recent call last):
  [line 6] in <toplevel>
  [line 5] in i
  [line 4] in h
  [line 3] in g
  [line 2] in f
Error: Division by zero.`
		if got != want {
			t.Errorf("error was %s, want %s", got, want)
		}
		if err.Line != 2 {
			t.Errorf("error line = %d, want 2", err.Line)
		}
		if fr := err.CallStack.At(0); fr.Name != "f" {
			t.Errorf("innermost frame = %s, want f", fr.Name)
		}
	case nil:
		t.Error("ExecFile succeeded unexpectedly")
	default:
		t.Errorf("ExecFile failed with %v, wanted *EvalError", err)
	}
}

func TestCallStackIsBalanced(t *testing.T) {
	thread := new(lox.Thread)
	in := lox.NewInterpreter(thread)
	if err := in.ExecFile([]byte(`fun f(n) { if (n > 0) return f(n - 1); return n; } f(50);`)); err != nil {
		t.Fatal(err)
	}
	if d := thread.CallStackDepth(); d != 1 {
		t.Errorf("call stack depth after run = %d, want 1", d)
	}
	in.ExecFile([]byte(`fun g() { return nil(); } g();`))
	if d := thread.CallStackDepth(); d != 1 {
		t.Errorf("call stack depth after error = %d, want 1", d)
	}
}

func TestClock(t *testing.T) {
	oldNow := lox.NowFunc
	defer func() { lox.NowFunc = oldNow }()

	lox.NowFunc = func() time.Time { return time.Unix(1500, 250e6) }
	v, err := lox.NewInterpreter(nil).EvalExpr([]byte("clock()"))
	if err != nil {
		t.Fatal(err)
	}
	if v != lox.Number(1500.25) {
		t.Errorf("clock() = %v, want 1500.25", v)
	}

	lox.NowFunc = nil
	_, err = lox.NewInterpreter(nil).EvalExpr([]byte("clock()"))
	if err == nil || !strings.HasPrefix(err.Error(), "clock: time is not available") {
		t.Errorf("clock() with no time source: err = %v", err)
	}
}

func TestCallFromGo(t *testing.T) {
	in := lox.NewInterpreter(nil)
	if err := in.ExecFile([]byte(`fun add(a, b) { return a + b; }`)); err != nil {
		t.Fatal(err)
	}
	add, _ := in.Globals().Get("add")
	res, err := lox.Call(in.Thread(), add, []lox.Value{lox.Number(1), lox.Number(2)}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res != lox.Number(3) {
		t.Errorf("add(1, 2) = %v, want 3", res)
	}
	if _, err := lox.Call(in.Thread(), add, nil, 0); err == nil ||
		err.Error() != "Expected 2 arguments but got 0." {
		t.Errorf("add() error = %v", err)
	}
}

func TestExitStatus(t *testing.T) {
	in := lox.NewInterpreter(nil)
	for _, test := range []struct {
		src  string
		want int
	}{
		{`print 1;`, 0},
		{`print ;`, lox.ExitStatic},
		{`{ var a = a; }`, lox.ExitStatic},
		{`print -"x";`, lox.ExitRuntime},
	} {
		in.Thread().Print = func(*lox.Thread, string) {}
		if got := lox.ExitStatus(in.ExecFile([]byte(test.src))); got != test.want {
			t.Errorf("ExitStatus(%s) = %d, want %d", test.src, got, test.want)
		}
	}
	if got := lox.ExitStatus(fmt.Errorf("other")); got != 1 {
		t.Errorf("ExitStatus(other) = %d, want 1", got)
	}
}
