// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loxtest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.lox.dev/loxtest"
	"go.lox.dev/resolve"
)

func writeFile(t *testing.T, data string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "scenarios.yaml")
	if err := os.WriteFile(filename, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestLoad(t *testing.T) {
	filename := writeFile(t, `
- name: hello
  source: print "hello";
  stdout: |
    hello
- source: 1 + 2
  mode: evaluate
  stdout: "3\n"
`)
	scenarios, err := loxtest.Load(filename)
	if err != nil {
		t.Fatal(err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("got %d scenarios, want 2", len(scenarios))
	}
	if got := scenarios[0].Name; got != "hello" {
		t.Errorf("scenarios[0].Name = %q, want hello", got)
	}
	if got := scenarios[1].Name; got != "scenario1" {
		t.Errorf("scenarios[1].Name = %q, want scenario1", got)
	}
	for _, s := range scenarios {
		got := loxtest.Run(s)
		if got.Stdout != s.Stdout || got.Status != 0 {
			t.Errorf("%s: got %+v", s.Name, got)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	for _, test := range []struct {
		data, want string
	}{
		{"", "is empty"},
		{"- name: x\n  mode: compile\n", `unknown mode "compile"`},
		{"- name: x\n  sauce: print 1;\n", "field sauce not found"},
		{"name: x\n", "cannot unmarshal"},
	} {
		_, err := loxtest.Load(writeFile(t, test.data))
		if err == nil {
			t.Errorf("Load(%q) succeeded, want error containing %q", test.data, test.want)
		} else if !strings.Contains(err.Error(), test.want) {
			t.Errorf("Load(%q) = %v, want error containing %q", test.data, err, test.want)
		}
	}
}

func TestRunOptions(t *testing.T) {
	s := &loxtest.Scenario{
		Name:    "lenient",
		Source:  "print 1; break;",
		Options: []string{"lenientbranch"},
	}
	got := loxtest.Run(s)
	want := loxtest.Result{
		Stdout: "1\n",
		Stderr: "Can't use 'break' outside of a loop.\n[line 1]\n",
		Status: 70,
	}
	if got != want {
		t.Errorf("Run = %+v, want %+v", got, want)
	}
	if resolve.AllowTopLevelBranch {
		t.Error("Run did not restore AllowTopLevelBranch")
	}

	s.Options = []string{"bogus"}
	if got := loxtest.Run(s); got.Status != 1 || !strings.Contains(got.Stderr, `unknown option "bogus"`) {
		t.Errorf("Run with bogus option = %+v", got)
	}
}
