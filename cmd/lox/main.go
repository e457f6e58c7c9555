// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The lox command scans, parses, evaluates or runs a Lox file,
// or starts a read-eval-print loop (REPL).
//
// Usage:
//
//	lox [flags] tokenize [-j] <filename>
//	lox [flags] parse <filename>
//	lox [flags] evaluate <filename>
//	lox [flags] run <filename>
//	lox [flags] repl
//
// The exit status is 64 for a usage error, 65 for a static error
// in the program, and 70 for a runtime error.
package main // import "go.lox.dev/cmd/lox"

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"git.sr.ht/~sircmpwn/getopt"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"go.lox.dev/lox"
	"go.lox.dev/repl"
	"go.lox.dev/resolve"
	"go.lox.dev/syntax"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	showenv    = flag.Bool("showenv", false, "on success of run, print final global environment")
	backtrace  = flag.Bool("backtrace", false, "print runtime errors with their call stack")
)

func init() {
	// non-standard dialect flags
	flag.BoolVar(&resolve.AllowTopLevelBranch, "lenientbranch", resolve.AllowTopLevelBranch,
		"allow break and continue outside of loops, failing at run time instead")
}

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("lox: ")
	log.SetFlags(0)
	flag.Usage = func() {
		usage(os.Stdout)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	return execute(flag.Args(), os.Stdout, os.Stderr)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lox tokenize|parse|evaluate|run <filename>")
	fmt.Fprintln(w, "       lox repl")
}

// execute runs the command named by args[0] and returns the exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stdout)
		return lox.ExitUsage
	}

	var optstring string
	switch cmd := args[0]; cmd {
	case "repl":
		repl.Backtrace = *backtrace
		thread := &lox.Thread{Name: "REPL"}
		repl.REPL(thread)
		return 0
	case "tokenize":
		optstring = "j"
	case "parse", "evaluate", "run":
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		usage(stdout)
		return lox.ExitUsage
	}

	// getopt expects args[0] to hold the command name.
	opts, optind, err := getopt.Getopts(args, optstring)
	if err != nil {
		fmt.Fprintln(stderr, err)
		usage(stdout)
		return lox.ExitUsage
	}
	rest := args[optind:]
	if len(rest) != 1 {
		usage(stdout)
		return lox.ExitUsage
	}
	filename := rest[0]
	data, err := os.ReadFile(filename)
	check(err)

	switch args[0] {
	case "tokenize":
		jsonOutput := false
		for _, opt := range opts {
			if opt.Option == 'j' {
				jsonOutput = true
			}
		}
		return tokenize(data, jsonOutput, stdout, stderr)

	case "parse":
		e, err := syntax.ParseExprSource(data)
		if err != nil {
			report(stderr, err)
			return lox.ExitStatus(err)
		}
		fmt.Fprintln(stdout, syntax.Sprint(e))
		return 0

	case "evaluate":
		in := lox.NewInterpreter(newThread(filename, stdout))
		v, err := in.EvalExpr(data)
		if err != nil {
			report(stderr, err)
			return lox.ExitStatus(err)
		}
		fmt.Fprintln(stdout, lox.Stringify(v))
		return 0

	default: // run
		in := lox.NewInterpreter(newThread(filename, stdout))
		if err := in.ExecFile(data); err != nil {
			report(stderr, err)
			return lox.ExitStatus(err)
		}
		if *showenv {
			globals := in.Globals()
			for _, name := range globals.Keys() {
				if _, ok := lox.Universe[name]; !ok {
					v, _ := globals.Get(name)
					fmt.Fprintf(stderr, "%s = %s\n", name, v)
				}
			}
		}
		return 0
	}
}

func newThread(filename string, stdout io.Writer) *lox.Thread {
	return &lox.Thread{
		Name:  "exec " + filename,
		Print: func(_ *lox.Thread, msg string) { fmt.Fprintln(stdout, msg) },
	}
}

// tokenize prints the tokens of data, one per line, either in the
// form "KIND lexeme literal" or as JSON objects.
func tokenize(data []byte, jsonOutput bool, stdout, stderr io.Writer) int {
	tokens, err := syntax.Scan(data)
	if err != nil {
		report(stderr, err)
	}
	for _, tok := range tokens {
		if !jsonOutput {
			fmt.Fprintln(stdout, tok)
			continue
		}
		s, err := structpb.NewStruct(map[string]interface{}{
			"kind":    tok.Kind.String(),
			"lexeme":  tok.Lexeme,
			"literal": tok.Literal,
			"line":    tok.Line,
		})
		check(err)
		b, err := protojson.Marshal(s)
		check(err)
		fmt.Fprintf(stdout, "%s\n", b)
	}
	return lox.ExitStatus(err)
}

// report prints a diagnostic for err: static errors one per line,
// runtime errors as the message followed by the line, or as a
// backtrace if requested.
func report(stderr io.Writer, err error) {
	var evalErr *lox.EvalError
	if *backtrace && errors.As(err, &evalErr) {
		fmt.Fprintln(stderr, evalErr.Backtrace())
		return
	}
	fmt.Fprintln(stderr, err)
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
