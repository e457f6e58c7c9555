// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile provides utilities for testing that source code
// errors are reported in the appropriate places.
//
// A chunked file consists of several chunks of input text separated by
// "---" lines.  Each chunk is an input to the program under test, such
// as the parser or the resolver.  A line comment beginning with "###"
// is an expectation of failure on that line: the following text is a
// Go string literal denoting a regular expression that should match
// the failure message. A "###" outside a line comment is reported as
// a malformed annotation, since the chunk would no longer scan as Lox.
//
// Example:
//
//	return 1; // ### "Cannot return from top-level code."
//	---
//	var a = 1;
//	{ var a = a; } // ### "own initializer"
//
// A client test feeds each chunk of text into the program under test,
// then calls chunk.GotError for each error that actually occurred.  Any
// discrepancy between the actual and expected errors is reported using
// the client's reporter, which is typically a testing.T.
package chunkedfile // import "go.lox.dev/internal/chunkedfile"

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

const debug = false

// A Chunk is a portion of a source file.
// It contains a set of expected errors.
type Chunk struct {
	Source   string
	filename string
	report   Reporter
	wantErrs map[int]*regexp.Regexp
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read parses a chunked file and returns its chunks.
// It reports failures using the reporter.
//
// Error messages of the form "file.lox:line: ..." are prefixed
// by a newline so that the Go source position added by (*testing.T).Errorf
// appears on a separate line so as not to confused editors.
func Read(filename string, report Reporter) []Chunk {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return nil
	}
	return readBytes(filename, data, report)
}

// readBytes splits data into chunks at "---" lines. Each chunk's
// source is padded with blank lines so that line numbers within it
// match those of the file.
func readBytes(filename string, data []byte, report Reporter) (chunks []Chunk) {
	var (
		src      strings.Builder
		wantErrs = make(map[int]*regexp.Regexp)
		first    = 1 // file line of the current chunk's first line
	)
	flush := func() {
		chunks = append(chunks, Chunk{
			Source:   strings.Repeat("\n", first-1) + src.String(),
			filename: filename,
			report:   report,
			wantErrs: wantErrs,
		})
		src.Reset()
		wantErrs = make(map[int]*regexp.Regexp)
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		linenum := i + 1
		line = strings.TrimSuffix(line, "\r")
		if line == "---" {
			if debug {
				fmt.Printf("chunk %d ends at line %d\n", len(chunks), linenum)
			}
			flush()
			first = linenum + 1
			continue
		}
		if linenum != first {
			src.WriteByte('\n')
		}
		src.WriteString(line)

		pattern, ok := expectation(line)
		if !ok {
			report.Errorf("\n%s:%d: ### annotation must follow '//'", filename, linenum)
			continue
		}
		if pattern == "" {
			continue
		}
		unquoted, err := strconv.Unquote(pattern)
		if err != nil {
			report.Errorf("\n%s:%d: not a quoted regexp: %s", filename, linenum, pattern)
			continue
		}
		rx, err := regexp.Compile(unquoted)
		if err != nil {
			report.Errorf("\n%s:%d: %v", filename, linenum, err)
			continue
		}
		wantErrs[linenum] = rx
		if debug {
			fmt.Printf("\t%d\t%s\n", linenum, rx)
		}
	}
	flush()
	return chunks
}

// expectation returns the quoted pattern of the "// ###" annotation
// on line, or "" if there is none. It reports false if the line has
// a "###" that is not in a line comment.
func expectation(line string) (pattern string, ok bool) {
	hashes := strings.Index(line, "###")
	if hashes < 0 {
		return "", true
	}
	comment := strings.Index(line, "//")
	if comment < 0 || comment > hashes || strings.TrimSpace(line[comment+2:hashes]) != "" {
		return "", false
	}
	return strings.TrimSpace(line[hashes+len("###"):]), true
}

// GotError should be called by the client to report an error at a particular line.
// GotError reports unexpected errors to the chunk's reporter.
func (chunk *Chunk) GotError(linenum int, msg string) {
	rx, ok := chunk.wantErrs[linenum]
	if !ok {
		chunk.report.Errorf("\n%s:%d: unexpected error: %v", chunk.filename, linenum, msg)
		return
	}
	delete(chunk.wantErrs, linenum)
	if !rx.MatchString(msg) {
		chunk.report.Errorf("\n%s:%d: error %q does not match pattern %q", chunk.filename, linenum, msg, rx)
	}
}

// Done should be called by the client to indicate that the chunk has no more errors.
// Done reports expected errors that did not occur to the chunk's reporter.
func (chunk *Chunk) Done() {
	for linenum, rx := range chunk.wantErrs {
		chunk.report.Errorf("\n%s:%d: expected error matching %q", chunk.filename, linenum, rx)
	}
}
