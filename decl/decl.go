// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package decl finds single-line function declarations in header-like source.
//
// Only the narrow shape
//
//	<return-type> <name>(<args>);
//
// is recognized, one declaration per physical line.  The only semicolon on the
// line must be the terminating one.  Comments, preprocessor
// directives and multi-line declarations are skipped without diagnostics.
package decl

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strings"
)

var pattern = regexp.MustCompile(`^\S+\s+[^\s;]+\([^;]*\);$`)

// Decl is a declared function in source order.  Overloads appear as separate
// entries with the same name.
type Decl struct {
	Name    string
	Ordinal int
}

// Match reports whether line is a declaration, and returns the function name.
// Surrounding whitespace is ignored.
func Match(line string) (name string, ok bool) {
	line = strings.TrimSpace(line)
	if !pattern.MatchString(line) {
		return "", false
	}

	name = strings.Fields(line)[1]
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	return name, name != ""
}

// Scan reads declarations until EOF.
func Scan(r io.Reader) (decls []Decl, err error) {
	s := bufio.NewScanner(r)
	s.Buffer(nil, 1024*1024)

	for s.Scan() {
		if name, ok := Match(s.Text()); ok {
			decls = append(decls, Decl{Name: name, Ordinal: len(decls)})
		}
	}

	err = s.Err()
	return
}

// ScanBytes is like Scan for in-memory source.
func ScanBytes(src []byte) ([]Decl, error) {
	return Scan(bytes.NewReader(src))
}

// Names of declarations in order.
func Names(decls []Decl) []string {
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.Name
	}
	return names
}
