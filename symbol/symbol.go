// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symbol resolves declared functions to the linker symbols which the
// compiler assigns to them.
package symbol

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"abigen.computer/decl"
	"abigen.computer/oracle"
	"github.com/ianlancetaylor/demangle"
	"github.com/samber/lo"

	. "import.name/type/context"
)

// DefaultPrefix is the first character of global C++ symbol labels in the
// assembly output of the supported compilers.
const DefaultPrefix = "_"

var ErrCountMismatch = errors.New("symbol count does not match declaration count")

// Symbol is the linker-visible name of a declaration.
type Symbol struct {
	Decl decl.Decl
	Name string
}

// Resolver maps declarations to symbols, one per declaration and in the same
// order.
type Resolver interface {
	ResolveSymbols(ctx Context, decls []decl.Decl) ([]Symbol, error)
}

// CompilerResolver compiles a transformed copy of the declaration source and
// scrapes function labels from the assembly.
type CompilerResolver struct {
	Compiler    *oracle.Compiler
	Source      []byte
	IncludePath string
	Prefix      string // DefaultPrefix if empty.
	Verify      bool   // Check each label against its declaration name.
}

func (r *CompilerResolver) ResolveSymbols(ctx Context, decls []decl.Decl) ([]Symbol, error) {
	asm, err := r.Compiler.Assembly(ctx, Synthesize(r.Source), r.IncludePath)
	if err != nil {
		return nil, err
	}

	prefix := r.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	syms, err := Pair(decls, Labels(asm, prefix))
	if err != nil {
		return nil, err
	}

	if r.Verify {
		if err := Verify(syms, prefix); err != nil {
			return nil, err
		}
	}

	return syms, nil
}

// Synthesize gives every recognized declaration an empty body so that the
// compiler emits a function for it.  Other lines are kept as they are.
func Synthesize(src []byte) []byte {
	var b bytes.Buffer

	s := bufio.NewScanner(bytes.NewReader(src))
	s.Buffer(nil, 1024*1024)

	for s.Scan() {
		line := s.Text()
		if _, ok := decl.Match(line); ok {
			line = strings.TrimRightFunc(line, unicode.IsSpace)
			line = line[:len(line)-1] + "{}"
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.Bytes()
}

// Labels returns the names of the labels which start with prefix, in output
// order.  Anything after the colon (such as clang's comment) is ignored.
func Labels(asm []byte, prefix string) (labels []string) {
	s := bufio.NewScanner(bytes.NewReader(asm))
	s.Buffer(nil, 1024*1024)

	for s.Scan() {
		line := s.Text()
		if strings.HasPrefix(line, prefix) {
			name, _, _ := strings.Cut(line, ":")
			labels = append(labels, strings.TrimSpace(name))
		}
	}

	return
}

// Pair declarations and labels by position.
func Pair(decls []decl.Decl, labels []string) ([]Symbol, error) {
	if len(labels) != len(decls) {
		return nil, fmt.Errorf("%w: %d labels for %d declarations", ErrCountMismatch, len(labels), len(decls))
	}

	return lo.Map(decls, func(d decl.Decl, i int) Symbol {
		return Symbol{Decl: d, Name: labels[i]}
	}), nil
}

// Verify that each symbol names its declaration.  Mangled names are demangled
// and compared by their unqualified function name; plain names are compared
// after removing the prefix.
func Verify(syms []Symbol, prefix string) error {
	for _, sym := range syms {
		name := Unqualified(sym.Name, prefix)
		if name != sym.Decl.Name {
			return fmt.Errorf("symbol %s at position %d resolves to %q, declared as %q", sym.Name, sym.Decl.Ordinal, name, sym.Decl.Name)
		}
	}
	return nil
}

// Unqualified function name of a symbol.
func Unqualified(sym, prefix string) string {
	mangled := sym
	if strings.HasPrefix(mangled, "__Z") {
		mangled = mangled[1:] // Mach-O adds an underscore.
	}

	name, err := demangle.ToString(mangled, demangle.NoParams)
	if err != nil {
		return strings.TrimPrefix(sym, prefix)
	}

	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	return name
}
