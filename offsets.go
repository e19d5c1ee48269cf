// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abigen

import (
	"io"
	"log/slog"

	"abigen.computer/internal/error/stage"
	"abigen.computer/internal/output"
	"abigen.computer/layout"
	"abigen.computer/layout/ccast"
	"abigen.computer/layout/clang"
	"abigen.computer/offset"
	"abigen.computer/oracle"

	. "import.name/type/context"
)

const (
	DefaultStruct = "RegFrame" // Register frame structure name.
	DefaultClang  = "clang"
)

// TreeLoader parses a translation unit into a declaration tree.
type TreeLoader func(ctx Context, filename string) (*layout.Node, error)

// ClangTree loads C++ declarations using clang's AST dump.  The compiler's
// arguments are passed to clang.
func ClangTree(c *oracle.Compiler) TreeLoader {
	cxx := *c
	cxx.Args = append([]string{"-x", "c++"}, c.Args...)

	return func(ctx Context, filename string) (*layout.Node, error) {
		return clang.Dump(ctx, &cxx, filename)
	}
}

// CTree loads C declarations without a compiler front end.
func CTree(config ccast.Config) TreeLoader {
	return func(_ Context, filename string) (*layout.Node, error) {
		return ccast.Load(filename, config)
	}
}

// OffsetConfig of the frame offset pipeline.
type OffsetConfig struct {
	Source string // Translation unit containing the structure definition.
	Output string // Header.
	Struct string // DefaultStruct if empty.

	// Include is the structure definition header which the probe program and
	// the generated header include.  Source is used if it is empty.
	Include string

	// Compiler builds the probe program.  Its arguments are also passed to
	// clang when Tree is not specified.
	Compiler *oracle.Compiler

	Tree     TreeLoader      // ClangTree with DefaultClang if nil.
	Measurer offset.Measurer // Probe using Compiler if nil.
	Log      *slog.Logger
}

// GenerateOffsets writes the offset header and returns the number of fields.
// A structure which is not found yields a header without definitions.
func GenerateOffsets(ctx Context, c OffsetConfig) (n int, err error) {
	err = z.Recover(func() {
		n = mustGenerateOffsets(ctx, &c)
	})
	return
}

func mustGenerateOffsets(ctx Context, c *OffsetConfig) int {
	log := logger(c.Log)

	name := c.Struct
	if name == "" {
		name = DefaultStruct
	}
	include := c.Include
	if include == "" {
		include = c.Source
	}
	cc := c.Compiler
	if cc == nil {
		cc = new(oracle.Compiler)
	}

	load := c.Tree
	if load == nil {
		load = ClangTree(&oracle.Compiler{Path: DefaultClang, Args: cc.Args, Log: cc.Log})
	}

	m := c.Measurer
	if m == nil {
		m = &offset.Probe{Compiler: cc, Include: include}
	}

	tree, err := load(ctx, c.Source)
	check(stage.Walk, err)

	s := layout.Walk(tree, name)
	if s.Found() {
		log.DebugContext(ctx, "structure found", "name", s.QualName, "fields", len(s.Fields))
	} else {
		log.WarnContext(ctx, "structure not found", "source", c.Source, "name", name)
	}

	recs, err := m.Measure(ctx, s)
	check(stage.Probe, err)

	check(stage.Write, output.Write(c.Output, func(w io.Writer) error {
		return stage.Wrap(stage.Emit, offset.Header(w, offset.Guard(c.Output), include, recs))
	}))

	log.InfoContext(ctx, "frame offsets written", "output", c.Output, "count", len(recs))
	return len(recs)
}
