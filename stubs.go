// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abigen

import (
	"log/slog"
	"os"

	"abigen.computer/decl"
	"abigen.computer/internal/error/stage"
	"abigen.computer/internal/output"
	"abigen.computer/oracle"
	"abigen.computer/symbol"
	"abigen.computer/trapstub"

	. "import.name/type/context"
)

// StubConfig of the trap stub pipeline.
type StubConfig struct {
	Compiler    *oracle.Compiler
	Input       string // Declarations.
	Output      string // Assembly source.
	IncludePath string
	Header      string // trapstub.DefaultHeader if empty.
	Prefix      string // symbol.DefaultPrefix if empty.
	Verify      bool

	// Resolver overrides symbol resolution by Compiler.
	Resolver symbol.Resolver

	Log *slog.Logger
}

// GenerateStubs writes one trap stub per declaration and returns the number
// of stubs.
func GenerateStubs(ctx Context, c StubConfig) (n int, err error) {
	err = z.Recover(func() {
		n = mustGenerateStubs(ctx, &c)
	})
	return
}

func mustGenerateStubs(ctx Context, c *StubConfig) int {
	log := logger(c.Log)

	src, err := os.ReadFile(c.Input)
	check(stage.Scan, err)

	decls, err := decl.ScanBytes(src)
	check(stage.Scan, err)
	log.DebugContext(ctx, "declarations scanned", "input", c.Input, "names", decl.Names(decls))

	r := c.Resolver
	if r == nil {
		cc := c.Compiler
		if cc == nil {
			cc = new(oracle.Compiler)
		}
		r = &symbol.CompilerResolver{
			Compiler:    cc,
			Source:      src,
			IncludePath: c.IncludePath,
			Prefix:      c.Prefix,
			Verify:      c.Verify,
		}
	}

	syms, err := r.ResolveSymbols(ctx, decls)
	check(stage.Resolve, err)

	check(stage.Write, output.WriteBytes(c.Output, trapstub.Bytes(c.Header, syms)))

	log.InfoContext(ctx, "trap stubs written", "output", c.Output, "count", len(syms))
	return len(syms)
}
