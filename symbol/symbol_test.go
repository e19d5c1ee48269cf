// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package symbol_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"abigen.computer/decl"
	"abigen.computer/oracle"
	"abigen.computer/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "import.name/testing/mustr"
)

const source = `namespace syscall {
int write(int fd, const void* src, int size);
int fork();
int exec(const char* path, const char** argv);
int exec(const char* path, char** argv);
}  // namespace syscall
`

// Assembly in the shape emitted by g++ -S for the source above.
const assembly = `	.file	"<stdin>"
	.text
	.globl	_ZN7syscall5writeEiPKvi
	.type	_ZN7syscall5writeEiPKvi, @function
_ZN7syscall5writeEiPKvi:
.LFB0:
	.cfi_startproc
	ret
	.cfi_endproc
.LFE0:
	.size	_ZN7syscall5writeEiPKvi, .-_ZN7syscall5writeEiPKvi
	.globl	_ZN7syscall4forkEv
_ZN7syscall4forkEv:
	ret
	.globl	_ZN7syscall4execEPKcPS2_
_ZN7syscall4execEPKcPS2_:
	ret
	.globl	_ZN7syscall4execEPKcPPc
_ZN7syscall4execEPKcPPc:
	ret
	.ident	"GCC"
`

func TestSynthesize(t *testing.T) {
	src := "#include \"x.h\"\nint fork();  \n  void quote(const char* s = \"a\");\nint x;\n"
	assert.Equal(t, "#include \"x.h\"\nint fork(){}\n  void quote(const char* s = \"a\"){}\nint x;\n", string(symbol.Synthesize([]byte(src))))
}

func TestSynthesizeTrailingSpace(t *testing.T) {
	assert.Equal(t, "int fork(){}\nint exit(int){}\n", string(symbol.Synthesize([]byte("int fork();\v\nint exit(int);\f \u00a0\n"))))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, []string{
		"_ZN7syscall5writeEiPKvi",
		"_ZN7syscall4forkEv",
		"_ZN7syscall4execEPKcPS2_",
		"_ZN7syscall4execEPKcPPc",
	}, symbol.Labels([]byte(assembly), symbol.DefaultPrefix))

	assert.Equal(t, []string{"__Z4forkv"}, symbol.Labels([]byte("__Z4forkv:\n\tret\n"), "_"))
}

// Assembly in the shape emitted by clang -S, with a comment after each label.
const clangAssembly = `	.text
	.globl	_ZN7syscall5writeEiPKvi              # -- Begin function _ZN7syscall5writeEiPKvi
	.type	_ZN7syscall5writeEiPKvi,@function
_ZN7syscall5writeEiPKvi:                # @_ZN7syscall5writeEiPKvi
	.cfi_startproc
	retq
.Lfunc_end0:
_ZN7syscall4forkEv:                     # @_ZN7syscall4forkEv
	retq
_ZN7syscall4execEPKcPS2_:               # @_ZN7syscall4execEPKcPS2_
	retq
_ZN7syscall4execEPKcPPc:                # @_ZN7syscall4execEPKcPPc
	retq
`

func TestLabelsTrailingComment(t *testing.T) {
	assert.Equal(t, symbol.Labels([]byte(assembly), "_"), symbol.Labels([]byte(clangAssembly), "_"))
	assert.Equal(t, []string{"__Z4forkv"}, symbol.Labels([]byte("__Z4forkv:                              ## @_Z4forkv\n\tretq\n"), "_"))

	decls := Must(t, R(decl.ScanBytes([]byte(source))))
	syms := Must(t, R(symbol.Pair(decls, symbol.Labels([]byte(clangAssembly), "_"))))
	assert.NoError(t, symbol.Verify(syms, "_"))
}

func TestPair(t *testing.T) {
	decls := Must(t, R(decl.ScanBytes([]byte(source))))
	labels := symbol.Labels([]byte(assembly), symbol.DefaultPrefix)

	syms := Must(t, R(symbol.Pair(decls, labels)))
	require.Len(t, syms, 4)
	assert.Equal(t, "fork", syms[1].Decl.Name)
	assert.Equal(t, "_ZN7syscall4forkEv", syms[1].Name)
	assert.Equal(t, 3, syms[3].Decl.Ordinal)

	_, err := symbol.Pair(decls, labels[:3])
	assert.True(t, errors.Is(err, symbol.ErrCountMismatch))
	assert.Contains(t, err.Error(), "3 labels for 4 declarations")

	syms = Must(t, R(symbol.Pair(nil, nil)))
	assert.Empty(t, syms)
}

func TestVerify(t *testing.T) {
	decls := Must(t, R(decl.ScanBytes([]byte(source))))
	syms := Must(t, R(symbol.Pair(decls, symbol.Labels([]byte(assembly), "_"))))
	assert.NoError(t, symbol.Verify(syms, "_"))

	syms[0], syms[1] = symbol.Symbol{Decl: syms[0].Decl, Name: syms[1].Name}, symbol.Symbol{Decl: syms[1].Decl, Name: syms[0].Name}
	assert.Error(t, symbol.Verify(syms, "_"))
}

func TestUnqualified(t *testing.T) {
	assert.Equal(t, "write", symbol.Unqualified("_ZN7syscall5writeEiPKvi", "_"))
	assert.Equal(t, "fork", symbol.Unqualified("_Z4forkv", "_"))
	assert.Equal(t, "fork", symbol.Unqualified("__Z4forkv", "_"))
	assert.Equal(t, "fork", symbol.Unqualified("_fork", "_"))
}

func fakeCompiler(t *testing.T, output string) *oracle.Compiler {
	t.Helper()
	dir := t.TempDir()
	asm := filepath.Join(dir, "out.s")
	require.NoError(t, os.WriteFile(asm, []byte(output), 0o666))
	cc := filepath.Join(dir, "cc")
	require.NoError(t, os.WriteFile(cc, []byte("#!/bin/sh\ncat >/dev/null\ncat "+asm+"\n"), 0o755))
	return &oracle.Compiler{Path: cc}
}

func TestCompilerResolver(t *testing.T) {
	decls := Must(t, R(decl.ScanBytes([]byte(source))))

	r := &symbol.CompilerResolver{
		Compiler: fakeCompiler(t, assembly),
		Source:   []byte(source),
		Verify:   true,
	}
	syms := Must(t, R(r.ResolveSymbols(context.Background(), decls)))
	assert.Equal(t, "_ZN7syscall4execEPKcPPc", syms[3].Name)

	r.Compiler = fakeCompiler(t, "_ZN7syscall4forkEv:\n\tret\n")
	_, err := r.ResolveSymbols(context.Background(), decls)
	assert.True(t, errors.Is(err, symbol.ErrCountMismatch))
}

func TestHostCompiler(t *testing.T) {
	cxx, err := exec.LookPath("c++")
	if err != nil {
		t.Skip(err)
	}

	decls := Must(t, R(decl.ScanBytes([]byte(source))))

	r := &symbol.CompilerResolver{
		Compiler: &oracle.Compiler{Path: cxx},
		Source:   []byte(source),
		Verify:   true,
	}
	syms := Must(t, R(r.ResolveSymbols(context.Background(), decls)))
	require.Len(t, syms, len(decls))
	assert.Equal(t, "fork", symbol.Unqualified(syms[1].Name, "_"))
}
