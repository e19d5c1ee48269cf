// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trapstub emits RISC-V assembly trampolines which enter the kernel
// through ecall.  Each trampoline is labelled with the linker symbol of a
// user-visible system call wrapper and loads its number into a7.
package trapstub

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"abigen.computer/symbol"
)

// DefaultHeader defines the SYSCALL_<name> constants.
const DefaultHeader = "kernel/syscalls/syscall_num_def.h"

// NumberPrefix of the symbolic system call number constants.
const NumberPrefix = "SYSCALL_"

// Emit writes the assembly source: an include of the number definition header
// followed by one trampoline per symbol, in order.
func Emit(w io.Writer, header string, syms []symbol.Symbol) error {
	if header == "" {
		header = DefaultHeader
	}

	b := bufio.NewWriter(w)
	a := asm{b}

	fmt.Fprintf(b, "#include \"%s\"\n\n", header)

	for _, sym := range syms {
		a.function(sym.Name)
		a.insn("li", "a7, "+NumberPrefix+sym.Decl.Name)
		a.insn("ecall", "")
		a.insn("ret", "")
		b.WriteByte('\n')
	}

	return b.Flush()
}

// Bytes returns the output of Emit.
func Bytes(header string, syms []symbol.Symbol) []byte {
	var b bytes.Buffer
	Emit(&b, header, syms) // Buffer doesn't fail.
	return b.Bytes()
}

type asm struct {
	w *bufio.Writer
}

func (a asm) function(name string) {
	fmt.Fprintf(a.w, ".global %s\n", name)
	fmt.Fprintf(a.w, "%s:\n", name)
}

func (a asm) insn(op, operands string) {
	if operands == "" {
		fmt.Fprintf(a.w, "  %s\n", op)
	} else {
		fmt.Fprintf(a.w, "  %-3s %s\n", op, operands)
	}
}
