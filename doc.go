// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package abigen generates the machine-level artifacts of a kernel's user/kernel
boundary by asking a real compiler.

GenerateStubs writes RISC-V trap entry stubs for the system call wrappers
declared in a header.  The stubs are labelled with the linker symbols which
the compiler assigns to the declarations, and refer to the system call numbers
symbolically.

GenerateOffsets writes a header of field offset definitions for the register
frame structure, for use by hand-written assembly.

GenerateInitcode embeds the first user program into kernel source.

# Errors

Errors returned by the Generate functions name the step which failed:

	interface {
		Subsystem() string
	}

The value is one of scan, resolve, emit, walk, probe, embed or write.  No
output file is created or modified if an error is returned.
*/
package abigen
