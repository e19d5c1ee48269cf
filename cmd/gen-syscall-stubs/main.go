// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Program gen-syscall-stubs writes RISC-V trap entry stubs for the system
// call wrappers declared in a header.
//
//	gen-syscall-stubs <compiler> <input_declarations_file> <output_assembly_file> <include_path>
//
// Nothing is done if the argument count is wrong.
package main

import (
	"os"

	"abigen.computer"
	"abigen.computer/internal/cmdconf"
	"abigen.computer/internal/logging"
	"abigen.computer/oracle"
)

func main() {
	if len(os.Args) != 5 {
		return
	}

	log, _ := logging.Init(logging.Config{})

	ctx, cancel := cmdconf.Context()
	defer cancel()

	_, err := abigen.GenerateStubs(ctx, abigen.StubConfig{
		Compiler:    &oracle.Compiler{Path: os.Args[1], Log: log},
		Input:       os.Args[2],
		Output:      os.Args[3],
		IncludePath: os.Args[4],
		Log:         log,
	})
	cmdconf.Check(log, err)
}
