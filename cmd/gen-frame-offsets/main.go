// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Program gen-frame-offsets writes a header of register frame field offsets.
//
//	gen-frame-offsets <source_translation_unit> <compiler> <extra_compiler_args> <output_header_file>
//
// The extra compiler arguments are given as a single argument and split using
// shell quoting rules.  The structure is parsed with clang, which can be
// specified with the CLANG environment variable.  The structure name can be
// overridden with FRAME_STRUCT.
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
		cmdconf.Usage("<source_translation_unit> <compiler> <extra_compiler_args> <output_header_file>")
	}

	log, _ := logging.Init(logging.Config{})

	args, err := oracle.SplitArgs(os.Args[3])
	if err != nil {
		log.Error("bad compiler arguments", "error", err)
		os.Exit(2)
	}

	ctx, cancel := cmdconf.Context()
	defer cancel()

	cxx := &oracle.Compiler{Path: os.Args[2], Args: args, Log: log}
	clang := &oracle.Compiler{Path: cmdconf.Getenv("CLANG", abigen.DefaultClang), Args: args, Log: log}

	_, err = abigen.GenerateOffsets(ctx, abigen.OffsetConfig{
		Source:   os.Args[1],
		Output:   os.Args[4],
		Struct:   cmdconf.Getenv("FRAME_STRUCT", abigen.DefaultStruct),
		Compiler: cxx,
		Tree:     abigen.ClangTree(clang),
		Log:      log,
	})
	cmdconf.Check(log, err)
}
