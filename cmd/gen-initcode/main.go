// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Program gen-initcode embeds the first user program into C++ source.
//
//	gen-initcode <binary> <output_basename>
//
// The output is written to <output_basename>.cc.
package main

import (
	"os"

	"abigen.computer"
	"abigen.computer/internal/cmdconf"
	"abigen.computer/internal/logging"
)

func main() {
	if len(os.Args) != 3 {
		cmdconf.Usage("<binary> <output_basename>")
	}

	log, _ := logging.Init(logging.Config{})

	ctx, cancel := cmdconf.Context()
	defer cancel()

	_, err := abigen.GenerateInitcode(ctx, abigen.InitcodeConfig{
		Input:  os.Args[1],
		Output: os.Args[2],
		Log:    log,
	})
	cmdconf.Check(log, err)
}
