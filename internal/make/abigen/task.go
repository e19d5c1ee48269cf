// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abigen

import (
	m "import.name/make"
)

// Task regenerates the example artifacts when the generator or its inputs
// change.
func Task(GO string) m.Task {
	deps := m.Globber(
		"example/abigen.toml",
		"example/*.h",
		"example/*.hpp",
		"*.go",
		"decl/*.go",
		"layout/*.go",
		"layout/clang/*.go",
		"offset/*.go",
		"oracle/*.go",
		"symbol/*.go",
		"trapstub/*.go",
	)

	outputs := []string{
		"example/syscall_stubs.S",
		"example/regs_frame_offset.h",
	}

	var conds []func() bool
	for _, filename := range outputs {
		conds = append(conds, m.Outdated(filename, deps))
	}

	return m.If(
		m.Any(conds...),
		m.Command(GO, "run", "./cmd/abigen", "-f", "example/abigen.toml"),
	)
}
