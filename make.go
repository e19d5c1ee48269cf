// Copyright (c) 2022 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build generate
// +build generate

package main

//go:generate go run make.go generate

import (
	"abigen.computer/internal/make/abigen"
	. "import.name/make"
)

func main() { Main(targets, "make.go", "go.mod") }

func targets() (targets Tasks) {
	GO := Getvar("GO", "go")

	binaries := targets.Add(Target("bin",
		Command(GO, "build", "-o", "bin/", "./cmd/..."),
	))

	sources := abigen.Task(GO)
	targets.Add(Target("generate", sources))
	targets.Add(Target("check", check(GO)))
	targets.Add(Target("install",
		binaries,
		Command(GO, "run", "./internal/make/cmd/install"),
	))
	targets.Add(Target("clean",
		Removal("bin"),
		Removal("example/syscall_stubs.S"),
		Removal("example/regs_frame_offset.h"),
	))
	return
}

func check(GO string) Task {
	return Group(
		Command(GO, "build", "-o", "/dev/null", "./..."),
		Command(GO, "vet", "./..."),
		Command(GO, "test", "-v", "./..."),
	)
}
