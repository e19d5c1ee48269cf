// Copyright (c) 2022 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	. "import.name/make"
)

func main() { Main(targets, "") }

var commands = []string{
	"abigen",
	"gen-frame-offsets",
	"gen-initcode",
	"gen-syscall-stubs",
}

func targets() (targets Tasks) {
	var (
		DESTDIR = Getvar("DESTDIR", "")
		PREFIX  = Getvar("PREFIX", "/usr/local")
		BINDIR  = Getvar("BINDIR", Join(PREFIX, "bin"))
	)

	var bin Tasks
	for _, name := range commands {
		bin.Add(targets.Add(installBinTask(DESTDIR, BINDIR, Join("bin", name))))
	}
	targets.Add(TargetDefault("all", Group(bin...)))

	return
}

func installBinTask(DESTDIR, BINDIR, name string) Task {
	task := Installation(DESTDIR+BINDIR+"/", name, true)

	if Exists(name) {
		return TargetDefault(name, task)
	} else {
		return Target(name, task)
	}
}
