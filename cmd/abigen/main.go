// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Program abigen runs every generator whose output is configured.
package main

import (
	"flag"
	"log"
	"os"

	"abigen.computer/internal/cmdconf"
	"abigen.computer/internal/logging"
	"github.com/google/uuid"
	"import.name/confi"
)

func main() {
	c := DefaultConfig()

	flag.Var(confi.FileReader(c), "f", "read a configuration file")
	flag.Var(confi.Assigner(c), "o", "set a configuration option (path.to.key=value)")
	flag.Usage = confi.FlagUsage(nil, c)
	flag.Parse()

	if c.Log.Journal {
		log.SetFlags(0)
	}
	log, err := logging.Init(logging.Config{Journal: c.Log.Journal, Debug: c.Log.Debug})
	if err != nil {
		log.Error("journal initialization failed", "error", err)
		os.Exit(1)
	}
	log = log.With("run", uuid.NewString())

	jobs, err := c.jobs(log)
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(2)
	}
	if len(jobs) == 0 {
		log.Warn("nothing to generate")
		return
	}

	ctx, cancel := cmdconf.Context()
	defer cancel()

	results, err := run(ctx, jobs)
	cmdconf.Check(log, err)

	log.Info("generation complete", "stubs", results["syscall"], "offsets", results["frame"], "initcode", results["initcode"])
}
