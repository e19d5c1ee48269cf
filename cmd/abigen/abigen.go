// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"sync"

	"abigen.computer"
	"abigen.computer/layout/ccast"
	"abigen.computer/offset"
	"abigen.computer/oracle"
	"golang.org/x/sync/errgroup"
	"import.name/lock"

	. "import.name/type/context"
)

type Config struct {
	Compiler struct {
		Path    string
		Include string
		Args    string
	}

	Syscall struct {
		Input  string
		Output string
		Header string
		Prefix string
		Verify bool
	}

	Frame struct {
		Source  string
		Output  string
		Struct  string
		Type    string
		Include string
		AST     string
		Clang   string
		Oracle  string
	}

	Initcode struct {
		Input  string
		Output string
	}

	Log struct {
		Journal bool
		Debug   bool
	}
}

func DefaultConfig() *Config {
	c := new(Config)
	c.Compiler.Path = "c++"
	c.Frame.Struct = abigen.DefaultStruct
	c.Frame.AST = "clang"
	c.Frame.Clang = abigen.DefaultClang
	c.Frame.Oracle = "probe"
	return c
}

type job struct {
	name string
	run  func(Context) (int, error)
}

// jobs for the configured outputs.
func (c *Config) jobs(log *slog.Logger) (jobs []job, err error) {
	args, err := oracle.SplitArgs(c.Compiler.Args)
	if err != nil {
		return nil, err
	}

	cxx := &oracle.Compiler{Path: c.Compiler.Path, Args: args, Log: log}

	if c.Syscall.Output != "" {
		if c.Syscall.Input == "" {
			return nil, fmt.Errorf("syscall.output without syscall.input")
		}

		config := abigen.StubConfig{
			Compiler:    cxx,
			Input:       c.Syscall.Input,
			Output:      c.Syscall.Output,
			IncludePath: c.Compiler.Include,
			Header:      c.Syscall.Header,
			Prefix:      c.Syscall.Prefix,
			Verify:      c.Syscall.Verify,
			Log:         log.With("generator", "syscall"),
		}

		jobs = append(jobs, job{"syscall", func(ctx Context) (int, error) {
			return abigen.GenerateStubs(ctx, config)
		}})
	}

	if c.Frame.Output != "" {
		if c.Frame.Source == "" {
			return nil, fmt.Errorf("frame.output without frame.source")
		}

		config := abigen.OffsetConfig{
			Source:   c.Frame.Source,
			Output:   c.Frame.Output,
			Struct:   c.Frame.Struct,
			Include:  c.Frame.Include,
			Compiler: cxx,
			Log:      log.With("generator", "frame"),
		}

		switch c.Frame.AST {
		case "clang":
			clangArgs := args
			if c.Compiler.Include != "" {
				clangArgs = append([]string{"-I" + c.Compiler.Include}, args...)
			}
			config.Tree = abigen.ClangTree(&oracle.Compiler{Path: c.Frame.Clang, Args: clangArgs, Log: log})

		case "cc":
			var include []string
			if c.Compiler.Include != "" {
				include = append(include, c.Compiler.Include)
			}
			config.Tree = abigen.CTree(ccast.Config{Include: include})

		default:
			return nil, fmt.Errorf("unknown frame.ast: %q", c.Frame.AST)
		}

		switch c.Frame.Oracle {
		case "probe":
			include := c.Frame.Include
			if include == "" {
				include = c.Frame.Source
			}
			config.Measurer = &offset.Probe{Compiler: cxx, Type: c.Frame.Type, Include: include}

		case "static":
			config.Measurer = offset.Static{}

		default:
			return nil, fmt.Errorf("unknown frame.oracle: %q", c.Frame.Oracle)
		}

		jobs = append(jobs, job{"frame", func(ctx Context) (int, error) {
			return abigen.GenerateOffsets(ctx, config)
		}})
	}

	if c.Initcode.Output != "" {
		if c.Initcode.Input == "" {
			return nil, fmt.Errorf("initcode.output without initcode.input")
		}

		config := abigen.InitcodeConfig{
			Input:  c.Initcode.Input,
			Output: c.Initcode.Output,
			Log:    log.With("generator", "initcode"),
		}

		jobs = append(jobs, job{"initcode", func(ctx Context) (int, error) {
			return abigen.GenerateInitcode(ctx, config)
		}})
	}

	return jobs, nil
}

// run the jobs concurrently.  The first failure cancels the others.
func run(ctx Context, jobs []job) (map[string]int, error) {
	var (
		mu      sync.Mutex
		results = make(map[string]int)
	)

	g, ctx := errgroup.WithContext(ctx)

	for _, j := range jobs {
		g.Go(func() error {
			n, err := j.run(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", j.name, err)
			}

			lock.Guard(&mu, func() {
				results[j.name] = n
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
