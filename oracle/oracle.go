// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package oracle runs a host compiler and the programs it builds.  The
// compiler is the source of truth for symbol names and structure layout; its
// output is scraped by the callers.
package oracle

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	. "import.name/type/context"
)

// Compiler invocation settings.  Args are inserted before the input file
// where the caller allows extra arguments.
type Compiler struct {
	Path string
	Args []string
	Log  *slog.Logger
}

// Error describes a failed subprocess.
type Error struct {
	Command []string
	Stderr  []byte
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command[0], e.Err)
	if s := strings.TrimSpace(string(e.Stderr)); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Assembly compiles C++ source read from stdin into assembly text without
// linking.  Warnings are suppressed.
func (c *Compiler) Assembly(ctx Context, src []byte, includePath string) ([]byte, error) {
	args := []string{"-x", "c++", "-", "-o", "-"}
	if includePath != "" {
		args = append(args, "-I"+includePath)
	}
	args = append(args, "-S", "-w")

	out, err := c.run(ctx, args, src)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, &Error{Command: c.command(args), Err: errors.New("no assembly output")}
	}
	return out, nil
}

// Executable compiles and links C++ source read from stdin into a program.
func (c *Compiler) Executable(ctx Context, src []byte, output string) error {
	args := []string{"-x", "c++"}
	args = append(args, c.Args...)
	args = append(args, "-", "-o", output)

	_, err := c.run(ctx, args, src)
	return err
}

// Output runs the compiler with arbitrary arguments and returns its stdout.
func (c *Compiler) Output(ctx Context, args ...string) ([]byte, error) {
	return c.run(ctx, args, nil)
}

func (c *Compiler) run(ctx Context, args []string, stdin []byte) ([]byte, error) {
	if c.Path == "" {
		return nil, errors.New("compiler path not configured")
	}

	c.log().DebugContext(ctx, "oracle", "command", c.Path, "args", args)
	return run(ctx, c.command(args), stdin)
}

func (c *Compiler) command(args []string) []string {
	return append([]string{c.Path}, args...)
}

func (c *Compiler) log() *slog.Logger {
	if c.Log != nil {
		return c.Log
	}
	return slog.Default()
}

// Run a program and return its stdout.
func Run(ctx Context, name string, args ...string) ([]byte, error) {
	return run(ctx, append([]string{name}, args...), nil)
}

func run(ctx Context, command []string, stdin []byte) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &Error{Command: command, Stderr: stderr.Bytes(), Err: err}
	}

	return stdout.Bytes(), nil
}

// SplitArgs splits a single command-line argument holding several compiler
// options, honoring shell quoting.
func SplitArgs(s string) ([]string, error) {
	args, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("compiler arguments %q: %w", s, err)
	}
	return args, nil
}
