// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stage tags errors with the generation step that failed.
package stage

import (
	"errors"
)

type Stage string

const (
	Scan    Stage = "scan"
	Resolve Stage = "resolve"
	Emit    Stage = "emit"
	Walk    Stage = "walk"
	Probe   Stage = "probe"
	Embed   Stage = "embed"
	Write   Stage = "write"
)

type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string     { return string(e.Stage) + ": " + e.Err.Error() }
func (e *Error) Unwrap() error     { return e.Err }
func (e *Error) Subsystem() string { return string(e.Stage) }

// Wrap err unless it is nil or already tagged.
func Wrap(s Stage, err error) error {
	if err == nil || Get(err) != "" {
		return err
	}
	return &Error{s, err}
}

type stageError interface {
	error
	Subsystem() string
}

// Get the name of the failed stage, or empty string.
func Get(err error) string {
	var e stageError
	if errors.As(err, &e) {
		return e.Subsystem()
	}
	return ""
}
