// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abigen

import (
	"io"
	"log/slog"

	"abigen.computer/initcode"
	"abigen.computer/internal/error/stage"
	"abigen.computer/internal/output"

	. "import.name/type/context"
)

// InitcodeConfig of the program embedding pipeline.
type InitcodeConfig struct {
	Input  string // Program binary.
	Output string // Source filename without suffix.
	Log    *slog.Logger
}

// GenerateInitcode writes the program as C++ source and returns its size.
func GenerateInitcode(ctx Context, c InitcodeConfig) (n int, err error) {
	err = z.Recover(func() {
		data, err := initcode.ReadFile(c.Input)
		check(stage.Embed, err)

		filename := initcode.Filename(c.Output)

		check(stage.Write, output.Write(filename, func(w io.Writer) error {
			return stage.Wrap(stage.Embed, initcode.Write(w, data))
		}))

		logger(c.Log).InfoContext(ctx, "initcode written", "output", filename, "size", len(data))
		n = len(data)
	})
	return
}
