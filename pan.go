// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abigen

import (
	"log/slog"

	"abigen.computer/internal/error/stage"
	"import.name/pan"
)

var z = new(pan.Zone)

func check(s stage.Stage, err error) {
	z.Check(stage.Wrap(s, err))
}

func logger(log *slog.Logger) *slog.Logger {
	if log != nil {
		return log
	}
	return slog.Default()
}
