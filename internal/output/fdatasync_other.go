// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package output

import (
	"os"
)

func fdatasync(f *os.File) error {
	return f.Sync()
}
