// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package output

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func fdatasync(f *os.File) (err error) {
	err = unix.Fdatasync(int(f.Fd()))
	if err != nil {
		err = fmt.Errorf("fdatasync: %w", err)
		return
	}

	return
}
