// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package output commits generated files atomically.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const mode = 0o644

// Write calls generate with a temporary file in the target directory and
// renames it over filename if generate succeeds.  The previous file stays
// untouched on error.
func Write(filename string, generate func(io.Writer) error) (err error) {
	dir, base := filepath.Split(filename)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	defer func() {
		if f != nil {
			f.Close()
		}
		if err != nil {
			os.Remove(tmp)
		}
	}()

	b := bufio.NewWriter(f)

	if err = generate(b); err != nil {
		return
	}
	if err = b.Flush(); err != nil {
		return
	}
	if err = f.Chmod(mode); err != nil {
		return
	}
	if err = fdatasync(f); err != nil {
		return
	}

	err = f.Close()
	f = nil
	if err != nil {
		return
	}

	if err = os.Rename(tmp, filename); err != nil {
		err = fmt.Errorf("rename %q to %q: %w", tmp, filename, err)
		return
	}

	return
}

// WriteBytes commits data to filename.
func WriteBytes(filename string, data []byte) error {
	return Write(filename, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
