// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package initcode embeds a program binary into C++ source as a byte array.
package initcode

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Suffix of the generated source filename.
const Suffix = ".cc"

const bytesPerLine = 20

// Write the initcode and initcode_size definitions.
func Write(w io.Writer, data []byte) error {
	b := bufio.NewWriter(w)

	b.WriteString("char initcode[] = {")
	for i, x := range data {
		if x == 0 {
			b.WriteByte('0')
		} else {
			fmt.Fprintf(b, "%#x", x)
		}
		if i != len(data)-1 {
			b.WriteByte(',')
		}
		if i != 0 && i%bytesPerLine == 0 {
			b.WriteString("\n    ")
		}
	}
	b.WriteString("};")
	fmt.Fprintf(b, "\nlong initcode_size = %d;\n", len(data))

	return b.Flush()
}

// Filename of the generated source.
func Filename(basename string) string {
	return basename + Suffix
}

// ReadFile reads the program binary.
func ReadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("initcode: %w", err)
	}
	return data, nil
}
