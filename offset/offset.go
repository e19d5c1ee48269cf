// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package offset measures structure field offsets and writes them as
// preprocessor definitions for hand-written assembly.
package offset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"abigen.computer/layout"
	"abigen.computer/oracle"
	"github.com/samber/lo"

	. "import.name/type/context"
)

const suffix = "_OFFSET"

// Record is a measured field offset.
type Record struct {
	Field  layout.Field
	Offset int64
}

// Macro name of the field offset definition.
func Macro(field string) string {
	return strings.ToUpper(field) + suffix
}

// Measurer computes the byte offset of each field, in field order.
type Measurer interface {
	Measure(ctx Context, s layout.Struct) ([]Record, error)
}

// Source of a program which prints the offset definitions of a structure's
// fields.  The type name defaults to the qualified name of the structure.
func Source(s layout.Struct, typeName, include string) []byte {
	if typeName == "" {
		typeName = s.QualName
	}

	var b bytes.Buffer

	b.WriteString("#include <cstdint>\n")
	b.WriteString("#include <iostream>\n")
	if include != "" {
		fmt.Fprintf(&b, "#include \"%s\"\n", include)
	}
	b.WriteString("\nint main() {\n")
	fmt.Fprintf(&b, "  %s frame;\n", typeName)
	for _, f := range s.Fields {
		fmt.Fprintf(&b, "  std::cout << \"#define %s \" << reinterpret_cast<uint8_t*>(&frame.%s) - reinterpret_cast<uint8_t*>(&frame) << std::endl;\n", Macro(f.Name), f.Name)
	}
	b.WriteString("  return 0;\n}\n")

	return b.Bytes()
}

// Parse probe output.  There must be exactly one definition per field, in
// field order, with a non-negative value.
func Parse(out []byte, s layout.Struct) ([]Record, error) {
	var lines []string

	scan := bufio.NewScanner(bytes.NewReader(out))
	for scan.Scan() {
		if line := strings.TrimSpace(scan.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}

	if len(lines) != len(s.Fields) {
		return nil, fmt.Errorf("probe printed %d definitions for %d fields", len(lines), len(s.Fields))
	}

	recs := make([]Record, len(lines))

	for i, line := range lines {
		f := s.Fields[i]

		tokens := strings.Fields(line)
		if len(tokens) != 3 || tokens[0] != "#define" || tokens[1] != Macro(f.Name) {
			return nil, fmt.Errorf("probe output line %d: %q", i+1, line)
		}

		n, err := strconv.ParseInt(tokens[2], 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("probe output line %d: bad offset %q", i+1, tokens[2])
		}

		recs[i] = Record{Field: f, Offset: n}
	}

	return recs, nil
}

// Guard macro name derived from an output filename.
func Guard(filename string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, filepath.Base(filename))

	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "_" + name
	}
	return name + "_"
}

// Header writes the include-guarded definitions.  The structure definition
// header is included after the definitions if it is specified.
func Header(w io.Writer, guard, include string, recs []Record) error {
	b := bufio.NewWriter(w)

	fmt.Fprintf(b, "#ifndef %s\n", guard)
	fmt.Fprintf(b, "#define %s\n\n", guard)
	for _, r := range recs {
		fmt.Fprintf(b, "#define %s %d\n", Macro(r.Field.Name), r.Offset)
	}
	if include != "" {
		fmt.Fprintf(b, "\n#include \"%s\"\n", include)
	}
	fmt.Fprintf(b, "\n#endif  // %s\n", guard)

	return b.Flush()
}

// Probe compiles and executes a program on the host.  Offsets are therefore
// those of the host ABI.
type Probe struct {
	Compiler *oracle.Compiler
	Type     string // Qualified name of the structure by default.
	Include  string // Structure definition header.
}

func (p *Probe) Measure(ctx Context, s layout.Struct) ([]Record, error) {
	if len(s.Fields) == 0 {
		return nil, nil
	}

	dir, err := os.MkdirTemp("", "abigen-probe-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	exe := filepath.Join(dir, "probe")

	if err := p.Compiler.Executable(ctx, Source(s, p.Type, p.Include), exe); err != nil {
		return nil, err
	}

	out, err := oracle.Run(ctx, exe)
	if err != nil {
		return nil, err
	}

	return Parse(out, s)
}

var ErrUnmeasured = errors.New("field offset was not measured")

// Static uses offsets computed by the AST backend.
type Static struct{}

func (Static) Measure(ctx Context, s layout.Struct) ([]Record, error) {
	for _, f := range s.Fields {
		if !f.Measured {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnmeasured, s.Name, f.Name)
		}
	}

	return lo.Map(s.Fields, func(f layout.Field, _ int) Record {
		return Record{Field: f, Offset: f.Offset}
	}), nil
}
