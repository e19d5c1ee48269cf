// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package offset_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"abigen.computer/layout"
	"abigen.computer/offset"
	"abigen.computer/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "import.name/testing/mustr"
)

var xy = layout.Struct{
	Name:     "RegFrame",
	QualName: "kernel::RegFrame",
	Fields: []layout.Field{
		{Name: "x", Type: "int32_t"},
		{Name: "y", Type: "int32_t"},
	},
}

func TestSource(t *testing.T) {
	src := string(offset.Source(xy, "", "kernel/regs_frame.hpp"))

	assert.Contains(t, src, "#include <iostream>\n")
	assert.Contains(t, src, "#include \"kernel/regs_frame.hpp\"\n")
	assert.Contains(t, src, "  kernel::RegFrame frame;\n")
	assert.Contains(t, src, `std::cout << "#define X_OFFSET " << reinterpret_cast<uint8_t*>(&frame.x) - reinterpret_cast<uint8_t*>(&frame) << std::endl;`)
	assert.Less(t, strings.Index(src, "X_OFFSET"), strings.Index(src, "Y_OFFSET"))

	src = string(offset.Source(xy, "Frame", ""))
	assert.Contains(t, src, "  Frame frame;\n")
	assert.NotContains(t, src, "#include \"")
}

func TestParse(t *testing.T) {
	recs := Must(t, R(offset.Parse([]byte("#define X_OFFSET 0\n#define Y_OFFSET 4\n"), xy)))
	assert.Equal(t, []offset.Record{
		{Field: xy.Fields[0], Offset: 0},
		{Field: xy.Fields[1], Offset: 4},
	}, recs)

	for _, out := range []string{
		"#define X_OFFSET 0\n",
		"#define X_OFFSET 0\n#define Y_OFFSET 4\n#define Z_OFFSET 8\n",
		"#define Y_OFFSET 0\n#define X_OFFSET 4\n",
		"#define X_OFFSET -1\n#define Y_OFFSET 4\n",
		"#define X_OFFSET zero\n#define Y_OFFSET 4\n",
		"X_OFFSET 0\n#define Y_OFFSET 4\n",
	} {
		_, err := offset.Parse([]byte(out), xy)
		assert.Error(t, err, out)
	}

	recs = Must(t, R(offset.Parse(nil, layout.Struct{})))
	assert.Empty(t, recs)
}

func TestGuard(t *testing.T) {
	assert.Equal(t, "REGS_FRAME_OFFSET_H_", offset.Guard("build/kernel/regs_frame_offset.h"))
	assert.Equal(t, "FRAME_OFFSETS_HPP_", offset.Guard("frame-offsets.hpp"))
	assert.Equal(t, "_1FRAME_H_", offset.Guard("out/1frame.h"))
	assert.Equal(t, "_9_", offset.Guard("9"))
}

func TestHeader(t *testing.T) {
	recs := []offset.Record{
		{Field: xy.Fields[0], Offset: 0},
		{Field: xy.Fields[1], Offset: 4},
	}

	var b bytes.Buffer
	require.NoError(t, offset.Header(&b, "FRAME_H_", "kernel/regs_frame.hpp", recs))
	assert.Equal(t, `#ifndef FRAME_H_
#define FRAME_H_

#define X_OFFSET 0
#define Y_OFFSET 4

#include "kernel/regs_frame.hpp"

#endif  // FRAME_H_
`, b.String())
}

func TestHeaderEmpty(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, offset.Header(&b, "FRAME_H_", "", nil))
	assert.Equal(t, "#ifndef FRAME_H_\n#define FRAME_H_\n\n\n#endif  // FRAME_H_\n", b.String())
}

func TestStatic(t *testing.T) {
	s := layout.Struct{
		Name: "S",
		Fields: []layout.Field{
			{Name: "a", Offset: 0, Measured: true},
			{Name: "b", Offset: 8, Measured: true},
		},
	}

	recs := Must(t, R(offset.Static{}.Measure(context.Background(), s)))
	assert.Equal(t, int64(8), recs[1].Offset)

	s.Fields[1].Measured = false
	_, err := offset.Static{}.Measure(context.Background(), s)
	assert.True(t, errors.Is(err, offset.ErrUnmeasured))
}

func TestProbeEmpty(t *testing.T) {
	p := &offset.Probe{Compiler: &oracle.Compiler{}}
	recs, err := p.Measure(context.Background(), layout.Struct{})
	assert.NoError(t, err)
	assert.Empty(t, recs)
}

func TestProbeCompileFailure(t *testing.T) {
	cc := filepath.Join(t.TempDir(), "cc")
	require.NoError(t, os.WriteFile(cc, []byte("#!/bin/sh\necho broken >&2\nexit 1\n"), 0o755))

	p := &offset.Probe{Compiler: &oracle.Compiler{Path: cc}}
	_, err := p.Measure(context.Background(), xy)
	var e *oracle.Error
	assert.True(t, errors.As(err, &e))
}

func hostProbe(t *testing.T, def string, s layout.Struct) []offset.Record {
	t.Helper()

	cxx, err := exec.LookPath("c++")
	if err != nil {
		t.Skip(err)
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "def.hpp"), []byte(def), 0o666))

	p := &offset.Probe{
		Compiler: &oracle.Compiler{Path: cxx, Args: []string{"-I" + dir}},
		Include:  "def.hpp",
	}
	return Must(t, R(p.Measure(context.Background(), s)))
}

func TestProbeHost(t *testing.T) {
	recs := hostProbe(t, "#include <cstdint>\nnamespace kernel { struct RegFrame { int32_t x; int32_t y; }; }\n", xy)

	var b bytes.Buffer
	require.NoError(t, offset.Header(&b, "G_", "", recs))
	assert.Contains(t, b.String(), "#define X_OFFSET 0\n")
	assert.Contains(t, b.String(), "#define Y_OFFSET 4\n")
}

func TestProbeHostAlignment(t *testing.T) {
	s := layout.Struct{
		Name:     "Mixed",
		QualName: "Mixed",
		Fields:   []layout.Field{{Name: "a"}, {Name: "b"}, {Name: "c"}},
	}
	recs := hostProbe(t, "#include <cstdint>\nstruct Mixed { int32_t a; alignas(8) int64_t b; int8_t c; };\n", s)

	assert.Equal(t, int64(0), recs[0].Offset)
	assert.Equal(t, int64(8), recs[1].Offset)
	assert.Equal(t, int64(16), recs[2].Offset)
}
