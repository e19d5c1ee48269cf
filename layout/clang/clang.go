// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clang converts clang's JSON AST dump into a layout tree.
package clang

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"abigen.computer/layout"
	"abigen.computer/oracle"

	. "import.name/type/context"
)

type node struct {
	Kind               string `json:"kind"`
	Name               string `json:"name"`
	IsImplicit         bool   `json:"isImplicit"`
	CompleteDefinition bool   `json:"completeDefinition"`
	Type               struct {
		QualType string `json:"qualType"`
	} `json:"type"`
	Inner []*node `json:"inner"`
}

var kinds = map[string]layout.Kind{
	"TranslationUnitDecl": layout.TranslationUnit,
	"NamespaceDecl":       layout.Namespace,
	"CXXRecordDecl":       layout.Record,
	"RecordDecl":          layout.Record,
	"FieldDecl":           layout.FieldDecl,
}

// Parse one or more concatenated JSON values.  A single translation unit is
// returned as is; several values are gathered
// under a synthetic translation unit.
func Parse(r io.Reader) (*layout.Node, error) {
	var roots []*layout.Node

	d := json.NewDecoder(r)
	for {
		n := new(node)
		if err := d.Decode(n); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("clang AST: %w", err)
		}
		roots = append(roots, convert(n))
	}

	switch {
	case len(roots) == 0:
		return nil, errors.New("clang AST: empty dump")

	case len(roots) == 1 && roots[0].Kind == layout.TranslationUnit:
		return roots[0], nil

	default:
		return &layout.Node{Kind: layout.TranslationUnit, Children: roots}, nil
	}
}

func convert(n *node) *layout.Node {
	x := &layout.Node{
		Kind:       kinds[n.Kind],
		Name:       n.Name,
		Type:       n.Type.QualType,
		Implicit:   n.IsImplicit,
		Definition: n.CompleteDefinition,
	}

	if len(n.Inner) > 0 {
		x.Children = make([]*layout.Node, 0, len(n.Inner))
		for _, c := range n.Inner {
			if c != nil {
				x.Children = append(x.Children, convert(c))
			}
		}
	}

	return x
}

// Dump parses a source file with clang and returns its declaration tree.  The
// compiler's extra arguments are passed before the filename.
func Dump(ctx Context, c *oracle.Compiler, filename string) (*layout.Node, error) {
	args := []string{"-Xclang", "-ast-dump=json", "-fsyntax-only"}
	args = append(args, c.Args...)
	args = append(args, filename)

	out, err := c.Output(ctx, args...)
	if err != nil {
		return nil, err
	}

	return Parse(bytes.NewReader(out))
}
