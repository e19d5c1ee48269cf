// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ccast builds a layout tree from a C header without invoking a
// compiler front end.  Field offsets are computed by the target ABI model, so
// the resulting fields are measured.
package ccast

import (
	"fmt"
	"runtime"

	"abigen.computer/layout"
	"modernc.org/cc/v4"
)

// Config selects the target.  Empty GOOS and GOARCH default to the host.
type Config struct {
	GOOS    string
	GOARCH  string
	Include []string
}

// Load translates a C source file.  Only file-scope structure definitions are
// represented; C has no namespaces.
func Load(filename string, c Config) (*layout.Node, error) {
	goos := c.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	goarch := c.GOARCH
	if goarch == "" {
		goarch = runtime.GOARCH
	}

	cfg, err := cc.NewConfig(goos, goarch)
	if err != nil {
		return nil, fmt.Errorf("cc config: %w", err)
	}
	cfg.IncludePaths = append(append([]string{""}, c.Include...), cfg.IncludePaths...)
	cfg.SysIncludePaths = append(append([]string(nil), c.Include...), cfg.SysIncludePaths...)

	ast, err := cc.Translate(cfg, []cc.Source{
		{Name: "<predefined>", Value: cfg.Predefined},
		{Name: "<builtin>", Value: cc.Builtin},
		{Name: filename, FS: cfg.FS},
	})
	if err != nil {
		return nil, err
	}

	return Convert(ast), nil
}

// Convert the file-scope structure declarations of a translated unit.
func Convert(ast *cc.AST) *layout.Node {
	root := &layout.Node{Kind: layout.TranslationUnit}

	for l := ast.TranslationUnit; l != nil; l = l.TranslationUnit {
		ed := l.ExternalDeclaration
		if ed.Case != cc.ExternalDeclarationDecl || ed.Declaration.Case != cc.DeclarationDecl {
			continue
		}
		d := ed.Declaration

		t, ok := d.DeclarationSpecifiers.Type().(*cc.StructType)
		if !ok {
			continue
		}

		tag := t.Tag()
		name := tag.SrcStr()
		if name == "" {
			name = typedefName(d)
		}
		if name == "" {
			continue
		}

		root.Children = append(root.Children, record(name, t))
	}

	return root
}

func typedefName(d *cc.Declaration) string {
	for l := d.InitDeclaratorList; l != nil; l = l.InitDeclaratorList {
		if x := l.InitDeclarator.Declarator; x.IsTypename() {
			return x.Name()
		}
	}
	return ""
}

func record(name string, t *cc.StructType) *layout.Node {
	n := &layout.Node{
		Kind:       layout.Record,
		Name:       name,
		Definition: !t.IsIncomplete(),
	}

	if n.Definition {
		for i := 0; i < t.NumFields(); i++ {
			f := t.FieldByIndex(i)
			if f.Name() == "" {
				continue // Anonymous padding bitfield.
			}

			n.Children = append(n.Children, &layout.Node{
				Kind:     layout.FieldDecl,
				Name:     f.Name(),
				Type:     fmt.Sprint(f.Type()),
				Offset:   f.Offset(),
				Measured: !f.IsBitfield(),
			})
		}
	}

	return n
}
