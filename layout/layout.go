// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout finds the field list of a named structure in a declaration
// tree produced by a compiler front end.
package layout

import (
	"strings"
)

type Kind int

const (
	Other Kind = iota
	TranslationUnit
	Namespace
	Record
	FieldDecl
)

func (k Kind) String() string {
	switch k {
	case TranslationUnit:
		return "TranslationUnit"
	case Namespace:
		return "Namespace"
	case Record:
		return "Record"
	case FieldDecl:
		return "FieldDecl"
	default:
		return "Other"
	}
}

// Node of a declaration tree.  Offset is meaningful only if Measured is set.
type Node struct {
	Kind       Kind
	Name       string
	Type       string
	Implicit   bool
	Definition bool
	Offset     int64
	Measured   bool
	Children   []*Node
}

// Field of a structure.  Offset is meaningful only if Measured is set.
type Field struct {
	Name     string
	Type     string
	Offset   int64
	Measured bool
}

// Struct is the direct field list of a structure definition.
type Struct struct {
	Name     string
	QualName string
	Fields   []Field
}

// Found reports whether Walk matched a definition.
func (s Struct) Found() bool {
	return s.Name != ""
}

// Names of the fields in order.
func (s Struct) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Walk the tree depth-first and return the fields of the first record
// definition with the given name.  The result is empty if there is none.
func Walk(root *Node, name string) Struct {
	var s Struct
	walk(root, name, nil, &s)
	return s
}

func walk(n *Node, name string, scope []string, s *Struct) bool {
	if n == nil {
		return false
	}

	if n.Kind == Record && n.Name == name && n.Definition && !n.Implicit {
		s.Name = n.Name
		s.QualName = strings.Join(append(scope, n.Name), "::")
		for _, c := range n.Children {
			if c.Kind == FieldDecl {
				s.Fields = append(s.Fields, Field{
					Name:     c.Name,
					Type:     c.Type,
					Offset:   c.Offset,
					Measured: c.Measured,
				})
			}
		}
		return true
	}

	switch n.Kind {
	case Namespace, Record:
		if n.Name != "" {
			scope = append(scope[:len(scope):len(scope)], n.Name)
		}
	}

	for _, c := range n.Children {
		if walk(c, name, scope, s) {
			return true
		}
	}
	return false
}
