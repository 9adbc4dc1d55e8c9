// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package rust reports the type declarations of Rust source files as
// structural facts, using tree-sitter to parse them.
package rust

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/petar-djukic/go-signaturize/internal/ast"
	"github.com/petar-djukic/go-signaturize/pkg/types"
)

// Lang is the language tag reported on Rust declarations.
const Lang = "rust"

// Ext is the file extension of Rust sources.
const Ext = ".rs"

// ErrSyntax is returned when tree-sitter reports syntax errors in a file.
var ErrSyntax = errors.New("syntax error")

// deriveAttr matches a derive attribute, which may span several lines, and
// captures its argument list.
var deriveAttr = regexp.MustCompile(`(?s)^#\[\s*derive\s*\((.*)\)\s*\]$`)

// DeriveName is the derive macro that marks a declaration.
const DeriveName = "Signature"

// Extract parses one Rust file and reports its struct, enum, union and type
// alias declarations, descending into inline modules.
func Extract(ctx context.Context, filePath string, src []byte) ([]types.TypeDecl, error) {
	root, err := sitter.ParseCtx(ctx, src, rust.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: %s: empty parse tree", ErrSyntax, filePath)
	}
	if root.HasError() {
		return nil, fmt.Errorf("%w: %s", ErrSyntax, filePath)
	}

	x := &extractor{src: src, filePath: filePath}
	x.items(root, "")
	return x.decls, nil
}

// ExtractAll extracts declarations from every file, in path order. Files
// that fail to parse are reported as ScanErrors and skipped.
func ExtractAll(ctx context.Context, srcs map[string][]byte) ([]types.TypeDecl, []ast.ScanError, error) {
	paths := make([]string, 0, len(srcs))
	for p := range srcs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var decls []types.TypeDecl
	var errs []ast.ScanError
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		d, err := Extract(ctx, p, srcs[p])
		if err != nil {
			errs = append(errs, ast.ScanError{FilePath: p, Err: err})
			continue
		}
		decls = append(decls, d...)
	}
	return decls, errs, nil
}

type extractor struct {
	src      []byte
	filePath string
	decls    []types.TypeDecl
}

// items walks the direct children of a source file or module body. Outer
// attributes are collected until the item they annotate.
func (x *extractor) items(parent *sitter.Node, module string) {
	var attrs []string
	count := int(parent.NamedChildCount())
	for i := 0; i < count; i++ {
		n := parent.NamedChild(i)
		switch n.Type() {
		case "attribute_item":
			attrs = append(attrs, n.Content(x.src))
			continue
		case "line_comment", "block_comment":
			continue
		case "struct_item":
			x.decls = append(x.decls, x.structItem(n, module, attrs))
		case "enum_item":
			x.decls = append(x.decls, x.simpleItem(n, module, attrs, types.Enum))
		case "union_item":
			x.decls = append(x.decls, x.simpleItem(n, module, attrs, types.Union))
		case "type_item":
			x.decls = append(x.decls, x.simpleItem(n, module, attrs, types.Alias))
		case "mod_item":
			if body := n.ChildByFieldName("body"); body != nil {
				x.items(body, joinPath(module, x.text(n.ChildByFieldName("name"))))
			}
		}
		attrs = nil
	}
}

func (x *extractor) simpleItem(n *sitter.Node, module string, attrs []string, kind types.Kind) types.TypeDecl {
	return types.TypeDecl{
		Name:       x.text(n.ChildByFieldName("name")),
		Package:    module,
		Kind:       kind,
		TypeParams: x.typeParams(n.ChildByFieldName("type_parameters")),
		FilePath:   x.filePath,
		Line:       line(n),
		Marked:     derives(attrs),
		Lang:       Lang,
	}
}

func (x *extractor) structItem(n *sitter.Node, module string, attrs []string) types.TypeDecl {
	d := x.simpleItem(n, module, attrs, types.Struct)

	body := n.ChildByFieldName("body")
	if body == nil {
		// Unit struct.
		return d
	}
	if body.Type() == "ordered_field_declaration_list" {
		d.Kind = types.Tuple
		return d
	}

	count := int(body.NamedChildCount())
	for i := 0; i < count; i++ {
		f := body.NamedChild(i)
		if f.Type() != "field_declaration" {
			continue
		}
		d.Fields = append(d.Fields, types.FieldDecl{
			Name: x.text(f.ChildByFieldName("name")),
			Type: x.typeRef(f.ChildByFieldName("type")),
			Line: line(f),
		})
	}
	return d
}

// typeParams lists type parameter names, skipping lifetimes.
func (x *extractor) typeParams(n *sitter.Node) []string {
	if n == nil {
		return nil
	}
	var names []string
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		p := n.NamedChild(i)
		switch p.Type() {
		case "lifetime", "lifetime_parameter", "line_comment", "block_comment":
			continue
		case "type_identifier":
			names = append(names, x.text(p))
		default:
			name := p.ChildByFieldName("name")
			if name == nil {
				name = p.ChildByFieldName("left")
			}
			if name == nil || name.Type() == "lifetime" {
				continue
			}
			names = append(names, x.text(name))
		}
	}
	return names
}

// typeRef classifies a field's type node.
func (x *extractor) typeRef(n *sitter.Node) types.TypeRef {
	if n == nil {
		return types.TypeRef{Kind: types.Other}
	}
	ref := types.TypeRef{Text: x.text(n)}

	switch n.Type() {
	case "primitive_type", "type_identifier":
		ref.Kind = types.Named
		ref.Name = ref.Text
	case "scoped_type_identifier":
		// The path is kept so that a::Point and b::Point stay distinct.
		ref.Kind = types.Named
		ref.Name = strings.Join(strings.Fields(ref.Text), "")
	case "generic_type":
		x.genericRef(n, &ref)
	case "reference_type", "pointer_type":
		ref.Kind = types.Pointer
	case "tuple_type", "unit_type":
		ref.Kind = types.Tuple
	case "array_type":
		ref.Kind = types.Array
	case "function_type":
		ref.Kind = types.Func
	case "dynamic_type", "abstract_type":
		ref.Kind = types.Interface
	default:
		ref.Kind = types.Other
	}
	return ref
}

// genericRef classifies generic_type nodes. Vec<T> is the only generic that
// maps to a sequence.
func (x *extractor) genericRef(n *sitter.Node, ref *types.TypeRef) {
	base := n.ChildByFieldName("type")
	name := x.text(base)
	if base != nil && base.Type() == "scoped_type_identifier" {
		name = x.text(base.ChildByFieldName("name"))
	}

	var args []*sitter.Node
	if targs := n.ChildByFieldName("type_arguments"); targs != nil {
		count := int(targs.NamedChildCount())
		for i := 0; i < count; i++ {
			a := targs.NamedChild(i)
			if a.Type() == "lifetime" {
				continue
			}
			args = append(args, a)
		}
	}

	switch {
	case name == "Vec" && len(args) == 1:
		elem := x.typeRef(args[0])
		ref.Kind = types.Sequence
		ref.Elem = &elem
	case name == "HashMap" || name == "BTreeMap":
		ref.Kind = types.Map
	case name == "Box" || name == "Rc" || name == "Arc":
		ref.Kind = types.Pointer
	default:
		ref.Kind = types.Generic
	}
}

func (x *extractor) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(x.src)
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func joinPath(module, name string) string {
	if module == "" {
		return name
	}
	return module + "::" + name
}

// derives reports whether any attribute derives DeriveName, either bare or
// through a path such as signaturize::Signature.
func derives(attrs []string) bool {
	for _, a := range attrs {
		m := deriveAttr.FindStringSubmatch(strings.TrimSpace(a))
		if m == nil {
			continue
		}
		for _, arg := range strings.Split(m[1], ",") {
			arg = strings.TrimSpace(arg)
			if i := strings.LastIndex(arg, "::"); i >= 0 {
				arg = arg[i+2:]
			}
			if arg == DeriveName {
				return true
			}
		}
	}
	return false
}
