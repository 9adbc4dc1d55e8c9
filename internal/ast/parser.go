// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/petar-djukic/go-signaturize/pkg/types"
)

// Directive marks a type declaration for signature generation when it
// appears on its own line in the declaration's doc comment.
const Directive = "//signaturize:generate"

// Lang is the language tag reported on Go declarations.
const Lang = "go"

// ExtractDecls reports every type declared at package level in file.
// Struct declarations carry their fields in declaration order; a field
// line declaring several names yields one FieldDecl per name.
func ExtractDecls(fset *token.FileSet, filePath string, file *ast.File) []types.TypeDecl {
	var decls []types.TypeDecl

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			decls = append(decls, extractTypeDecl(fset, filePath, file.Name.Name, gd, ts))
		}
	}

	return decls
}

// ExtractAll runs ExtractDecls over every file of a scan, in path order.
func ExtractAll(result *ScanResult) []types.TypeDecl {
	var decls []types.TypeDecl
	for _, path := range result.Paths() {
		decls = append(decls, ExtractDecls(result.FileSet, path, result.Files[path])...)
	}
	return decls
}

// extractTypeDecl converts one type spec.
func extractTypeDecl(fset *token.FileSet, filePath, pkg string, gd *ast.GenDecl, ts *ast.TypeSpec) types.TypeDecl {
	d := types.TypeDecl{
		Name:     ts.Name.Name,
		Package:  pkg,
		FilePath: filePath,
		Line:     fset.Position(ts.Pos()).Line,
		Marked:   hasDirective(ts.Doc) || hasDirective(gd.Doc),
		Lang:     Lang,
	}

	if ts.TypeParams != nil {
		for _, tp := range ts.TypeParams.List {
			for _, name := range tp.Names {
				d.TypeParams = append(d.TypeParams, name.Name)
			}
		}
	}

	switch t := ts.Type.(type) {
	case *ast.StructType:
		d.Kind = types.Struct
		d.Fields = extractFields(fset, t)
	case *ast.InterfaceType:
		d.Kind = types.Interface
	default:
		// Alias or defined type over a non-struct type.
		d.Kind = types.Alias
	}

	return d
}

// extractFields lists struct members in declaration order.
func extractFields(fset *token.FileSet, st *ast.StructType) []types.FieldDecl {
	if st.Fields == nil {
		return nil
	}

	var fields []types.FieldDecl
	for _, field := range st.Fields.List {
		ref := typeRef(field.Type)
		line := fset.Position(field.Pos()).Line
		if len(field.Names) == 0 {
			fields = append(fields, types.FieldDecl{
				Name:     ref.Text,
				Type:     ref,
				Line:     line,
				Embedded: true,
			})
			continue
		}
		for _, name := range field.Names {
			fields = append(fields, types.FieldDecl{
				Name: name.Name,
				Type: ref,
				Line: fset.Position(name.Pos()).Line,
			})
		}
	}
	return fields
}

// typeRef classifies a field's type expression.
func typeRef(expr ast.Expr) types.TypeRef {
	expr = astutil.Unparen(expr)
	ref := types.TypeRef{Text: exprString(expr)}

	switch e := expr.(type) {
	case *ast.Ident:
		ref.Kind = types.Named
		ref.Name = e.Name
	case *ast.SelectorExpr:
		ref.Kind = types.Named
		ref.Name = ref.Text
	case *ast.ArrayType:
		if e.Len != nil {
			ref.Kind = types.Array
			break
		}
		elem := typeRef(e.Elt)
		ref.Kind = types.Sequence
		ref.Elem = &elem
	case *ast.MapType:
		ref.Kind = types.Map
	case *ast.StarExpr:
		ref.Kind = types.Pointer
	case *ast.ChanType:
		ref.Kind = types.Chan
	case *ast.FuncType:
		ref.Kind = types.Func
	case *ast.InterfaceType:
		ref.Kind = types.Interface
	case *ast.IndexExpr, *ast.IndexListExpr:
		ref.Kind = types.Generic
	default:
		ref.Kind = types.Other
	}

	return ref
}

// hasDirective reports whether a comment group carries Directive.
func hasDirective(cg *ast.CommentGroup) bool {
	if cg == nil {
		return false
	}
	for _, c := range cg.List {
		if strings.TrimSpace(c.Text) == Directive {
			return true
		}
	}
	return false
}

// fieldListString renders a field list as a comma-separated string.
func fieldListString(fl *ast.FieldList) string {
	if fl == nil || len(fl.List) == 0 {
		return ""
	}

	var parts []string
	for _, field := range fl.List {
		typeStr := exprString(field.Type)
		if len(field.Names) == 0 {
			parts = append(parts, typeStr)
		} else {
			for _, name := range field.Names {
				parts = append(parts, name.Name+" "+typeStr)
			}
		}
	}
	return strings.Join(parts, ", ")
}

// exprString renders an AST expression as a string.
func exprString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return exprString(e.X) + "." + e.Sel.Name
	case *ast.StarExpr:
		return "*" + exprString(e.X)
	case *ast.ArrayType:
		if e.Len == nil {
			return "[]" + exprString(e.Elt)
		}
		return "[" + exprString(e.Len) + "]" + exprString(e.Elt)
	case *ast.MapType:
		return "map[" + exprString(e.Key) + "]" + exprString(e.Value)
	case *ast.InterfaceType:
		if e.Methods == nil || len(e.Methods.List) == 0 {
			return "interface{}"
		}
		return "interface{...}"
	case *ast.StructType:
		if e.Fields == nil || len(e.Fields.List) == 0 {
			return "struct{}"
		}
		return "struct{...}"
	case *ast.FuncType:
		sig := "func(" + fieldListString(e.Params) + ")"
		if e.Results != nil && len(e.Results.List) > 0 {
			sig += " (" + fieldListString(e.Results) + ")"
		}
		return sig
	case *ast.Ellipsis:
		return "..." + exprString(e.Elt)
	case *ast.ChanType:
		switch e.Dir {
		case ast.SEND:
			return "chan<- " + exprString(e.Value)
		case ast.RECV:
			return "<-chan " + exprString(e.Value)
		default:
			return "chan " + exprString(e.Value)
		}
	case *ast.BasicLit:
		return e.Value
	case *ast.ParenExpr:
		return "(" + exprString(e.X) + ")"
	case *ast.IndexExpr:
		return exprString(e.X) + "[" + exprString(e.Index) + "]"
	case *ast.IndexListExpr:
		args := make([]string, len(e.Indices))
		for i, idx := range e.Indices {
			args[i] = exprString(idx)
		}
		return exprString(e.X) + "[" + strings.Join(args, ", ") + "]"
	default:
		return fmt.Sprintf("%T", expr)
	}
}
