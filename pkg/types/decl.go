// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// TypeRef is a type as written at a field declaration site.
type TypeRef struct {
	Kind Kind     // Structural category of the reference
	Name string   // Type name for Named references; empty otherwise
	Text string   // Source rendering, used in error messages
	Elem *TypeRef // Element type for Sequence references
}

// FieldDecl is one member of a struct declaration.
type FieldDecl struct {
	Name     string  // Field name, verbatim from source
	Type     TypeRef // Declared type
	Line     int     // Line number (1-based)
	Embedded bool    // True for embedded members that carry no name of their own
}

// TypeDecl is a type declaration reported by a source provider. Fields is
// only populated for Struct declarations and keeps declaration order.
type TypeDecl struct {
	Name       string      // Type name, verbatim from source
	Package    string      // Package or module path the declaration lives in
	Kind       Kind        // Structural category
	Fields     []FieldDecl // Ordered fields (Struct only)
	TypeParams []string    // Type parameter names; non-empty means generic
	FilePath   string      // Source file path relative to the scan root
	Line       int         // Line number (1-based)
	Marked     bool        // Explicitly opted in for signature generation
	Lang       string      // Source language ("go" or "rust")
}

// IsGeneric reports whether the declaration has type parameters.
func (d TypeDecl) IsGeneric() bool {
	return len(d.TypeParams) > 0
}
