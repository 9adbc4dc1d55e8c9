// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the structural facts that source providers hand to
// the signature mapper.
package types

// Kind identifies the structural category of a declared type or of a type
// reference at a field site.
type Kind int

const (
	Primitive Kind = iota // Registered leaf name (bool, i32, String, ...)
	Sequence              // Homogeneous single-parameter sequence ([]T, Vec<T>)
	Named                 // Reference to a type by name, resolved later
	Struct                // Product type with ordered named fields
	Enum                  // Sum type
	Union                 // Untagged union
	Tuple                 // Positional product (tuple, tuple struct)
	Array                 // Fixed-length array
	Map                   // Key/value mapping
	Pointer               // Pointer or reference
	Interface             // Interface or trait object
	Func                  // Function type
	Chan                  // Channel type
	Generic               // Generic type other than a sequence
	Alias                 // Alias or defined non-struct type
	Embedded              // Embedded (anonymous) struct member
	Other                 // Anything the provider could not classify
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Sequence:
		return "sequence"
	case Named:
		return "named"
	case Struct:
		return "struct"
	case Enum:
		return "enum"
	case Union:
		return "union"
	case Tuple:
		return "tuple"
	case Array:
		return "array"
	case Map:
		return "map"
	case Pointer:
		return "pointer"
	case Interface:
		return "interface"
	case Func:
		return "func"
	case Chan:
		return "chan"
	case Generic:
		return "generic"
	case Alias:
		return "alias"
	case Embedded:
		return "embedded"
	default:
		return "other"
	}
}
