// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signature defines the Signature tree, a structural description of
// a type's shape, together with its canonical text rendering, structural
// equality, content hashing and serialization.
//
// A Signature is one of three variants:
//
//	Type   a leaf type name ("i32", "Vec<i32>")
//	Field  a named struct member: a Type label paired with any Signature
//	Struct a named aggregate: a Type label paired with ordered Fields
//
// Values are immutable once built and hold no back-references, so they can
// be shared read-only between goroutines.
package signature

import "fmt"

// Kind identifies a Signature variant.
type Kind int

const (
	KindType Kind = iota
	KindField
	KindStruct
)

// String returns the variant name as used in the wire format.
func (k Kind) String() string {
	switch k {
	case KindType:
		return "Type"
	case KindField:
		return "Field"
	case KindStruct:
		return "Struct"
	default:
		return "Unknown"
	}
}

// Signature is the closed union of Type, Field and Struct.
type Signature interface {
	Kind() Kind
	fmt.Stringer
	sealed()
}

// Type is a leaf type name.
type Type struct {
	value string
}

// NewType returns a leaf signature holding value verbatim.
func NewType(value string) Type {
	return Type{value: value}
}

// Value returns the leaf type name.
func (t Type) Value() string { return t.value }

func (Type) Kind() Kind { return KindType }
func (Type) sealed()    {}

func (t Type) String() string { return t.value }

// Field pairs a member label with the signature of the member's type.
// The name slot must hold a Type.
type Field struct {
	name  Signature
	value Signature
}

// NewField returns a field signature. It does not validate its arguments;
// a malformed field is reported when it is rendered or validated.
func NewField(name, value Signature) Field {
	return Field{name: name, value: value}
}

// Name returns the field's label.
func (f Field) Name() Signature { return f.name }

// Value returns the signature of the field's type.
func (f Field) Value() Signature { return f.value }

func (Field) Kind() Kind { return KindField }
func (Field) sealed()    {}

func (f Field) String() string { return stringOf(f) }

// Struct pairs an aggregate's label with its ordered members. The name slot
// must hold a Type and every member must be a Field.
type Struct struct {
	name   Signature
	fields []Signature
}

// NewStruct returns a struct signature. The fields slice is copied, so later
// changes by the caller do not affect the returned value. Like NewField it
// does not validate.
func NewStruct(name Signature, fields ...Signature) Struct {
	owned := make([]Signature, len(fields))
	copy(owned, fields)
	return Struct{name: name, fields: owned}
}

// Name returns the struct's label.
func (s Struct) Name() Signature { return s.name }

// Fields returns a copy of the ordered member list.
func (s Struct) Fields() []Signature {
	out := make([]Signature, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of members.
func (s Struct) Len() int { return len(s.fields) }

// Field returns the i-th member.
func (s Struct) Field(i int) Signature { return s.fields[i] }

func (Struct) Kind() Kind { return KindStruct }
func (Struct) sealed()    {}

func (s Struct) String() string { return stringOf(s) }

// stringOf renders s for fmt, reporting malformed trees inline rather than
// failing.
func stringOf(s Signature) string {
	out, err := Render(s)
	if err != nil {
		return fmt.Sprintf("%%!v(MALFORMED %v)", err)
	}
	return out
}

// kindName describes a possibly nil slot for error messages.
func kindName(s Signature) string {
	if s == nil {
		return "nil"
	}
	return s.Kind().String()
}
