// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package mapper turns structural facts about a type into a Signature.
//
// The mapper covers three structural kinds: registered primitive leaves,
// homogeneous sequences and named structs with ordered fields. Any other kind
// is rejected when mapping, never approximated.
package mapper

import (
	"errors"
	"fmt"

	"github.com/petar-djukic/go-signaturize/pkg/signature"
	"github.com/petar-djukic/go-signaturize/pkg/types"
)

var (
	// ErrUnsupportedKind is returned for structural kinds the mapper does
	// not handle (enums, maps, tuples, multi-parameter generics, ...).
	ErrUnsupportedKind = errors.New("unsupported structural kind")

	// ErrUnknownPrimitive is returned for primitive names missing from the
	// registry.
	ErrUnknownPrimitive = errors.New("unknown primitive")
)

// FieldFact is one struct member with its already-mapped type signature.
type FieldFact struct {
	Name string
	Type signature.Signature
}

// Fact describes one type to map. Which members are read depends on Kind:
// Primitive reads Name, Sequence reads Elem, Struct reads Name and Fields.
type Fact struct {
	Kind   types.Kind
	Name   string
	Elem   signature.Signature
	Fields []FieldFact
}

// Leaf returns the leaf signature for a type name.
func Leaf(name string) signature.Type {
	return signature.NewType(name)
}

// Sequence returns the leaf signature "Vec<elem>" for a homogeneous
// sequence. A Type element contributes its text; a Struct element
// contributes its name only, so sequences of structs are not expanded.
func Sequence(elem signature.Signature) (signature.Type, error) {
	name, err := elementName(elem)
	if err != nil {
		return signature.Type{}, err
	}
	return signature.NewType("Vec<" + name + ">"), nil
}

func elementName(elem signature.Signature) (string, error) {
	switch e := elem.(type) {
	case signature.Type:
		return e.Value(), nil
	case signature.Struct:
		if name, ok := e.Name().(signature.Type); ok {
			return name.Value(), nil
		}
		return "", fmt.Errorf("%w: sequence element struct has no Type name", signature.ErrMalformed)
	case nil:
		return "", fmt.Errorf("%w: sequence element is nil", signature.ErrMalformed)
	default:
		return "", fmt.Errorf("%w: sequence element is a %s", signature.ErrMalformed, elem.Kind())
	}
}

// Struct returns the struct signature for name with one Field per fact, in
// the order given. Names are used verbatim.
func Struct(name string, fields []FieldFact) signature.Struct {
	members := make([]signature.Signature, len(fields))
	for i, f := range fields {
		members[i] = signature.NewField(signature.NewType(f.Name), f.Type)
	}
	return signature.NewStruct(signature.NewType(name), members...)
}

// Mapper maps facts using a primitive registry.
type Mapper struct {
	registry *Registry
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLeaves registers extra leaf spellings on the mapper's registry.
func WithLeaves(leaves map[string]string) Option {
	return func(m *Mapper) {
		for spelling, leaf := range leaves {
			m.registry.Register(spelling, leaf)
		}
	}
}

// New returns a Mapper. Options are applied in order.
func New(opts ...Option) *Mapper {
	m := &Mapper{registry: NewRegistry()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the mapper's primitive registry.
func (m *Mapper) Registry() *Registry {
	return m.registry
}

// Primitive returns the leaf signature for a registered spelling.
func (m *Mapper) Primitive(spelling string) (signature.Signature, error) {
	leaf, ok := m.registry.Lookup(spelling)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPrimitive, spelling)
	}
	return Leaf(leaf), nil
}

// Map maps a single fact. Kinds other than Primitive, Sequence and Struct
// fail with ErrUnsupportedKind naming the kind and the type.
func (m *Mapper) Map(f Fact) (signature.Signature, error) {
	switch f.Kind {
	case types.Primitive:
		return m.Primitive(f.Name)
	case types.Sequence:
		s, err := Sequence(f.Elem)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.Struct:
		for i, field := range f.Fields {
			if field.Type == nil {
				return nil, fmt.Errorf("%w: struct %q field %d (%q) has no type signature",
					signature.ErrMalformed, f.Name, i, field.Name)
			}
		}
		return Struct(f.Name, f.Fields), nil
	default:
		return nil, Unsupported(f.Kind, f.Name)
	}
}

// Unsupported builds the error reported for a kind the mapper rejects.
func Unsupported(kind types.Kind, name string) error {
	return fmt.Errorf("%w: %s %q", ErrUnsupportedKind, kind, name)
}
