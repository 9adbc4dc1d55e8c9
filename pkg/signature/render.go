// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package signature

import (
	"errors"
	"fmt"
	"strings"
)

// indentWidth is the number of spaces per nesting level in the canonical
// rendering. It is part of the format and not configurable.
const indentWidth = 4

// ErrMalformed is returned when a tree violates the shape invariants: a name
// slot that is not a Type, or a struct member that is not a Field.
var ErrMalformed = errors.New("malformed signature")

// Render returns the canonical text form of s.
//
// A Type renders as its literal text and a Field as "<name>: <value>". A
// Struct renders as an opening line "<name> {", one line per field indented
// by four spaces, and a closing "}". Fields whose value is itself a Struct
// are expanded inline one level deeper, opening with
// "<field>: <struct-name> {". Rendering stops at the first malformed node.
func Render(s Signature) (string, error) {
	switch v := s.(type) {
	case Type:
		return v.value, nil
	case Field:
		return renderField(v)
	case Struct:
		lines, err := structLines("", v, 0)
		if err != nil {
			return "", err
		}
		return strings.Join(lines, "\n"), nil
	default:
		return "", fmt.Errorf("%w: unexpected %s node", ErrMalformed, kindName(s))
	}
}

// Lines returns the rendering of s split into lines.
func Lines(s Signature) ([]string, error) {
	if st, ok := s.(Struct); ok {
		return structLines("", st, 0)
	}
	out, err := Render(s)
	if err != nil {
		return nil, err
	}
	return strings.Split(out, "\n"), nil
}

// renderField renders a standalone field.
func renderField(f Field) (string, error) {
	name, err := label(f.name, "field")
	if err != nil {
		return "", err
	}
	value, err := Render(f.value)
	if err != nil {
		return "", fmt.Errorf("field %q: %w", name, err)
	}
	return name + ": " + value, nil
}

// structLines renders st at the given depth. prefix is prepended to the
// struct's name on the opening line; it carries "<field>: " for nested
// structs and is empty at the root.
func structLines(prefix string, st Struct, depth int) ([]string, error) {
	name, err := label(st.name, "struct")
	if err != nil {
		return nil, err
	}

	indent := strings.Repeat(" ", depth*indentWidth)
	next := strings.Repeat(" ", (depth+1)*indentWidth)

	lines := make([]string, 0, len(st.fields)+2)
	lines = append(lines, indent+prefix+name+" {")

	for i, member := range st.fields {
		f, ok := member.(Field)
		if !ok {
			return nil, fmt.Errorf("%w: struct %q member %d is %s, want Field",
				ErrMalformed, name, i, kindName(member))
		}
		fieldName, err := label(f.name, "field")
		if err != nil {
			return nil, fmt.Errorf("struct %q member %d: %w", name, i, err)
		}

		if nested, ok := f.value.(Struct); ok {
			sub, err := structLines(fieldName+": ", nested, depth+1)
			if err != nil {
				return nil, fmt.Errorf("struct %q field %q: %w", name, fieldName, err)
			}
			lines = append(lines, sub...)
			continue
		}

		value, err := Render(f.value)
		if err != nil {
			return nil, fmt.Errorf("struct %q field %q: %w", name, fieldName, err)
		}
		lines = append(lines, next+fieldName+": "+value)
	}

	lines = append(lines, indent+"}")
	return lines, nil
}

// label returns the text of a name slot, which must hold a Type.
func label(s Signature, owner string) (string, error) {
	t, ok := s.(Type)
	if !ok {
		return "", fmt.Errorf("%w: %s name is %s, want Type", ErrMalformed, owner, kindName(s))
	}
	return t.value, nil
}

// Validate checks the shape invariants of s without rendering it.
func Validate(s Signature) error {
	switch v := s.(type) {
	case Type:
		return nil
	case Field:
		if _, err := label(v.name, "field"); err != nil {
			return err
		}
		return Validate(v.value)
	case Struct:
		name, err := label(v.name, "struct")
		if err != nil {
			return err
		}
		for i, member := range v.fields {
			if _, ok := member.(Field); !ok {
				return fmt.Errorf("%w: struct %q member %d is %s, want Field",
					ErrMalformed, name, i, kindName(member))
			}
			if err := Validate(member); err != nil {
				return fmt.Errorf("struct %q member %d: %w", name, i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unexpected %s node", ErrMalformed, kindName(s))
	}
}
