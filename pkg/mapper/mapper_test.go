// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package mapper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-signaturize/pkg/signature"
	"github.com/petar-djukic/go-signaturize/pkg/types"
)

func i32() signature.Signature { return Leaf("i32") }

func pointFacts() []FieldFact {
	return []FieldFact{{Name: "x", Type: i32()}, {Name: "y", Type: i32()}}
}

func TestLeaf(t *testing.T) {
	assert.True(t, signature.Equal(signature.NewType("i32"), Leaf("i32")))
}

func TestSequence(t *testing.T) {
	tests := []struct {
		name string
		elem signature.Signature
		want string
	}{
		{"primitive", i32(), "Vec<i32>"},
		{"nested sequence", signature.NewType("Vec<u8>"), "Vec<Vec<u8>>"},
		{"struct element is named, not expanded", Struct("Point", pointFacts()), "Vec<Point>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sequence(tt.elem)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Value())

			rendered, err := signature.Render(got)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rendered)
		})
	}
}

func TestSequence_Malformed(t *testing.T) {
	for _, elem := range []signature.Signature{
		nil,
		signature.NewField(signature.NewType("x"), i32()),
		signature.NewStruct(signature.NewField(signature.NewType("x"), i32())),
	} {
		_, err := Sequence(elem)
		assert.ErrorIs(t, err, signature.ErrMalformed)
	}
}

func TestStruct(t *testing.T) {
	point := Struct("Point", pointFacts())
	out, err := signature.Render(point)
	require.NoError(t, err)
	assert.Equal(t, "Point {\n    x: i32\n    y: i32\n}", out)

	line := Struct("Line", []FieldFact{{Name: "start", Type: point}, {Name: "end", Type: point}})
	out, err = signature.Render(line)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Line {",
		"    start: Point {",
		"        x: i32",
		"        y: i32",
		"    }",
		"    end: Point {",
		"        x: i32",
		"        y: i32",
		"    }",
		"}",
	}, "\n"), out)
}

func TestStruct_Empty(t *testing.T) {
	s := Struct("Unit", nil)
	assert.Equal(t, 0, s.Len())
	lines, err := signature.Lines(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unit {", "}"}, lines)
}

func TestStruct_FieldOrderPreserved(t *testing.T) {
	xy := Struct("Point", pointFacts())
	yx := Struct("Point", []FieldFact{{Name: "y", Type: i32()}, {Name: "x", Type: i32()}})

	assert.False(t, signature.Equal(xy, yx))
	assert.NotEqual(t, xy.String(), yx.String())

	first, ok := xy.Field(0).(signature.Field)
	require.True(t, ok)
	assert.Equal(t, "x", first.Name().String())
}

func TestStruct_NamesVerbatim(t *testing.T) {
	s := Struct("my::Mod Type", []FieldFact{{Name: "Field_Name", Type: i32()}})
	assert.Equal(t, "my::Mod Type {\n    Field_Name: i32\n}", s.String())
}

func TestMap(t *testing.T) {
	m := New()

	t.Run("primitive", func(t *testing.T) {
		got, err := m.Map(Fact{Kind: types.Primitive, Name: "i32"})
		require.NoError(t, err)
		assert.Equal(t, "i32", got.String())
	})

	t.Run("primitive alias", func(t *testing.T) {
		got, err := m.Map(Fact{Kind: types.Primitive, Name: "float64"})
		require.NoError(t, err)
		assert.Equal(t, "f64", got.String())

		got, err = m.Map(Fact{Kind: types.Primitive, Name: "str"})
		require.NoError(t, err)
		assert.Equal(t, "String", got.String())
	})

	t.Run("sequence of primitive", func(t *testing.T) {
		got, err := m.Map(Fact{Kind: types.Sequence, Elem: i32()})
		require.NoError(t, err)
		assert.True(t, signature.Equal(signature.NewType("Vec<i32>"), got))
	})

	t.Run("struct", func(t *testing.T) {
		got, err := m.Map(Fact{Kind: types.Struct, Name: "Point", Fields: pointFacts()})
		require.NoError(t, err)
		assert.True(t, signature.Equal(Struct("Point", pointFacts()), got))
	})

	t.Run("struct with missing field type", func(t *testing.T) {
		_, err := m.Map(Fact{Kind: types.Struct, Name: "P", Fields: []FieldFact{{Name: "x"}}})
		assert.ErrorIs(t, err, signature.ErrMalformed)
	})

	t.Run("unknown primitive", func(t *testing.T) {
		_, err := m.Map(Fact{Kind: types.Primitive, Name: "complex128"})
		assert.ErrorIs(t, err, ErrUnknownPrimitive)
	})
}

func TestMap_Unsupported(t *testing.T) {
	m := New()
	for _, kind := range []types.Kind{
		types.Enum, types.Union, types.Tuple, types.Array, types.Map,
		types.Pointer, types.Interface, types.Func, types.Chan,
		types.Generic, types.Alias, types.Embedded, types.Other, types.Named,
	} {
		t.Run(kind.String(), func(t *testing.T) {
			got, err := m.Map(Fact{Kind: kind, Name: "Thing"})
			assert.Nil(t, got)
			require.ErrorIs(t, err, ErrUnsupportedKind)
			assert.Contains(t, err.Error(), kind.String())
			assert.Contains(t, err.Error(), `"Thing"`)
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	for _, name := range canonicalLeaves {
		leaf, ok := r.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, leaf)
	}

	_, ok := r.Lookup("time.Time")
	assert.False(t, ok)

	spellings := r.Spellings()
	assert.IsIncreasing(t, spellings)
	assert.Contains(t, spellings, "int32")
	assert.Contains(t, spellings, "i32")
	assert.NotContains(t, spellings, "time.Time")
}

func TestWithLeaves(t *testing.T) {
	m := New(
		WithLeaves(map[string]string{"time.Time": "Timestamp"}),
		WithLeaves(map[string]string{"uuid.UUID": "Uuid", "int": "i64"}),
	)

	tests := []struct {
		spelling string
		want     string
	}{
		{"time.Time", "Timestamp"},
		{"uuid.UUID", "Uuid"},
		{"int", "i64"},
		{"int32", "i32"},
	}
	for _, tt := range tests {
		t.Run(tt.spelling, func(t *testing.T) {
			got, err := m.Map(Fact{Kind: types.Primitive, Name: tt.spelling})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	spellings := m.Registry().Spellings()
	assert.Contains(t, spellings, "time.Time")
	assert.Contains(t, spellings, "uuid.UUID")
	assert.NotContains(t, NewRegistry().Spellings(), "time.Time", "leaves do not leak into other registries")
}
