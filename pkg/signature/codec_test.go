// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package signature

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func samples() map[string]Signature {
	return map[string]Signature{
		"leaf":         NewType("i32"),
		"empty leaf":   NewType(""),
		"field":        field("age", NewType("u8")),
		"flat struct":  point(),
		"nested":       line(),
		"empty struct": NewStruct(NewType("Unit")),
		"sequence":     NewStruct(NewType("Poly"), field("points", NewType("Vec<Point>"))),
		"malformed":    NewStruct(NewType("Bad"), NewType("i32")),
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	for name, s := range samples() {
		t.Run(name, func(t *testing.T) {
			data, err := EncodeJSON(s)
			require.NoError(t, err)

			got, err := DecodeJSON(data)
			require.NoError(t, err)
			assert.True(t, Equal(s, got))

			again, err := EncodeJSON(got)
			require.NoError(t, err)
			assert.Equal(t, data, again)
		})
	}
}

func TestYAML_RoundTrip(t *testing.T) {
	for name, s := range samples() {
		t.Run(name, func(t *testing.T) {
			data, err := EncodeYAML(s)
			require.NoError(t, err)

			got, err := DecodeYAML(data)
			require.NoError(t, err)
			assert.True(t, Equal(s, got))
		})
	}
}

func TestJSON_WireFormat(t *testing.T) {
	data, err := EncodeJSON(field("age", NewType("i32")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Field":{"name":{"Type":"age"},"value":{"Type":"i32"}}}`, string(data))

	data, err = EncodeJSON(NewStruct(NewType("Unit")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Struct":{"name":{"Type":"Unit"},"fields":[]}}`, string(data))
}

func TestDecodeJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{`},
		{"no variant", `{}`},
		{"two variants", `{"Type":"a","Struct":{"name":{"Type":"S"},"fields":[]}}`},
		{"unknown key", `{"Enum":"x"}`},
		{"field missing name", `{"Field":{"value":{"Type":"i32"}}}`},
		{"bad member", `{"Struct":{"name":{"Type":"S"},"fields":[{}]}}`},
		{"trailing garbage", `{"Type":"i32"}garbage`},
		{"second value", `{"Type":"i32"} {"Type":"u8"}`},
		{"trailing brace", `{"Type":"i32"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tt.input))
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestDecodeJSON_TrailingWhitespace(t *testing.T) {
	got, err := DecodeJSON([]byte("{\"Type\":\"i32\"}\n  \n"))
	require.NoError(t, err)
	assert.True(t, Equal(NewType("i32"), got))
}

func TestDecodeYAML_TrailingDocument(t *testing.T) {
	_, err := DecodeYAML([]byte("Type: i32\n---\nType: u8\n"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestEncode_InvalidUTF8(t *testing.T) {
	tests := map[string]Signature{
		"leaf":         NewType("\xff"),
		"field name":   NewField(NewType("a\xc3"), NewType("i32")),
		"struct field": NewStruct(NewType("S"), NewField(NewType("x"), NewType("\xfe\xfe"))),
	}

	for name, s := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := EncodeJSON(s)
			assert.ErrorIs(t, err, ErrMalformed)

			_, err = EncodeYAML(s)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestEncode_NilSlot(t *testing.T) {
	_, err := EncodeJSON(NewField(NewType("x"), nil))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestValue_Embedding(t *testing.T) {
	type doc struct {
		Name string `json:"name" yaml:"name"`
		Sig  Value  `json:"sig" yaml:"sig"`
	}
	in := doc{Name: "line", Sig: Value{Signature: line()}}

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(in)
		require.NoError(t, err)
		var out doc
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, "line", out.Name)
		assert.True(t, Equal(line(), out.Sig.Signature))
	})

	t.Run("yaml", func(t *testing.T) {
		data, err := yaml.Marshal(in)
		require.NoError(t, err)
		var out doc
		require.NoError(t, yaml.Unmarshal(data, &out))
		assert.True(t, Equal(line(), out.Sig.Signature))
	})
}
