// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package signature

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrDecode is returned when serialized input does not describe a signature.
var ErrDecode = errors.New("invalid signature encoding")

// wire is the externally tagged serialized form. Exactly one member is set.
type wire struct {
	Type   *string     `json:"Type,omitempty" yaml:"Type,omitempty"`
	Field  *wireField  `json:"Field,omitempty" yaml:"Field,omitempty"`
	Struct *wireStruct `json:"Struct,omitempty" yaml:"Struct,omitempty"`
}

type wireField struct {
	Name  wire `json:"name" yaml:"name"`
	Value wire `json:"value" yaml:"value"`
}

type wireStruct struct {
	Name   wire   `json:"name" yaml:"name"`
	Fields []wire `json:"fields" yaml:"fields"`
}

func toWire(s Signature) (wire, error) {
	switch v := s.(type) {
	case Type:
		if !utf8.ValidString(v.value) {
			return wire{}, fmt.Errorf("%w: type %q is not valid UTF-8", ErrMalformed, v.value)
		}
		value := v.value
		return wire{Type: &value}, nil
	case Field:
		name, err := toWire(v.name)
		if err != nil {
			return wire{}, err
		}
		value, err := toWire(v.value)
		if err != nil {
			return wire{}, err
		}
		return wire{Field: &wireField{Name: name, Value: value}}, nil
	case Struct:
		name, err := toWire(v.name)
		if err != nil {
			return wire{}, err
		}
		fields := make([]wire, 0, len(v.fields))
		for _, f := range v.fields {
			w, err := toWire(f)
			if err != nil {
				return wire{}, err
			}
			fields = append(fields, w)
		}
		return wire{Struct: &wireStruct{Name: name, Fields: fields}}, nil
	default:
		return wire{}, fmt.Errorf("%w: cannot encode %s node", ErrMalformed, kindName(s))
	}
}

func fromWire(w wire) (Signature, error) {
	set := 0
	if w.Type != nil {
		set++
	}
	if w.Field != nil {
		set++
	}
	if w.Struct != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: want exactly one of Type, Field, Struct, got %d", ErrDecode, set)
	}

	switch {
	case w.Type != nil:
		return NewType(*w.Type), nil
	case w.Field != nil:
		name, err := fromWire(w.Field.Name)
		if err != nil {
			return nil, fmt.Errorf("field name: %w", err)
		}
		value, err := fromWire(w.Field.Value)
		if err != nil {
			return nil, fmt.Errorf("field value: %w", err)
		}
		return NewField(name, value), nil
	default:
		name, err := fromWire(w.Struct.Name)
		if err != nil {
			return nil, fmt.Errorf("struct name: %w", err)
		}
		fields := make([]Signature, 0, len(w.Struct.Fields))
		for i, fw := range w.Struct.Fields {
			f, err := fromWire(fw)
			if err != nil {
				return nil, fmt.Errorf("struct member %d: %w", i, err)
			}
			fields = append(fields, f)
		}
		return Struct{name: name, fields: fields}, nil
	}
}

// EncodeJSON serializes s. The output is deterministic: equal signatures
// encode to identical bytes. Type values that are not valid UTF-8 cannot be
// represented and are rejected with ErrMalformed.
func EncodeJSON(s Signature) ([]byte, error) {
	w, err := toWire(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// DecodeJSON is the inverse of EncodeJSON. Unknown keys and data after the
// signature are rejected.
func DecodeJSON(data []byte) (Signature, error) {
	var w wire
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after signature", ErrDecode)
	}
	return fromWire(w)
}

// EncodeYAML serializes s as YAML using the same tagged layout as JSON.
func EncodeYAML(s Signature) ([]byte, error) {
	w, err := toWire(s)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(w)
}

// DecodeYAML is the inverse of EncodeYAML. Input holding more than one
// document is rejected.
func DecodeYAML(data []byte) (Signature, error) {
	var w wire
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing document after signature", ErrDecode)
	}
	return fromWire(w)
}

// Value wraps a Signature so it can be embedded in JSON or YAML documents.
type Value struct {
	Signature Signature
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return EncodeJSON(v.Signature)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	s, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	v.Signature = s
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	return toWire(v.Signature)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var w wire
	if err := node.Decode(&w); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	s, err := fromWire(w)
	if err != nil {
		return err
	}
	v.Signature = s
	return nil
}
