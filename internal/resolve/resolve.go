// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package resolve drives signature generation: it turns provider
// declarations into mapper facts, building each signature bottom-up from
// its field types.
//
// Struct fields referring to another struct expand that struct in place,
// so a struct that reaches itself through struct-typed fields has no
// finite signature and is rejected with ErrRecursiveType. A sequence only
// carries its element's name and never expands it, so sequences of structs
// (including the enclosing struct) always resolve.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petar-djukic/go-signaturize/internal/logger"
	"github.com/petar-djukic/go-signaturize/pkg/mapper"
	"github.com/petar-djukic/go-signaturize/pkg/signature"
	"github.com/petar-djukic/go-signaturize/pkg/types"
)

var (
	// ErrUnknownType is returned for a name that is neither declared nor a
	// registered primitive.
	ErrUnknownType = errors.New("unknown type")

	// ErrRecursiveType is returned for a struct that contains itself
	// through its fields.
	ErrRecursiveType = errors.New("recursive type")

	// ErrAmbiguousType is returned when a name matches several
	// declarations and none is closer than the others.
	ErrAmbiguousType = errors.New("ambiguous type")
)

// TypeError records a generation failure for a single type.
type TypeError struct {
	Type     string
	FilePath string
	Line     int
	Err      error
}

func (e *TypeError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("%s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s: %v", e.FilePath, e.Line, e.Type, e.Err)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// Entry is a successfully generated signature.
type Entry struct {
	Decl      types.TypeDecl
	Signature signature.Signature
}

// Resolver builds signatures for declarations in a Table. It memoizes
// finished signatures and is not safe for concurrent use.
type Resolver struct {
	table    *Table
	mapper   *mapper.Mapper
	memo     map[string]signature.Signature
	visiting map[string]bool
}

// New returns a Resolver over table using m for the mapping rules.
func New(table *Table, m *mapper.Mapper) *Resolver {
	return &Resolver{
		table:    table,
		mapper:   m,
		memo:     make(map[string]signature.Signature),
		visiting: make(map[string]bool),
	}
}

// declKey identifies a declaration by file, package and name.
func declKey(d types.TypeDecl) string {
	return d.Lang + "\x00" + d.FilePath + "\x00" + d.Package + "\x00" + d.Name
}

// Resolve returns the signature of the type called name. Names that are not
// declared resolve as registered primitives.
func (r *Resolver) Resolve(name string) (signature.Signature, error) {
	cands := r.table.Candidates(name, nil)
	switch len(cands) {
	case 0:
		return r.primitive(name)
	case 1:
		return r.ResolveDecl(cands[0])
	default:
		return nil, ambiguous(name, cands)
	}
}

// ResolveDecl returns the signature of d.
func (r *Resolver) ResolveDecl(d types.TypeDecl) (signature.Signature, error) {
	key := declKey(d)
	if s, ok := r.memo[key]; ok {
		return s, nil
	}
	if r.visiting[key] {
		return nil, fmt.Errorf("%w: %q contains itself", ErrRecursiveType, d.Name)
	}

	if d.Kind != types.Struct {
		return r.mapper.Map(mapper.Fact{Kind: d.Kind, Name: d.Name})
	}
	if d.IsGeneric() {
		return nil, mapper.Unsupported(types.Generic, d.Name+"["+strings.Join(d.TypeParams, ", ")+"]")
	}

	r.visiting[key] = true
	defer delete(r.visiting, key)

	facts := make([]mapper.FieldFact, 0, len(d.Fields))
	for _, f := range d.Fields {
		if f.Embedded {
			return nil, fmt.Errorf("field %s: %w", f.Name, mapper.Unsupported(types.Embedded, f.Type.Text))
		}
		sig, err := r.resolveRef(f.Type, &d)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		facts = append(facts, mapper.FieldFact{Name: f.Name, Type: sig})
	}

	s, err := r.mapper.Map(mapper.Fact{Kind: types.Struct, Name: d.Name, Fields: facts})
	if err != nil {
		return nil, err
	}
	r.memo[key] = s
	return s, nil
}

// resolveRef maps a field type written inside from.
func (r *Resolver) resolveRef(ref types.TypeRef, from *types.TypeDecl) (signature.Signature, error) {
	switch ref.Kind {
	case types.Named:
		cands := r.table.Candidates(ref.Name, from)
		switch len(cands) {
		case 0:
			return r.primitive(ref.Name)
		case 1:
			return r.ResolveDecl(cands[0])
		default:
			return nil, ambiguous(ref.Name, cands)
		}
	case types.Primitive:
		return r.mapper.Primitive(ref.Name)
	case types.Sequence:
		if ref.Elem == nil {
			return nil, mapper.Unsupported(types.Other, ref.Text)
		}
		elem, err := r.sequenceElem(*ref.Elem, from)
		if err != nil {
			return nil, err
		}
		return r.mapper.Map(mapper.Fact{Kind: types.Sequence, Elem: elem})
	default:
		return nil, mapper.Unsupported(ref.Kind, ref.Text)
	}
}

// primitive maps an undeclared name through the registry. A Rust path such
// as std::string::String falls back to its last segment.
func (r *Resolver) primitive(name string) (signature.Signature, error) {
	s, err := r.mapper.Primitive(name)
	if !errors.Is(err, mapper.ErrUnknownPrimitive) {
		return s, err
	}
	if i := strings.LastIndex(name, "::"); i >= 0 {
		if s, err := r.mapper.Primitive(name[i+2:]); err == nil {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// sequenceElem resolves a sequence element. A sequence records only its
// element's name, so a struct element is never expanded and the result
// does not depend on which structs are being resolved.
func (r *Resolver) sequenceElem(ref types.TypeRef, from *types.TypeDecl) (signature.Signature, error) {
	if ref.Kind == types.Named {
		cands := r.table.Candidates(ref.Name, from)
		if len(cands) == 1 && cands[0].Kind == types.Struct && !cands[0].IsGeneric() {
			return mapper.Leaf(cands[0].Name), nil
		}
	}
	return r.resolveRef(ref, from)
}

func ambiguous(name string, cands []types.TypeDecl) error {
	where := make([]string, len(cands))
	for i, c := range cands {
		where[i] = c.FilePath
	}
	return fmt.Errorf("%w: %q declared in %s", ErrAmbiguousType, name, strings.Join(where, ", "))
}

// Options controls ResolveAll.
type Options struct {
	FailFast bool // Stop at the first failing type
}

// ResolveAll generates signatures for targets in order. Failing types are
// logged and skipped unless FailFast is set, in which case the first
// failure is returned as a *TypeError and generation stops.
func (r *Resolver) ResolveAll(ctx context.Context, targets []types.TypeDecl, opts Options) ([]Entry, []*TypeError, error) {
	log := logger.FromContext(ctx)

	var entries []Entry
	var failures []*TypeError
	for _, d := range targets {
		if err := ctx.Err(); err != nil {
			return entries, failures, err
		}

		s, err := r.ResolveDecl(d)
		if err != nil {
			te := &TypeError{Type: d.Name, FilePath: d.FilePath, Line: d.Line, Err: err}
			if opts.FailFast {
				return entries, append(failures, te), te
			}
			log.Warn("skipping type", "type", d.Name, "file", d.FilePath, "line", d.Line, "err", err)
			failures = append(failures, te)
			continue
		}

		log.Debug("generated signature", "type", d.Name, "file", d.FilePath, "fields", len(d.Fields))
		entries = append(entries, Entry{Decl: d, Signature: s})
	}
	return entries, failures, nil
}

// Targets selects the declarations to generate. Explicit names are looked
// up in the table and must match exactly one declaration. Without names,
// every struct is selected, or with markedOnly every marked declaration of
// any kind, so that a marked enum is reported rather than silently skipped.
func Targets(table *Table, names []string, markedOnly bool) ([]types.TypeDecl, error) {
	if len(names) > 0 {
		out := make([]types.TypeDecl, 0, len(names))
		for _, name := range names {
			cands := table.Candidates(name, nil)
			switch len(cands) {
			case 0:
				return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
			case 1:
				out = append(out, cands[0])
			default:
				return nil, ambiguous(name, cands)
			}
		}
		return out, nil
	}

	var out []types.TypeDecl
	for _, d := range table.All() {
		if markedOnly {
			if d.Marked {
				out = append(out, d)
			}
			continue
		}
		if d.Kind == types.Struct {
			out = append(out, d)
		}
	}
	return out, nil
}
