// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package mapper

import (
	"sort"
	"sync"
)

// canonicalLeaves are the built-in primitive leaf names.
var canonicalLeaves = []string{
	"bool", "char",
	"f32", "f64",
	"isize", "i8", "i16", "i32", "i64", "i128",
	"usize", "u8", "u16", "u32", "u64", "u128",
	"String",
}

// defaultAliases maps source spellings onto canonical leaf names.
var defaultAliases = map[string]string{
	// Rust.
	"str": "String",

	// Go.
	"rune":    "char",
	"int":     "isize",
	"int8":    "i8",
	"int16":   "i16",
	"int32":   "i32",
	"int64":   "i64",
	"uint":    "usize",
	"uintptr": "usize",
	"byte":    "u8",
	"uint8":   "u8",
	"uint16":  "u16",
	"uint32":  "u32",
	"uint64":  "u64",
	"float32": "f32",
	"float64": "f64",
	"string":  "String",
}

// Registry holds the primitive leaf names the mapper accepts, keyed by the
// spelling a source provider reports. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	leaves map[string]string
}

// NewRegistry returns a registry with the canonical leaves and the default
// Rust and Go aliases.
func NewRegistry() *Registry {
	r := &Registry{leaves: make(map[string]string, len(canonicalLeaves)+len(defaultAliases))}
	for _, name := range canonicalLeaves {
		r.leaves[name] = name
	}
	for alias, name := range defaultAliases {
		r.leaves[alias] = name
	}
	return r
}

// Register makes spelling resolve to the leaf name leaf. Registering an
// existing spelling replaces its mapping.
func (r *Registry) Register(spelling, leaf string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaves[spelling] = leaf
}

// Lookup returns the leaf name for spelling.
func (r *Registry) Lookup(spelling string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	leaf, ok := r.leaves[spelling]
	return leaf, ok
}

// Spellings returns every registered spelling in sorted order.
func (r *Registry) Spellings() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.leaves))
	for s := range r.leaves {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
