// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package resolve

import (
	"path"
	"slices"
	"strings"

	"github.com/petar-djukic/go-signaturize/pkg/types"
)

// Table holds the type declarations reported by a provider and looks them
// up by name. Several declarations may share a name when they live in
// different packages or modules.
type Table struct {
	decls  []types.TypeDecl
	byName map[string][]int
}

// NewTable indexes decls. Declaration order is preserved.
func NewTable(decls []types.TypeDecl) *Table {
	t := &Table{byName: make(map[string][]int)}
	for _, d := range decls {
		t.byName[d.Name] = append(t.byName[d.Name], len(t.decls))
		t.decls = append(t.decls, d)
	}
	return t
}

// All returns every declaration.
func (t *Table) All() []types.TypeDecl {
	result := make([]types.TypeDecl, len(t.decls))
	copy(result, t.decls)
	return result
}

// ByName returns all declarations with the given name.
func (t *Table) ByName(name string) []types.TypeDecl {
	return t.lookup(t.byName[name])
}

// Len returns the total number of declarations.
func (t *Table) Len() int {
	return len(t.decls)
}

// Candidates returns the declarations a reference named name can denote
// when written inside from. A qualified Go name such as "geo.Point" matches
// declarations named Point in package geo, and a Rust path such as
// "a::Point" matches Point in module a. When several candidates remain,
// those in from's own package and directory are preferred.
func (t *Table) Candidates(name string, from *types.TypeDecl) []types.TypeDecl {
	cands := t.ByName(name)
	if len(cands) == 0 {
		cands = t.qualified(name, from)
	}
	if len(cands) <= 1 || from == nil {
		return cands
	}

	var local []types.TypeDecl
	for _, d := range cands {
		if sameUnit(d, *from) {
			local = append(local, d)
		}
	}
	if len(local) > 0 {
		return local
	}
	return cands
}

// qualified matches a package or module qualified name.
func (t *Table) qualified(name string, from *types.TypeDecl) []types.TypeDecl {
	var base string
	var modules []string
	if i := strings.LastIndex(name, "::"); i >= 0 {
		base = name[i+2:]
		modules = modulePaths(name[:i], from)
	} else if pkg, rest, ok := strings.Cut(name, "."); ok {
		base = rest
		modules = []string{pkg}
	} else {
		return nil
	}

	var out []types.TypeDecl
	for _, d := range t.ByName(base) {
		if slices.Contains(modules, d.Package) {
			out = append(out, d)
		}
	}
	return out
}

// modulePaths lists the module paths a Rust qualifier written inside from
// can denote. crate, self and super are anchored; any other qualifier is
// tried from the crate root and relative to from's module.
func modulePaths(qual string, from *types.TypeDecl) []string {
	var cur string
	if from != nil {
		cur = from.Package
	}
	segs := strings.Split(qual, "::")

	if segs[0] == "crate" {
		return []string{joinModule("", segs[1:])}
	}
	if segs[0] == "self" || segs[0] == "super" {
		for len(segs) > 0 && (segs[0] == "self" || segs[0] == "super") {
			if segs[0] == "super" {
				cur = parentModule(cur)
			}
			segs = segs[1:]
		}
		return []string{joinModule(cur, segs)}
	}

	paths := []string{qual}
	if cur != "" {
		paths = append(paths, joinModule(cur, segs))
	}
	return paths
}

func joinModule(module string, segs []string) string {
	parts := make([]string, 0, len(segs)+1)
	if module != "" {
		parts = append(parts, module)
	}
	return strings.Join(append(parts, segs...), "::")
}

func parentModule(module string) string {
	i := strings.LastIndex(module, "::")
	if i < 0 {
		return ""
	}
	return module[:i]
}

// sameUnit reports whether two declarations share a package and directory.
func sameUnit(a, b types.TypeDecl) bool {
	return a.Lang == b.Lang && a.Package == b.Package && path.Dir(a.FilePath) == path.Dir(b.FilePath)
}

// lookup returns declarations at the given indices.
func (t *Table) lookup(indices []int) []types.TypeDecl {
	if len(indices) == 0 {
		return nil
	}
	result := make([]types.TypeDecl, len(indices))
	for i, idx := range indices {
		result[i] = t.decls[idx]
	}
	return result
}
