// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package compare reports how two sets of signatures differ: which types
// were added or removed and which changed shape.
package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/petar-djukic/go-signaturize/pkg/signature"
)

// Op classifies a diff line.
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

// Line is one line of a rendering diff.
type Line struct {
	Op   Op
	Text string
}

func (l Line) String() string {
	switch l.Op {
	case OpInsert:
		return "+ " + l.Text
	case OpDelete:
		return "- " + l.Text
	default:
		return "  " + l.Text
	}
}

// Change describes a type whose signature differs between the two sets.
type Change struct {
	Name    string
	OldHash uint64
	NewHash uint64
	Diff    []Line
}

// Report is the result of Compare.
type Report struct {
	Added     []string
	Removed   []string
	Changed   []Change
	Unchanged int
}

// Empty reports whether nothing was added, removed or changed.
func (r *Report) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

// Format renders the report for display.
func (r *Report) Format() string {
	if r.Empty() {
		return fmt.Sprintf("no changes (%d types compared)\n", r.Unchanged)
	}

	var b strings.Builder
	for _, name := range r.Added {
		fmt.Fprintf(&b, "added: %s\n", name)
	}
	for _, name := range r.Removed {
		fmt.Fprintf(&b, "removed: %s\n", name)
	}
	for _, c := range r.Changed {
		fmt.Fprintf(&b, "changed: %s (%016x -> %016x)\n", c.Name, c.OldHash, c.NewHash)
		for _, l := range c.Diff {
			b.WriteString("    ")
			b.WriteString(l.String())
			b.WriteByte('\n')
		}
	}
	fmt.Fprintf(&b, "%d added, %d removed, %d changed, %d unchanged\n",
		len(r.Added), len(r.Removed), len(r.Changed), r.Unchanged)
	return b.String()
}

// Compare compares base signatures against current ones, keyed by type
// name. Names in both sets whose
// signatures are not structurally equal are reported as changed with a
// line diff of their renderings. All name lists are sorted.
func Compare(base, current map[string]signature.Signature) (*Report, error) {
	r := &Report{}

	for name := range current {
		if _, ok := base[name]; !ok {
			r.Added = append(r.Added, name)
		}
	}
	for name := range base {
		if _, ok := current[name]; !ok {
			r.Removed = append(r.Removed, name)
		}
	}
	sort.Strings(r.Added)
	sort.Strings(r.Removed)

	common := make([]string, 0, len(current))
	for name := range current {
		if _, ok := base[name]; ok {
			common = append(common, name)
		}
	}
	sort.Strings(common)

	for _, name := range common {
		a, b := base[name], current[name]
		if signature.Equal(a, b) {
			r.Unchanged++
			continue
		}
		diff, err := LineDiff(a, b)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", name, err)
		}
		r.Changed = append(r.Changed, Change{
			Name:    name,
			OldHash: signature.Hash(a),
			NewHash: signature.Hash(b),
			Diff:    diff,
		})
	}
	return r, nil
}

// LineDiff diffs the renderings of a and b line by line.
func LineDiff(a, b signature.Signature) ([]Line, error) {
	oldText, err := signature.Render(a)
	if err != nil {
		return nil, err
	}
	newText, err := signature.Render(b)
	if err != nil {
		return nil, err
	}

	dmp := diffmatchpatch.New()
	c1, c2, lines := dmp.DiffLinesToChars(oldText+"\n", newText+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), lines)

	var out []Line
	for _, d := range diffs {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		}
		for _, text := range strings.SplitAfter(d.Text, "\n") {
			if text == "" {
				continue
			}
			out = append(out, Line{Op: op, Text: strings.TrimSuffix(text, "\n")})
		}
	}
	return out, nil
}
