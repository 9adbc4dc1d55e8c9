// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signaturize defines the public interface for go-signaturize,
// which generates structural signatures for the struct types declared in
// Go or Rust source.
package signaturize

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/petar-djukic/go-signaturize/internal/ast"
	"github.com/petar-djukic/go-signaturize/internal/resolve"
	"github.com/petar-djukic/go-signaturize/pkg/signature"
)

// Error types for the Generator API.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrSourceFailure = errors.New("failed to read sources")
	ErrGeneration    = errors.New("signature generation failed")
)

// Source languages.
const (
	LangGo   = "go"
	LangRust = "rust"
)

// Config configures a Generator.
type Config struct {
	// Source root (required).
	Dir string `validate:"required,dir"`
	// go or rust (default go).
	Lang string `validate:"omitempty,oneof=go rust"`
	// Git revision to read instead of the work tree.
	Rev string
	// Type names to generate; empty means all structs.
	Types []string `validate:"dive,required"`
	// Doublestar patterns of files to leave out.
	Exclude []string `validate:"dive,required,glob"`
	// Extra primitive spellings, e.g. "time.Time": "Timestamp".
	Leaves map[string]string `validate:"dive,keys,required,endkeys,required"`
	// Only types carrying the generate marker.
	MarkedOnly bool
	// Stop at the first type that cannot be generated.
	FailFast bool
	// Parser goroutines (default runtime.NumCPU).
	Concurrency int `validate:"gte=0"`
}

// TypeError records why a single type has no signature.
type TypeError = resolve.TypeError

// ScanError records a source file that could not be parsed.
type ScanError = ast.ScanError

// Entry is a generated signature and where its type is declared.
type Entry struct {
	Name      string
	Package   string // Go package name or Rust module path
	Lang      string
	FilePath  string // Relative to Config.Dir, slash separated
	Line      int
	Signature signature.Signature

	key string
}

// Key returns the location-qualified type name used to identify the entry
// across runs. A Go type is qualified by its directory, as in "cmd/a.config",
// and a type in the root directory by its name alone. A Rust type is
// qualified by its file without the extension and its module path, as in
// "src/lib::geo::Point". Entries that would share a key within one Result
// are further qualified by their file name, as in "plat.Handle@handle_unix.go".
func (e Entry) Key() string {
	if e.key != "" {
		return e.key
	}
	return e.baseKey()
}

func (e Entry) baseKey() string {
	if e.Lang == LangRust {
		parts := []string{strings.TrimSuffix(e.FilePath, path.Ext(e.FilePath))}
		if e.Package != "" {
			parts = append(parts, e.Package)
		}
		return strings.Join(append(parts, e.Name), "::")
	}
	if dir := path.Dir(e.FilePath); dir != "." {
		return dir + "." + e.Name
	}
	return e.Name
}

// assignKeys qualifies entries whose base keys collide with their file name.
func assignKeys(entries []Entry) {
	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		seen[e.baseKey()]++
	}
	for i := range entries {
		if k := entries[i].baseKey(); seen[k] > 1 {
			entries[i].key = k + "@" + path.Base(entries[i].FilePath)
		}
	}
}

// Result holds the outcome of a Generate invocation.
type Result struct {
	Entries    []Entry      // Generated signatures in declaration order
	Errors     []*TypeError // Types that were skipped
	ScanErrors []ScanError  // Files that were skipped
	Files      int          // Source files read
}

// Signatures returns the generated signatures keyed by Entry.Key.
func (r *Result) Signatures() map[string]signature.Signature {
	out := make(map[string]signature.Signature, len(r.Entries))
	for _, e := range r.Entries {
		out[e.Key()] = e.Signature
	}
	return out
}

// Render returns the renderings of all entries separated by blank lines.
func (r *Result) Render() (string, error) {
	parts := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		text, err := signature.Render(e.Signature)
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n"), nil
}

// Generator produces signatures for a source tree.
type Generator interface {
	// Generate reads the sources, extracts declarations, and builds the
	// signature of every selected type.
	Generate(ctx context.Context) (*Result, error)
}
