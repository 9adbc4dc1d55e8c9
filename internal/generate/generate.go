// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package generate implements the generation runner, wiring the source
// readers, fact providers and resolver to produce signatures for a
// directory or a committed revision of it.
package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/petar-djukic/go-signaturize/internal/ast"
	gitpkg "github.com/petar-djukic/go-signaturize/internal/git"
	"github.com/petar-djukic/go-signaturize/internal/logger"
	"github.com/petar-djukic/go-signaturize/internal/resolve"
	"github.com/petar-djukic/go-signaturize/internal/rust"
	"github.com/petar-djukic/go-signaturize/pkg/mapper"
	"github.com/petar-djukic/go-signaturize/pkg/types"
)

// Source languages.
const (
	LangGo   = ast.Lang
	LangRust = rust.Lang
)

var (
	// ErrSources is returned when source files cannot be read.
	ErrSources = errors.New("reading sources")

	// ErrTargets is returned when the requested types cannot be selected.
	ErrTargets = errors.New("selecting types")

	// ErrLang is returned for an unsupported source language.
	ErrLang = errors.New("unsupported language")
)

// RevisionReader reads committed sources. *git.Repo implements it.
type RevisionReader interface {
	SourcesAt(rev, prefix string, exts []string) (map[string][]byte, error)
}

// RunResult holds the outcome of a Runner.Run invocation.
type RunResult struct {
	Entries    []resolve.Entry
	Failures   []*resolve.TypeError
	ScanErrors []ast.ScanError
	Files      int // Source files read
	Decls      int // Declarations reported by the provider
}

// Deps holds injected dependencies for the runner.
type Deps struct {
	WorkDir     string
	Lang        string         // LangGo or LangRust
	Rev         string         // Read sources at this revision instead of the work tree
	Revisions   RevisionReader // Overrides opening the repository at WorkDir
	Prefix      string         // Path of WorkDir inside the repository, used with Revisions
	Mapper      *mapper.Mapper // Defaults to mapper.New()
	Types       []string       // Explicit type names; empty selects all
	Exclude     []string       // Doublestar patterns of files to leave out
	MarkedOnly  bool
	FailFast    bool
	Concurrency int
}

// Runner orchestrates a generation run.
type Runner struct {
	deps Deps
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(deps Deps) *Runner {
	if deps.Mapper == nil {
		deps.Mapper = mapper.New()
	}
	return &Runner{deps: deps}
}

// Run reads the sources, extracts declarations, selects targets and
// resolves them. Per-file parse failures and per-type resolution failures
// are collected in the result; with FailFast the first type failure is
// also returned as the error.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	log := logger.FromContext(ctx)
	result := &RunResult{}

	ext, err := extension(r.deps.Lang)
	if err != nil {
		return result, err
	}

	// Step 1: Read sources from the work tree or a revision.
	srcs, err := r.sources(ext)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrSources, err)
	}
	for p := range srcs {
		if ast.Excluded(p, r.deps.Exclude) {
			delete(srcs, p)
		}
	}
	result.Files = len(srcs)
	log.Debug("read sources", "lang", r.deps.Lang, "rev", r.deps.Rev, "files", len(srcs))

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Step 2: Extract declarations.
	decls, scanErrs, err := r.declarations(ctx, srcs)
	if err != nil {
		return result, err
	}
	result.ScanErrors = scanErrs
	result.Decls = len(decls)
	for _, se := range scanErrs {
		log.Warn("skipping file", "file", se.FilePath, "err", se.Err)
	}

	// Step 3: Select targets.
	table := resolve.NewTable(decls)
	targets, err := resolve.Targets(table, r.deps.Types, r.deps.MarkedOnly)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrTargets, err)
	}
	log.Debug("selected types", "declared", table.Len(), "targets", len(targets))

	// Step 4: Resolve.
	entries, failures, err := resolve.New(table, r.deps.Mapper).ResolveAll(ctx, targets, resolve.Options{FailFast: r.deps.FailFast})
	result.Entries = entries
	result.Failures = failures
	return result, err
}

// sources reads the files the run covers.
func (r *Runner) sources(ext string) (map[string][]byte, error) {
	if r.deps.Rev == "" {
		paths, err := ast.CollectFiles(r.deps.WorkDir, ext)
		if err != nil {
			return nil, err
		}
		return ast.ReadFiles(r.deps.WorkDir, paths)
	}

	revs, prefix := r.deps.Revisions, r.deps.Prefix
	if revs == nil {
		repo, err := gitpkg.Open(gitpkg.Config{WorkDir: r.deps.WorkDir})
		if err != nil {
			return nil, err
		}
		if prefix, err = repo.Prefix(); err != nil {
			return nil, err
		}
		revs = repo
	}
	return revs.SourcesAt(r.deps.Rev, prefix, []string{ext})
}

// declarations runs the language's fact provider over srcs.
func (r *Runner) declarations(ctx context.Context, srcs map[string][]byte) ([]types.TypeDecl, []ast.ScanError, error) {
	switch r.deps.Lang {
	case LangRust:
		return rust.ExtractAll(ctx, srcs)
	default:
		scan, err := ast.ParseSources(srcs, r.deps.Concurrency)
		if err != nil {
			return nil, nil, err
		}
		return ast.ExtractAll(scan), scan.Errors, nil
	}
}

// extension returns the source file extension for lang.
func extension(lang string) (string, error) {
	switch lang {
	case LangGo, "":
		return ".go", nil
	case LangRust:
		return rust.Ext, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrLang, lang)
	}
}
