// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ast scans and parses Go source and reports the struct declarations
// it finds as structural facts.
package ast

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs contains directory names that CollectFiles skips by default.
var skipDirs = map[string]bool{
	"vendor":       true,
	".git":         true,
	"testdata":     true,
	"node_modules": true,
	"target":       true,
}

// ScanResult holds the output of a directory scan.
type ScanResult struct {
	FileSet *token.FileSet
	Files   map[string]*ast.File
	Errors  []ScanError
}

// Paths returns the parsed file paths in sorted order.
func (r *ScanResult) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for p := range r.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ScanError records a parse failure for a single file.
type ScanError struct {
	FilePath string
	Err      error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Err)
}

func (e ScanError) Unwrap() error {
	return e.Err
}

// CollectFiles walks the directory tree rooted at dir and returns the
// slash-separated paths, relative to dir, of regular files whose name ends
// in one of exts. It skips vendor/, .git/, testdata/, node_modules/ and
// target/ and honors .gitignore patterns found in the root directory. Go
// test files are never returned.
func CollectFiles(dir string, exts ...string) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absDir)
	}

	ignorer := loadGitignore(absDir)

	var paths []string
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && path != absDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !Wanted(d.Name(), exts) {
			return nil
		}
		relPath, relErr := filepath.Rel(absDir, path)
		if relErr != nil {
			relPath = path
		}
		if ignorer.isIgnored(relPath) {
			return nil
		}
		paths = append(paths, filepath.ToSlash(relPath))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Wanted reports whether a file name has one of the given extensions and is
// not a Go test file.
func Wanted(name string, exts []string) bool {
	if strings.HasSuffix(name, "_test.go") {
		return false
	}
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// SkippedDir reports whether any directory component of a slash-separated
// path is one CollectFiles would skip.
func SkippedDir(relPath string) bool {
	parts := strings.Split(relPath, "/")
	for _, part := range parts[:len(parts)-1] {
		if skipDirs[part] {
			return true
		}
	}
	return false
}

// Excluded reports whether a slash-separated relative path matches any of
// the doublestar patterns, either as a whole or by its base name.
func Excluded(relPath string, patterns []string) bool {
	base := path.Base(relPath)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// ReadFiles reads the given paths, relative to dir, into memory.
func ReadFiles(dir string, paths []string) (map[string][]byte, error) {
	srcs := make(map[string][]byte, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(p)))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		srcs[p] = data
	}
	return srcs, nil
}

// ParseSources parses in-memory Go files keyed by their relative path in
// parallel using a bounded worker pool.
//
// Parse errors for individual files are collected in ScanResult.Errors and
// leave the file out of ScanResult.Files, but do not abort the scan. The
// concurrency parameter controls the number of parallel parser goroutines;
// if <= 0 it defaults to runtime.NumCPU().
func ParseSources(srcs map[string][]byte, concurrency int) (*ScanResult, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	fset := token.NewFileSet()
	result := &ScanResult{
		FileSet: fset,
		Files:   make(map[string]*ast.File, len(srcs)),
	}

	if len(srcs) == 0 {
		return result, nil
	}

	type parseResult struct {
		path string
		file *ast.File
		err  error
	}

	jobs := make(chan string, len(srcs))
	results := make(chan parseResult, len(srcs))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				f, parseErr := parser.ParseFile(fset, path, srcs[path], parser.ParseComments)
				results <- parseResult{path: path, file: f, err: parseErr}
			}
		}()
	}

	for p := range srcs {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for pr := range results {
		if pr.err != nil {
			// A partial AST would report truncated structs, so the file is
			// dropped.
			result.Errors = append(result.Errors, ScanError{FilePath: pr.path, Err: pr.err})
			continue
		}
		result.Files[pr.path] = pr.file
	}

	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].FilePath < result.Errors[j].FilePath
	})

	return result, nil
}

// gitignorer provides simple .gitignore matching.
type gitignorer struct {
	patterns []string
}

// loadGitignore reads .gitignore from the root directory. If no .gitignore
// exists or it cannot be read, returns an ignorer that matches nothing.
func loadGitignore(root string) gitignorer {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return gitignorer{}
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return gitignorer{patterns: patterns}
}

// isIgnored checks whether a relative path matches any .gitignore pattern.
// This implements a simplified subset of gitignore: directory prefixes and
// simple glob patterns via filepath.Match.
func (g gitignorer) isIgnored(relPath string) bool {
	for _, pattern := range g.patterns {
		dirPattern := strings.TrimSuffix(pattern, "/")

		parts := strings.Split(relPath, string(filepath.Separator))
		for _, part := range parts {
			if matched, _ := filepath.Match(dirPattern, part); matched {
				return true
			}
		}

		if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}
