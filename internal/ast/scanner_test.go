// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package ast

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupFixtures creates the test fixture directory structure used by
// the scanner tests and returns its root.
func setupFixtures(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFixture(t, root, "main.go", `package main

func main() {}
`)

	writeFixture(t, root, "geo/point.go", `package geo

// Point is a location.
type Point struct {
	X, Y int32
}
`)

	writeFixture(t, root, "geo/line.go", `package geo

type Line struct {
	Start Point
	End   Point
}
`)

	writeFixture(t, root, "geo/point_test.go", `package geo

type fixture struct{ n int }
`)

	// Files that should be skipped.
	writeFixture(t, root, "vendor/dep.go", "package dep\ntype Dep struct{}\n")
	writeFixture(t, root, ".git/config.go", "package config\ntype GitConfig struct{}\n")
	writeFixture(t, root, "testdata/nested.go", "package nested\ntype Nested struct{}\n")

	// Broken file for error collection test.
	writeFixture(t, root, "broken.go", `package broken
type broken struct {
`)

	return root
}

func writeFixture(t *testing.T, root, relPath, content string) {
	t.Helper()
	fullPath := filepath.Join(root, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
}

// scanTree collects, reads and parses the Go files under dir.
func scanTree(dir string, concurrency int) (*ScanResult, error) {
	paths, err := CollectFiles(dir, ".go")
	if err != nil {
		return nil, err
	}
	srcs, err := ReadFiles(dir, paths)
	if err != nil {
		return nil, err
	}
	return ParseSources(srcs, concurrency)
}

func TestScanTree(t *testing.T) {
	root := setupFixtures(t)

	tests := []struct {
		name  string
		check func(t *testing.T, result *ScanResult)
	}{
		{
			name: "finds all non-test .go files",
			check: func(t *testing.T, result *ScanResult) {
				assert.Contains(t, result.Files, "main.go")
				assert.Contains(t, result.Files, "geo/point.go")
				assert.Contains(t, result.Files, "geo/line.go")
				assert.NotContains(t, result.Files, "geo/point_test.go")
			},
		},
		{
			name: "skips vendor and .git and testdata directories",
			check: func(t *testing.T, result *ScanResult) {
				for path := range result.Files {
					assert.NotContains(t, path, "vendor")
					assert.NotContains(t, path, ".git")
					assert.NotContains(t, path, "testdata")
				}
			},
		},
		{
			name: "collects parse errors without aborting",
			check: func(t *testing.T, result *ScanResult) {
				require.NotEmpty(t, result.Errors, "should have at least one parse error")
				assert.Equal(t, "broken.go", result.Errors[0].FilePath)
				assert.Contains(t, result.Errors[0].Error(), "broken.go")
				assert.NotContains(t, result.Files, "broken.go")
				assert.GreaterOrEqual(t, len(result.Files), 3,
					"valid files should still be parsed despite errors")
			},
		},
		{
			name: "paths are sorted",
			check: func(t *testing.T, result *ScanResult) {
				paths := result.Paths()
				assert.IsNonDecreasing(t, paths)
			},
		},
	}

	result, err := scanTree(root, 4)
	require.NoError(t, err)
	require.NotNil(t, result)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, result)
		})
	}
}

func TestScanTreeErrors(t *testing.T) {
	t.Run("nonexistent directory", func(t *testing.T) {
		_, err := scanTree("/nonexistent/path/12345", 4)
		assert.Error(t, err)
	})

	t.Run("file not directory", func(t *testing.T) {
		f, err := os.CreateTemp("", "scandir-test")
		require.NoError(t, err)
		f.Close()
		defer os.Remove(f.Name())

		_, err = scanTree(f.Name(), 4)
		assert.Error(t, err)
	})

	t.Run("empty directory", func(t *testing.T) {
		dir := t.TempDir()
		result, err := scanTree(dir, 4)
		require.NoError(t, err)
		assert.Empty(t, result.Files)
		assert.Empty(t, result.Errors)
	})

	t.Run("default concurrency", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "hello.go", "package hello\ntype Hello struct{}\n")
		result, err := scanTree(dir, 0)
		require.NoError(t, err)
		assert.Len(t, result.Files, 1)
	})
}

func TestScanTreeGitignore(t *testing.T) {
	root := t.TempDir()

	writeFixture(t, root, ".gitignore", "generated/\n*.pb.go\n")
	writeFixture(t, root, "main.go", "package main\nfunc main() {}\n")
	writeFixture(t, root, "generated/output.go", "package generated\ntype Gen struct{}\n")
	writeFixture(t, root, "api.pb.go", "package main\ntype Msg struct{}\n")

	result, err := scanTree(root, 2)
	require.NoError(t, err)

	assert.Contains(t, result.Files, "main.go")
	assert.NotContains(t, result.Files, "generated/output.go")
	assert.NotContains(t, result.Files, "api.pb.go")
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "src/lib.rs", "struct A;\n")
	writeFixture(t, root, "target/debug/build.rs", "struct B;\n")
	writeFixture(t, root, "main.go", "package main\n")

	paths, err := CollectFiles(root, ".rs")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/lib.rs"}, paths)
}

func TestParseSources(t *testing.T) {
	srcs := map[string][]byte{
		"a/a.go": []byte("package a\ntype A struct{ N int }\n"),
		"b/b.go": []byte("package b\ntype B struct{ S string }\n"),
		"c/c.go": []byte("package c\ntype C struct {\n"),
	}

	result, err := ParseSources(srcs, 2)
	require.NoError(t, err)
	assert.Contains(t, result.Files, "a/a.go")
	assert.Contains(t, result.Files, "b/b.go")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "c/c.go", result.Errors[0].FilePath)
}

func TestSkippedDir(t *testing.T) {
	assert.True(t, SkippedDir("vendor/x/y.go"))
	assert.True(t, SkippedDir("a/testdata/y.go"))
	assert.False(t, SkippedDir("vendor.go"))
	assert.False(t, SkippedDir("pkg/vendorish/y.go"))
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"geo/point.go", nil, false},
		{"geo/point.go", []string{"geo/**"}, true},
		{"geo/shapes/circle.go", []string{"geo/**"}, true},
		{"draw/canvas.go", []string{"geo/**"}, false},
		{"geo/zz_generated.go", []string{"zz_*.go"}, true},
		{"geo/point.go", []string{"**/*_gen.go", "point.go"}, true},
		{"geo/point.go", []string{"[bad"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Excluded(tt.path, tt.patterns))
		})
	}
}
