// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-signaturize/internal/snapshot"
)

const pointV1 = "package geo\n\ntype Point struct {\n\tX int32\n\tY int32\n}\n"
const pointV2 = "package geo\n\ntype Point struct {\n\tX int32\n\tY int64\n}\n"

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "signaturize "+version+"\n", out)
}

func TestGenerate_Text(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "geo/point.go", pointV1)

	out, err := execute(t, "generate", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "Point {\n    X: i32\n    Y: i32\n}\n", out)
}

func TestGenerate_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "geo/point.go", pointV1)

	out, err := execute(t, "generate", "--dir", dir, "--format", "json", "Point")
	require.NoError(t, err)

	snap, err := snapshot.Decode(bytes.NewBufferString(out), snapshot.FormatJSON)
	require.NoError(t, err)
	require.Len(t, snap.Types, 1)
	assert.Equal(t, "geo.Point", snap.Types[0].Name)
	assert.Equal(t, "geo/point.go:3", snap.Types[0].Source)
}

func TestGenerate_Exclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "geo/point.go", pointV1)
	writeFile(t, dir, "gen/zz_generated.go", "package gen\n\ntype Generated struct{ A bool }\n")

	out, err := execute(t, "generate", "--dir", dir, "--exclude", "zz_*.go")
	require.NoError(t, err)
	assert.NotContains(t, out, "Generated")
	assert.Contains(t, out, "Point {")
}

func TestGenerate_BadFormat(t *testing.T) {
	_, err := execute(t, "generate", "--dir", t.TempDir(), "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestGenerate_LeavesFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ev.go", "package ev\n\nimport \"time\"\n\ntype Event struct {\n\tAt time.Time\n}\n")
	writeFile(t, dir, ".signaturize.yaml", "leaf:\n  - time.Time=Timestamp\n")

	out, err := execute(t, "generate", "--dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "Event {\n    At: Timestamp\n}\n", out)

	_, err = execute(t, "generate", "--dir", dir, "--leaf", "bogus")
	assert.ErrorContains(t, err, "spelling=name")
}

func TestDiff_Snapshot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "geo/point.go", pointV1)
	snapPath := filepath.Join(t.TempDir(), "sigs.yaml")

	_, err := execute(t, "generate", "--dir", dir, "--out", snapPath)
	require.NoError(t, err)

	out, err := execute(t, "diff", "--dir", dir, "--snapshot", snapPath, "--exit-code")
	require.NoError(t, err)
	assert.Contains(t, out, "no changes")

	writeFile(t, dir, "geo/point.go", pointV2)
	out, err = execute(t, "diff", "--dir", dir, "--snapshot", snapPath, "--exit-code")
	assert.ErrorIs(t, err, errChanges)
	assert.Contains(t, out, "changed: geo.Point")
	assert.Contains(t, out, "+     Y: i64")

	_, err = execute(t, "diff", "--dir", dir, "--snapshot", snapPath)
	assert.NoError(t, err)
}

func TestDiff_BaseRev(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "geo/point.go", pointV1)

	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("geo/point.go")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)

	writeFile(t, dir, "geo/line.go", "package geo\n\ntype Line struct {\n\tStart Point\n}\n")

	out, err := execute(t, "diff", "--dir", dir, "--base-rev", "HEAD")
	require.NoError(t, err)
	assert.Contains(t, out, "added: geo.Line")
	assert.Contains(t, out, "1 added, 0 removed, 0 changed, 1 unchanged")
}

func TestDiff_RequiresBase(t *testing.T) {
	_, err := execute(t, "diff", "--dir", t.TempDir())
	assert.Error(t, err)
}

func TestLeaves(t *testing.T) {
	dir := t.TempDir()

	t.Run("lists defaults in order", func(t *testing.T) {
		out, err := execute(t, "leaves", "--dir", dir)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.IsIncreasing(t, lines)
		assert.Contains(t, lines, "int32=i32")
		assert.Contains(t, lines, "string=String")
		assert.NotContains(t, out, "time.Time")
	})

	t.Run("includes extra leaves", func(t *testing.T) {
		out, err := execute(t, "leaves", "--dir", dir, "--leaf", "time.Time=Timestamp", "time.Time", "u8")
		require.NoError(t, err)
		assert.Equal(t, "time.Time=Timestamp\nu8=u8\n", out)
	})

	t.Run("unknown spelling", func(t *testing.T) {
		_, err := execute(t, "leaves", "--dir", dir, "time.Duration")
		assert.ErrorContains(t, err, "time.Duration")
	})
}
