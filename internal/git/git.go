// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git reads source files from committed revisions so signatures can
// be generated for a past state of the repository.
package git

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/petar-djukic/go-signaturize/internal/ast"
)

// ErrNoGit is returned when the working directory is not inside a git
// repository.
var ErrNoGit = errors.New("not a git repository")

// ErrBadRevision is returned when a revision cannot be resolved to a commit.
var ErrBadRevision = errors.New("unknown revision")

// Config configures repository access.
type Config struct {
	WorkDir string // Directory inside the repository
}

// Repo wraps a go-git repository for the operations we need.
type Repo struct {
	repo *gogit.Repository
	root string
	cfg  Config
}

// Open opens the git repository containing the configured work directory.
// Returns ErrNoGit if there is none.
func Open(cfg Config) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(cfg.WorkDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	return &Repo{repo: r, root: wt.Filesystem.Root(), cfg: cfg}, nil
}

// Prefix returns the configured work directory relative to the repository
// root as a slash path, or "" for the root itself.
func (r *Repo) Prefix() (string, error) {
	root, err := filepath.EvalSymlinks(r.root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	dir, err := filepath.Abs(r.cfg.WorkDir)
	if err != nil {
		return "", fmt.Errorf("resolving work dir: %w", err)
	}
	if dir, err = filepath.EvalSymlinks(dir); err != nil {
		return "", fmt.Errorf("resolving work dir: %w", err)
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", fmt.Errorf("relating %s to %s: %w", dir, root, err)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

// IsDirty returns true if the working tree has uncommitted changes
// (either staged or unstaged).
func (r *Repo) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}

	return !status.IsClean(), nil
}

// Commit resolves rev (a branch, tag, hash or expression such as HEAD~1)
// to its commit.
func (r *Repo) Commit(rev string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBadRevision, rev, err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBadRevision, rev, err)
	}
	return commit, nil
}

// SourcesAt returns the contents of source files as committed at rev. Only
// files under prefix (a slash path relative to the repository root, "" for
// all) with one of the given extensions are read; keys are relative to
// prefix. Directories a scan of the work tree would skip are skipped here
// too.
func (r *Repo) SourcesAt(rev, prefix string, exts []string) (map[string][]byte, error) {
	commit, err := r.Commit(rev)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", rev, err)
	}

	prefix = strings.Trim(prefix, "/")
	srcs := make(map[string][]byte)
	err = tree.Files().ForEach(func(f *object.File) error {
		rel := f.Name
		if prefix != "" {
			var ok bool
			if rel, ok = strings.CutPrefix(f.Name, prefix+"/"); !ok {
				return nil
			}
		}
		if ast.SkippedDir(rel) || !ast.Wanted(path.Base(rel), exts) {
			return nil
		}
		contents, err := f.Contents()
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.Name, err)
		}
		srcs[rel] = []byte(contents)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return srcs, nil
}
