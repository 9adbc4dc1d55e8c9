// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package snapshot persists generated signatures so that later runs can be
// compared against them. A snapshot is a JSON or YAML document listing each
// type with its signature and content digest.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petar-djukic/go-signaturize/pkg/signature"
)

// Version is the snapshot document version written by this package.
const Version = 1

// Formats accepted by Encode and Decode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	// ErrDigestMismatch is returned when a stored digest does not match the
	// stored signature.
	ErrDigestMismatch = errors.New("digest mismatch")

	// ErrFormat is returned for an unknown document format or extension.
	ErrFormat = errors.New("unknown snapshot format")

	// ErrVersion is returned for a document written by an incompatible
	// version.
	ErrVersion = errors.New("unsupported snapshot version")

	// ErrDuplicate is returned when two entries share a name.
	ErrDuplicate = errors.New("duplicate snapshot entry")
)

// Entry is one persisted signature.
type Entry struct {
	Name      string          `json:"name" yaml:"name"`
	Source    string          `json:"source,omitempty" yaml:"source,omitempty"`
	Digest    string          `json:"digest" yaml:"digest"`
	Signature signature.Value `json:"signature" yaml:"signature"`
}

// Snapshot is a set of persisted signatures.
type Snapshot struct {
	Version   int       `json:"version" yaml:"version"`
	Generated time.Time `json:"generated" yaml:"generated"`
	Types     []Entry   `json:"types" yaml:"types"`
}

// New returns an empty snapshot stamped with generated.
func New(generated time.Time) *Snapshot {
	return &Snapshot{Version: Version, Generated: generated.UTC()}
}

// Add appends a signature under name, computing its digest. source is an
// optional location such as "geo/point.go:12".
func (s *Snapshot) Add(name, source string, sig signature.Signature) error {
	for _, e := range s.Types {
		if e.Name == name {
			return fmt.Errorf("%w: %q", ErrDuplicate, name)
		}
	}
	digest, err := signature.Digest(sig)
	if err != nil {
		return fmt.Errorf("digest of %s: %w", name, err)
	}
	s.Types = append(s.Types, Entry{
		Name:      name,
		Source:    source,
		Digest:    digest,
		Signature: signature.Value{Signature: sig},
	})
	return nil
}

// Signatures returns the snapshot's signatures keyed by type name.
func (s *Snapshot) Signatures() map[string]signature.Signature {
	out := make(map[string]signature.Signature, len(s.Types))
	for _, e := range s.Types {
		out[e.Name] = e.Signature.Signature
	}
	return out
}

// Verify checks the document version, entry uniqueness, every signature's
// invariants and every digest.
func (s *Snapshot) Verify() error {
	if s.Version != Version {
		return fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}
	seen := make(map[string]bool, len(s.Types))
	for _, e := range s.Types {
		if seen[e.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicate, e.Name)
		}
		seen[e.Name] = true

		if err := signature.Validate(e.Signature.Signature); err != nil {
			return fmt.Errorf("entry %s: %w", e.Name, err)
		}
		digest, err := signature.Digest(e.Signature.Signature)
		if err != nil {
			return fmt.Errorf("entry %s: %w", e.Name, err)
		}
		if digest != e.Digest {
			return fmt.Errorf("%w: entry %s stored %s, computed %s", ErrDigestMismatch, e.Name, e.Digest, digest)
		}
	}
	return nil
}

// FormatOf infers the document format from a file extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(path))
	}
}

// Encode writes snap to w in the given format.
func Encode(w io.Writer, snap *Snapshot, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrFormat, format)
	}
}

// Decode reads a snapshot in the given format and verifies it.
func Decode(r io.Reader, format string) (*Snapshot, error) {
	var snap Snapshot
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&snap); err != nil {
			return nil, fmt.Errorf("decoding snapshot: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&snap); err != nil {
			return nil, fmt.Errorf("decoding snapshot: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, format)
	}
	if err := snap.Verify(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Read loads and verifies the snapshot at path. The format follows the
// file extension.
func Read(path string) (*Snapshot, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	snap, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Write stores snap at path in the format its extension names. The write
// is atomic: the document goes to a temp file in the same directory which
// is then renamed over path. An existing file keeps its permissions.
func Write(path string, snap *Snapshot) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, snap, format); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".signaturize-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}

	success = true
	return nil
}
