// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package signaturize

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"

	"github.com/petar-djukic/go-signaturize/internal/generate"
	"github.com/petar-djukic/go-signaturize/pkg/mapper"
)

// New validates the config and returns a ready-to-use Generator. It does
// not read any sources; that happens in Generate.
func New(cfg Config) (Generator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	applyDefaults(&cfg)

	runner := generate.NewRunner(generate.Deps{
		WorkDir:     cfg.Dir,
		Lang:        cfg.Lang,
		Rev:         cfg.Rev,
		Mapper:      mapper.New(mapper.WithLeaves(cfg.Leaves)),
		Types:       cfg.Types,
		Exclude:     cfg.Exclude,
		MarkedOnly:  cfg.MarkedOnly,
		FailFast:    cfg.FailFast,
		Concurrency: cfg.Concurrency,
	})

	return &generatorAdapter{runner: runner}, nil
}

// Generate is shorthand for New followed by Generate.
func Generate(ctx context.Context, cfg Config) (*Result, error) {
	g, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx)
}

// generatorAdapter adapts internal/generate.Runner to the public Generator
// interface.
type generatorAdapter struct {
	runner *generate.Runner
}

func (a *generatorAdapter) Generate(ctx context.Context) (*Result, error) {
	ir, err := a.runner.Run(ctx)
	if ir == nil {
		return &Result{}, translate(err)
	}

	result := &Result{
		Errors:     ir.Failures,
		ScanErrors: ir.ScanErrors,
		Files:      ir.Files,
	}
	for _, e := range ir.Entries {
		result.Entries = append(result.Entries, Entry{
			Name:      e.Decl.Name,
			Package:   e.Decl.Package,
			Lang:      e.Decl.Lang,
			FilePath:  e.Decl.FilePath,
			Line:      e.Decl.Line,
			Signature: e.Signature,
		})
	}
	assignKeys(result.Entries)
	return result, translate(err)
}

// translate maps runner errors onto the public sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, generate.ErrSources):
		return fmt.Errorf("%w: %w", ErrSourceFailure, err)
	default:
		return fmt.Errorf("%w: %w", ErrGeneration, err)
	}
}

// newValidator returns a validator for Config struct tags. The glob tag
// accepts doublestar patterns.
func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		return doublestar.ValidatePattern(fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("registering glob validation: %w", err)
	}
	return v, nil
}

// validateConfig checks that required fields are present and well formed.
func validateConfig(cfg Config) error {
	v, err := newValidator()
	if err != nil {
		return err
	}
	return v.Struct(cfg)
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Lang == "" {
		cfg.Lang = LangGo
	}
}
