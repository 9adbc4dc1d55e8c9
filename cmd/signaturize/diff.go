// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-signaturize/internal/compare"
	gitpkg "github.com/petar-djukic/go-signaturize/internal/git"
	"github.com/petar-djukic/go-signaturize/internal/logger"
	"github.com/petar-djukic/go-signaturize/internal/snapshot"
	"github.com/petar-djukic/go-signaturize/pkg/signature"
	"github.com/petar-djukic/go-signaturize/pkg/signaturize"
)

// newDiffCmd creates the "diff" command.
func newDiffCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare signatures against a snapshot or revision",
		Long:  "Diff generates the current signatures and reports the types added, removed or changed relative to a saved snapshot or to a git revision.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, v)
		},
	}

	cmd.Flags().String("snapshot", "", "Snapshot file to compare against")
	cmd.Flags().String("base-rev", "", "Git revision to compare against")
	cmd.Flags().Bool("exit-code", false, "Exit with status 1 when signatures differ")
	cmd.MarkFlagsOneRequired("snapshot", "base-rev")
	cmd.MarkFlagsMutuallyExclusive("snapshot", "base-rev")

	return cmd
}

// runDiff executes the diff command.
func runDiff(cmd *cobra.Command, v *viper.Viper) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	snapPath, _ := cmd.Flags().GetString("snapshot")
	baseRev, _ := cmd.Flags().GetString("base-rev")
	exitCode, _ := cmd.Flags().GetBool("exit-code")

	cfg, err := baseConfig(v)
	if err != nil {
		return err
	}

	var old map[string]signature.Signature
	if snapPath != "" {
		snap, err := snapshot.Read(snapPath)
		if err != nil {
			return err
		}
		old = snap.Signatures()
	} else {
		if repo, err := gitpkg.Open(gitpkg.Config{WorkDir: cfg.Dir}); err == nil {
			if dirty, err := repo.IsDirty(); err == nil && dirty {
				log.Info("comparing against a work tree with uncommitted changes")
			}
		}
		baseCfg := cfg
		baseCfg.Rev = baseRev
		base, err := signaturize.Generate(ctx, baseCfg)
		if err != nil {
			return fmt.Errorf("generating %s: %w", baseRev, err)
		}
		old = base.Signatures()
	}

	current, err := signaturize.Generate(ctx, cfg)
	if err != nil {
		return err
	}

	report, err := compare.Compare(old, current.Signatures())
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.Format())

	if exitCode && !report.Empty() {
		return errChanges
	}
	return nil
}
