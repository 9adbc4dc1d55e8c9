// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-signaturize/internal/logger"
	"github.com/petar-djukic/go-signaturize/internal/snapshot"
	"github.com/petar-djukic/go-signaturize/pkg/signaturize"
)

const formatText = "text"

// newGenerateCmd creates the "generate" command.
func newGenerateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [TYPE...]",
		Short: "Print or save signatures",
		Long:  "Generate builds the signature of every struct type under --dir, or of the named types, and prints them or writes them to a snapshot file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, v, args)
		},
	}

	cmd.Flags().StringP("format", "f", formatText, "Output format: text, json or yaml")
	cmd.Flags().StringP("out", "o", "", "Write a snapshot to this .json or .yaml file instead of printing")
	cmd.Flags().String("rev", "", "Read sources at this git revision")

	return cmd
}

// runGenerate executes the generate command.
func runGenerate(cmd *cobra.Command, v *viper.Viper, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	rev, _ := cmd.Flags().GetString("rev")

	switch format {
	case formatText, snapshot.FormatJSON, snapshot.FormatYAML:
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	cfg, err := baseConfig(v)
	if err != nil {
		return err
	}
	cfg.Types = args
	cfg.Rev = rev

	result, err := signaturize.Generate(ctx, cfg)
	if err != nil {
		return err
	}
	for _, se := range result.ScanErrors {
		log.Warn("file not parsed", "file", se.FilePath, "err", se.Err)
	}

	if out != "" {
		snap, err := toSnapshot(result)
		if err != nil {
			return err
		}
		if err := snapshot.Write(out, snap); err != nil {
			return err
		}
		log.Info("wrote snapshot", "path", out, "types", len(snap.Types), "skipped", len(result.Errors))
		return nil
	}

	return printResult(cmd.OutOrStdout(), result, format)
}

// printResult writes the generated signatures in the given format.
func printResult(w io.Writer, result *signaturize.Result, format string) error {
	if format == formatText {
		text, err := result.Render()
		if err != nil {
			return err
		}
		if text != "" {
			fmt.Fprintln(w, text)
		}
		return nil
	}

	snap, err := toSnapshot(result)
	if err != nil {
		return err
	}
	return snapshot.Encode(w, snap, format)
}

// toSnapshot converts a generation result into a snapshot stamped now.
func toSnapshot(result *signaturize.Result) (*snapshot.Snapshot, error) {
	snap := snapshot.New(time.Now())
	for _, e := range result.Entries {
		source := fmt.Sprintf("%s:%d", e.FilePath, e.Line)
		if err := snap.Add(e.Key(), source, e.Signature); err != nil {
			return nil, err
		}
	}
	return snap, nil
}
