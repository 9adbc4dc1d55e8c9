// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-signaturize/pkg/mapper"
)

// newLeavesCmd creates the "leaves" command.
func newLeavesCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "leaves [SPELLING...]",
		Short: "List primitive leaf spellings",
		Long:  "Leaves prints every type spelling that maps to a primitive leaf, including those added with --leaf or the config file, one spelling=name pair per line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeaves(cmd, v, args)
		},
	}
}

// runLeaves executes the leaves command.
func runLeaves(cmd *cobra.Command, v *viper.Viper, args []string) error {
	cfg, err := baseConfig(v)
	if err != nil {
		return err
	}
	registry := mapper.New(mapper.WithLeaves(cfg.Leaves)).Registry()

	spellings := args
	if len(spellings) == 0 {
		spellings = registry.Spellings()
	}

	w := cmd.OutOrStdout()
	for _, s := range spellings {
		leaf, ok := registry.Lookup(s)
		if !ok {
			return fmt.Errorf("%w: %q", mapper.ErrUnknownPrimitive, s)
		}
		fmt.Fprintf(w, "%s=%s\n", s, leaf)
	}
	return nil
}
