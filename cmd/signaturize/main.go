// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command signaturize prints, saves and compares the structural signatures
// of the struct types in a Go or Rust source tree.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-signaturize/internal/logger"
	"github.com/petar-djukic/go-signaturize/pkg/signaturize"
)

const version = "0.1.0"

// envReplacer maps flag names to environment variable suffixes.
var envReplacer = strings.NewReplacer("-", "_")

// errChanges is returned by diff --exit-code when signatures differ.
var errChanges = errors.New("signatures changed")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	err := newRootCmd().ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, errChanges):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}

// newRootCmd builds the command tree with its own viper instance.
func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "signaturize",
		Short:         "Structural signatures for struct types",
		Long:          "signaturize renders the shape of each struct type in a Go or Rust source tree as a canonical signature, and reports how those shapes change between revisions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v); err != nil {
				return err
			}
			l := logger.New(logger.Config{
				Level:  v.GetString("log-level"),
				JSON:   v.GetBool("log-json"),
				Output: cmd.ErrOrStderr(),
			})
			cmd.SetContext(logger.WithContext(cmd.Context(), l))
			return nil
		},
	}

	// Global flags.
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default <dir>/.signaturize.yaml)")
	flags.String("dir", ".", "Source root directory")
	flags.String("lang", signaturize.LangGo, "Source language: go or rust")
	flags.Bool("marked-only", false, "Only types carrying the generate marker")
	flags.Bool("fail-fast", false, "Stop at the first type that cannot be generated")
	flags.Int("concurrency", 0, "Parser goroutines (0 = number of CPUs)")
	flags.StringSlice("exclude", nil, "Doublestar pattern of files to leave out (repeatable)")
	flags.StringSlice("leaf", nil, "Extra primitive leaf as spelling=name, e.g. time.Time=Timestamp (repeatable)")
	flags.String("log-level", logger.InfoLevel, "Log level: debug, info, warn or error")
	flags.Bool("log-json", false, "Log as JSON lines")

	// Bind flags to viper.
	for _, name := range []string{"config", "dir", "lang", "marked-only", "fail-fast", "concurrency", "exclude", "leaf", "log-level", "log-json"} {
		v.BindPFlag(name, flags.Lookup(name))
	}

	// Env vars: SIGNATURIZE_DIR, SIGNATURIZE_LANG, etc.
	v.SetEnvPrefix("SIGNATURIZE")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	// Add commands.
	rootCmd.AddCommand(newGenerateCmd(v))
	rootCmd.AddCommand(newDiffCmd(v))
	rootCmd.AddCommand(newLeavesCmd(v))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig reads the optional config file. An explicit --config must
// exist; the default location may be absent.
func loadConfig(v *viper.Viper) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigFile(filepath.Join(v.GetString("dir"), ".signaturize.yaml"))
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// baseConfig builds the generator config shared by all commands. Leaves
// are spelling=name pairs; viper folds map keys to lower case.
func baseConfig(v *viper.Viper) (signaturize.Config, error) {
	cfg := signaturize.Config{
		Dir:         v.GetString("dir"),
		Lang:        v.GetString("lang"),
		MarkedOnly:  v.GetBool("marked-only"),
		FailFast:    v.GetBool("fail-fast"),
		Concurrency: v.GetInt("concurrency"),
		Exclude:     v.GetStringSlice("exclude"),
	}
	for _, pair := range v.GetStringSlice("leaf") {
		spelling, leaf, ok := strings.Cut(pair, "=")
		if !ok {
			return cfg, fmt.Errorf("leaf %q: want spelling=name", pair)
		}
		if cfg.Leaves == nil {
			cfg.Leaves = make(map[string]string)
		}
		cfg.Leaves[strings.TrimSpace(spelling)] = strings.TrimSpace(leaf)
	}
	return cfg, nil
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print signaturize version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "signaturize %s\n", version)
		},
	}
}
