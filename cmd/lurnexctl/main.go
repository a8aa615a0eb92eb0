// Copyright (c) 2026 Lurnex. All rights reserved.

// Command lurnexctl runs administrative jobs against the content store.
//
// # Usage
//
//	lurnexctl slugs backfill [--json]
//	lurnexctl migrate up
//	lurnexctl migrate down --steps 1
//
// Configuration is read from the same environment variables as the API.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lurnex/site/internal/platform/config"
	"github.com/lurnex/site/internal/platform/constants"
)

// app carries what every subcommand needs after the root pre-run.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	state := &app{}
	var verbose bool

	root := &cobra.Command{
		Use:          "lurnexctl",
		Short:        "Administrative jobs for the Lurnex content store",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			state.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})).
				With(slog.String(constants.FieldApp, "lurnexctl"))

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			state.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newSlugsCmd(state))
	root.AddCommand(newMigrateCmd(state))
	return root
}
