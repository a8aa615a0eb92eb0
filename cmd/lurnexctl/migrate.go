// Copyright (c) 2026 Lurnex. All rights reserved.

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/lurnex/site/internal/platform/config"
	"github.com/lurnex/site/internal/platform/migration"
)

var errNotPostgres = errors.New("migrations apply only to CONTENT_STORE=postgres")

func newMigrateCmd(state *app) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back content store migrations",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			if state.cfg.ContentStore != config.StorePostgres {
				return errNotPostgres
			}
			return nil
		},
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migration.RunUp(state.cfg.DatabaseURL, state.cfg.MigrationPath, state.logger)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migration.RunDown(state.cfg.DatabaseURL, state.cfg.MigrationPath, steps, state.logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	migrate.AddCommand(up, down)
	return migrate
}
