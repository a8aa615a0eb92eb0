// Copyright (c) 2026 Lurnex. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lurnex/site/internal/content"
	"github.com/lurnex/site/internal/platform/constants"
	"github.com/lurnex/site/internal/taxonomy"
)

func newSlugsCmd(state *app) *cobra.Command {
	slugs := &cobra.Command{
		Use:   "slugs",
		Short: "Manage taxonomy slugs",
	}

	var asJSON bool
	backfill := &cobra.Command{
		Use:   "backfill",
		Short: "Assign slugs to sectors, characters and topics that lack one",
		Long: `Derives a URL slug from each label and stores it on documents without one.
Documents that already have a slug are left alone, so the job can be re-run safely.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(cmd, state, asJSON)
		},
	}
	backfill.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	slugs.AddCommand(backfill)
	return slugs
}

func runBackfill(cmd *cobra.Command, state *app, asJSON bool) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), constants.BackfillTimeout)
	defer cancel()

	backend, err := content.Open(ctx, state.cfg, state.logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	service := taxonomy.NewService(backend.Store, state.logger)
	if backend.Cache != nil {
		service.WithInvalidator(backend.Cache)
	}

	result := service.BackfillSlugs(ctx)

	out := cmd.OutOrStdout()
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		for _, line := range result.Results {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintf(out, "sectors=%d characters=%d topics=%d failed=%d\n",
			result.Summary.Sectors, result.Summary.Characters, result.Summary.Topics, result.Summary.Failed)
	}

	if !result.Success {
		return errors.New(result.Error)
	}
	return nil
}
