// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/holomush/holocards/internal/card"
	"github.com/holomush/holocards/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the holocards CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holocards",
		Short: "holocards - a card game engine and simulator",
		Long: `holocards runs card games on a pushdown state machine: every action
resolves through Pre, Peri and Post trigger phases, and cards react to the
events they listen for. Card sets load from YAML files next to the core set.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/holocards/config.yaml)")

	cmd.AddCommand(NewSimulateCmd())
	cmd.AddCommand(NewCardsCmd())
	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// loadCatalog returns the core set merged with every file in paths and every
// *.yaml file in the catalog directory.
func loadCatalog(paths []string) (*card.Catalog, error) {
	found, err := filepath.Glob(filepath.Join(xdg.CatalogDir(), "*.yaml"))
	if err != nil {
		return nil, err //nolint:wrapcheck // only ErrBadPattern, and the pattern is fixed
	}

	cat := card.Core()
	for _, path := range slices.Concat(paths, found) {
		set, err := card.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := cat.Merge(set); err != nil {
			return nil, err
		}
	}
	return cat, nil
}
