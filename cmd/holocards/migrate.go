// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/holocards/internal/config"
	"github.com/holomush/holocards/internal/store"
)

// NewMigrateCmd creates the migrate command and its subcommands.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the game history schema",
		Long: `Apply or roll back the PostgreSQL schema that "simulate --record" and
"history" use. Without a subcommand, applies all pending migrations.

The database URL comes from database_url in the config file, --database-url,
or the DATABASE_URL environment variable.`,
		Args: cobra.NoArgs,
		RunE: runMigrateUp,
	}
	config.BindDatabaseFlag(cmd.PersistentFlags())

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrateUp,
	})

	var yes bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration, dropping all recorded games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return oops.Code(config.CodeInvalidConfig).Errorf("down drops all recorded games; pass --yes to confirm")
			}
			return withMigrator(cmd, func(m *store.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "All migrations rolled back")
				return nil
			})
		},
	}
	down.Flags().BoolVar(&yes, "yes", false, "confirm dropping all history")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *store.Migrator) error {
				return printMigrationStatus(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Mark VERSION as applied without running it",
		Long: `Records VERSION as the applied schema version and clears the dirty flag.
Use it only after repairing a failed migration by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseForceVersion(args[0])
			if err != nil {
				return err
			}
			return withMigrator(cmd, func(m *store.Migrator) error {
				if err := m.Force(version); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Forced version %d\n", version)
				return nil
			})
		},
	})

	return cmd
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	return withMigrator(cmd, func(m *store.Migrator) error {
		pending, err := m.Pending()
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		}
		if err := m.Up(); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", len(pending))
		return nil
	})
}

// withMigrator opens a migrator for the configured database and closes it
// after fn.
func withMigrator(cmd *cobra.Command, fn func(*store.Migrator) error) (err error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	url, err := cfg.Database()
	if err != nil {
		return err
	}
	m, err := store.NewMigrator(url)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(m)
}

func printMigrationStatus(cmd *cobra.Command, m *store.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	pending, err := m.Pending()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	name, err := store.MigrationName(version)
	if err != nil {
		return err
	}
	if name == "" {
		name = "none"
	}
	_, _ = fmt.Fprintf(out, "version: %d (%s)\n", version, name)
	_, _ = fmt.Fprintf(out, "dirty:   %t\n", dirty)
	if len(pending) == 0 {
		_, _ = fmt.Fprintln(out, "pending: none")
		return nil
	}
	labels := make([]string, 0, len(pending))
	for _, v := range pending {
		labels = append(labels, strconv.FormatUint(uint64(v), 10))
	}
	_, _ = fmt.Fprintf(out, "pending: %s\n", strings.Join(labels, ", "))
	return nil
}

// parseForceVersion parses the VERSION argument of migrate force.
func parseForceVersion(s string) (int, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, oops.Code("INVALID_VERSION").With("version", s).Errorf("version must be an integer, got %q", s)
	}
	if v < 0 {
		return 0, oops.Code("INVALID_VERSION").With("version", s).Errorf("version must be non-negative, got %d", v)
	}
	return v, nil
}
