// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/holocards/internal/card"
	"github.com/holomush/holocards/internal/xdg"
)

// NewSchemaCmd creates the schema subcommand.
func NewSchemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of card set files",
		Long: `Print the JSON Schema that card set files are validated against.
Point an editor's YAML language server at it for completion:
  holocards schema -o ~/.local/share/holocards/cardset.schema.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := card.GenerateSchema()
			if err != nil {
				return err
			}
			if output == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
				return nil
			}
			return writeSchema(output, schema)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}

func writeSchema(path string, schema []byte) error {
	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, append(schema, '\n'), 0o600); err != nil {
		return oops.With("path", path).Wrap(err)
	}
	return nil
}
