// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/holomush/holocards/internal/card"
)

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "holocards %s\n", version)
			_, _ = fmt.Fprintf(out, "  commit:  %s\n", commit)
			_, _ = fmt.Fprintf(out, "  built:   %s\n", date)
			_, _ = fmt.Fprintf(out, "  engine:  %s\n", card.EngineVersion)
			return nil
		},
	}
}
