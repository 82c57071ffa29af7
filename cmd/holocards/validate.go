// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/holocards/internal/card"
	"github.com/holomush/holocards/pkg/errutil"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate card set files without playing",
		Long: `Checks each card set file against the schema, the engine version
constraint and the effect names, and that its cards do not collide with the
core set or with each other. Exits non-zero if any file is invalid.

Useful in CI pipelines:
  holocards validate sets/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args)
		},
	}
}

func runValidate(cmd *cobra.Command, paths []string) error {
	cat := card.Core()
	var errs []error
	for _, path := range paths {
		set, err := card.LoadFile(path)
		if err == nil {
			err = cat.Merge(set)
		}
		if err != nil {
			errutil.LogError(slog.Default(), "card set invalid", err)
			errs = append(errs, err)
			continue
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d cards ok\n", path, set.Len())
	}

	if len(errs) > 0 {
		return oops.Code(card.CodeInvalidCatalog).
			With("invalid", len(errs)).
			Wrapf(errors.Join(errs...), "validation failed: %d of %d card set files invalid", len(errs), len(paths))
	}
	return nil
}
