// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/holocards/internal/config"
	"github.com/holomush/holocards/internal/store"
)

// eventPage is how many events history show reads per query.
const eventPage = 500

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List games stored by simulate --record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 1 {
				return oops.Code(config.CodeInvalidConfig).Errorf("limit must be at least 1, got %d", limit)
			}
			return withHistory(cmd, func(h *store.History) error {
				games, err := h.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return renderGames(cmd.OutOrStdout(), games)
			})
		},
	}
	config.BindDatabaseFlag(cmd.PersistentFlags())
	cmd.Flags().IntVar(&limit, "limit", 20, "number of games to list")

	var events bool
	show := &cobra.Command{
		Use:   "show GAME",
		Short: "Print a recorded game's final board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, func(h *store.History) error {
				g, err := h.Game(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if err := g.Board.Render(out); err != nil {
					return err //nolint:wrapcheck // io passthrough
				}
				if !events {
					return nil
				}
				var after uint64
				for {
					page, err := h.Events(cmd.Context(), g.ID, after, eventPage)
					if err != nil {
						return err
					}
					for _, e := range page {
						_, _ = fmt.Fprintln(out, e)
						after = e.Seq
					}
					if len(page) < eventPage {
						return nil
					}
				}
			})
		},
	}
	show.Flags().BoolVar(&events, "events", false, "also print the event log")
	cmd.AddCommand(show)

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete recorded games older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return oops.Code(config.CodeInvalidConfig).Errorf("--older-than must be positive, got %s", olderThan)
			}
			return withHistory(cmd, func(h *store.History) error {
				n, err := h.Prune(cmd.Context(), time.Now().Add(-olderThan))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d game(s)\n", n)
				return nil
			})
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of the newest game to delete")
	cmd.AddCommand(prune)

	return cmd
}

// withHistory connects to the configured database for the length of fn.
func withHistory(cmd *cobra.Command, fn func(*store.History) error) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	url, err := cfg.Database()
	if err != nil {
		return err
	}
	pool, err := store.Open(cmd.Context(), url)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(store.NewHistory(pool))
}

func renderGames(out io.Writer, games []store.Game) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(out, "No recorded games")
		return err //nolint:wrapcheck // io passthrough
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "GAME\tPLAYED\tOUTCOME\tTURNS\tWINNER\tPLAYERS")
	for _, g := range games {
		names := make([]string, 0, len(g.Board.Seats))
		winner := "-"
		for _, s := range g.Board.Seats {
			names = append(names, s.Name)
			if g.Board.Winner != 0 && s.Ord == g.Board.Winner {
				winner = s.Name
			}
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			g.ID, g.PlayedAt.Format(time.DateTime), g.Outcome, g.Board.Turn, winner, strings.Join(names, ", "))
	}
	return w.Flush() //nolint:wrapcheck // io passthrough
}
