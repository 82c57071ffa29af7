// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/holocards/internal/card"
	"github.com/holomush/holocards/internal/config"
	"github.com/holomush/holocards/internal/game"
	"github.com/holomush/holocards/internal/logging"
	"github.com/holomush/holocards/internal/observability"
	"github.com/holomush/holocards/internal/store"
)

// simulateConfig holds the flags of the simulate command that are not
// game settings.
type simulateConfig struct {
	jsonOutput  bool
	follow      bool
	record      bool
	games       int
	metricsAddr string
}

// Validate checks that the configuration is valid.
func (cfg *simulateConfig) Validate() error {
	if cfg.games < 1 {
		return oops.Code(config.CodeInvalidConfig).Errorf("games must be at least 1, got %d", cfg.games)
	}
	return nil
}

// NewSimulateCmd creates the simulate subcommand.
func NewSimulateCmd() *cobra.Command {
	cfg := &simulateConfig{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Deal a game and pass turns until it is decided",
		Long: `Deal decks from the card catalog, start the game, and end turns until a
player falls or the turn limit is reached. Prints the final board.

Each extra game (--games) uses the next seed. With --record, every game and
its event log is stored in the history database (see "holocards migrate").`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, cfg)
		},
	}

	config.BindFlags(cmd.Flags())
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output boards as JSON")
	cmd.Flags().BoolVar(&cfg.follow, "follow", false, "print every resolved event")
	cmd.Flags().BoolVar(&cfg.record, "record", false, "store games in the history database")
	cmd.Flags().IntVar(&cfg.games, "games", 1, "number of games to simulate")
	cmd.Flags().StringVar(&cfg.metricsAddr, "metrics-addr", "", "metrics/health HTTP address (empty = disabled)")

	return cmd
}

// runSimulate executes the simulate command.
func runSimulate(cmd *cobra.Command, sc *simulateConfig) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Logging("simulate", version))

	cat, err := loadCatalog(cfg.Catalogs)
	if err != nil {
		return err
	}

	var history *store.History
	if sc.record {
		url, err := cfg.Database()
		if err != nil {
			return err
		}
		pool, err := store.Open(cmd.Context(), url)
		if err != nil {
			return err
		}
		defer pool.Close()
		history = store.NewHistory(pool)
	}

	var metrics *observability.Metrics
	if sc.metricsAddr != "" {
		var ready atomic.Bool
		srv := observability.NewServer(sc.metricsAddr, ready.Load)
		if _, err := srv.Start(); err != nil {
			return err //nolint:wrapcheck // Start returns oops errors
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				logger.Warn("failed to stop observability server", "error", err)
			}
		}()
		metrics = srv.Metrics()
		ready.Store(true)
	}

	boards := make([]game.Board, 0, sc.games)
	for i := range sc.games {
		gc := cfg.Game()
		gc.Seed += uint64(i)
		b, records, err := playOne(cmd.Context(), gc, cat, cfg.Turns, logger, followWriter(cmd, sc), sc.record)
		if err != nil {
			return err
		}
		if history != nil {
			g := store.Game{ID: b.Game, Seed: gc.Seed, Outcome: outcome(b), Board: b}
			if err := history.Record(cmd.Context(), g, records); err != nil {
				return err
			}
			logger.Info("game recorded", "game_id", b.Game, "events", len(records))
		}
		if metrics != nil {
			metrics.RecordGame(outcome(b), b.Turn)
		}
		boards = append(boards, b)
	}

	out := cmd.OutOrStdout()
	if sc.jsonOutput {
		data, err := json.MarshalIndent(boards, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal boards: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	for _, b := range boards {
		if err := b.Render(out); err != nil {
			return err //nolint:wrapcheck // io passthrough
		}
	}
	return nil
}

func followWriter(cmd *cobra.Command, sc *simulateConfig) io.Writer {
	if !sc.follow {
		return nil
	}
	return cmd.OutOrStdout()
}

const eventsPerTurn = 64

// playOne hosts one game and simulates it. With follow set, resolved events
// are printed as they are published; with keep set, they are returned.
func playOne(ctx context.Context, gc game.Config, cat *card.Catalog, turns int, logger *slog.Logger, follow io.Writer, keep bool) (game.Board, []game.Record, error) {
	h, err := game.New(gc, cat, logger)
	if err != nil {
		return game.Board{}, nil, err
	}

	var (
		wg   sync.WaitGroup
		kept []game.Record
	)
	if follow != nil || keep {
		// Room for every record a game of this length is likely to publish.
		records := h.Feed().Subscribe(max(game.DefaultFeedBuffer, eventsPerTurn*(turns+1)))
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range records {
				if follow != nil {
					_, _ = fmt.Fprintln(follow, r)
				}
				if keep {
					kept = append(kept, r)
				}
			}
		}()
	}

	b, err := h.Simulate(ctx, turns)
	h.Feed().Close()
	wg.Wait()
	return b, kept, err
}

// outcome classifies a simulated game for metrics.
func outcome(b game.Board) string {
	switch {
	case !b.Finished:
		return observability.OutcomeUnfinished
	case b.Winner == 0:
		return observability.OutcomeDraw
	default:
		return observability.OutcomeWin
	}
}
