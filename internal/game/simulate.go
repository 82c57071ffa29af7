// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package game

import (
	"context"

	"github.com/holomush/holocards/internal/machine"
)

// Simulate starts the game if it is still waiting to start, then passes the
// turn up to turns times, stopping early once the game is decided or ctx is
// done. It returns the board at the point it stopped.
func (h *Host) Simulate(ctx context.Context, turns int) (Board, error) {
	if h.m.State() == machine.Wait(machine.Start) {
		if err := h.Start(ctx); err != nil {
			return Board{}, err
		}
	}
	for range turns {
		if h.m.Finished() {
			break
		}
		if err := ctx.Err(); err != nil {
			return Board{}, err //nolint:wrapcheck // context errors pass through
		}
		if err := h.EndTurn(ctx); err != nil {
			return Board{}, err
		}
	}
	return h.Board()
}
