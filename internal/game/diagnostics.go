// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/holomush/holocards/internal/machine"
)

// DiagnosticsSource is the Source of listeners installed by InstallDiagnostics.
const DiagnosticsSource = "diagnostics"

// Sink receives a record for every resolved event.
type Sink func(ctx context.Context, r Record)

// InstallDiagnostics registers a Post listener for every triggerable event
// that logs the resolved event at debug level and hands it to sink, if any.
// The listeners only read the machine.
func InstallDiagnostics(m *machine.Machine, logger *slog.Logger, sink Sink) error {
	for _, e := range machine.Events {
		if !e.Triggerable() {
			continue
		}
		err := m.RegisterTrigger(machine.Listener{
			Timing:   machine.Post,
			Event:    e,
			Name:     "log " + e.String(),
			Source:   DiagnosticsSource,
			Callback: observe(e, logger, sink),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func observe(e machine.Event, logger *slog.Logger, sink Sink) machine.Callback {
	return func(ctx context.Context, m *machine.Machine) error {
		g, err := m.Game()
		if err != nil {
			return err
		}
		turn, _ := g.TurnCount()
		txn, err := m.EffectTransaction()
		if err != nil {
			return err
		}
		r := Record{
			Game:  m.ID(),
			Event: e,
			Txn:   txn,
			Depth: m.Depth(),
			Turn:  turn,
		}
		logger.DebugContext(ctx, "event resolved",
			"event", e.String(),
			"txn", fmt.Sprint(r.Txn),
			"depth", r.Depth,
			"turn", turn,
		)
		if sink != nil {
			sink(ctx, r)
		}
		return nil
	}
}
