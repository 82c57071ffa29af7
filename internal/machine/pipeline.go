// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/holomush/holocards/internal/fault"
)

var tracer = otel.Tracer("holocards/machine")

// RunAction resolves one player action: it enters Action(action) from the
// waiting state, resolves Effect(action) through the Pre, Peri and Post
// phases, and comes back to Wait(Input), or to Finished once the game is
// decided. A failed action leaves the machine as it was before the call.
func (m *Machine) RunAction(ctx context.Context, action Event, txn Transaction) (err error) {
	start := time.Now()
	before := m.Clone()
	ctx, span := tracer.Start(ctx, "machine.action",
		trace.WithAttributes(
			attribute.String("action", action.String()),
			attribute.String("machine.id", m.id.String()),
		),
	)
	defer func() {
		status := StatusSuccess
		if err != nil {
			// The error keeps the snapshot of the failure point; the
			// machine itself goes back to where the action began.
			*m = *before
			status = StatusError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		RecordAction(action.String(), status, time.Since(start))
		span.End()
	}()

	if m.state == Finished {
		return m.Wrap(fault.GameFinished())
	}
	if !action.Actionable() {
		return m.Wrap(fault.ConstraintViolation("actionable event", action.String()))
	}
	txn = orEmpty(txn)

	if err := m.Transition(Action(action), txn); err != nil {
		return err
	}
	if err := m.PushDown(Effect(action), txn); err != nil {
		return err
	}
	if err := m.resolve(ctx, action); err != nil {
		return err
	}
	if err := m.PullUp(Action(action)); err != nil {
		return err
	}

	next := Wait(Input)
	g, err := m.Game()
	if err != nil {
		return err
	}
	if g.Finished() {
		next = Finished
	}
	return m.Transition(next, EmptyTxn{})
}

// Recurse resolves a nested effect from inside a trigger phase. It pushes
// RecurseEffect(e) with txn, runs the Pre, Peri and Post phases for e, and
// returns to the calling trigger state before Recurse returns. If the nested
// effect fails, the machine is back in the calling trigger state, so the
// caller may handle the error and carry on.
func (m *Machine) Recurse(ctx context.Context, e Event, txn Transaction) (err error) {
	caller := m.state
	if caller.Kind != KindTrigger {
		return m.Wrap(fault.ConstraintViolation("Trigger(_,_)", caller.String()))
	}
	if limit := m.cfg.MaxRecursion; limit > 0 && m.nesting() >= limit {
		return m.Wrap(fault.RecursionLimit(limit))
	}

	ctx, span := tracer.Start(ctx, "machine.recurse",
		trace.WithAttributes(
			attribute.String("event", e.String()),
			attribute.String("caller", caller.String()),
			attribute.Int("depth", m.stack.Len()),
		),
	)
	saved := m.Clone()
	defer func() {
		if err != nil {
			*m = *saved
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := m.PushDown(RecurseEffect(e), txn); err != nil {
		return err
	}
	if err := m.resolve(ctx, e); err != nil {
		return err
	}
	return m.PullUp(caller)
}

// resolve runs the three trigger phases for e from Effect(e) or
// RecurseEffect(e) and returns to that state.
func (m *Machine) resolve(ctx context.Context, e Event) error {
	effect := m.state
	if err := m.PushDown(Trigger(Pre, e), EmptyTxn{}); err != nil {
		return err
	}
	depth := m.stack.Len()
	if err := m.dispatch(ctx); err != nil {
		return err
	}

	if err := m.Transition(Trigger(Peri, e), EmptyTxn{}); err != nil {
		return err
	}
	if rule := intrinsic(e); rule != nil {
		if err := rule(ctx, m); err != nil {
			return m.Wrap(err, "rule", e.String())
		}
		if err := m.checkClosed(Trigger(Peri, e), depth, "rule", e.String()); err != nil {
			return err
		}
	}
	if err := m.dispatch(ctx); err != nil {
		return err
	}

	if err := m.Transition(Trigger(Post, e), EmptyTxn{}); err != nil {
		return err
	}
	if err := m.dispatch(ctx); err != nil {
		return err
	}
	return m.PullUp(effect)
}

// dispatch runs the listeners filed under the current trigger state.
func (m *Machine) dispatch(ctx context.Context) error {
	at, depth := m.state, m.stack.Len()
	for _, l := range m.triggers.Select(at.Timing, at.Event) {
		err := l.Callback(ctx, m)
		RecordTrigger(at.Timing.String(), at.Event.String())
		if err != nil {
			return m.Wrap(err, "listener", l.Name)
		}
		if err := m.checkClosed(at, depth, "listener", l.Name); err != nil {
			return err
		}
	}
	return nil
}

// checkClosed verifies that code run inside a phase left the machine where
// it found it.
func (m *Machine) checkClosed(at State, depth int, kv ...any) error {
	if m.state != at {
		return m.Wrap(fault.ConstraintViolation(at.String(), m.state.String()), kv...)
	}
	if m.stack.Len() != depth {
		return m.Wrap(fault.LogicError(fmt.Sprintf("stack depth %d after phase, want %d", m.stack.Len(), depth)), kv...)
	}
	return nil
}
