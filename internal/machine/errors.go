// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/oops"

	"github.com/holomush/holocards/internal/fault"
)

// Category classifies a machine error.
type Category uint8

// Error categories.
const (
	// ConstraintError marks an invariant violated by data: a missing entity,
	// a full zone, an illegal transition request.
	ConstraintError Category = iota + 1
	// LogicError marks an invariant that correct code never violates.
	LogicError
)

func (c Category) String() string {
	switch c {
	case ConstraintError:
		return "ConstraintError"
	case LogicError:
		return "LogicError"
	default:
		return "unknown"
	}
}

// Error is the error returned by every failing machine operation. It wraps
// the cause chain and carries a deep copy of the machine taken where the
// failure was detected.
type Error struct {
	Category Category
	Snapshot *Machine
	err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.err)
}

// Unwrap returns the cause chain.
func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the root cause code (one of the fault.Code* constants).
func (e *Error) Code() string {
	return fault.Code(e.err)
}

// Stacktrace returns the backtrace captured when the error was wrapped.
func (e *Error) Stacktrace() string {
	if oopsErr, ok := oops.AsOops(e.err); ok {
		return oopsErr.Stacktrace()
	}
	return ""
}

// LogAttrs returns the machine fields worth logging alongside the cause.
func (e *Error) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("category", e.Category.String())}
	if e.Snapshot != nil {
		attrs = append(attrs,
			slog.String("machine_id", e.Snapshot.ID().String()),
			slog.String("state", e.Snapshot.State().String()),
			slog.Int("depth", e.Snapshot.Depth()),
		)
	}
	return attrs
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var me *Error
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

func categorize(code string) Category {
	switch code {
	case fault.CodeStackUnderflow, fault.CodeLogicError:
		return LogicError
	default:
		return ConstraintError
	}
}

// Wrap turns err into an *Error carrying a snapshot of m as it is now.
// Errors that already carry a snapshot are returned unchanged, so the
// snapshot always shows the first point of failure. Errors without a cause
// code are filed as CUSTOM. kv adds key/value context to the chain.
func (m *Machine) Wrap(err error, kv ...any) error {
	if err == nil {
		return nil
	}
	if _, ok := AsError(err); ok {
		return err
	}
	if fault.Code(err) == "" {
		err = fault.Custom(err)
	}
	code := fault.Code(err)
	category := categorize(code)
	recordError(category, code)

	builder := oops.In("machine").
		With("machine_id", m.id.String()).
		With("state", m.state.String()).
		With("depth", m.stack.Len())
	if len(kv) > 0 {
		builder = builder.With(kv...)
	}
	return &Error{
		Category: category,
		Snapshot: m.Clone(),
		err:      builder.Wrap(err),
	}
}
