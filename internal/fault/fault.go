// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package fault defines the root causes raised by the card engine runtime.
//
// Every cause is an oops error carrying one of the Code* constants and the
// identifying values as context. The machine package wraps causes with a
// category and a frozen snapshot of the machine.
package fault

import (
	"github.com/samber/oops"
)

// Cause codes.
const (
	CodeMissingEntity       = "MISSING_ENTITY"
	CodeMissingPrototype    = "MISSING_PROTOTYPE"
	CodeMissingProperty     = "MISSING_PROPERTY"
	CodeStackUnderflow      = "STACK_UNDERFLOW"
	CodeCapacityExceeded    = "CAPACITY_EXCEEDED"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeLogicError          = "LOGIC_ERROR"
	CodeCustom              = "CUSTOM"
	CodeGameFinished        = "GAME_FINISHED"
	CodeRecursionLimit      = "RECURSION_LIMIT"
)

// MissingEntity creates an error for an entity id that is not allocated.
func MissingEntity(id uint32) error {
	return oops.Code(CodeMissingEntity).
		With("entity_id", id).
		Errorf("missing entity %d", id)
}

// MissingPrototype creates an error for an entity that lacks a prototype tag.
func MissingPrototype(id uint32, tag string) error {
	return oops.Code(CodeMissingPrototype).
		With("entity_id", id).
		With("prototype", tag).
		Errorf("entity %d has no %s prototype", id, tag)
}

// MissingProperty creates an error for a property key absent on its owner.
func MissingProperty(owner uint32, key string) error {
	return oops.Code(CodeMissingProperty).
		With("entity_id", owner).
		With("property", key).
		Errorf("entity %d has no property %s", owner, key)
}

// StackUnderflow creates an error for a pop on an empty transaction stack.
func StackUnderflow() error {
	return oops.Code(CodeStackUnderflow).Errorf("popped empty stack")
}

// CapacityExceeded creates an error for a container that is already full.
func CapacityExceeded(limit int) error {
	return oops.Code(CodeCapacityExceeded).
		With("max", limit).
		Errorf("capacity exceeded (max %d)", limit)
}

// ConstraintViolation creates an error for a value that disagrees with what
// the operation required.
func ConstraintViolation(expected, got string) error {
	return oops.Code(CodeConstraintViolation).
		With("expected", expected).
		With("got", got).
		Errorf("constraint violation: expected %s, got %s", expected, got)
}

// LogicError creates an error for an invariant that should hold in correct code.
func LogicError(msg string) error {
	return oops.Code(CodeLogicError).Errorf("logic error: %s", msg)
}

// Custom wraps an error raised by caller-supplied code.
func Custom(err error) error {
	return oops.Code(CodeCustom).Wrap(err)
}

// GameFinished creates an error for an action issued after the game ended.
func GameFinished() error {
	return oops.Code(CodeGameFinished).Errorf("game is finished")
}

// RecursionLimit creates an error for nested effects deeper than allowed.
func RecursionLimit(limit int) error {
	return oops.Code(CodeRecursionLimit).
		With("limit", limit).
		Errorf("nested effect depth exceeds %d", limit)
}

// Code returns the oops code of err, or "" when err carries none.
func Code(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		code, _ := oopsErr.Code().(string)
		return code
	}
	return ""
}

// Is reports whether err carries the given cause code.
func Is(err error, code string) bool {
	return err != nil && Code(err) == code
}
