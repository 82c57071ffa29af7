// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package card

import (
	"github.com/samber/oops"
)

// Error codes for catalog failures.
const (
	CodeInvalidCard    = "INVALID_CARD"
	CodeDuplicateCard  = "DUPLICATE_CARD"
	CodeCardNotFound   = "CARD_NOT_FOUND"
	CodeUnknownEffect  = "UNKNOWN_EFFECT"
	CodeInvalidCatalog = "INVALID_CATALOG"
	CodeEngineMismatch = "ENGINE_MISMATCH"
	CodeInvalidPattern = "INVALID_PATTERN"
)

// ErrCardNotFound creates an error for a lookup that matched nothing.
func ErrCardNotFound(key string) error {
	return oops.Code(CodeCardNotFound).
		With("card", key).
		Errorf("no card %s in catalog", key)
}

// ErrDuplicateCard creates an error for a ref or name registered twice.
func ErrDuplicateCard(field, value string) error {
	return oops.Code(CodeDuplicateCard).
		With(field, value).
		Errorf("card %s %q is already registered", field, value)
}

// ErrUnknownEffect creates an error for a catalog entry naming an effect
// the engine does not provide.
func ErrUnknownEffect(name string) error {
	return oops.Code(CodeUnknownEffect).
		With("effect", name).
		Errorf("unknown effect %q", name)
}
