// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// AttrError is implemented by errors that carry extra structured fields
// worth logging, such as the state a machine failed in.
type AttrError interface {
	error
	LogAttrs() []slog.Attr
}

// LogError logs an error with structured context if it's an oops error.
// For oops errors, it extracts and logs the message, code, and context.
// Errors in the chain implementing AttrError add their attributes.
// For standard errors, it logs the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	var attrs []any
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs = append(attrs, "error", err.Error())
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
	} else {
		attrs = append(attrs, "error", err)
	}

	var ae AttrError
	if errors.As(err, &ae) {
		for _, a := range ae.LogAttrs() {
			attrs = append(attrs, a)
		}
	}
	logger.Error(msg, attrs...)
}
