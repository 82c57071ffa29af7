// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode asserts that err is an oops error whose code is code.
// Wrapping layers that add only context do not hide the code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	oopsErr := requireOops(t, err)
	assert.Equalf(t, code, oopsErr.Code(), "code of %q", err)
}

// AssertErrorContext asserts that err carries key in its oops context with a
// value equal to value. Numeric values compare across integer types.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	ctx := requireOops(t, err).Context()
	if assert.Containsf(t, ctx, key, "context of %q", err) {
		assert.EqualValuesf(t, value, ctx[key], "context %q of %q", key, err)
	}
}

func requireOops(t *testing.T, err error) oops.OopsError {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.Truef(t, ok, "expected oops error, got %T: %v", err, err)
	return oopsErr
}
