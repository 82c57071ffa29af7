// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/holomush/holocards/internal/fault"
	"github.com/holomush/holocards/pkg/errutil"
)

func TestAssertErrorCode_SeesThroughContextWraps(t *testing.T) {
	err := oops.With("listener", "volley").Wrap(fault.MissingEntity(7))
	errutil.AssertErrorCode(t, err, fault.CodeMissingEntity)
}

func TestAssertErrorContext_ComparesAcrossIntegerTypes(t *testing.T) {
	err := fault.MissingEntity(7)
	errutil.AssertErrorContext(t, err, "entity_id", 7)
	errutil.AssertErrorContext(t, err, "entity_id", uint32(7))

	errutil.AssertErrorContext(t, oops.With("card", "Keen Archer").Errorf("no mana"), "card", "Keen Archer")
}
