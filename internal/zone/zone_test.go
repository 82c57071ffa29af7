// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package zone

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/fault"
	"github.com/holomush/holocards/pkg/errutil"
)

func TestKind_Capacity(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Deck, 30},
		{Hand, 10},
		{Play, 7},
		{Graveyard, Unbounded},
		{SetAside, Unbounded},
		{Void, Unbounded},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Capacity())
		})
	}
}

func TestIndex_PlaceKeepsOrder(t *testing.T) {
	x := NewIndex()
	hand := Key{Owner: 1, Kind: Hand}

	require.NoError(t, x.Place(10, hand, 0))
	require.NoError(t, x.Place(11, hand, 1))
	require.NoError(t, x.Place(12, hand, 1))

	assert.Equal(t, []entity.ID{10, 12, 11}, x.Members(hand))

	pos, ok := x.PositionOf(11)
	require.True(t, ok)
	assert.Equal(t, Position{Key: hand, Index: 2}, pos)
}

func TestIndex_PlaceTwiceFails(t *testing.T) {
	x := NewIndex()
	require.NoError(t, x.Place(5, Key{Owner: 1, Kind: Hand}, 0))

	err := x.Place(5, Key{Owner: 1, Kind: Play}, 0)
	errutil.AssertErrorCode(t, err, fault.CodeConstraintViolation)
}

func TestIndex_PlaceOutOfRange(t *testing.T) {
	x := NewIndex()
	err := x.Place(5, Key{Owner: 1, Kind: Hand}, 3)
	errutil.AssertErrorCode(t, err, fault.CodeConstraintViolation)

	_, ok := x.PositionOf(5)
	assert.False(t, ok)
}

func TestIndex_PlaceFullZone(t *testing.T) {
	x := NewIndex()
	play := Key{Owner: 1, Kind: Play}
	for i := range 7 {
		require.NoError(t, x.Place(entity.ID(i+10), play, i))
	}

	err := x.Place(99, play, 7)
	errutil.AssertErrorCode(t, err, fault.CodeCapacityExceeded)
	errutil.AssertErrorContext(t, err, "max", 7)
	assert.Equal(t, 7, x.Len(play))
}

func TestIndex_MoveToIsExclusive(t *testing.T) {
	x := NewIndex()
	deck := Key{Owner: 1, Kind: Deck}
	hand := Key{Owner: 1, Kind: Hand}
	require.NoError(t, x.Place(3, deck, 0))
	require.NoError(t, x.Place(4, deck, 1))

	require.NoError(t, x.MoveTo(4, hand))

	assert.Equal(t, []entity.ID{3}, x.Members(deck))
	assert.Equal(t, []entity.ID{4}, x.Members(hand))
	pos, _ := x.PositionOf(4)
	assert.Equal(t, hand, pos.Key)
}

func TestIndex_MoveToFullLeavesSource(t *testing.T) {
	x := NewIndex()
	hand := Key{Owner: 1, Kind: Hand}
	deck := Key{Owner: 1, Kind: Deck}
	for i := range 10 {
		require.NoError(t, x.MoveTo(entity.ID(i+100), hand))
	}
	require.NoError(t, x.Place(1, deck, 0))

	err := x.MoveTo(1, hand)
	errutil.AssertErrorCode(t, err, fault.CodeCapacityExceeded)

	pos, ok := x.PositionOf(1)
	require.True(t, ok)
	assert.Equal(t, deck, pos.Key)
}

func TestIndex_MoveToSameZoneAppends(t *testing.T) {
	x := NewIndex()
	hand := Key{Owner: 1, Kind: Hand}
	require.NoError(t, x.MoveTo(1, hand))
	require.NoError(t, x.MoveTo(2, hand))
	require.NoError(t, x.MoveTo(1, hand))

	assert.Equal(t, []entity.ID{2, 1}, x.Members(hand))
}

func TestIndex_Top(t *testing.T) {
	x := NewIndex()
	deck := Key{Owner: 2, Kind: Deck}
	_, ok := x.Top(deck)
	assert.False(t, ok)

	require.NoError(t, x.MoveTo(7, deck))
	require.NoError(t, x.MoveTo(8, deck))
	top, ok := x.Top(deck)
	assert.True(t, ok)
	assert.Equal(t, entity.ID(8), top)
}

func TestIndex_ShuffleIsDeterministicForSeed(t *testing.T) {
	build := func() *Index {
		x := NewIndex()
		for i := range 20 {
			_ = x.MoveTo(entity.ID(i), Key{Owner: 1, Kind: Deck})
		}
		return x
	}
	a, b := build(), build()
	a.Shuffle(Key{Owner: 1, Kind: Deck}, rand.New(rand.NewPCG(1, 2)))
	b.Shuffle(Key{Owner: 1, Kind: Deck}, rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, a.Members(Key{Owner: 1, Kind: Deck}), b.Members(Key{Owner: 1, Kind: Deck}))
	assert.ElementsMatch(t, build().Members(Key{Owner: 1, Kind: Deck}), a.Members(Key{Owner: 1, Kind: Deck}))
}

func TestIndex_CloneIsDeep(t *testing.T) {
	x := NewIndex()
	hand := Key{Owner: 1, Kind: Hand}
	require.NoError(t, x.MoveTo(1, hand))

	c := x.Clone()
	require.NoError(t, x.MoveTo(2, hand))
	require.NoError(t, x.MoveTo(1, Key{Owner: 1, Kind: Void}))

	assert.Equal(t, []entity.ID{1}, c.Members(hand))
	pos, _ := c.PositionOf(1)
	assert.Equal(t, hand, pos.Key)
}

func TestIndex_MoveToPosition(t *testing.T) {
	x := NewIndex()
	hand := Key{Owner: 1, Kind: Hand}
	play := Key{Owner: 1, Kind: Play}
	require.NoError(t, x.MoveTo(1, play))
	require.NoError(t, x.MoveTo(2, play))
	require.NoError(t, x.MoveTo(3, hand))

	require.NoError(t, x.Move(3, play, 1))
	assert.Equal(t, []entity.ID{1, 3, 2}, x.Members(play))
	assert.Zero(t, x.Len(hand))

	require.NoError(t, x.Move(1, play, 2))
	assert.Equal(t, []entity.ID{3, 2, 1}, x.Members(play))

	err := x.Move(2, hand, 4)
	errutil.AssertErrorCode(t, err, fault.CodeConstraintViolation)
	assert.Equal(t, []entity.ID{3, 2, 1}, x.Members(play))
}
