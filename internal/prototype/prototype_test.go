// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package prototype

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/fault"
	"github.com/holomush/holocards/pkg/errutil"
)

func newGameStore(t *testing.T, players uint32) *entity.Store {
	t.Helper()
	s := entity.NewStore(16)
	id, err := s.Allocate()
	require.NoError(t, err)
	require.NoError(t, InstallGame(s, id, players))
	for ord := uint32(1); ord <= players; ord++ {
		pid, err := s.Allocate()
		require.NoError(t, err)
		require.NoError(t, InstallPlayer(s, pid, ord))
	}
	return s
}

func TestGame_AdvanceCurrentPlayerWraps(t *testing.T) {
	s := newGameStore(t, 3)
	g, err := MutateGame(s, entity.GameID)
	require.NoError(t, err)
	require.NoError(t, g.SetCurrentPlayerOrd(1))

	var seen []uint32
	for range 4 {
		next, err := g.AdvanceCurrentPlayer()
		require.NoError(t, err)
		seen = append(seen, next)
	}
	assert.Equal(t, []uint32{2, 3, 1, 2}, seen)
}

func TestGame_AdvanceWithoutCurrentPlayer(t *testing.T) {
	s := newGameStore(t, 2)
	g, err := MutateGame(s, entity.GameID)
	require.NoError(t, err)

	_, err = g.AdvanceCurrentPlayer()
	errutil.AssertErrorCode(t, err, fault.CodeMissingProperty)
	errutil.AssertErrorContext(t, err, "property", "CurrentPlayerOrd")
}

func TestGame_SetCurrentPlayerOutOfRange(t *testing.T) {
	s := newGameStore(t, 2)
	g, _ := MutateGame(s, entity.GameID)

	err := g.SetCurrentPlayerOrd(3)
	errutil.AssertErrorCode(t, err, fault.CodeConstraintViolation)
}

func TestGame_Decide(t *testing.T) {
	s := newGameStore(t, 2)
	g, _ := MutateGame(s, entity.GameID)
	assert.False(t, g.Finished())

	g.Decide(2)

	assert.True(t, g.Finished())
	winner, ok := g.Winner()
	assert.True(t, ok)
	assert.Equal(t, uint32(2), winner)
}

func TestReadGame_WrongPrototype(t *testing.T) {
	s := newGameStore(t, 2)

	_, err := ReadGame(s, 1)
	errutil.AssertErrorCode(t, err, fault.CodeMissingPrototype)
	errutil.AssertErrorContext(t, err, "prototype", "Game")
}

func TestReadGame_MissingEntity(t *testing.T) {
	s := entity.NewStore(2)
	_, err := ReadGame(s, entity.GameID)
	errutil.AssertErrorCode(t, err, fault.CodeMissingEntity)
}

func TestPlayer_Defaults(t *testing.T) {
	s := newGameStore(t, 2)
	p, err := ReadPlayer(s, 2)
	require.NoError(t, err)

	ord, err := p.Ord()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), ord)

	health, _ := p.Health()
	assert.Equal(t, uint32(DefaultHealth), health)
	size, _ := p.InitialHandSize()
	assert.Equal(t, uint32(DefaultInitialHandSize), size)
}

func TestPlayer_DamageAndHeal(t *testing.T) {
	s := newGameStore(t, 2)
	p, _ := MutatePlayer(s, 1)

	left, err := p.TakeDamage(12)
	require.NoError(t, err)
	assert.Equal(t, uint32(18), left)

	healed, err := p.Heal(100)
	require.NoError(t, err)
	assert.Equal(t, uint32(DefaultHealth), healed)

	_, _ = p.TakeDamage(5)
	healed, err = p.Heal(math.MaxUint32)
	require.NoError(t, err)
	assert.Equal(t, uint32(DefaultHealth), healed, "large heals must not wrap")

	left, _ = p.TakeDamage(99)
	assert.Zero(t, left)
	defeated, _ := p.Defeated()
	assert.True(t, defeated)
}

func TestPlayer_ManaCycle(t *testing.T) {
	s := newGameStore(t, 2)
	p, _ := MutatePlayer(s, 1)

	for range 12 {
		require.NoError(t, p.RefreshMana())
	}
	crystals, _ := p.MaxMana()
	assert.Equal(t, uint32(MaxMana), crystals)

	require.NoError(t, p.Spend(4))
	mana, _ := p.Mana()
	assert.Equal(t, uint32(6), mana)

	err := p.Spend(7)
	errutil.AssertErrorCode(t, err, fault.CodeConstraintViolation)
	mana, _ = p.Mana()
	assert.Equal(t, uint32(6), mana, "failed spend must not change mana")
}

func TestPlayer_Fatigue(t *testing.T) {
	s := newGameStore(t, 2)
	p, _ := MutatePlayer(s, 1)

	first, _ := p.AddFatigue()
	second, _ := p.AddFatigue()
	assert.Equal(t, uint32(1), first)
	assert.Equal(t, uint32(2), second)
}

func TestMinion_InstallAndDamage(t *testing.T) {
	s := newGameStore(t, 2)
	id, err := s.Allocate()
	require.NoError(t, err)
	_, _, _ = s.SetProperty(id, entity.Attack, 3)
	_, _, _ = s.SetProperty(id, entity.Health, 2)
	require.NoError(t, InstallCard(s, id, 1, true))

	m, err := MutateMinion(s, id)
	require.NoError(t, err)
	attack, _ := m.Attack()
	assert.Equal(t, uint32(3), attack)
	assert.True(t, m.Exhausted())
	owner, _ := m.Owner()
	assert.Equal(t, entity.ID(1), owner)

	left, err := m.TakeDamage(5)
	require.NoError(t, err)
	assert.Zero(t, left)

	m.SetExhausted(false)
	assert.False(t, m.Exhausted())
}

func TestSpell_IsNotMinion(t *testing.T) {
	s := newGameStore(t, 2)
	id, _ := s.Allocate()
	require.NoError(t, InstallCard(s, id, 2, false))

	c, err := ReadCard(s, id)
	require.NoError(t, err)
	assert.False(t, c.IsMinion())

	_, err = ReadMinion(s, id)
	errutil.AssertErrorCode(t, err, fault.CodeMissingPrototype)
	ok, _ := s.HasPrototype(id, entity.PrototypeSpell)
	assert.True(t, ok)
}
