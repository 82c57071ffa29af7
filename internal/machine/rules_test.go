// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/fault"
	"github.com/holomush/holocards/internal/zone"
	"github.com/holomush/holocards/pkg/errutil"
)

const (
	p1 entity.ID = 1
	p2 entity.ID = 2
)

func key(owner entity.ID, kind zone.Kind) zone.Key {
	return zone.Key{Owner: owner, Kind: kind}
}

func readyMinion(t *testing.T, m *Machine, owner entity.ID, attack, health uint32) entity.ID {
	t.Helper()
	id := addMinion(t, m, owner, zone.Play, 0, attack, health)
	mn, err := m.MinionMut(id)
	require.NoError(t, err)
	mn.SetExhausted(false)
	return id
}

func TestStartGame_OpeningHands(t *testing.T) {
	m := startedMachine(t)

	assert.Equal(t, Wait(Input), m.State())
	assert.Equal(t, 0, m.Depth())
	assert.Equal(t, uint32(1), mustProperty(t, m, entity.GameID, entity.CurrentPlayerOrd))
	assert.Equal(t, uint32(1), mustProperty(t, m, entity.GameID, entity.TurnCount))

	for _, p := range []entity.ID{p1, p2} {
		assert.Equal(t, 3, m.Zones().Len(key(p, zone.Hand)))
		assert.Equal(t, 2, m.Zones().Len(key(p, zone.Deck)))
		assert.Equal(t, uint32(0), mustProperty(t, m, p, entity.Fatigue))
	}
	assert.Equal(t, uint32(1), mustProperty(t, m, p1, entity.Mana))
	assert.Equal(t, uint32(0), mustProperty(t, m, p2, entity.Mana))
}

func TestStartGame_OnlyOnce(t *testing.T) {
	m := startedMachine(t)
	err := m.StartGame(context.Background())
	errutil.AssertErrorCode(t, err, fault.CodeConstraintViolation)
	assert.Equal(t, Wait(Input), m.State())
}

func TestEndTurn_DrawsAndRefreshes(t *testing.T) {
	m := startedMachine(t)
	require.NoError(t, m.EndTurn(context.Background()))

	assert.Equal(t, uint32(2), mustProperty(t, m, entity.GameID, entity.CurrentPlayerOrd))
	assert.Equal(t, uint32(2), mustProperty(t, m, entity.GameID, entity.TurnCount))
	assert.Equal(t, 4, m.Zones().Len(key(p2, zone.Hand)))
	assert.Equal(t, uint32(1), mustProperty(t, m, p2, entity.Mana))
	assert.Equal(t, 3, m.Zones().Len(key(p1, zone.Hand)))
}

func TestEndTurn_ReadiesMinions(t *testing.T) {
	m := startedMachine(t)
	minion := addMinion(t, m, p2, zone.Play, 0, 1, 1)
	assert.Equal(t, uint32(1), mustProperty(t, m, minion, entity.Exhausted))

	require.NoError(t, m.EndTurn(context.Background()))
	assert.Equal(t, uint32(0), mustProperty(t, m, minion, entity.Exhausted))
}

func TestEndTurn_SkipsDefeatedPlayers(t *testing.T) {
	m := newTestMachine(t, "P1", "P2", "P3")
	require.NoError(t, m.StartGame(context.Background()))
	_, _, err := m.SetProperty(2, entity.Health, 0)
	require.NoError(t, err)

	require.NoError(t, m.EndTurn(context.Background()))
	assert.Equal(t, uint32(3), mustProperty(t, m, entity.GameID, entity.CurrentPlayerOrd))
}

func TestPlayCard_Minion(t *testing.T) {
	m := startedMachine(t)
	card := m.Zones().Members(key(p1, zone.Hand))[0]

	var summoned []entity.ID
	require.NoError(t, m.On(Post, Summon, "watch", func(_ context.Context, m *Machine) error {
		txn, err := Payload[SubjectTxn](m)
		summoned = append(summoned, txn.Entity)
		return err
	}))

	require.NoError(t, m.PlayCard(context.Background(), card, 0))

	pos, ok := m.Zones().PositionOf(card)
	require.True(t, ok)
	assert.Equal(t, key(p1, zone.Play), pos.Key)
	assert.Equal(t, uint32(0), mustProperty(t, m, p1, entity.Mana))
	assert.Equal(t, uint32(1), mustProperty(t, m, card, entity.Exhausted))
	assert.Equal(t, []entity.ID{card}, summoned)
}

func TestPlayCard_BoardPosition(t *testing.T) {
	m := startedMachine(t)
	left := readyMinion(t, m, p1, 1, 1)
	right := readyMinion(t, m, p1, 1, 1)
	card := m.Zones().Members(key(p1, zone.Hand))[0]

	require.NoError(t, m.PlayCard(context.Background(), card, 1))
	assert.Equal(t, []entity.ID{left, card, right}, m.Zones().Members(key(p1, zone.Play)))
}

func TestPlayCard_Spell(t *testing.T) {
	m := startedMachine(t)
	spell := addSpell(t, m, p1, zone.Hand, 1)

	require.NoError(t, m.PlayCard(context.Background(), spell, 0))
	pos, ok := m.Zones().PositionOf(spell)
	require.True(t, ok)
	assert.Equal(t, key(p1, zone.Graveyard), pos.Key)
}

func TestPlayCard_FailureRollsBack(t *testing.T) {
	m := startedMachine(t)
	card := m.Zones().Members(key(p1, zone.Hand))[0]
	_, _, err := m.SetProperty(card, entity.Cost, 5)
	require.NoError(t, err)

	err = m.PlayCard(context.Background(), card, 0)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, fault.CodeConstraintViolation)
	errutil.AssertErrorContext(t, err, "rule", "PlayCard")

	me, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, Trigger(Peri, PlayCard), me.Snapshot.State())
	assert.Equal(t, 2, me.Snapshot.Depth())

	assert.Equal(t, Wait(Input), m.State())
	assert.Equal(t, 0, m.Depth())
	assert.Empty(t, m.History())
	pos, _ := m.Zones().PositionOf(card)
	assert.Equal(t, key(p1, zone.Hand), pos.Key)
	assert.Equal(t, uint32(1), mustProperty(t, m, p1, entity.Mana))
}

func TestPlayCard_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, m *Machine) (entity.ID, int)
		code  string
	}{
		{
			name: "opponent's card",
			setup: func(_ *testing.T, m *Machine) (entity.ID, int) {
				return m.Zones().Members(key(p2, zone.Hand))[0], 0
			},
			code: fault.CodeConstraintViolation,
		},
		{
			name: "card in deck",
			setup: func(_ *testing.T, m *Machine) (entity.ID, int) {
				return m.Zones().Members(key(p1, zone.Deck))[0], 0
			},
			code: fault.CodeConstraintViolation,
		},
		{
			name: "position past the board",
			setup: func(_ *testing.T, m *Machine) (entity.ID, int) {
				return m.Zones().Members(key(p1, zone.Hand))[0], 3
			},
			code: fault.CodeConstraintViolation,
		},
		{
			name: "full board",
			setup: func(t *testing.T, m *Machine) (entity.ID, int) {
				for range zone.Play.Capacity() {
					readyMinion(t, m, p1, 1, 1)
				}
				return m.Zones().Members(key(p1, zone.Hand))[0], 0
			},
			code: fault.CodeCapacityExceeded,
		},
		{
			name: "not a card",
			setup: func(_ *testing.T, _ *Machine) (entity.ID, int) {
				return p2, 0
			},
			code: fault.CodeMissingPrototype,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := startedMachine(t)
			card, position := tt.setup(t, m)
			err := m.PlayCard(context.Background(), card, position)
			errutil.AssertErrorCode(t, err, tt.code)
			assert.Equal(t, Wait(Input), m.State())
		})
	}
}

func TestAttack_Player(t *testing.T) {
	m := startedMachine(t)
	attacker := readyMinion(t, m, p1, 3, 2)

	require.NoError(t, m.Attack(context.Background(), attacker, p2))
	assert.Equal(t, uint32(27), mustProperty(t, m, p2, entity.Health))
	assert.Equal(t, uint32(1), mustProperty(t, m, attacker, entity.Exhausted))
	assert.Equal(t, uint32(2), mustProperty(t, m, attacker, entity.Health))
}

func TestAttack_MinionsTrade(t *testing.T) {
	m := startedMachine(t)
	attacker := readyMinion(t, m, p1, 2, 2)
	defender := addMinion(t, m, p2, zone.Play, 0, 2, 1)

	var deaths []entity.ID
	require.NoError(t, m.On(Post, Death, "watch", func(_ context.Context, m *Machine) error {
		txn, err := Payload[SubjectTxn](m)
		deaths = append(deaths, txn.Entity)
		return err
	}))

	require.NoError(t, m.Attack(context.Background(), attacker, defender))
	assert.Equal(t, []entity.ID{defender, attacker}, deaths)
	assert.Equal(t, []entity.ID{defender}, m.Zones().Members(key(p2, zone.Graveyard)))
	assert.Equal(t, []entity.ID{attacker}, m.Zones().Members(key(p1, zone.Graveyard)))
	assert.Equal(t, 0, m.Zones().Len(key(p1, zone.Play)))
}

func TestAttack_Rejections(t *testing.T) {
	t.Run("exhausted", func(t *testing.T) {
		m := startedMachine(t)
		attacker := addMinion(t, m, p1, zone.Play, 0, 1, 1)
		err := m.Attack(context.Background(), attacker, p2)
		errutil.AssertErrorCode(t, err, fault.CodeConstraintViolation)
		errutil.AssertErrorContext(t, err, "got", "exhausted")
	})
	t.Run("own face", func(t *testing.T) {
		m := startedMachine(t)
		attacker := readyMinion(t, m, p1, 1, 1)
		err := m.Attack(context.Background(), attacker, p1)
		errutil.AssertErrorCode(t, err, fault.CodeConstraintViolation)
	})
	t.Run("opponent's minion attacks", func(t *testing.T) {
		m := startedMachine(t)
		attacker := readyMinion(t, m, p2, 1, 1)
		err := m.Attack(context.Background(), attacker, p1)
		errutil.AssertErrorCode(t, err, fault.CodeConstraintViolation)
	})
	t.Run("missing defender", func(t *testing.T) {
		m := startedMachine(t)
		attacker := readyMinion(t, m, p1, 1, 1)
		err := m.Attack(context.Background(), attacker, 150)
		errutil.AssertErrorCode(t, err, fault.CodeMissingEntity)
		assert.Equal(t, uint32(0), mustProperty(t, m, attacker, entity.Exhausted))
	})
}

func TestDraw_Fatigue(t *testing.T) {
	m := newTestMachine(t, "P1", "P2")
	require.NoError(t, m.StartGame(context.Background()))

	for _, p := range []entity.ID{p1, p2} {
		assert.Equal(t, uint32(3), mustProperty(t, m, p, entity.Fatigue))
		assert.Equal(t, uint32(30-1-2-3), mustProperty(t, m, p, entity.Health))
	}
}

func TestDraw_FullHandBurns(t *testing.T) {
	m := startedMachine(t)
	for m.Zones().Len(key(p1, zone.Hand)) < zone.Hand.Capacity() {
		addMinion(t, m, p1, zone.Hand, 0, 1, 1)
	}
	top, ok := m.Zones().Top(key(p1, zone.Deck))
	require.True(t, ok)

	require.NoError(t, m.EndTurn(context.Background()))
	require.NoError(t, m.EndTurn(context.Background()))

	assert.Equal(t, zone.Hand.Capacity(), m.Zones().Len(key(p1, zone.Hand)))
	assert.Equal(t, []entity.ID{top}, m.Zones().Members(key(p1, zone.Graveyard)))
}

func TestGameOver(t *testing.T) {
	m := startedMachine(t)
	attacker := readyMinion(t, m, p1, 3, 1)
	_, _, err := m.SetProperty(p2, entity.Health, 2)
	require.NoError(t, err)

	require.NoError(t, m.Attack(context.Background(), attacker, p2))
	assert.True(t, m.Finished())
	assert.Equal(t, 0, m.Depth())

	g, err := m.Game()
	require.NoError(t, err)
	winner, ok := g.Winner()
	assert.True(t, ok)
	assert.Equal(t, uint32(1), winner)

	err = m.EndTurn(context.Background())
	errutil.AssertErrorCode(t, err, fault.CodeGameFinished)
	assert.True(t, m.Finished())
}

func TestGameOver_FirstToFallLoses(t *testing.T) {
	m := newTestMachine(t, "P1", "P2")
	for _, p := range []entity.ID{p1, p2} {
		_, _, err := m.SetProperty(p, entity.Health, 1)
		require.NoError(t, err)
	}
	require.NoError(t, m.StartGame(context.Background()))

	assert.True(t, m.Finished())
	g, err := m.Game()
	require.NoError(t, err)
	winner, ok := g.Winner()
	assert.True(t, ok)
	assert.Equal(t, uint32(2), winner)
}

func TestGameOver_Draw(t *testing.T) {
	m := newTestMachine(t, "P1", "P2")
	_, _, err := m.SetProperty(p1, entity.Health, 1)
	require.NoError(t, err)
	_, _, err = m.SetProperty(p2, entity.Health, 0)
	require.NoError(t, err)
	require.NoError(t, m.StartGame(context.Background()))

	assert.True(t, m.Finished())
	g, err := m.Game()
	require.NoError(t, err)
	assert.True(t, g.Finished())
	_, ok := g.Winner()
	assert.False(t, ok)
}
