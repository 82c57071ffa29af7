// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/prototype"
	"github.com/holomush/holocards/internal/zone"
)

func newTestMachine(t *testing.T, names ...string) *Machine {
	t.Helper()
	m, err := New(Config{PlayerNames: names, MaxEntities: 200})
	require.NoError(t, err)
	return m
}

// startedMachine returns a two-player machine after StartGame. Both decks
// hold five vanilla 1/1 minions so the opening draws do not cause fatigue.
func startedMachine(t *testing.T) *Machine {
	t.Helper()
	m := newTestMachine(t, "P1", "P2")
	for _, p := range m.Players() {
		for range 5 {
			addMinion(t, m, p, zone.Deck, 1, 1, 1)
		}
	}
	require.NoError(t, m.StartGame(context.Background()))
	return m
}

// addMinion creates a minion owned by owner and appends it to the owner's
// zone of the given kind.
func addMinion(t *testing.T, m *Machine, owner entity.ID, kind zone.Kind, cost, attack, health uint32) entity.ID {
	t.Helper()
	id := addCard(t, m, owner, kind, cost, true)
	s := m.Entities()
	_, _, err := s.SetProperty(id, entity.Attack, attack)
	require.NoError(t, err)
	_, _, err = s.SetProperty(id, entity.Health, health)
	require.NoError(t, err)
	return id
}

func addSpell(t *testing.T, m *Machine, owner entity.ID, kind zone.Kind, cost uint32) entity.ID {
	t.Helper()
	return addCard(t, m, owner, kind, cost, false)
}

func addCard(t *testing.T, m *Machine, owner entity.ID, kind zone.Kind, cost uint32, minion bool) entity.ID {
	t.Helper()
	id, err := m.Allocate()
	require.NoError(t, err)
	require.NoError(t, prototype.InstallCard(m.Entities(), id, owner, minion))
	_, _, err = m.Entities().SetProperty(id, entity.Cost, cost)
	require.NoError(t, err)
	require.NoError(t, m.MoveTo(id, zone.Key{Owner: owner, Kind: kind}))
	return id
}

func mustProperty(t *testing.T, m *Machine, id entity.ID, key entity.PropertyKey) uint32 {
	t.Helper()
	v, err := m.Property(id, key)
	require.NoError(t, err)
	return v
}
