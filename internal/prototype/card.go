// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package prototype

import (
	"github.com/holomush/holocards/internal/entity"
)

// Card is the read view shared by every card entity.
type Card struct {
	view
}

// Minion is the read view of a minion card.
type Minion struct {
	Card
}

// MinionMut is the mutate view of a minion card.
type MinionMut struct {
	Minion
}

// InstallCard tags id as a card owned by owner. Minions also receive the
// Minion tag; every other card is a spell.
func InstallCard(s *entity.Store, id, owner entity.ID, minion bool) error {
	if err := install(s, id, entity.PrototypeCard, map[entity.PropertyKey]uint32{
		entity.Cost: 0,
	}); err != nil {
		return err
	}
	if _, _, err := s.SetProperty(id, entity.Owner, uint32(owner)); err != nil {
		return err
	}
	if !minion {
		return s.AddPrototype(id, entity.PrototypeSpell)
	}
	return install(s, id, entity.PrototypeMinion, map[entity.PropertyKey]uint32{
		entity.Attack:    0,
		entity.Health:    1,
		entity.Exhausted: 1,
	})
}

// ReadCard opens a card view of id.
func ReadCard(s *entity.Store, id entity.ID) (Card, error) {
	v, err := open(s, id, entity.PrototypeCard)
	return Card{v}, err
}

// ReadMinion opens a minion read view of id.
func ReadMinion(s *entity.Store, id entity.ID) (Minion, error) {
	v, err := open(s, id, entity.PrototypeMinion)
	return Minion{Card{v}}, err
}

// MutateMinion opens a minion mutate view of id.
func MutateMinion(s *entity.Store, id entity.ID) (MinionMut, error) {
	m, err := ReadMinion(s, id)
	return MinionMut{m}, err
}

// Cost returns the mana cost of the card.
func (c Card) Cost() (uint32, error) {
	return c.get(entity.Cost)
}

// Owner returns the player entity that owns the card.
func (c Card) Owner() (entity.ID, error) {
	owner, err := c.get(entity.Owner)
	return entity.ID(owner), err
}

// IsMinion reports whether the card is a minion.
func (c Card) IsMinion() bool {
	return c.e.HasPrototype(entity.PrototypeMinion)
}

// Attack returns the minion's attack.
func (m Minion) Attack() (uint32, error) {
	return m.get(entity.Attack)
}

// Health returns the minion's remaining health.
func (m Minion) Health() (uint32, error) {
	return m.get(entity.Health)
}

// Exhausted reports whether the minion cannot attack this turn.
func (m Minion) Exhausted() bool {
	return m.flag(entity.Exhausted)
}

// TakeDamage subtracts amount from health and returns the remainder.
func (m MinionMut) TakeDamage(amount uint32) (uint32, error) {
	health, err := m.Health()
	if err != nil {
		return 0, err
	}
	health = saturatingSub(health, amount)
	m.set(entity.Health, health)
	return health, nil
}

// SetExhausted marks whether the minion may attack.
func (m MinionMut) SetExhausted(exhausted bool) {
	var v uint32
	if exhausted {
		v = 1
	}
	m.set(entity.Exhausted, v)
}
