// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package prototype

import (
	"fmt"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/fault"
)

// Player defaults applied by InstallPlayer.
const (
	DefaultHealth          = 30
	DefaultInitialHandSize = 3
)

// Player is the read view of a player entity.
type Player struct {
	view
}

// PlayerMut is the mutate view of a player entity.
type PlayerMut struct {
	Player
}

// InstallPlayer tags id as the player seated at ord.
func InstallPlayer(s *entity.Store, id entity.ID, ord uint32) error {
	if err := install(s, id, entity.PrototypePlayer, map[entity.PropertyKey]uint32{
		entity.Health:          DefaultHealth,
		entity.MaxHealth:       DefaultHealth,
		entity.InitialHandSize: DefaultInitialHandSize,
		entity.Mana:            0,
		entity.MaxMana:         0,
		entity.Fatigue:         0,
	}); err != nil {
		return err
	}
	_, _, err := s.SetProperty(id, entity.PlayerOrd, ord)
	return err
}

// ReadPlayer opens a read view of id.
func ReadPlayer(s *entity.Store, id entity.ID) (Player, error) {
	v, err := open(s, id, entity.PrototypePlayer)
	return Player{v}, err
}

// MutatePlayer opens a mutate view of id.
func MutatePlayer(s *entity.Store, id entity.ID) (PlayerMut, error) {
	p, err := ReadPlayer(s, id)
	return PlayerMut{p}, err
}

// Ord returns the 1-indexed seat of the player.
func (p Player) Ord() (uint32, error) {
	return p.get(entity.PlayerOrd)
}

// Health returns the player's remaining health.
func (p Player) Health() (uint32, error) {
	return p.get(entity.Health)
}

// InitialHandSize returns how many cards the player draws at game start.
func (p Player) InitialHandSize() (uint32, error) {
	return p.get(entity.InitialHandSize)
}

// Mana returns the player's unspent mana.
func (p Player) Mana() (uint32, error) {
	return p.get(entity.Mana)
}

// MaxMana returns the player's mana crystal count.
func (p Player) MaxMana() (uint32, error) {
	return p.get(entity.MaxMana)
}

// Fatigue returns the damage the next draw from an empty deck deals.
func (p Player) Fatigue() (uint32, error) {
	return p.get(entity.Fatigue)
}

// Defeated reports whether the player has no health left.
func (p Player) Defeated() (bool, error) {
	health, err := p.Health()
	if err != nil {
		return false, err
	}
	return health == 0, nil
}

// TakeDamage subtracts amount from health, stopping at zero, and returns
// the remaining health.
func (p PlayerMut) TakeDamage(amount uint32) (uint32, error) {
	health, err := p.Health()
	if err != nil {
		return 0, err
	}
	health = saturatingSub(health, amount)
	p.set(entity.Health, health)
	return health, nil
}

// Heal restores up to amount health without exceeding MaxHealth.
func (p PlayerMut) Heal(amount uint32) (uint32, error) {
	health, err := p.Health()
	if err != nil {
		return 0, err
	}
	ceiling, err := p.get(entity.MaxHealth)
	if err != nil {
		return 0, err
	}
	if health >= ceiling {
		return health, nil
	}
	if amount > ceiling-health {
		health = ceiling
	} else {
		health += amount
	}
	p.set(entity.Health, health)
	return health, nil
}

// RefreshMana grants a crystal (up to MaxMana) and refills mana.
func (p PlayerMut) RefreshMana() error {
	crystals, err := p.MaxMana()
	if err != nil {
		return err
	}
	crystals = min(crystals+1, MaxMana)
	p.set(entity.MaxMana, crystals)
	p.set(entity.Mana, crystals)
	return nil
}

// Spend pays cost from the player's mana.
func (p PlayerMut) Spend(cost uint32) error {
	mana, err := p.Mana()
	if err != nil {
		return err
	}
	if cost > mana {
		return fault.ConstraintViolation(fmt.Sprintf("mana >= %d", cost), fmt.Sprintf("%d", mana))
	}
	p.set(entity.Mana, mana-cost)
	return nil
}

// AddFatigue increments fatigue and returns the new value.
func (p PlayerMut) AddFatigue() (uint32, error) {
	fatigue, err := p.Fatigue()
	if err != nil {
		return 0, err
	}
	fatigue++
	p.set(entity.Fatigue, fatigue)
	return fatigue, nil
}
