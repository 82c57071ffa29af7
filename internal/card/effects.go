// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package card

import (
	"context"
	"maps"
	"slices"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/machine"
	"github.com/holomush/holocards/internal/zone"
)

// EffectFactory builds an Effect from its numeric argument.
type EffectFactory func(amount uint32) Effect

// effects maps the names catalog files use to effect factories.
var effects = map[string]EffectFactory{
	"damage_opponents":     DamageOpponents,
	"damage_enemy_minions": DamageEnemyMinions,
	"heal_owner":           HealOwner,
	"draw":                 Draw,
	"gain_attack":          GainAttack,
}

// LookupEffect returns the factory registered under name.
func LookupEffect(name string) (EffectFactory, error) {
	f, ok := effects[name]
	if !ok {
		return nil, ErrUnknownEffect(name)
	}
	return f, nil
}

// EffectNames lists the effect names catalog files may use.
func EffectNames() []string {
	return slices.Sorted(maps.Keys(effects))
}

// DamageOpponents deals amount to every opponent of the card's owner who is
// still standing.
func DamageOpponents(amount uint32) Effect {
	return func(ctx context.Context, m *machine.Machine, self entity.ID) error {
		owner, err := ownerOf(m, self)
		if err != nil {
			return err
		}
		for _, p := range m.Players() {
			if p == owner {
				continue
			}
			health, err := m.Property(p, entity.Health)
			if err != nil {
				return err
			}
			if health == 0 {
				continue
			}
			if err := m.Recurse(ctx, machine.Damage, machine.DamageTxn{Target: p, Amount: amount}); err != nil {
				return err
			}
		}
		return nil
	}
}

// DamageEnemyMinions deals amount to every minion on the opponents' boards.
func DamageEnemyMinions(amount uint32) Effect {
	return func(ctx context.Context, m *machine.Machine, self entity.ID) error {
		owner, err := ownerOf(m, self)
		if err != nil {
			return err
		}
		var targets []entity.ID
		for _, p := range m.Players() {
			if p != owner {
				targets = append(targets, m.Zones().Members(zone.Key{Owner: p, Kind: zone.Play})...)
			}
		}
		for _, id := range targets {
			// An earlier hit may already have removed this minion.
			if pos, ok := m.Zones().PositionOf(id); !ok || pos.Key.Kind != zone.Play {
				continue
			}
			if err := m.Recurse(ctx, machine.Damage, machine.DamageTxn{Target: id, Amount: amount}); err != nil {
				return err
			}
		}
		return nil
	}
}

// HealOwner restores amount health to the card's owner.
func HealOwner(amount uint32) Effect {
	return func(_ context.Context, m *machine.Machine, self entity.ID) error {
		owner, err := ownerOf(m, self)
		if err != nil {
			return err
		}
		p, err := m.PlayerMut(owner)
		if err != nil {
			return err
		}
		_, err = p.Heal(amount)
		return m.Wrap(err)
	}
}

// Draw makes the card's owner draw amount cards.
func Draw(amount uint32) Effect {
	return func(ctx context.Context, m *machine.Machine, self entity.ID) error {
		owner, err := ownerOf(m, self)
		if err != nil {
			return err
		}
		return m.Recurse(ctx, machine.DrawCard, machine.DrawTxn{Player: owner, Count: amount})
	}
}

// GainAttack raises the card's own attack by amount.
func GainAttack(amount uint32) Effect {
	return func(_ context.Context, m *machine.Machine, self entity.ID) error {
		attack, err := m.Property(self, entity.Attack)
		if err != nil {
			return err
		}
		_, _, err = m.SetProperty(self, entity.Attack, attack+amount)
		return err
	}
}

func ownerOf(m *machine.Machine, self entity.ID) (entity.ID, error) {
	owner, err := m.Property(self, entity.Owner)
	return entity.ID(owner), err
}
