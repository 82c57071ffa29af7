// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import (
	"context"
	"fmt"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/fault"
	"github.com/holomush/holocards/internal/prototype"
	"github.com/holomush/holocards/internal/zone"
)

// rule is the built-in resolution of an event. It runs at the start of the
// Peri phase, before the listeners filed under Trigger(Peri, e).
type rule func(ctx context.Context, m *Machine) error

func intrinsic(e Event) rule {
	switch e {
	case Start:
		return startRule
	case EndTurn:
		return endTurnRule
	case PlayCard:
		return playCardRule
	case Attack:
		return attackRule
	case DrawCard:
		return drawRule
	case Damage:
		return damageRule
	case Death:
		return deathRule
	default:
		return nil
	}
}

func startRule(ctx context.Context, m *Machine) error {
	g, err := m.GameMut()
	if err != nil {
		return err
	}
	if err := g.SetCurrentPlayerOrd(1); err != nil {
		return err
	}
	if _, err := g.NextTurn(); err != nil {
		return err
	}
	first, err := m.CurrentPlayer()
	if err != nil {
		return err
	}
	if err := m.beginTurn(ctx, first, false); err != nil {
		return err
	}

	for _, id := range m.Players() {
		p, err := m.Player(id)
		if err != nil {
			return err
		}
		size, err := p.InitialHandSize()
		if err != nil {
			return err
		}
		if size == 0 {
			continue
		}
		if err := m.Recurse(ctx, DrawCard, DrawTxn{Player: id, Count: size}); err != nil {
			return err
		}
	}
	return nil
}

func endTurnRule(ctx context.Context, m *Machine) error {
	g, err := m.GameMut()
	if err != nil {
		return err
	}
	seats, err := g.MaxPlayers()
	if err != nil {
		return err
	}

	// Skip defeated seats; with every seat defeated the rotation wraps once.
	var next entity.ID
	for range seats {
		ord, err := g.AdvanceCurrentPlayer()
		if err != nil {
			return err
		}
		if next, err = m.PlayerByOrd(ord); err != nil {
			return err
		}
		p, err := m.Player(next)
		if err != nil {
			return err
		}
		defeated, err := p.Defeated()
		if err != nil {
			return err
		}
		if !defeated {
			break
		}
	}

	if _, err := g.NextTurn(); err != nil {
		return err
	}
	return m.beginTurn(ctx, next, true)
}

// beginTurn refills the player's mana, readies their minions, and draws.
func (m *Machine) beginTurn(ctx context.Context, player entity.ID, draw bool) error {
	p, err := m.PlayerMut(player)
	if err != nil {
		return err
	}
	if err := p.RefreshMana(); err != nil {
		return err
	}
	for _, id := range m.zones.Members(zone.Key{Owner: player, Kind: zone.Play}) {
		mn, err := m.MinionMut(id)
		if err != nil {
			return err
		}
		mn.SetExhausted(false)
	}
	if !draw {
		return nil
	}
	return m.Recurse(ctx, DrawCard, DrawTxn{Player: player, Count: 1})
}

func playCardRule(ctx context.Context, m *Machine) error {
	txn, err := Payload[PlayCardTxn](m)
	if err != nil {
		return err
	}
	card, err := prototype.ReadCard(m.entities, txn.Card)
	if err != nil {
		return err
	}
	owner, err := m.requireCurrentOwner(card)
	if err != nil {
		return err
	}
	hand := zone.Key{Owner: owner, Kind: zone.Hand}
	if pos, ok := m.zones.PositionOf(txn.Card); !ok || pos.Key != hand {
		return fault.ConstraintViolation(fmt.Sprintf("card %d in %s", txn.Card, hand), where(m.zones, txn.Card))
	}

	board := zone.Key{Owner: owner, Kind: zone.Play}
	if card.IsMinion() {
		if m.zones.Len(board) >= zone.Play.Capacity() {
			return fault.CapacityExceeded(zone.Play.Capacity())
		}
		if txn.Position < 0 || txn.Position > m.zones.Len(board) {
			return fault.ConstraintViolation(fmt.Sprintf("board position in [0,%d]", m.zones.Len(board)), fmt.Sprintf("%d", txn.Position))
		}
	}

	cost, err := card.Cost()
	if err != nil {
		return err
	}
	p, err := m.PlayerMut(owner)
	if err != nil {
		return err
	}
	if err := p.Spend(cost); err != nil {
		return err
	}

	if !card.IsMinion() {
		return m.zones.MoveTo(txn.Card, zone.Key{Owner: owner, Kind: zone.Graveyard})
	}
	if err := m.zones.Move(txn.Card, board, txn.Position); err != nil {
		return err
	}
	return m.Recurse(ctx, Summon, SubjectTxn{Entity: txn.Card})
}

func attackRule(ctx context.Context, m *Machine) error {
	txn, err := Payload[AttackTxn](m)
	if err != nil {
		return err
	}
	attacker, err := m.MinionMut(txn.Attacker)
	if err != nil {
		return err
	}
	owner, err := m.requireCurrentOwner(attacker.Card)
	if err != nil {
		return err
	}
	if pos, ok := m.zones.PositionOf(txn.Attacker); !ok || pos.Key != (zone.Key{Owner: owner, Kind: zone.Play}) {
		return fault.ConstraintViolation(fmt.Sprintf("attacker %d on the board", txn.Attacker), where(m.zones, txn.Attacker))
	}
	if attacker.Exhausted() {
		return fault.ConstraintViolation("ready attacker", "exhausted")
	}
	power, err := attacker.Attack()
	if err != nil {
		return err
	}

	defender, err := m.entities.Get(txn.Defender)
	if err != nil {
		return err
	}
	var retaliation uint32
	switch {
	case defender.HasPrototype(entity.PrototypePlayer):
		if defender.ID == owner {
			return fault.ConstraintViolation("opposing player", "attacker's owner")
		}
	case defender.HasPrototype(entity.PrototypeMinion):
		target, err := prototype.ReadMinion(m.entities, defender.ID)
		if err != nil {
			return err
		}
		targetOwner, err := target.Owner()
		if err != nil {
			return err
		}
		if pos, ok := m.zones.PositionOf(defender.ID); !ok || targetOwner == owner || pos.Key != (zone.Key{Owner: targetOwner, Kind: zone.Play}) {
			return fault.ConstraintViolation("opposing minion on the board", where(m.zones, defender.ID))
		}
		if retaliation, err = target.Attack(); err != nil {
			return err
		}
	default:
		return fault.MissingPrototype(uint32(defender.ID), entity.PrototypeMinion.String())
	}

	attacker.SetExhausted(true)
	if power > 0 {
		if err := m.Recurse(ctx, Damage, DamageTxn{Target: txn.Defender, Amount: power}); err != nil {
			return err
		}
	}
	if retaliation > 0 {
		return m.Recurse(ctx, Damage, DamageTxn{Target: txn.Attacker, Amount: retaliation})
	}
	return nil
}

func drawRule(ctx context.Context, m *Machine) error {
	txn, err := Payload[DrawTxn](m)
	if err != nil {
		return err
	}
	p, err := m.PlayerMut(txn.Player)
	if err != nil {
		return err
	}
	deck := zone.Key{Owner: txn.Player, Kind: zone.Deck}
	hand := zone.Key{Owner: txn.Player, Kind: zone.Hand}
	for range txn.Count {
		top, ok := m.zones.Top(deck)
		if !ok {
			fatigue, err := p.AddFatigue()
			if err != nil {
				return err
			}
			if err := m.Recurse(ctx, Damage, DamageTxn{Target: txn.Player, Amount: fatigue}); err != nil {
				return err
			}
			continue
		}
		dest := hand
		if m.zones.Len(hand) >= zone.Hand.Capacity() {
			dest = zone.Key{Owner: txn.Player, Kind: zone.Graveyard}
		}
		if err := m.zones.MoveTo(top, dest); err != nil {
			return err
		}
	}
	return nil
}

func damageRule(ctx context.Context, m *Machine) error {
	txn, err := Payload[DamageTxn](m)
	if err != nil {
		return err
	}
	target, err := m.entities.Get(txn.Target)
	if err != nil {
		return err
	}
	switch {
	case target.HasPrototype(entity.PrototypePlayer):
		p, err := m.PlayerMut(txn.Target)
		if err != nil {
			return err
		}
		left, err := p.TakeDamage(txn.Amount)
		if err != nil {
			return err
		}
		if left == 0 {
			return m.decideIfOver()
		}
		return nil
	case target.HasPrototype(entity.PrototypeMinion):
		mn, err := m.MinionMut(txn.Target)
		if err != nil {
			return err
		}
		left, err := mn.TakeDamage(txn.Amount)
		if err != nil {
			return err
		}
		if left == 0 {
			return m.Recurse(ctx, Death, SubjectTxn{Entity: txn.Target})
		}
		return nil
	default:
		return fault.MissingPrototype(uint32(txn.Target), entity.PrototypeMinion.String())
	}
}

func deathRule(_ context.Context, m *Machine) error {
	txn, err := Payload[SubjectTxn](m)
	if err != nil {
		return err
	}
	card, err := prototype.ReadCard(m.entities, txn.Entity)
	if err != nil {
		return err
	}
	owner, err := card.Owner()
	if err != nil {
		return err
	}
	return m.zones.MoveTo(txn.Entity, zone.Key{Owner: owner, Kind: zone.Graveyard})
}

// decideIfOver ends the game once at most one player is standing.
func (m *Machine) decideIfOver() error {
	g, err := m.GameMut()
	if err != nil {
		return err
	}
	if g.Finished() {
		return nil
	}
	var standing []uint32
	for _, id := range m.Players() {
		p, err := m.Player(id)
		if err != nil {
			return err
		}
		defeated, err := p.Defeated()
		if err != nil {
			return err
		}
		if defeated {
			continue
		}
		ord, err := p.Ord()
		if err != nil {
			return err
		}
		standing = append(standing, ord)
	}
	switch len(standing) {
	case 0:
		g.Decide(0)
	case 1:
		g.Decide(standing[0])
	}
	return nil
}

// requireCurrentOwner returns the owner of card and fails unless it is the
// player whose turn it is.
func (m *Machine) requireCurrentOwner(card prototype.Card) (entity.ID, error) {
	owner, err := card.Owner()
	if err != nil {
		return 0, err
	}
	current, err := m.CurrentPlayer()
	if err != nil {
		return 0, err
	}
	if owner != current {
		return 0, fault.ConstraintViolation(fmt.Sprintf("card owned by player %d", current), fmt.Sprintf("player %d", owner))
	}
	return owner, nil
}

func where(x *zone.Index, id entity.ID) string {
	pos, ok := x.PositionOf(id)
	if !ok {
		return "unplaced"
	}
	return pos.Key.String()
}
