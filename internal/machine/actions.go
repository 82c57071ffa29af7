// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import (
	"context"

	"github.com/holomush/holocards/internal/entity"
)

// StartGame runs the Start action from Wait(Start): the first player takes
// the turn and every player draws an opening hand.
func (m *Machine) StartGame(ctx context.Context) error {
	return m.RunAction(ctx, Start, EmptyTxn{})
}

// EndTurn passes the turn to the next player still standing.
func (m *Machine) EndTurn(ctx context.Context) error {
	return m.RunAction(ctx, EndTurn, EmptyTxn{})
}

// PlayCard plays card from the current player's hand. Minions enter the
// board at position; position is ignored for spells.
func (m *Machine) PlayCard(ctx context.Context, card entity.ID, position int) error {
	return m.RunAction(ctx, PlayCard, PlayCardTxn{Card: card, Position: position})
}

// Attack sends attacker against defender, a player or an opposing minion.
func (m *Machine) Attack(ctx context.Context, attacker, defender entity.ID) error {
	return m.RunAction(ctx, Attack, AttackTxn{Attacker: attacker, Defender: defender})
}
