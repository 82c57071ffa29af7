// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package prototype

import (
	"fmt"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/fault"
)

// Game is the read view of the Game entity.
type Game struct {
	view
}

// GameMut is the mutate view of the Game entity.
type GameMut struct {
	Game
}

// InstallGame tags id as the Game entity and sets its player count.
func InstallGame(s *entity.Store, id entity.ID, maxPlayers uint32) error {
	return install(s, id, entity.PrototypeGame, map[entity.PropertyKey]uint32{
		entity.MaxPlayers: maxPlayers,
		entity.TurnCount:  0,
	})
}

// ReadGame opens a read view of id.
func ReadGame(s *entity.Store, id entity.ID) (Game, error) {
	v, err := open(s, id, entity.PrototypeGame)
	return Game{v}, err
}

// MutateGame opens a mutate view of id.
func MutateGame(s *entity.Store, id entity.ID) (GameMut, error) {
	g, err := ReadGame(s, id)
	return GameMut{g}, err
}

// MaxPlayers returns the number of seated players.
func (g Game) MaxPlayers() (uint32, error) {
	return g.get(entity.MaxPlayers)
}

// CurrentPlayerOrd returns the 1-indexed ordinal of the active player.
func (g Game) CurrentPlayerOrd() (uint32, error) {
	return g.get(entity.CurrentPlayerOrd)
}

// TurnCount returns the number of started turns.
func (g Game) TurnCount() (uint32, error) {
	return g.get(entity.TurnCount)
}

// Finished reports whether the game has been decided.
func (g Game) Finished() bool {
	return g.flag(entity.GameOver)
}

// Winner returns the ordinal of the winning player, if any.
// A decided game without a winner is a draw.
func (g Game) Winner() (uint32, bool) {
	ord, ok := g.e.Property(entity.Winner)
	return ord, ok && ord != 0
}

// SetCurrentPlayerOrd makes ord the active player.
func (g GameMut) SetCurrentPlayerOrd(ord uint32) error {
	limit, err := g.MaxPlayers()
	if err != nil {
		return err
	}
	if ord == 0 || ord > limit {
		return fault.ConstraintViolation(fmt.Sprintf("player ordinal in [1,%d]", limit), fmt.Sprintf("%d", ord))
	}
	g.set(entity.CurrentPlayerOrd, ord)
	return nil
}

// AdvanceCurrentPlayer passes the turn to the next ordinal, wrapping from
// MaxPlayers back to 1, and returns the new ordinal.
func (g GameMut) AdvanceCurrentPlayer() (uint32, error) {
	limit, err := g.MaxPlayers()
	if err != nil {
		return 0, err
	}
	current, err := g.CurrentPlayerOrd()
	if err != nil {
		return 0, err
	}
	if limit == 0 {
		return 0, fault.ConstraintViolation("at least one player", "0")
	}
	next := current%limit + 1
	g.set(entity.CurrentPlayerOrd, next)
	return next, nil
}

// NextTurn increments the turn counter and returns it.
func (g GameMut) NextTurn() (uint32, error) {
	turn, err := g.TurnCount()
	if err != nil {
		return 0, err
	}
	turn++
	g.set(entity.TurnCount, turn)
	return turn, nil
}

// Decide ends the game. A winner of 0 records a draw.
func (g GameMut) Decide(winner uint32) {
	g.set(entity.GameOver, 1)
	g.set(entity.Winner, winner)
}
