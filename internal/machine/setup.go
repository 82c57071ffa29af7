// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import (
	"fmt"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/fault"
	"github.com/holomush/holocards/internal/prototype"
	"github.com/holomush/holocards/internal/zone"
)

// MaxPlayers is the largest table a machine seats.
const MaxPlayers = 4

// Config describes a new machine.
type Config struct {
	// PlayerNames lists the seats in order. Empty names are absent players
	// and take no seat.
	PlayerNames []string
	// MaxEntities bounds the entity store, the Game entity included.
	MaxEntities uint32
	// MaxRecursion bounds how many nested effects may be open at once.
	// Zero means unbounded.
	MaxRecursion int
}

// Seated returns the present player names in seat order.
func (c Config) Seated() []string {
	names := make([]string, 0, len(c.PlayerNames))
	for _, n := range c.PlayerNames {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// New builds a machine waiting for the Start action. The Game entity takes
// id 0 and each present player the next id, seated from 1.
func New(cfg Config) (*Machine, error) {
	m := &Machine{
		id:       newMachineID(),
		cfg:      cfg,
		state:    Wait(Start),
		txn:      EmptyTxn{},
		stack:    NewStack(),
		entities: entity.NewStore(cfg.MaxEntities),
		zones:    zone.NewIndex(),
		triggers: NewRegistry(),
	}

	seated := cfg.Seated()
	if len(seated) > MaxPlayers {
		return nil, m.Wrap(fault.ConstraintViolation(fmt.Sprintf("at most %d players", MaxPlayers), fmt.Sprintf("%d", len(seated))))
	}
	if cfg.MaxRecursion < 0 {
		return nil, m.Wrap(fault.ConstraintViolation("max recursion >= 0", fmt.Sprintf("%d", cfg.MaxRecursion)))
	}

	game, err := m.entities.Allocate()
	if err != nil {
		return nil, m.Wrap(err)
	}
	if err := prototype.InstallGame(m.entities, game, uint32(len(seated))); err != nil {
		return nil, m.Wrap(err)
	}

	for i, name := range seated {
		id, err := m.entities.Allocate()
		if err != nil {
			return nil, m.Wrap(err)
		}
		if err := prototype.InstallPlayer(m.entities, id, uint32(i+1)); err != nil {
			return nil, m.Wrap(err)
		}
		if err := m.entities.SetName(id, name); err != nil {
			return nil, m.Wrap(err)
		}
	}
	return m, nil
}
