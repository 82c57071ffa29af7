// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package game

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/prototype"
	"github.com/holomush/holocards/internal/zone"
)

// Board is a read-only summary of a game.
type Board struct {
	Game     string `json:"game"`
	State    string `json:"state"`
	Turn     uint32 `json:"turn"`
	Current  uint32 `json:"current_player"`
	Finished bool   `json:"finished"`
	// Winner is the seat of the winning player; zero with Finished set is a draw.
	Winner uint32 `json:"winner,omitempty"`
	Seats  []Seat `json:"seats"`
}

// Seat summarizes one player.
type Seat struct {
	Ord       uint32   `json:"ord"`
	Name      string   `json:"name"`
	Health    uint32   `json:"health"`
	Mana      uint32   `json:"mana"`
	MaxMana   uint32   `json:"max_mana"`
	Fatigue   uint32   `json:"fatigue"`
	Deck      int      `json:"deck"`
	Hand      int      `json:"hand"`
	Graveyard int      `json:"graveyard"`
	Minions   []Minion `json:"minions,omitempty"`
}

// Minion summarizes a minion on the board.
type Minion struct {
	ID        entity.ID `json:"id"`
	Name      string    `json:"name"`
	Attack    uint32    `json:"attack"`
	Health    uint32    `json:"health"`
	Exhausted bool      `json:"exhausted,omitempty"`
}

// Board reads the current summary of the game.
func (h *Host) Board() (Board, error) {
	g, err := h.m.Game()
	if err != nil {
		return Board{}, err
	}
	b := Board{
		Game:     h.m.ID().String(),
		State:    h.m.State().String(),
		Finished: g.Finished(),
	}
	b.Turn, _ = g.TurnCount()
	b.Current, _ = g.CurrentPlayerOrd()
	if w, ok := g.Winner(); ok {
		b.Winner = w
	}

	for _, id := range h.m.Players() {
		seat, err := h.seat(id)
		if err != nil {
			return Board{}, err
		}
		b.Seats = append(b.Seats, seat)
	}
	return b, nil
}

func (h *Host) seat(id entity.ID) (Seat, error) {
	p, err := h.m.Player(id)
	if err != nil {
		return Seat{}, err
	}
	e, err := h.m.Entities().Get(id)
	if err != nil {
		return Seat{}, h.m.Wrap(err)
	}

	s := Seat{Name: e.Name}
	for _, read := range []struct {
		dst *uint32
		get func() (uint32, error)
	}{
		{&s.Ord, p.Ord},
		{&s.Health, p.Health},
		{&s.Mana, p.Mana},
		{&s.MaxMana, p.MaxMana},
		{&s.Fatigue, p.Fatigue},
	} {
		if *read.dst, err = read.get(); err != nil {
			return Seat{}, h.m.Wrap(err)
		}
	}

	zones := h.m.Zones()
	s.Deck = zones.Len(zone.Key{Owner: id, Kind: zone.Deck})
	s.Hand = zones.Len(zone.Key{Owner: id, Kind: zone.Hand})
	s.Graveyard = zones.Len(zone.Key{Owner: id, Kind: zone.Graveyard})

	for _, mid := range zones.Members(zone.Key{Owner: id, Kind: zone.Play}) {
		mn, err := prototype.ReadMinion(h.m.Entities(), mid)
		if err != nil {
			return Seat{}, h.m.Wrap(err)
		}
		me, _ := h.m.Entities().Get(mid)
		minion := Minion{ID: mid, Name: me.Name, Exhausted: mn.Exhausted()}
		minion.Attack, _ = mn.Attack()
		minion.Health, _ = mn.Health()
		s.Minions = append(s.Minions, minion)
	}
	return s, nil
}

// Render writes the board as a table.
func (b Board) Render(w io.Writer) error {
	status := fmt.Sprintf("turn %d, player %d to act", b.Turn, b.Current)
	if b.Finished {
		status = "draw"
		if b.Winner != 0 {
			status = fmt.Sprintf("player %d wins", b.Winner)
		}
	}
	if _, err := fmt.Fprintf(w, "game %s: %s (%s)\n", b.Game, status, b.State); err != nil {
		return err //nolint:wrapcheck // io passthrough
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SEAT\tNAME\tHEALTH\tMANA\tDECK\tHAND\tGRAVE\tBOARD")
	_, _ = fmt.Fprintln(tw, "----\t----\t------\t----\t----\t----\t-----\t-----")
	for _, s := range b.Seats {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%d/%d\t%d\t%d\t%d\t%s\n",
			s.Ord, s.Name, s.Health, s.Mana, s.MaxMana, s.Deck, s.Hand, s.Graveyard, minions(s.Minions))
	}
	return tw.Flush() //nolint:wrapcheck // io passthrough
}

func minions(ms []Minion) string {
	if len(ms) == 0 {
		return "-"
	}
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = fmt.Sprintf("%s %d/%d", m.Name, m.Attack, m.Health)
	}
	return strings.Join(parts, ", ")
}
