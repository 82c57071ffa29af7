// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package game hosts a card game on top of the machine: it deals decks from a
// catalog, binds card triggers to their instances, and drives actions.
package game

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/samber/oops"

	"github.com/holomush/holocards/internal/card"
	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/logging"
	"github.com/holomush/holocards/internal/machine"
	"github.com/holomush/holocards/internal/zone"
	"github.com/holomush/holocards/pkg/errutil"
)

// DefaultDeckCopies is how many copies of each catalog card DefaultDeck deals.
const DefaultDeckCopies = 2

// Config describes a hosted game.
type Config struct {
	// Players lists the seats in order; empty names leave the seat open.
	Players []string
	// Deck lists card names or "set:ordinal" refs dealt to every player.
	// Empty means DefaultDeck.
	Deck []string
	// MaxEntities bounds the entity store. Zero sizes it to fit the decks.
	MaxEntities  uint32
	MaxRecursion int
	// Seed drives deck shuffling; equal seeds deal equal games.
	Seed uint64
}

// Host owns one machine and everything bound to it.
type Host struct {
	m       *machine.Machine
	cat     *card.Catalog
	logger  *slog.Logger
	feed    *Feed
	pending []Record
}

// New seats the players, deals and shuffles a deck for each from cat, binds
// the triggers of every dealt card, and installs diagnostics.
func New(cfg Config, cat *card.Catalog, logger *slog.Logger) (*Host, error) {
	if logger == nil {
		logger = slog.Default()
	}

	deck, err := resolveDeck(cat, cfg.Deck)
	if err != nil {
		return nil, err
	}

	seated := machine.Config{PlayerNames: cfg.Players}.Seated()
	maxEntities := cfg.MaxEntities
	if maxEntities == 0 {
		maxEntities = uint32(1 + len(seated) + len(seated)*len(deck))
	}

	m, err := machine.New(machine.Config{
		PlayerNames:  cfg.Players,
		MaxEntities:  maxEntities,
		MaxRecursion: cfg.MaxRecursion,
	})
	if err != nil {
		return nil, err
	}

	h := &Host{
		m:      m,
		cat:    cat,
		logger: logger,
		feed:   NewFeed(logger),
	}
	if err := InstallDiagnostics(m, logger, h.collect); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)) //nolint:gosec // shuffling, not secrets
	for _, player := range m.Players() {
		if err := h.deal(player, deck, rng); err != nil {
			return nil, err
		}
	}

	logger.Debug("game created",
		"game_id", m.ID().String(),
		"players", len(seated),
		"deck_size", len(deck),
		"listeners", m.Triggers().Len(),
	)
	return h, nil
}

// DefaultDeck lists DefaultDeckCopies of each card in cat, in ref order, up
// to the deck capacity.
func DefaultDeck(cat *card.Catalog) []*card.Definition {
	var deck []*card.Definition
	for d := range cat.All() {
		for range DefaultDeckCopies {
			if len(deck) == zone.Deck.Capacity() {
				return deck
			}
			deck = append(deck, d)
		}
	}
	return deck
}

func resolveDeck(cat *card.Catalog, keys []string) ([]*card.Definition, error) {
	if len(keys) == 0 {
		deck := DefaultDeck(cat)
		if len(deck) == 0 {
			return nil, oops.Code("EMPTY_DECK").Errorf("catalog has no cards to deal")
		}
		return deck, nil
	}
	if limit := zone.Deck.Capacity(); len(keys) > limit {
		return nil, oops.Code("DECK_TOO_LARGE").
			With("size", len(keys)).
			With("max", limit).
			Errorf("deck lists %d cards, at most %d fit", len(keys), limit)
	}
	deck := make([]*card.Definition, 0, len(keys))
	for _, key := range keys {
		d, err := cat.Resolve(key)
		if err != nil {
			return nil, err
		}
		deck = append(deck, d)
	}
	return deck, nil
}

// deal installs one instance of each definition in player's deck, binds its
// triggers, and shuffles the result.
func (h *Host) deal(player entity.ID, deck []*card.Definition, rng *rand.Rand) error {
	key := zone.Key{Owner: player, Kind: zone.Deck}
	for _, d := range deck {
		id, err := h.m.Allocate()
		if err != nil {
			return err
		}
		if err := d.Install(h.m.Entities(), id, player); err != nil {
			return h.m.Wrap(err, "card", d.Name)
		}
		if err := h.m.MoveTo(id, key); err != nil {
			return err
		}
		for _, l := range d.Bind(id) {
			if err := h.m.RegisterTrigger(l); err != nil {
				return err
			}
		}
	}
	h.m.Zones().Shuffle(key, rng)
	return nil
}

// Machine returns the hosted machine.
func (h *Host) Machine() *machine.Machine {
	return h.m
}

// Catalog returns the catalog decks were dealt from.
func (h *Host) Catalog() *card.Catalog {
	return h.cat
}

// Feed returns the feed of resolved events.
func (h *Host) Feed() *Feed {
	return h.feed
}

// Start runs the Start action.
func (h *Host) Start(ctx context.Context) error {
	return h.do(ctx, "start", h.m.StartGame)
}

// EndTurn passes the turn to the next standing player.
func (h *Host) EndTurn(ctx context.Context) error {
	return h.do(ctx, "end_turn", h.m.EndTurn)
}

// Play plays card from its owner's hand; minions enter the board at position.
func (h *Host) Play(ctx context.Context, card entity.ID, position int) error {
	return h.do(ctx, "play_card", func(ctx context.Context) error {
		return h.m.PlayCard(ctx, card, position)
	})
}

// Attack makes attacker strike defender.
func (h *Host) Attack(ctx context.Context, attacker, defender entity.ID) error {
	return h.do(ctx, "attack", func(ctx context.Context) error {
		return h.m.Attack(ctx, attacker, defender)
	})
}

// do runs one action. Events resolved by a failed action are discarded with
// it; those of a successful one are published in order.
func (h *Host) do(ctx context.Context, action string, run func(context.Context) error) error {
	ctx = logging.WithGame(ctx, h.m.ID().String())
	h.pending = h.pending[:0]
	if err := run(ctx); err != nil {
		h.pending = h.pending[:0]
		errutil.LogError(h.logger.With("action", action), "action failed", err)
		return err
	}
	for _, r := range h.pending {
		h.feed.Publish(r)
	}
	h.pending = h.pending[:0]
	return nil
}

func (h *Host) collect(_ context.Context, r Record) {
	h.pending = append(h.pending, r)
}
