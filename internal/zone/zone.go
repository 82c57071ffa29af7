// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package zone tracks which ordered zone each entity occupies.
package zone

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/fault"
)

// Kind enumerates the zones a player (or the game) owns.
type Kind uint8

// Zone kinds.
const (
	Deck Kind = iota
	Hand
	Play
	Graveyard
	SetAside
	Void
)

// Unbounded is the capacity of zones without a limit.
const Unbounded = -1

var kindNames = map[Kind]string{
	Deck:      "Deck",
	Hand:      "Hand",
	Play:      "Play",
	Graveyard: "Graveyard",
	SetAside:  "SetAside",
	Void:      "Void",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Capacity returns the maximum number of entities the zone holds,
// or Unbounded.
func (k Kind) Capacity() int {
	switch k {
	case Deck:
		return 30
	case Hand:
		return 10
	case Play:
		return 7
	default:
		return Unbounded
	}
}

// Key identifies one zone: a kind owned by an entity (a player or the game).
type Key struct {
	Owner entity.ID
	Kind  Kind
}

func (k Key) String() string {
	return fmt.Sprintf("%s(%d)", k.Kind, k.Owner)
}

// Position locates an entity inside the index.
type Position struct {
	Key   Key
	Index int
}

// Index maps zones to ordered entity ids.
// It is not safe for concurrent use.
type Index struct {
	zones map[Key][]entity.ID
	where map[entity.ID]Key
}

// NewIndex creates an empty zone index.
func NewIndex() *Index {
	return &Index{
		zones: make(map[Key][]entity.ID),
		where: make(map[entity.ID]Key),
	}
}

// Place inserts an unplaced entity at position within key.
// A position equal to the zone length appends.
func (x *Index) Place(id entity.ID, key Key, position int) error {
	if at, ok := x.where[id]; ok {
		return fault.ConstraintViolation("unplaced entity", fmt.Sprintf("entity %d in %s", id, at))
	}
	members := x.zones[key]
	if position < 0 || position > len(members) {
		return fault.ConstraintViolation(
			fmt.Sprintf("position in [0,%d]", len(members)),
			fmt.Sprintf("%d", position),
		)
	}
	if limit := key.Kind.Capacity(); limit != Unbounded && len(members) >= limit {
		return fault.CapacityExceeded(limit)
	}
	x.zones[key] = slices.Insert(members, position, id)
	x.where[id] = key
	return nil
}

// MoveTo removes id from its current zone (if any) and appends it to key.
func (x *Index) MoveTo(id entity.ID, key Key) error {
	position := len(x.zones[key])
	if at, ok := x.where[id]; ok && at == key {
		position--
	}
	return x.Move(id, key, position)
}

// Move removes id from its current zone (if any) and inserts it at position
// within key. The index is unchanged when the move fails.
func (x *Index) Move(id entity.ID, key Key, position int) error {
	from, placed := x.where[id]
	members := x.zones[key]
	size := len(members)
	if placed && from == key {
		size--
	}
	if position < 0 || position > size {
		return fault.ConstraintViolation(
			fmt.Sprintf("position in [0,%d]", size),
			fmt.Sprintf("%d", position),
		)
	}
	if limit := key.Kind.Capacity(); limit != Unbounded && size >= limit {
		return fault.CapacityExceeded(limit)
	}
	if placed {
		x.remove(id, from)
	}
	x.zones[key] = slices.Insert(x.zones[key], position, id)
	x.where[id] = key
	return nil
}

func (x *Index) remove(id entity.ID, key Key) {
	members := x.zones[key]
	if i := slices.Index(members, id); i >= 0 {
		x.zones[key] = slices.Delete(members, i, i+1)
	}
	delete(x.where, id)
}

// PositionOf returns the zone and index of id.
func (x *Index) PositionOf(id entity.ID) (Position, bool) {
	key, ok := x.where[id]
	if !ok {
		return Position{}, false
	}
	return Position{Key: key, Index: slices.Index(x.zones[key], id)}, true
}

// Members returns a copy of the ordered ids in key.
func (x *Index) Members(key Key) []entity.ID {
	return slices.Clone(x.zones[key])
}

// Len returns the number of ids in key.
func (x *Index) Len(key Key) int {
	return len(x.zones[key])
}

// Top returns the last id in key, which is the top of a deck.
func (x *Index) Top(key Key) (entity.ID, bool) {
	members := x.zones[key]
	if len(members) == 0 {
		return 0, false
	}
	return members[len(members)-1], true
}

// Shuffle permutes key in place using rng.
func (x *Index) Shuffle(key Key, rng *rand.Rand) {
	members := x.zones[key]
	rng.Shuffle(len(members), func(i, j int) {
		members[i], members[j] = members[j], members[i]
	})
}

// Clone returns a deep copy of the index.
func (x *Index) Clone() *Index {
	c := &Index{
		zones: make(map[Key][]entity.ID, len(x.zones)),
		where: maps.Clone(x.where),
	}
	for k, v := range x.zones {
		c.zones[k] = slices.Clone(v)
	}
	return c
}
