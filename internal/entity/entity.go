// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package entity provides the indexed entity store of the card engine.
package entity

import (
	"maps"
	"slices"
)

// ID identifies an entity. Ids are dense and follow allocation order.
type ID uint32

// GameID is the id reserved for the single Game entity.
const GameID ID = 0

// PropertyKey names a property slot on an entity.
type PropertyKey uint8

// Property keys.
const (
	MaxPlayers PropertyKey = iota
	CurrentPlayerOrd
	TurnCount
	GameOver
	Winner
	PlayerOrd
	Health
	MaxHealth
	InitialHandSize
	Mana
	MaxMana
	Fatigue
	Attack
	Cost
	Exhausted
	Owner
	numPropertyKeys
)

var propertyNames = [...]string{
	MaxPlayers:       "MaxPlayers",
	CurrentPlayerOrd: "CurrentPlayerOrd",
	TurnCount:        "TurnCount",
	GameOver:         "GameOver",
	Winner:           "Winner",
	PlayerOrd:        "PlayerOrd",
	Health:           "Health",
	MaxHealth:        "MaxHealth",
	InitialHandSize:  "InitialHandSize",
	Mana:             "Mana",
	MaxMana:          "MaxMana",
	Fatigue:          "Fatigue",
	Attack:           "Attack",
	Cost:             "Cost",
	Exhausted:        "Exhausted",
	Owner:            "Owner",
}

func (k PropertyKey) String() string {
	if k < numPropertyKeys {
		return propertyNames[k]
	}
	return "unknown"
}

// ParsePropertyKey returns the key with the given name.
func ParsePropertyKey(name string) (PropertyKey, bool) {
	for i, n := range propertyNames {
		if n == name {
			return PropertyKey(i), true
		}
	}
	return 0, false
}

// Prototype is a capability tag carried by an entity.
type Prototype uint8

// Prototype tags.
const (
	PrototypeGame Prototype = iota
	PrototypePlayer
	PrototypeCard
	PrototypeMinion
	PrototypeSpell
	numPrototypes
)

var prototypeNames = [...]string{
	PrototypeGame:   "Game",
	PrototypePlayer: "Player",
	PrototypeCard:   "Card",
	PrototypeMinion: "Minion",
	PrototypeSpell:  "Spell",
}

func (p Prototype) String() string {
	if p < numPrototypes {
		return prototypeNames[p]
	}
	return "unknown"
}

// Valid reports whether p is a known prototype tag.
func (p Prototype) Valid() bool {
	return p < numPrototypes
}

// CardRef identifies a card definition by set and ordinal.
type CardRef struct {
	Set     uint16
	Ordinal uint16
}

// IsZero reports whether r refers to no card.
func (r CardRef) IsZero() bool {
	return r == CardRef{}
}

// Entity is a stateful object with properties and prototype tags.
type Entity struct {
	ID         ID
	Name       string
	Card       CardRef
	properties map[PropertyKey]uint32
	prototypes map[Prototype]struct{}
}

func newEntity(id ID) *Entity {
	return &Entity{
		ID:         id,
		properties: make(map[PropertyKey]uint32),
		prototypes: make(map[Prototype]struct{}),
	}
}

// Property returns the value of key and whether it is set.
func (e *Entity) Property(key PropertyKey) (uint32, bool) {
	v, ok := e.properties[key]
	return v, ok
}

// SetProperty sets key and returns the previous value, if any.
func (e *Entity) SetProperty(key PropertyKey, value uint32) (uint32, bool) {
	prev, ok := e.properties[key]
	e.properties[key] = value
	return prev, ok
}

// RemoveProperty deletes key and returns the removed value, if any.
func (e *Entity) RemoveProperty(key PropertyKey) (uint32, bool) {
	prev, ok := e.properties[key]
	delete(e.properties, key)
	return prev, ok
}

// Properties returns a copy of the property map.
func (e *Entity) Properties() map[PropertyKey]uint32 {
	return maps.Clone(e.properties)
}

// HasPrototype reports whether the entity carries tag.
func (e *Entity) HasPrototype(tag Prototype) bool {
	_, ok := e.prototypes[tag]
	return ok
}

// Prototypes returns the entity's tags in ascending order.
func (e *Entity) Prototypes() []Prototype {
	tags := make([]Prototype, 0, len(e.prototypes))
	for tag := range e.prototypes {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	return &Entity{
		ID:         e.ID,
		Name:       e.Name,
		Card:       e.Card,
		properties: maps.Clone(e.properties),
		prototypes: maps.Clone(e.prototypes),
	}
}
