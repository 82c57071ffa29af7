// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package entity

import (
	"iter"

	"github.com/holomush/holocards/internal/fault"
)

// Store holds every entity of one machine, indexed by id.
// It is not safe for concurrent use.
type Store struct {
	entities []*Entity
	max      uint32
}

// NewStore creates an empty store that holds at most capacity entities.
func NewStore(capacity uint32) *Store {
	return &Store{max: capacity}
}

// Max returns the store capacity.
func (s *Store) Max() uint32 {
	return s.max
}

// Len returns the number of allocated entities.
func (s *Store) Len() int {
	return len(s.entities)
}

// Allocate creates a new entity and returns its id.
// Returns a CAPACITY_EXCEEDED error when the store is full.
func (s *Store) Allocate() (ID, error) {
	next := uint32(len(s.entities))
	if next == s.max {
		return 0, fault.CapacityExceeded(int(s.max))
	}
	e := newEntity(ID(next))
	s.entities = append(s.entities, e)
	return e.ID, nil
}

// Get returns the entity with the given id.
func (s *Store) Get(id ID) (*Entity, error) {
	if int(id) >= len(s.entities) {
		return nil, fault.MissingEntity(uint32(id))
	}
	return s.entities[id], nil
}

// Property returns the value of key on entity id.
func (s *Store) Property(id ID, key PropertyKey) (uint32, error) {
	e, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	v, ok := e.Property(key)
	if !ok {
		return 0, fault.MissingProperty(uint32(id), key.String())
	}
	return v, nil
}

// SetProperty sets key on entity id and returns the previous value, if any.
func (s *Store) SetProperty(id ID, key PropertyKey, value uint32) (prev uint32, had bool, err error) {
	e, err := s.Get(id)
	if err != nil {
		return 0, false, err
	}
	prev, had = e.SetProperty(key, value)
	return prev, had, nil
}

// RemoveProperty deletes key from entity id.
func (s *Store) RemoveProperty(id ID, key PropertyKey) (prev uint32, had bool, err error) {
	e, err := s.Get(id)
	if err != nil {
		return 0, false, err
	}
	prev, had = e.RemoveProperty(key)
	return prev, had, nil
}

// AddPrototype tags entity id with tag.
func (s *Store) AddPrototype(id ID, tag Prototype) error {
	e, err := s.Get(id)
	if err != nil {
		return err
	}
	if !tag.Valid() {
		return fault.ConstraintViolation("known prototype", tag.String())
	}
	e.prototypes[tag] = struct{}{}
	return nil
}

// RemovePrototype removes tag from entity id.
func (s *Store) RemovePrototype(id ID, tag Prototype) error {
	e, err := s.Get(id)
	if err != nil {
		return err
	}
	delete(e.prototypes, tag)
	return nil
}

// HasPrototype reports whether entity id carries tag.
func (s *Store) HasPrototype(id ID, tag Prototype) (bool, error) {
	e, err := s.Get(id)
	if err != nil {
		return false, err
	}
	return e.HasPrototype(tag), nil
}

// Require returns entity id if it carries tag, or a MISSING_PROTOTYPE error.
func (s *Store) Require(id ID, tag Prototype) (*Entity, error) {
	e, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !e.HasPrototype(tag) {
		return nil, fault.MissingPrototype(uint32(id), tag.String())
	}
	return e, nil
}

// SetName sets the human-readable name of entity id.
func (s *Store) SetName(id ID, name string) error {
	e, err := s.Get(id)
	if err != nil {
		return err
	}
	e.Name = name
	return nil
}

// All iterates entities in id order.
func (s *Store) All() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for _, e := range s.entities {
			if !yield(e) {
				return
			}
		}
	}
}

// WithPrototype iterates entities carrying tag, in id order.
func (s *Store) WithPrototype(tag Prototype) iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for _, e := range s.entities {
			if e.HasPrototype(tag) && !yield(e) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := &Store{max: s.max, entities: make([]*Entity, len(s.entities))}
	for i, e := range s.entities {
		c.entities[i] = e.Clone()
	}
	return c
}

// SetCard records which card definition entity id was built from.
func (s *Store) SetCard(id ID, ref CardRef) error {
	e, err := s.Get(id)
	if err != nil {
		return err
	}
	e.Card = ref
	return nil
}
