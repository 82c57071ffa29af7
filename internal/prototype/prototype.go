// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package prototype provides typed views over entities selected by the
// prototype tags they carry.
//
// Each prototype has a read view and a mutate view. A mutate view embeds the
// read view and adds operations that write properties back to the entity.
// Views hold the entity only for as long as the caller keeps them; they must
// not outlive the machine step that created them.
package prototype

import (
	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/fault"
)

// MaxMana is the ceiling for a player's mana crystals.
const MaxMana = 10

// view is the shared core of every prototype view.
type view struct {
	e *entity.Entity
}

// ID returns the id of the viewed entity.
func (v view) ID() entity.ID {
	return v.e.ID
}

// Name returns the human-readable name of the viewed entity.
func (v view) Name() string {
	return v.e.Name
}

func (v view) get(key entity.PropertyKey) (uint32, error) {
	value, ok := v.e.Property(key)
	if !ok {
		return 0, fault.MissingProperty(uint32(v.e.ID), key.String())
	}
	return value, nil
}

func (v view) flag(key entity.PropertyKey) bool {
	value, _ := v.e.Property(key)
	return value != 0
}

func (v view) set(key entity.PropertyKey, value uint32) {
	v.e.SetProperty(key, value)
}

func open(s *entity.Store, id entity.ID, tag entity.Prototype) (view, error) {
	e, err := s.Require(id, tag)
	if err != nil {
		return view{}, err
	}
	return view{e: e}, nil
}

func install(s *entity.Store, id entity.ID, tag entity.Prototype, defaults map[entity.PropertyKey]uint32) error {
	if err := s.AddPrototype(id, tag); err != nil {
		return err
	}
	e, err := s.Get(id)
	if err != nil {
		return err
	}
	for key, value := range defaults {
		if _, ok := e.Property(key); !ok {
			e.SetProperty(key, value)
		}
	}
	return nil
}

func saturatingSub(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return a - b
}
