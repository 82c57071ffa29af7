// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package card defines card definitions and the catalogs that hold them.
//
// A Definition is shared data: the machine only ever sees entities that
// reference a definition by entity.CardRef. Installing a definition copies
// its stats onto an entity; binding it registers its trigger templates as
// listeners for that one entity.
package card

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/oops"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/machine"
	"github.com/holomush/holocards/internal/prototype"
	"github.com/holomush/holocards/internal/zone"
)

// Kind distinguishes minions from spells.
type Kind string

// Card kinds.
const (
	KindMinion Kind = "minion"
	KindSpell  Kind = "spell"
)

// Scope selects which resolutions of an event a template reacts to.
type Scope string

// Template scopes.
const (
	// ScopeSelf fires only when the event's subject is the bound card.
	ScopeSelf Scope = "self"
	// ScopeAny fires on every resolution of the event.
	ScopeAny Scope = "any"
)

// Effect is what a bound template does when it fires.
type Effect func(ctx context.Context, m *machine.Machine, self entity.ID) error

// Template is a trigger a card carries into play.
type Template struct {
	Timing machine.Timing
	Event  machine.Event
	Scope  Scope
	Name   string
	Effect Effect
}

// Definition is an immutable card definition.
type Definition struct {
	Ref      entity.CardRef
	Name     string
	Kind     Kind
	Cost     uint32
	Attack   uint32
	Health   uint32
	Text     string
	Triggers []Template
}

// Validate checks the definition's internal consistency.
func (d *Definition) Validate() error {
	errb := oops.Code(CodeInvalidCard).With("card", d.Name).With("ref", FormatRef(d.Ref))
	switch {
	case d.Ref.IsZero():
		return errb.Errorf("card ref is required")
	case strings.TrimSpace(d.Name) == "":
		return errb.Errorf("card name is required")
	case d.Kind != KindMinion && d.Kind != KindSpell:
		return errb.Errorf("kind must be %q or %q, got %q", KindMinion, KindSpell, d.Kind)
	case d.Kind == KindMinion && d.Health == 0:
		return errb.Errorf("minion needs health")
	case d.Kind == KindSpell && (d.Attack != 0 || d.Health != 0):
		return errb.Errorf("spells carry no attack or health")
	}
	for _, t := range d.Triggers {
		if !t.Timing.Valid() || !t.Event.Triggerable() {
			return errb.With("trigger", t.Name).Errorf("trigger %q is filed under an invalid phase", t.Name)
		}
		if t.Effect == nil {
			return errb.With("trigger", t.Name).Errorf("trigger %q has no effect", t.Name)
		}
		if t.Scope != ScopeSelf && t.Scope != ScopeAny {
			return errb.With("trigger", t.Name).Errorf("trigger %q has scope %q", t.Name, t.Scope)
		}
	}
	return nil
}

// Install turns entity id into an instance of d owned by owner.
func (d *Definition) Install(s *entity.Store, id, owner entity.ID) error {
	if err := prototype.InstallCard(s, id, owner, d.Kind == KindMinion); err != nil {
		return err
	}
	props := map[entity.PropertyKey]uint32{entity.Cost: d.Cost}
	if d.Kind == KindMinion {
		props[entity.Attack] = d.Attack
		props[entity.Health] = d.Health
		props[entity.MaxHealth] = d.Health
	}
	for key, v := range props {
		if _, _, err := s.SetProperty(id, key, v); err != nil {
			return err
		}
	}
	if err := s.SetName(id, d.Name); err != nil {
		return err
	}
	return s.SetCard(id, d.Ref)
}

// Bind returns the listeners that attach d's templates to the instance self.
func (d *Definition) Bind(self entity.ID) []machine.Listener {
	listeners := make([]machine.Listener, 0, len(d.Triggers))
	for _, t := range d.Triggers {
		listeners = append(listeners, machine.Listener{
			Timing:   t.Timing,
			Event:    t.Event,
			Name:     fmt.Sprintf("%s#%d:%s", d.Name, self, t.Name),
			Source:   "card:" + FormatRef(d.Ref),
			Callback: t.bind(self),
		})
	}
	return listeners
}

func (t Template) bind(self entity.ID) machine.Callback {
	return func(ctx context.Context, m *machine.Machine) error {
		if t.Scope == ScopeSelf {
			subject, ok := subjectOf(m)
			if !ok || subject != self {
				return nil
			}
		}
		// A card that has left play stops reacting to anything but its own death.
		if t.Scope == ScopeAny && !inPlay(m, self) {
			return nil
		}
		return t.Effect(ctx, m, self)
	}
}

// subjectOf returns the entity the resolving event is about.
func subjectOf(m *machine.Machine) (entity.ID, bool) {
	switch m.State().Event {
	case machine.PlayCard:
		txn, err := machine.Payload[machine.PlayCardTxn](m)
		return txn.Card, err == nil
	case machine.Attack:
		txn, err := machine.Payload[machine.AttackTxn](m)
		return txn.Attacker, err == nil
	case machine.Damage:
		txn, err := machine.Payload[machine.DamageTxn](m)
		return txn.Target, err == nil
	case machine.Summon, machine.Death:
		txn, err := machine.Payload[machine.SubjectTxn](m)
		return txn.Entity, err == nil
	case machine.DrawCard:
		txn, err := machine.Payload[machine.DrawTxn](m)
		return txn.Player, err == nil
	default:
		return 0, false
	}
}

func inPlay(m *machine.Machine, self entity.ID) bool {
	pos, ok := m.Zones().PositionOf(self)
	return ok && pos.Key.Kind == zone.Play
}

// ParseRef parses a "set:ordinal" card reference.
func ParseRef(s string) (entity.CardRef, error) {
	bad := oops.Code(CodeInvalidCard).With("ref", s)
	set, ordinal, ok := strings.Cut(s, ":")
	if !ok {
		return entity.CardRef{}, bad.Errorf("card ref must look like set:ordinal")
	}
	setN, err := strconv.ParseUint(set, 10, 16)
	if err != nil {
		return entity.CardRef{}, bad.Wrapf(err, "card ref must look like set:ordinal")
	}
	ordN, err := strconv.ParseUint(ordinal, 10, 16)
	if err != nil {
		return entity.CardRef{}, bad.Wrapf(err, "card ref must look like set:ordinal")
	}
	ref := entity.CardRef{Set: uint16(setN), Ordinal: uint16(ordN)}
	if ref.IsZero() {
		return entity.CardRef{}, bad.Errorf("card ref must look like set:ordinal")
	}
	return ref, nil
}

// FormatRef is the inverse of ParseRef.
func FormatRef(r entity.CardRef) string {
	return fmt.Sprintf("%d:%d", r.Set, r.Ordinal)
}
