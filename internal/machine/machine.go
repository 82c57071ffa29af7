// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package machine implements the pushdown state machine that runs a card game.
//
// A Machine rests in Wait states between actions. Running an action walks
// Action → Effect → Trigger(Pre/Peri/Post) and back, dispatching registered
// listeners in each phase. Listeners may resolve nested effects, which push
// further frames onto the transaction stack and pop them before returning.
//
// A Machine is owned by a single goroutine; nothing in this package locks.
package machine

import (
	"fmt"
	"slices"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/fault"
	"github.com/holomush/holocards/internal/prototype"
	"github.com/holomush/holocards/internal/zone"
)

// Machine is one running game.
type Machine struct {
	id       ulid.ULID
	cfg      Config
	state    State
	txn      Transaction
	stack    *Stack
	history  []State
	entities *entity.Store
	zones    *zone.Index
	triggers *Registry
}

// ID returns the instance id of the machine.
func (m *Machine) ID() ulid.ULID {
	return m.id
}

// Config returns the configuration the machine was built from.
func (m *Machine) Config() Config {
	return m.cfg
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Transaction returns the current transaction.
func (m *Machine) Transaction() Transaction {
	return m.txn
}

// Depth returns the number of frames on the transaction stack.
func (m *Machine) Depth() int {
	return m.stack.Len()
}

// Stack returns a copy of the stack frames, bottom to top.
func (m *Machine) Stack() []Frame {
	return m.stack.Frames()
}

// History returns the states entered by push-down that have not yet been
// pulled up from, oldest first. Its length always equals Depth.
func (m *Machine) History() []State {
	return slices.Clone(m.history)
}

// Entities returns the entity store.
func (m *Machine) Entities() *entity.Store {
	return m.entities
}

// Zones returns the zone index.
func (m *Machine) Zones() *zone.Index {
	return m.zones
}

// Triggers returns the trigger registry.
func (m *Machine) Triggers() *Registry {
	return m.triggers
}

// Finished reports whether the machine reached its terminal state.
func (m *Machine) Finished() bool {
	return m.state == Finished
}

// RegisterTrigger files l under (l.Timing, l.Event).
func (m *Machine) RegisterTrigger(l Listener) error {
	switch {
	case !l.Timing.Valid():
		return m.Wrap(fault.ConstraintViolation("Pre, Peri or Post", l.Timing.String()))
	case !l.Event.Triggerable():
		return m.Wrap(fault.ConstraintViolation("triggerable event", l.Event.String()))
	case l.Callback == nil:
		return m.Wrap(fault.ConstraintViolation("callback", "nil"))
	}
	m.triggers.Register(l)
	return nil
}

// On registers cb under (t, e) with the given name.
func (m *Machine) On(t Timing, e Event, name string, cb Callback) error {
	return m.RegisterTrigger(Listener{Timing: t, Event: e, Name: name, Callback: cb})
}

// Clone returns a deep copy of the machine. Listener callbacks are shared.
func (m *Machine) Clone() *Machine {
	return &Machine{
		id:       m.id,
		cfg:      m.cfg,
		state:    m.state,
		txn:      m.txn,
		stack:    m.stack.Clone(),
		history:  slices.Clone(m.history),
		entities: m.entities.Clone(),
		zones:    m.zones.Clone(),
		triggers: m.triggers.Clone(),
	}
}

// EffectTransaction returns the transaction of the effect being resolved.
// Inside a trigger phase the current transaction is Empty, so this is the
// transaction saved by the enclosing Effect or RecurseEffect. In any other
// state it is the current transaction.
func (m *Machine) EffectTransaction() (Transaction, error) {
	if m.state.Kind != KindTrigger {
		return m.txn, nil
	}
	f, err := m.stack.Peek()
	if err != nil {
		return nil, m.Wrap(err)
	}
	return f.Txn, nil
}

// Payload returns EffectTransaction downcast to T.
func Payload[T Transaction](m *Machine) (T, error) {
	txn, err := m.EffectTransaction()
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := Unpack[T](txn)
	if err != nil {
		return v, m.Wrap(err)
	}
	return v, nil
}

// Game opens the read view of the Game entity.
func (m *Machine) Game() (prototype.Game, error) {
	g, err := prototype.ReadGame(m.entities, entity.GameID)
	return g, m.Wrap(err)
}

// GameMut opens the mutate view of the Game entity.
func (m *Machine) GameMut() (prototype.GameMut, error) {
	g, err := prototype.MutateGame(m.entities, entity.GameID)
	return g, m.Wrap(err)
}

// Player opens the read view of player id.
func (m *Machine) Player(id entity.ID) (prototype.Player, error) {
	p, err := prototype.ReadPlayer(m.entities, id)
	return p, m.Wrap(err)
}

// PlayerMut opens the mutate view of player id.
func (m *Machine) PlayerMut(id entity.ID) (prototype.PlayerMut, error) {
	p, err := prototype.MutatePlayer(m.entities, id)
	return p, m.Wrap(err)
}

// MinionMut opens the mutate view of minion id.
func (m *Machine) MinionMut(id entity.ID) (prototype.MinionMut, error) {
	mn, err := prototype.MutateMinion(m.entities, id)
	return mn, m.Wrap(err)
}

// Players returns the player entities in seat order.
func (m *Machine) Players() []entity.ID {
	var ids []entity.ID
	for e := range m.entities.WithPrototype(entity.PrototypePlayer) {
		ids = append(ids, e.ID)
	}
	return ids
}

// PlayerByOrd returns the player seated at ord.
func (m *Machine) PlayerByOrd(ord uint32) (entity.ID, error) {
	for e := range m.entities.WithPrototype(entity.PrototypePlayer) {
		if v, ok := e.Property(entity.PlayerOrd); ok && v == ord {
			return e.ID, nil
		}
	}
	return 0, m.Wrap(fault.ConstraintViolation(fmt.Sprintf("player at seat %d", ord), "none"))
}

// CurrentPlayer returns the player whose turn it is.
func (m *Machine) CurrentPlayer() (entity.ID, error) {
	g, err := m.Game()
	if err != nil {
		return 0, err
	}
	ord, err := g.CurrentPlayerOrd()
	if err != nil {
		return 0, m.Wrap(err)
	}
	return m.PlayerByOrd(ord)
}

// Property returns key on entity id.
func (m *Machine) Property(id entity.ID, key entity.PropertyKey) (uint32, error) {
	v, err := m.entities.Property(id, key)
	return v, m.Wrap(err)
}

// SetProperty sets key on entity id and returns the previous value, if any.
func (m *Machine) SetProperty(id entity.ID, key entity.PropertyKey, value uint32) (uint32, bool, error) {
	prev, had, err := m.entities.SetProperty(id, key, value)
	return prev, had, m.Wrap(err)
}

// RemoveProperty deletes key from entity id.
func (m *Machine) RemoveProperty(id entity.ID, key entity.PropertyKey) (uint32, bool, error) {
	prev, had, err := m.entities.RemoveProperty(id, key)
	return prev, had, m.Wrap(err)
}

// Allocate creates a new entity.
func (m *Machine) Allocate() (entity.ID, error) {
	id, err := m.entities.Allocate()
	return id, m.Wrap(err)
}

// MoveTo appends entity id to the zone key, removing it from its old zone.
func (m *Machine) MoveTo(id entity.ID, key zone.Key) error {
	if _, err := m.entities.Get(id); err != nil {
		return m.Wrap(err)
	}
	return m.Wrap(m.zones.MoveTo(id, key))
}

// Place inserts an unplaced entity id at position in key.
func (m *Machine) Place(id entity.ID, key zone.Key, position int) error {
	if _, err := m.entities.Get(id); err != nil {
		return m.Wrap(err)
	}
	return m.Wrap(m.zones.Place(id, key, position))
}

// nesting returns how many RecurseEffect states are on the history.
func (m *Machine) nesting() int {
	n := 0
	for _, s := range m.history {
		if s.Kind == KindRecurseEffect {
			n++
		}
	}
	return n
}
