// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import (
	"context"
	"slices"
)

// Callback is a trigger listener. It is invoked while the machine is in
// Trigger(Timing, Event) and must return with the machine in that same state
// and at the same stack depth. It may run nested effects with Recurse.
type Callback func(ctx context.Context, m *Machine) error

// Listener is a callback filed under a (timing, event) pair.
type Listener struct {
	Timing   Timing
	Event    Event
	Name     string
	Source   string // e.g. "core", "card:1:4", "diagnostics"
	Callback Callback
}

// Registry holds listeners in registration order. Registration order is
// execution order within a phase.
type Registry struct {
	listeners []Listener
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends l. Duplicates are allowed.
func (r *Registry) Register(l Listener) {
	r.listeners = append(r.listeners, l)
}

// Select returns the listeners filed under (t, e) in registration order.
// The returned slice is a copy, so listeners registered while it is being
// walked are not part of it.
func (r *Registry) Select(t Timing, e Event) []Listener {
	var out []Listener
	for _, l := range r.listeners {
		if l.Timing == t && l.Event == e {
			out = append(out, l)
		}
	}
	return out
}

// All returns every listener in registration order.
func (r *Registry) All() []Listener {
	return slices.Clone(r.listeners)
}

// Len returns the number of registered listeners.
func (r *Registry) Len() int {
	return len(r.listeners)
}

// Clear removes every listener.
func (r *Registry) Clear() {
	r.listeners = nil
}

// Clone returns a copy of the registry. Callbacks are shared.
func (r *Registry) Clone() *Registry {
	return &Registry{listeners: slices.Clone(r.listeners)}
}
