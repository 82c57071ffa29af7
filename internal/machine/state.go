// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine

import "fmt"

// Kind is the top-level discriminant of a machine state.
type Kind uint8

// Top-level state kinds.
const (
	KindWait Kind = iota
	KindAction
	KindEffect
	KindTrigger
	KindRecurseEffect
	KindFinished
)

func (k Kind) String() string {
	switch k {
	case KindWait:
		return "Wait"
	case KindAction:
		return "Action"
	case KindEffect:
		return "Effect"
	case KindTrigger:
		return "Trigger"
	case KindRecurseEffect:
		return "RecurseEffect"
	case KindFinished:
		return "Finished"
	default:
		return "unknown"
	}
}

// Timing is an ordering slot within one event's dispatch.
type Timing uint8

// Timings, in dispatch order.
const (
	Pre Timing = iota
	Peri
	Post
)

// Timings lists every timing in dispatch order.
var Timings = [...]Timing{Pre, Peri, Post}

func (t Timing) String() string {
	switch t {
	case Pre:
		return "Pre"
	case Peri:
		return "Peri"
	case Post:
		return "Post"
	default:
		return "unknown"
	}
}

// Valid reports whether t is a known timing.
func (t Timing) Valid() bool {
	return t <= Post
}

// ParseTiming returns the timing with the given name.
func ParseTiming(name string) (Timing, bool) {
	for _, t := range Timings {
		if t.String() == name {
			return t, true
		}
	}
	return 0, false
}

// Event is a leaf tag: something the machine waits for, an action a player
// takes, or an effect triggers listen to.
type Event uint8

// Leaf tags.
const (
	Start Event = iota
	Input
	EndTurn
	PlayCard
	Attack
	DrawCard
	Damage
	Summon
	Death
	numEvents
)

// Events lists every leaf tag.
var Events = [...]Event{Start, Input, EndTurn, PlayCard, Attack, DrawCard, Damage, Summon, Death}

var eventNames = [...]string{
	Start:    "Start",
	Input:    "Input",
	EndTurn:  "EndTurn",
	PlayCard: "PlayCard",
	Attack:   "Attack",
	DrawCard: "DrawCard",
	Damage:   "Damage",
	Summon:   "Summon",
	Death:    "Death",
}

func (e Event) String() string {
	if e < numEvents {
		return eventNames[e]
	}
	return "unknown"
}

// ParseEvent returns the leaf tag with the given name.
func ParseEvent(name string) (Event, bool) {
	for i, n := range eventNames {
		if n == name {
			return Event(i), true
		}
	}
	return 0, false
}

// Waitable reports whether the machine can rest in Wait(e).
func (e Event) Waitable() bool {
	return e == Start || e == Input
}

// Actionable reports whether e can be issued as an action.
func (e Event) Actionable() bool {
	switch e {
	case Start, EndTurn, PlayCard, Attack:
		return true
	default:
		return false
	}
}

// Triggerable reports whether listeners can be filed under e.
func (e Event) Triggerable() bool {
	return e < numEvents && e != Input
}

// Payload returns the transaction kind carried by states built on e.
func (e Event) Payload() TxnKind {
	switch e {
	case PlayCard:
		return TxnPlayCard
	case Attack:
		return TxnAttack
	case DrawCard:
		return TxnDraw
	case Damage:
		return TxnDamage
	case Summon, Death:
		return TxnSubject
	default:
		return TxnEmpty
	}
}

// State is a machine state. Timing and Event are meaningful only for the
// kinds that take them; constructors keep unused fields zero so that states
// compare with ==.
type State struct {
	Kind   Kind
	Timing Timing
	Event  Event
}

// Finished is the terminal state.
var Finished = State{Kind: KindFinished}

// Wait is the resting state that expects k next.
func Wait(k Event) State {
	return State{Kind: KindWait, Event: k}
}

// Action is the state entered when a player issues a.
func Action(a Event) State {
	return State{Kind: KindAction, Event: a}
}

// Effect is the state that resolves action a.
func Effect(a Event) State {
	return State{Kind: KindEffect, Event: a}
}

// Trigger is the state in which listeners for (t, e) run.
func Trigger(t Timing, e Event) State {
	return State{Kind: KindTrigger, Timing: t, Event: e}
}

// RecurseEffect is the state that resolves a nested effect e.
func RecurseEffect(e Event) State {
	return State{Kind: KindRecurseEffect, Event: e}
}

func (s State) String() string {
	switch s.Kind {
	case KindFinished:
		return "Finished"
	case KindTrigger:
		return fmt.Sprintf("Trigger(%s,%s)", s.Timing, s.Event)
	default:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Event)
	}
}

// Accepts returns the transaction kind the state requires on entry.
func (s State) Accepts() TxnKind {
	switch s.Kind {
	case KindAction, KindEffect, KindRecurseEffect:
		return s.Event.Payload()
	default:
		return TxnEmpty
	}
}

// canFlat reports whether from → to is a legal flat transition.
func canFlat(from, to State) bool {
	switch from.Kind {
	case KindWait:
		if to.Kind != KindAction {
			return false
		}
		if from.Event == Start {
			return to.Event == Start
		}
		return from.Event == Input && to.Event.Actionable() && to.Event != Start
	case KindAction:
		return to == Wait(Input) || to == Finished
	case KindTrigger:
		return to.Kind == KindTrigger && to.Event == from.Event && from.Timing != Post && to.Timing == from.Timing+1
	default:
		return false
	}
}

// canPush reports whether from → to is a legal push-down.
func canPush(from, to State) bool {
	switch from.Kind {
	case KindAction:
		return to == Effect(from.Event)
	case KindEffect, KindRecurseEffect:
		return to == Trigger(Pre, from.Event)
	case KindTrigger:
		return to.Kind == KindRecurseEffect && to.Event.Triggerable()
	default:
		return false
	}
}

// canPull reports whether from → to is a legal pull-up. Every pull-up
// reverses a push-down, but the phases advance between the two, so a
// trigger chain is left from Post.
func canPull(from, to State) bool {
	switch from.Kind {
	case KindEffect:
		return to == Action(from.Event)
	case KindTrigger:
		return from.Timing == Post && (to == Effect(from.Event) || to == RecurseEffect(from.Event))
	case KindRecurseEffect:
		return to.Kind == KindTrigger
	default:
		return false
	}
}
