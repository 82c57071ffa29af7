// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package card

import (
	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/machine"
)

// CoreSet is the set number of the built-in cards.
const CoreSet uint16 = 1

func core(ordinal uint16) entity.CardRef {
	return entity.CardRef{Set: CoreSet, Ordinal: ordinal}
}

func onSummon(name string, effect Effect) Template {
	return Template{Timing: machine.Post, Event: machine.Summon, Scope: ScopeSelf, Name: name, Effect: effect}
}

func onDeath(name string, effect Effect) Template {
	return Template{Timing: machine.Post, Event: machine.Death, Scope: ScopeSelf, Name: name, Effect: effect}
}

func onCast(name string, effect Effect) Template {
	return Template{Timing: machine.Post, Event: machine.PlayCard, Scope: ScopeSelf, Name: name, Effect: effect}
}

func onTurnEnd(name string, effect Effect) Template {
	return Template{Timing: machine.Post, Event: machine.EndTurn, Scope: ScopeAny, Name: name, Effect: effect}
}

var coreDefinitions = []Definition{
	{Ref: core(1), Name: "Ember Wisp", Kind: KindMinion, Cost: 0, Attack: 1, Health: 1},
	{Ref: core(2), Name: "Marsh Lurker", Kind: KindMinion, Cost: 2, Attack: 2, Health: 3},
	{Ref: core(3), Name: "Frost Yeti", Kind: KindMinion, Cost: 4, Attack: 4, Health: 5},
	{Ref: core(4), Name: "Stone Ogre", Kind: KindMinion, Cost: 6, Attack: 6, Health: 7},
	{
		Ref: core(5), Name: "Apprentice Tinker", Kind: KindMinion, Cost: 2, Attack: 1, Health: 1,
		Text:     "Summon: draw a card.",
		Triggers: []Template{onSummon("draw", Draw(1))},
	},
	{
		Ref: core(6), Name: "Hoarding Goblin", Kind: KindMinion, Cost: 2, Attack: 2, Health: 1,
		Text:     "Death: draw a card.",
		Triggers: []Template{onDeath("draw", Draw(1))},
	},
	{
		Ref: core(7), Name: "Keen Archer", Kind: KindMinion, Cost: 1, Attack: 1, Health: 1,
		Text:     "Summon: deal 1 damage to each opponent.",
		Triggers: []Template{onSummon("volley", DamageOpponents(1))},
	},
	{
		Ref: core(8), Name: "Raging Brute", Kind: KindMinion, Cost: 3, Attack: 2, Health: 4,
		Text:     "Whenever a turn ends, gain +1 attack.",
		Triggers: []Template{onTurnEnd("rage", GainAttack(1))},
	},
	{
		Ref: core(9), Name: "Fire Bolt", Kind: KindSpell, Cost: 4,
		Text:     "Deal 6 damage to each opponent.",
		Triggers: []Template{onCast("bolt", DamageOpponents(6))},
	},
	{
		Ref: core(10), Name: "Arcane Study", Kind: KindSpell, Cost: 3,
		Text:     "Draw 2 cards.",
		Triggers: []Template{onCast("study", Draw(2))},
	},
	{
		Ref: core(11), Name: "Healing Draught", Kind: KindSpell, Cost: 1,
		Text:     "Restore 5 health to yourself.",
		Triggers: []Template{onCast("heal", HealOwner(5))},
	},
	{
		Ref: core(12), Name: "Firestorm", Kind: KindSpell, Cost: 7,
		Text:     "Deal 4 damage to each enemy minion.",
		Triggers: []Template{onCast("storm", DamageEnemyMinions(4))},
	},
}

// Core returns a catalog holding the built-in set.
func Core() *Catalog {
	c := NewCatalog()
	for _, d := range coreDefinitions {
		if err := c.Register(d); err != nil {
			panic(err)
		}
	}
	return c
}
