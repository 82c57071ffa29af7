// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package card

import (
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/machine"
)

// EngineVersion is the rules-engine version catalog files are checked
// against.
const EngineVersion = "1.0.0"

// File is the on-disk form of a card catalog.
type File struct {
	Engine string     `yaml:"engine" jsonschema:"description=Semver constraint on the engine version,example=^1.0"`
	Set    uint16     `yaml:"set" jsonschema:"minimum=2,description=Set number; set 1 is reserved for the core set"`
	Name   string     `yaml:"name,omitempty"`
	Cards  []FileCard `yaml:"cards" jsonschema:"minItems=1"`
}

// FileCard is one card entry of a catalog file.
type FileCard struct {
	Ordinal  uint16        `yaml:"ordinal" jsonschema:"minimum=1"`
	Name     string        `yaml:"name" jsonschema:"minLength=1"`
	Kind     Kind          `yaml:"kind" jsonschema:"enum=minion,enum=spell"`
	Cost     uint32        `yaml:"cost,omitempty" jsonschema:"maximum=10"`
	Attack   uint32        `yaml:"attack,omitempty"`
	Health   uint32        `yaml:"health,omitempty"`
	Text     string        `yaml:"text,omitempty"`
	Triggers []FileTrigger `yaml:"triggers,omitempty"`
}

// FileTrigger binds a named effect to an event.
type FileTrigger struct {
	On     string `yaml:"event" jsonschema:"enum=Start,enum=EndTurn,enum=PlayCard,enum=Attack,enum=DrawCard,enum=Damage,enum=Summon,enum=Death"`
	Timing string `yaml:"timing,omitempty" jsonschema:"enum=Pre,enum=Peri,enum=Post,default=Post"`
	Scope  Scope  `yaml:"scope,omitempty" jsonschema:"enum=self,enum=any,default=self"`
	Effect string `yaml:"effect" jsonschema:"description=Built-in effect name"`
	Amount uint32 `yaml:"amount,omitempty" jsonschema:"default=1"`
}

// ParseFile validates data against the catalog schema and the engine
// constraint, then builds a catalog from it.
func ParseFile(data []byte) (*Catalog, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, oops.Code(CodeInvalidCatalog).Wrapf(err, "invalid YAML")
	}
	if err := CheckEngine(f.Engine); err != nil {
		return nil, err
	}
	if f.Set == CoreSet {
		return nil, oops.Code(CodeInvalidCatalog).With("set", f.Set).Errorf("set %d is reserved for the core set", CoreSet)
	}

	c := NewCatalog()
	for _, fc := range f.Cards {
		d, err := fc.definition(f.Set)
		if err != nil {
			return nil, err
		}
		if err := c.Register(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadFile reads and parses the catalog file at path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, oops.Code(CodeInvalidCatalog).With("path", path).Wrap(err)
	}
	c, err := ParseFile(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return c, nil
}

// CheckEngine verifies that EngineVersion satisfies constraint.
func CheckEngine(constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return oops.Code(CodeInvalidCatalog).With("engine", constraint).Wrapf(err, "invalid engine constraint")
	}
	v := semver.MustParse(EngineVersion)
	if !c.Check(v) {
		return oops.Code(CodeEngineMismatch).
			With("engine", constraint).
			With("version", EngineVersion).
			Errorf("catalog requires engine %s, have %s", constraint, EngineVersion)
	}
	return nil
}

func (fc FileCard) definition(set uint16) (Definition, error) {
	d := Definition{
		Ref:    entity.CardRef{Set: set, Ordinal: fc.Ordinal},
		Name:   fc.Name,
		Kind:   fc.Kind,
		Cost:   fc.Cost,
		Attack: fc.Attack,
		Health: fc.Health,
		Text:   fc.Text,
	}
	for i, ft := range fc.Triggers {
		t, err := ft.template()
		if err != nil {
			return Definition{}, oops.With("card", fc.Name).With("trigger", i).Wrap(err)
		}
		d.Triggers = append(d.Triggers, t)
	}
	return d, nil
}

func (ft FileTrigger) template() (Template, error) {
	event, ok := machine.ParseEvent(ft.On)
	if !ok || !event.Triggerable() {
		return Template{}, oops.Code(CodeInvalidCatalog).With("event", ft.On).Errorf("unknown event %q", ft.On)
	}
	timing := machine.Post
	if ft.Timing != "" {
		if timing, ok = machine.ParseTiming(ft.Timing); !ok {
			return Template{}, oops.Code(CodeInvalidCatalog).With("timing", ft.Timing).Errorf("unknown timing %q", ft.Timing)
		}
	}
	scope := ft.Scope
	if scope == "" {
		scope = ScopeSelf
	}
	amount := ft.Amount
	if amount == 0 {
		amount = 1
	}
	if ft.Effect == "" {
		return Template{}, oops.Code(CodeInvalidCatalog).Errorf("trigger needs an effect")
	}
	factory, err := LookupEffect(ft.Effect)
	if err != nil {
		return Template{}, err
	}
	return Template{Timing: timing, Event: event, Scope: scope, Name: ft.Effect, Effect: factory(amount)}, nil
}
