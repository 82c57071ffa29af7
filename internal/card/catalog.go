// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package card

import (
	"cmp"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/holomush/holocards/internal/entity"
)

// Catalog holds card definitions keyed by ref and by name. A catalog is
// filled once and then only read.
type Catalog struct {
	defs   map[entity.CardRef]*Definition
	byName map[string]entity.CardRef
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		defs:   make(map[entity.CardRef]*Definition),
		byName: make(map[string]entity.CardRef),
	}
}

// Register validates d and adds it. Refs and names (case-insensitively)
// must be unique.
func (c *Catalog) Register(d Definition) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, ok := c.defs[d.Ref]; ok {
		return ErrDuplicateCard("ref", FormatRef(d.Ref))
	}
	name := normalize(d.Name)
	if _, ok := c.byName[name]; ok {
		return ErrDuplicateCard("name", d.Name)
	}
	c.defs[d.Ref] = &d
	c.byName[name] = d.Ref
	return nil
}

// Merge registers every definition of other.
func (c *Catalog) Merge(other *Catalog) error {
	for d := range other.All() {
		if err := c.Register(*d); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the definition with the given ref.
func (c *Catalog) Lookup(ref entity.CardRef) (*Definition, error) {
	d, ok := c.defs[ref]
	if !ok {
		return nil, ErrCardNotFound(FormatRef(ref))
	}
	return d, nil
}

// ByName returns the definition with the given name, ignoring case.
func (c *Catalog) ByName(name string) (*Definition, error) {
	ref, ok := c.byName[normalize(name)]
	if !ok {
		return nil, ErrCardNotFound(name)
	}
	return c.defs[ref], nil
}

// Resolve accepts either a "set:ordinal" ref or a card name.
func (c *Catalog) Resolve(key string) (*Definition, error) {
	if ref, err := ParseRef(key); err == nil {
		return c.Lookup(ref)
	}
	return c.ByName(key)
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// All iterates the definitions in ref order.
func (c *Catalog) All() iter.Seq[*Definition] {
	refs := slices.SortedFunc(maps.Keys(c.defs), compareRefs)
	return func(yield func(*Definition) bool) {
		for _, ref := range refs {
			if !yield(c.defs[ref]) {
				return
			}
		}
	}
}

// Match returns the definitions whose name matches the glob pattern,
// ignoring case, in ref order.
func (c *Catalog) Match(pattern string) ([]*Definition, error) {
	g, err := glob.Compile(normalize(pattern))
	if err != nil {
		return nil, oops.Code(CodeInvalidPattern).
			With("pattern", pattern).
			Wrap(err)
	}
	var out []*Definition
	for d := range c.All() {
		if g.Match(normalize(d.Name)) {
			out = append(out, d)
		}
	}
	return out, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func compareRefs(a, b entity.CardRef) int {
	return cmp.Or(cmp.Compare(a.Set, b.Set), cmp.Compare(a.Ordinal, b.Ordinal))
}
