// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package machine_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/holocards/internal/entity"
	"github.com/holomush/holocards/internal/fault"
	"github.com/holomush/holocards/internal/machine"
	"github.com/holomush/holocards/internal/zone"
)

func currentOrd(m *machine.Machine) uint32 {
	g, err := m.Game()
	Expect(err).NotTo(HaveOccurred())
	ord, err := g.CurrentPlayerOrd()
	Expect(err).NotTo(HaveOccurred())
	return ord
}

var _ = Describe("Machine", func() {
	var (
		ctx context.Context
		m   *machine.Machine
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		m, err = machine.New(machine.Config{PlayerNames: []string{"P1", "P2"}, MaxEntities: 100})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("game start", func() {
		It("seats both players and gives the first turn to seat 1", func() {
			Expect(m.StartGame(ctx)).To(Succeed())

			Expect(currentOrd(m)).To(Equal(uint32(1)))
			g, err := m.Game()
			Expect(err).NotTo(HaveOccurred())
			Expect(g.MaxPlayers()).To(Equal(uint32(2)))

			var names []string
			for id := range entity.ID(3) {
				e, err := m.Entities().Get(id)
				Expect(err).NotTo(HaveOccurred())
				names = append(names, e.Name)
			}
			Expect(names).To(Equal([]string{"", "P1", "P2"}))
		})
	})

	Describe("turn rotation", func() {
		It("wraps from the last seat back to the first", func() {
			Expect(m.StartGame(ctx)).To(Succeed())

			Expect(m.EndTurn(ctx)).To(Succeed())
			Expect(currentOrd(m)).To(Equal(uint32(2)))

			Expect(m.EndTurn(ctx)).To(Succeed())
			Expect(currentOrd(m)).To(Equal(uint32(1)))
		})
	})

	Describe("setup capacity", func() {
		It("fails when the players do not fit next to the Game entity", func() {
			_, err := machine.New(machine.Config{PlayerNames: []string{"P1"}, MaxEntities: 1})
			Expect(err).To(HaveOccurred())
			Expect(fault.Code(err)).To(Equal(fault.CodeCapacityExceeded))
			Expect(err.Error()).To(ContainSubstring("max 1"))
		})
	})

	Describe("trigger order", func() {
		It("runs listeners of one phase in registration order", func() {
			Expect(m.StartGame(ctx)).To(Succeed())
			log, err := m.Allocate()
			Expect(err).NotTo(HaveOccurred())

			for _, letter := range []string{"A", "B", "C"} {
				Expect(m.On(machine.Peri, machine.EndTurn, letter, func(_ context.Context, m *machine.Machine) error {
					e, err := m.Entities().Get(log)
					if err != nil {
						return err
					}
					return m.Entities().SetName(log, e.Name+letter)
				})).To(Succeed())
			}

			Expect(m.EndTurn(ctx)).To(Succeed())
			e, err := m.Entities().Get(log)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Name).To(Equal("ABC"))
		})

		It("runs Pre before Peri before Post", func() {
			Expect(m.StartGame(ctx)).To(Succeed())
			var order []machine.Timing
			for _, timing := range []machine.Timing{machine.Post, machine.Pre, machine.Peri} {
				Expect(m.On(timing, machine.EndTurn, timing.String(), func(_ context.Context, m *machine.Machine) error {
					order = append(order, m.State().Timing)
					return nil
				})).To(Succeed())
			}

			Expect(m.EndTurn(ctx)).To(Succeed())
			Expect(order).To(Equal([]machine.Timing{machine.Pre, machine.Peri, machine.Post}))
		})
	})

	Describe("nested recursion", func() {
		It("opens and closes a nested effect inside a phase", func() {
			var (
				innerDepth   int
				innerHistory []machine.State
			)
			Expect(m.On(machine.Peri, machine.Start, "summon", func(ctx context.Context, m *machine.Machine) error {
				return m.Recurse(ctx, machine.Summon, machine.SubjectTxn{Entity: 1})
			})).To(Succeed())
			Expect(m.On(machine.Peri, machine.Summon, "probe", func(_ context.Context, m *machine.Machine) error {
				innerDepth = m.Depth()
				innerHistory = m.History()
				return nil
			})).To(Succeed())

			Expect(m.Depth()).To(Equal(0))
			Expect(m.StartGame(ctx)).To(Succeed())

			Expect(innerDepth).To(Equal(4))
			Expect(innerHistory).To(Equal([]machine.State{
				machine.Effect(machine.Start),
				machine.Trigger(machine.Pre, machine.Start),
				machine.RecurseEffect(machine.Summon),
				machine.Trigger(machine.Pre, machine.Summon),
			}))
			Expect(m.Depth()).To(Equal(0))
			Expect(m.State()).To(Equal(machine.Wait(machine.Input)))
		})
	})

	Describe("error snapshots", func() {
		It("freezes the machine at the failing read", func() {
			Expect(m.StartGame(ctx)).To(Succeed())
			Expect(m.On(machine.Pre, machine.EndTurn, "forget", func(_ context.Context, m *machine.Machine) error {
				if _, _, err := m.RemoveProperty(entity.GameID, entity.CurrentPlayerOrd); err != nil {
					return err
				}
				g, err := m.Game()
				if err != nil {
					return err
				}
				_, err = g.CurrentPlayerOrd()
				return m.Wrap(err)
			})).To(Succeed())

			err := m.EndTurn(ctx)
			Expect(err).To(HaveOccurred())

			me, ok := machine.AsError(err)
			Expect(ok).To(BeTrue())
			Expect(me.Category).To(Equal(machine.ConstraintError))
			Expect(me.Code()).To(Equal(fault.CodeMissingProperty))
			Expect(err.Error()).To(ContainSubstring("CurrentPlayerOrd"))

			_, snapErr := me.Snapshot.Entities().Property(entity.GameID, entity.CurrentPlayerOrd)
			Expect(fault.Code(snapErr)).To(Equal(fault.CodeMissingProperty))
			Expect(me.Snapshot.State()).To(Equal(machine.Trigger(machine.Pre, machine.EndTurn)))

			// The live machine is back where the action began.
			Expect(currentOrd(m)).To(Equal(uint32(1)))
			Expect(m.State()).To(Equal(machine.Wait(machine.Input)))
		})
	})

	Describe("invariants", func() {
		It("allocates increasing ids starting after the seated players", func() {
			prev := entity.ID(2)
			for range 5 {
				id, err := m.Allocate()
				Expect(err).NotTo(HaveOccurred())
				Expect(id).To(BeNumerically(">", prev))
				prev = id
			}
		})

		It("keeps every card in exactly one zone", func() {
			Expect(m.StartGame(ctx)).To(Succeed())
			card, err := m.Allocate()
			Expect(err).NotTo(HaveOccurred())
			Expect(m.MoveTo(card, zone.Key{Owner: 1, Kind: zone.Deck})).To(Succeed())
			Expect(m.MoveTo(card, zone.Key{Owner: 1, Kind: zone.Hand})).To(Succeed())

			Expect(m.Zones().Members(zone.Key{Owner: 1, Kind: zone.Deck})).NotTo(ContainElement(card))
			Expect(m.Zones().Members(zone.Key{Owner: 1, Kind: zone.Hand})).To(ContainElement(card))
		})

		It("keeps history and stack in step and closes every phase", func() {
			type observation struct {
				want, got machine.State
				history   int
				depth     int
			}
			var seen []observation
			probe := func(t machine.Timing, e machine.Event) machine.Callback {
				return func(_ context.Context, m *machine.Machine) error {
					seen = append(seen, observation{
						want:    machine.Trigger(t, e),
						got:     m.State(),
						history: len(m.History()),
						depth:   m.Depth(),
					})
					return nil
				}
			}
			for _, e := range []machine.Event{machine.Start, machine.EndTurn, machine.DrawCard, machine.Damage} {
				for _, t := range machine.Timings {
					Expect(m.On(t, e, "probe", probe(t, e))).To(Succeed())
				}
			}

			Expect(m.StartGame(ctx)).To(Succeed())
			Expect(m.Depth()).To(Equal(0))
			Expect(m.EndTurn(ctx)).To(Succeed())
			Expect(m.Depth()).To(Equal(0))

			Expect(seen).NotTo(BeEmpty())
			for _, o := range seen {
				Expect(o.got).To(Equal(o.want))
				Expect(o.history).To(Equal(o.depth))
			}
		})

		It("restores the caller's transaction and frames after a nested effect", func() {
			Expect(m.StartGame(ctx)).To(Succeed())
			Expect(m.On(machine.Peri, machine.EndTurn, "round trip", func(ctx context.Context, m *machine.Machine) error {
				txn, frames, state := m.Transaction(), m.Stack(), m.State()
				if err := m.Recurse(ctx, machine.Damage, machine.DamageTxn{Target: 1, Amount: 1}); err != nil {
					return err
				}
				Expect(m.Transaction()).To(Equal(txn))
				Expect(m.Stack()).To(Equal(frames))
				Expect(m.State()).To(Equal(state))
				return nil
			})).To(Succeed())

			Expect(m.EndTurn(ctx)).To(Succeed())
		})

		It("rejects actions once the game is finished", func() {
			Expect(m.StartGame(ctx)).To(Succeed())
			Expect(m.On(machine.Peri, machine.EndTurn, "concede", func(ctx context.Context, m *machine.Machine) error {
				return m.Recurse(ctx, machine.Damage, machine.DamageTxn{Target: 1, Amount: 100})
			})).To(Succeed())

			Expect(m.EndTurn(ctx)).To(Succeed())
			Expect(m.Finished()).To(BeTrue())
			Expect(fault.Code(m.EndTurn(ctx))).To(Equal(fault.CodeGameFinished))
		})
	})
})
