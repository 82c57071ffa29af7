// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/holomush/holocards/internal/card"
	"github.com/holomush/holocards/internal/game"
	"github.com/holomush/holocards/internal/store"
)

// playGame simulates a short game and collects its published records.
func playGame(ctx context.Context, seed uint64) (game.Board, []game.Record) {
	h, err := game.New(game.Config{Players: []string{"Alice", "Bob"}, Seed: seed}, card.Core(), nil)
	Expect(err).NotTo(HaveOccurred())
	records := h.Feed().Subscribe(4096)
	b, err := h.Simulate(ctx, 6)
	Expect(err).NotTo(HaveOccurred())
	h.Feed().Close()

	var out []game.Record
	for r := range records {
		out = append(out, r)
	}
	return b, out
}

var _ = Describe("History", func() {
	var (
		ctx       context.Context
		url       string
		terminate func()
		pool      *pgxpool.Pool
		history   *store.History
	)

	BeforeEach(func() {
		ctx = context.Background()
		url, terminate = startPostgres(ctx)

		migrator, err := store.NewMigrator(url)
		Expect(err).NotTo(HaveOccurred())
		Expect(migrator.Up()).To(Succeed())
		Expect(migrator.Close()).To(Succeed())

		pool, err = store.Open(ctx, url)
		Expect(err).NotTo(HaveOccurred())
		history = store.NewHistory(pool)
	})

	AfterEach(func() {
		pool.Close()
		terminate()
	})

	It("records a game with its event log", func() {
		board, records := playGame(ctx, 1)
		Expect(records).NotTo(BeEmpty())

		Expect(history.Record(ctx, store.Game{ID: board.Game, Seed: 1, Outcome: "unfinished", Board: board}, records)).To(Succeed())

		got, err := history.Game(ctx, board.Game)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Board.Turn).To(Equal(board.Turn))
		Expect(got.Board.Seats).To(HaveLen(2))
		Expect(got.Board.Seats[1].Name).To(Equal("Bob"))
		Expect(got.Seed).To(Equal(uint64(1)))
		Expect(got.PlayedAt).NotTo(BeZero())

		events, err := history.Events(ctx, board.Game, 0, len(records)+10)
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(len(records)))
		Expect(events[0].Seq).To(Equal(records[0].Seq))
		Expect(events[len(events)-1].Event).To(Equal(records[len(records)-1].Event.String()))

		page, err := history.Events(ctx, board.Game, 2, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(page).To(HaveLen(3))
		Expect(page[0].Seq).To(Equal(uint64(3)))
	})

	It("rejects recording the same game twice", func() {
		board, records := playGame(ctx, 2)
		g := store.Game{ID: board.Game, Seed: 2, Outcome: "unfinished", Board: board}
		Expect(history.Record(ctx, g, records)).To(Succeed())

		err := history.Record(ctx, g, records)
		Expect(err).To(HaveOccurred())
		expectCode(err, store.CodeGameExists)
	})

	It("lists recent games newest first and prunes old ones", func() {
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		var ids []string
		for i := range 3 {
			board, _ := playGame(ctx, uint64(10+i))
			g := store.Game{ID: board.Game, Outcome: "unfinished", Board: board, PlayedAt: base.Add(time.Duration(i) * time.Hour)}
			Expect(history.Record(ctx, g, nil)).To(Succeed())
			ids = append(ids, board.Game)
		}

		games, err := history.Recent(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(games).To(HaveLen(2))
		Expect(games[0].ID).To(Equal(ids[2]))
		Expect(games[1].ID).To(Equal(ids[1]))

		n, err := history.Prune(ctx, base.Add(90*time.Minute))
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(2)))

		_, err = history.Game(ctx, ids[0])
		expectCode(err, store.CodeGameNotFound)
	})

	It("migrates down and up again", func() {
		migrator, err := store.NewMigrator(url)
		Expect(err).NotTo(HaveOccurred())
		defer func() { Expect(migrator.Close()).To(Succeed()) }()

		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(dirty).To(BeFalse())
		Expect(version).To(Equal(uint(2)))

		Expect(migrator.Steps(-1)).To(Succeed())
		pending, err := migrator.Pending()
		Expect(err).NotTo(HaveOccurred())
		Expect(pending).To(Equal([]uint{2}))

		Expect(migrator.Down()).To(Succeed())
		version, _, err = migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())

		Expect(migrator.Up()).To(Succeed())
		applied, err := migrator.Applied()
		Expect(err).NotTo(HaveOccurred())
		Expect(applied).To(Equal([]uint{1, 2}))
	})
})
