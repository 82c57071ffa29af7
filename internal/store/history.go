// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/holomush/holocards/internal/game"
)

// Error codes for history operations.
const (
	CodeGameExists   = "GAME_EXISTS"
	CodeGameNotFound = "GAME_NOT_FOUND"
	CodeQueryFailed  = "DB_QUERY_FAILED"
	CodeWriteFailed  = "DB_WRITE_FAILED"
)

// Game is a recorded game.
type Game struct {
	ID       string
	Seed     uint64
	Outcome  string
	Board    game.Board
	PlayedAt time.Time
}

// Event is one recorded event resolution.
type Event struct {
	Seq   uint64
	Turn  uint32
	Event string
	Depth int
	Txn   string
}

func (e Event) String() string {
	return fmt.Sprintf("#%d turn %d %s %s", e.Seq, e.Turn, e.Event, e.Txn)
}

var eventColumns = []string{"game_id", "seq", "turn", "event", "depth", "txn"}

const gameColumns = `id, seed, outcome, board, played_at`

// History reads and writes recorded games.
type History struct {
	db Querier
}

// NewHistory creates a history backed by db.
func NewHistory(db Querier) *History {
	return &History{db: db}
}

// Record stores g and its event log in one transaction. A zero PlayedAt is
// stamped with the current time.
func (h *History) Record(ctx context.Context, g Game, events []game.Record) error {
	board, err := json.Marshal(g.Board)
	if err != nil {
		return oops.Code(CodeWriteFailed).With("game", g.ID).Wrapf(err, "encode board")
	}
	if g.PlayedAt.IsZero() {
		g.PlayedAt = time.Now().UTC()
	}

	tx, err := h.db.Begin(ctx)
	if err != nil {
		return oops.Code(CodeWriteFailed).With("game", g.ID).Wrapf(err, "begin")
	}
	if err := insertGame(ctx, tx, g, board); err != nil {
		rollback(ctx, tx)
		return err
	}
	if len(events) > 0 {
		rows := make([][]any, 0, len(events))
		for _, r := range events {
			rows = append(rows, []any{g.ID, int64(r.Seq), int32(r.Turn), r.Event.String(), int32(r.Depth), fmt.Sprint(r.Txn)}) //nolint:gosec // counters stay far below int32
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"game_events"}, eventColumns, pgx.CopyFromRows(rows)); err != nil {
			rollback(ctx, tx)
			return oops.Code(CodeWriteFailed).With("game", g.ID).With("events", len(events)).Wrapf(err, "copy events")
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return oops.Code(CodeWriteFailed).With("game", g.ID).Wrapf(err, "commit")
	}
	return nil
}

func insertGame(ctx context.Context, tx pgx.Tx, g Game, board []byte) error {
	players := make([]string, 0, len(g.Board.Seats))
	for _, s := range g.Board.Seats {
		players = append(players, s.Name)
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO games (id, seed, players, turns, winner, outcome, board, played_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		g.ID,
		int64(g.Seed), //nolint:gosec // stored as the same 64 bits
		players,
		int32(g.Board.Turn),   //nolint:gosec // turn counts stay far below int32
		int32(g.Board.Winner), //nolint:gosec // seat ordinal
		g.Outcome,
		board,
		g.PlayedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return oops.Code(CodeGameExists).With("game", g.ID).Errorf("game %s is already recorded", g.ID)
	}
	if err != nil {
		return oops.Code(CodeWriteFailed).With("game", g.ID).Wrapf(err, "insert game")
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	_ = tx.Rollback(ctx) //nolint:errcheck // the write error takes precedence
}

// Game returns the recorded game with id.
func (h *History) Game(ctx context.Context, id string) (Game, error) {
	row := h.db.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	g, err := scanGame(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Game{}, oops.Code(CodeGameNotFound).With("game", id).Errorf("no recorded game %s", id)
	}
	if err != nil {
		return Game{}, oops.Code(CodeQueryFailed).With("game", id).Wrap(err)
	}
	return g, nil
}

// Recent returns up to limit games, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Game, error) {
	rows, err := h.db.Query(ctx,
		`SELECT `+gameColumns+` FROM games ORDER BY played_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, oops.Code(CodeQueryFailed).Wrapf(err, "query games")
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, oops.Code(CodeQueryFailed).Wrapf(err, "scan game")
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code(CodeQueryFailed).Wrapf(err, "iterate games")
	}
	return games, nil
}

func scanGame(row pgx.Row) (Game, error) {
	var (
		g     Game
		seed  int64
		board []byte
	)
	if err := row.Scan(&g.ID, &seed, &g.Outcome, &board, &g.PlayedAt); err != nil {
		return Game{}, err //nolint:wrapcheck // callers add the code
	}
	g.Seed = uint64(seed) //nolint:gosec // stored as the same 64 bits
	if err := json.Unmarshal(board, &g.Board); err != nil {
		return Game{}, fmt.Errorf("corrupt board for game %s: %w", g.ID, err)
	}
	return g, nil
}

// Events returns up to limit events of game id with a sequence number
// above after, in order.
func (h *History) Events(ctx context.Context, id string, after uint64, limit int) ([]Event, error) {
	rows, err := h.db.Query(ctx,
		`SELECT seq, turn, event, depth, txn FROM game_events
		 WHERE game_id = $1 AND seq > $2 ORDER BY seq LIMIT $3`,
		id, int64(after), limit) //nolint:gosec // sequence numbers stay far below int64
	if err != nil {
		return nil, oops.Code(CodeQueryFailed).With("game", id).Wrapf(err, "query events")
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e           Event
			seq         int64
			turn, depth int32
		)
		if err := rows.Scan(&seq, &turn, &e.Event, &depth, &e.Txn); err != nil {
			return nil, oops.Code(CodeQueryFailed).With("game", id).Wrapf(err, "scan event")
		}
		e.Seq, e.Turn, e.Depth = uint64(seq), uint32(turn), int(depth) //nolint:gosec // written from unsigned values
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code(CodeQueryFailed).With("game", id).Wrapf(err, "iterate events")
	}
	return events, nil
}

// Prune deletes games played before cutoff along with their events and
// returns how many games were removed.
func (h *History) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := h.db.Exec(ctx, `DELETE FROM games WHERE played_at < $1`, cutoff)
	if err != nil {
		return 0, oops.Code(CodeWriteFailed).With("cutoff", cutoff).Wrapf(err, "prune games")
	}
	return tag.RowsAffected(), nil
}
