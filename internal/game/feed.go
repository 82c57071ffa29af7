// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package game

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/holomush/holocards/internal/machine"
)

// DefaultFeedBuffer is the channel buffer Subscribe uses for a size <= 0.
const DefaultFeedBuffer = 100

// Record is one event resolved by a successful action.
type Record struct {
	Seq   uint64
	Game  ulid.ULID
	Event machine.Event
	Txn   machine.Transaction
	Depth int
	Turn  uint32
}

func (r Record) String() string {
	return fmt.Sprintf("#%d turn %d %s %v", r.Seq, r.Turn, r.Event, r.Txn)
}

// Feed distributes resolved events to subscribers.
type Feed struct {
	mu     sync.RWMutex
	subs   []chan Record
	seq    uint64
	logger *slog.Logger
}

// NewFeed creates a feed that reports dropped records to logger.
func NewFeed(logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{logger: logger}
}

// Subscribe creates a channel receiving every record published from now on.
func (f *Feed) Subscribe(size int) <-chan Record {
	if size <= 0 {
		size = DefaultFeedBuffer
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan Record, size)
	f.subs = append(f.subs, ch)
	return ch
}

// Unsubscribe removes and closes ch.
func (f *Feed) Unsubscribe(ch <-chan Record) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, sub := range f.subs {
		if sub == ch {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			close(sub)
			return
		}
	}
}

// Close unsubscribes everyone.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		close(sub)
	}
	f.subs = nil
}

// Publish numbers r and sends it to every subscriber. A subscriber whose
// buffer is full misses the record.
func (f *Feed) Publish(r Record) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	r.Seq = f.seq
	for _, ch := range f.subs {
		select {
		case ch <- r:
		default:
			f.logger.Warn("record dropped: subscriber buffer full",
				"game_id", r.Game.String(),
				"seq", r.Seq,
				"event", r.Event.String(),
			)
		}
	}
}
