// Package delivery simulates the delivery side of a messaging backend:
// each posted message is advanced sent -> delivered -> read by one-shot
// timers scheduled at post time.
package delivery

import (
	"sync"
	"time"

	"github.com/dvolkov/dvchat/internal/bus"
	"github.com/dvolkov/dvchat/internal/store"
	"go.uber.org/zap"
)

const (
	defaultDeliveredAfter = 500 * time.Millisecond
	defaultReadAfter      = 1500 * time.Millisecond
)

// StatusChange is the payload of message.status_changed events.
type StatusChange struct {
	ChatID    int
	MessageID int
	Status    store.Status
}

type msgKey struct {
	chatID int
	msgID  int
}

// Engine schedules the simulated status transitions for own messages.
// Timers are keyed by (chat, message); a deleted message is tombstoned
// so a late-firing timer becomes an explicit no-op.
type Engine struct {
	store          *store.Store
	bus            *bus.Bus
	logger         *zap.Logger
	deliveredAfter time.Duration
	readAfter      time.Duration

	mu         sync.Mutex
	timers     map[msgKey][]*time.Timer
	tombstones map[msgKey]struct{}
	stopped    bool
}

// NewEngine creates a delivery engine. Non-positive delays select the
// defaults.
func NewEngine(s *store.Store, b *bus.Bus, logger *zap.Logger, deliveredAfter, readAfter time.Duration) *Engine {
	if deliveredAfter <= 0 {
		deliveredAfter = defaultDeliveredAfter
	}
	if readAfter <= 0 {
		readAfter = defaultReadAfter
	}
	return &Engine{
		store:          s,
		bus:            b,
		logger:         logger,
		deliveredAfter: deliveredAfter,
		readAfter:      readAfter,
		timers:         make(map[msgKey][]*time.Timer),
		tombstones:     make(map[msgKey]struct{}),
	}
}

// Schedule arms both status transitions for a freshly posted message.
// Both delays are measured from now, not from each other.
func (e *Engine) Schedule(chatID, msgID int) {
	key := msgKey{chatID, msgID}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}

	delivered := time.AfterFunc(e.deliveredAfter, func() {
		e.fire(key, store.StatusDelivered, false)
	})
	read := time.AfterFunc(e.readAfter, func() {
		e.fire(key, store.StatusRead, true)
	})
	e.timers[key] = []*time.Timer{delivered, read}
}

// Tombstone stops a deleted message's timers. A tombstone entry is
// recorded only when a stop came too late and a fire may already be in
// flight; the suppressed fire removes it again, so the map never
// outlives the transitions it guards.
func (e *Engine) Tombstone(chatID, msgID int) {
	key := msgKey{chatID, msgID}

	e.mu.Lock()
	defer e.mu.Unlock()
	inFlight := false
	for _, t := range e.timers[key] {
		if !t.Stop() {
			inFlight = true
		}
	}
	delete(e.timers, key)
	if inFlight {
		e.tombstones[key] = struct{}{}
	}
}

// Reset drops all pending transitions and tombstones. Called when the
// dataset is reset, since the store reuses message ids afterwards.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for key, timers := range e.timers {
		for _, t := range timers {
			t.Stop()
		}
		delete(e.timers, key)
	}
	e.tombstones = make(map[msgKey]struct{})
}

// Stop cancels every outstanding timer. Further Schedule calls are
// ignored.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
	for key, timers := range e.timers {
		for _, t := range timers {
			t.Stop()
		}
		delete(e.timers, key)
	}
}

func (e *Engine) fire(key msgKey, to store.Status, final bool) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	if _, dead := e.tombstones[key]; dead {
		delete(e.tombstones, key)
		e.mu.Unlock()
		return
	}
	if final {
		delete(e.timers, key)
	}
	e.mu.Unlock()

	if !e.store.AdvanceStatus(key.chatID, key.msgID, to) {
		// Message gone or already past this status; nothing to do.
		return
	}

	e.logger.Debug("message status advanced",
		zap.Int("chat_id", key.chatID),
		zap.Int("msg_id", key.msgID),
		zap.String("status", string(to)))
	e.bus.Publish(bus.Event{
		Kind: bus.KindMessageStatusChanged,
		Payload: StatusChange{
			ChatID:    key.chatID,
			MessageID: key.msgID,
			Status:    to,
		},
	})
}
