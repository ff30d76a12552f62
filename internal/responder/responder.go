// Package responder injects the scripted counterpart reply for the
// official chat. It is a fixed demo behavior, not a bot framework.
package responder

import (
	"context"
	"sync"
	"time"

	"github.com/dvolkov/dvchat/internal/bus"
	"github.com/dvolkov/dvchat/internal/store"
	"go.uber.org/zap"
)

const (
	defaultReplyAfter = 2 * time.Second

	// replyText is the single canned reply sent by the official chat.
	replyText = "Thanks for your message! The DVChat team will get back to you shortly."
)

// Responder subscribes to message.posted events and, for own messages
// posted into the official chat, schedules one canned reply.
type Responder struct {
	store      *store.Store
	bus        *bus.Bus
	logger     *zap.Logger
	replyAfter time.Duration

	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	stopped bool
	cancel  context.CancelFunc
}

// New creates a responder. A non-positive delay selects the default.
func New(s *store.Store, b *bus.Bus, logger *zap.Logger, replyAfter time.Duration) *Responder {
	if replyAfter <= 0 {
		replyAfter = defaultReplyAfter
	}
	return &Responder{
		store:      s,
		bus:        b,
		logger:     logger,
		replyAfter: replyAfter,
		timers:     make(map[*time.Timer]struct{}),
	}
}

// Start subscribes to posted-message events on the bus.
func (r *Responder) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	ch, unsub := r.bus.Subscribe(bus.KindMessagePosted, 64)

	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				r.handle(evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Flush drops pending replies while keeping the subscription alive.
// Called when the dataset is reset so a reply scheduled in the old
// session cannot land in the new one.
func (r *Responder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for t := range r.timers {
		t.Stop()
		delete(r.timers, t)
	}
}

// Stop cancels the subscription and any pending replies.
func (r *Responder) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	for t := range r.timers {
		t.Stop()
		delete(r.timers, t)
	}
}

func (r *Responder) handle(evt bus.Event) {
	msg, ok := evt.Payload.(store.Message)
	if !ok || !msg.FromMe || msg.ChatID != store.OfficialChatID {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(r.replyAfter, func() {
		r.mu.Lock()
		_, live := r.timers[timer]
		delete(r.timers, timer)
		live = live && !r.stopped
		r.mu.Unlock()
		if !live {
			return
		}

		reply, err := r.store.InjectRemote(store.OfficialChatID, replyText)
		if err != nil {
			r.logger.Warn("scripted reply dropped", zap.Error(err))
			return
		}
		r.logger.Debug("scripted reply injected", zap.Int("msg_id", reply.ID))
		r.bus.Publish(bus.Event{Kind: bus.KindMessagePosted, Payload: reply})
	})
	r.timers[timer] = struct{}{}
}
