package api

import (
	"errors"

	"github.com/dvolkov/dvchat/internal/auth"
	"github.com/dvolkov/dvchat/internal/bus"
	"github.com/dvolkov/dvchat/internal/delivery"
	"github.com/dvolkov/dvchat/internal/policy"
	"github.com/dvolkov/dvchat/internal/store"
	"go.uber.org/zap"
)

// ErrNotAllowed is returned when the actor may not delete the target
// message.
var ErrNotAllowed = errors.New("not allowed to delete this message")

// MessageService exposes the message operations to the UI and drives
// the simulated delivery lifecycle.
type MessageService struct {
	store  *store.Store
	engine *delivery.Engine
	bus    *bus.Bus
	logger *zap.Logger
}

// NewMessageService creates a message service.
func NewMessageService(s *store.Store, e *delivery.Engine, b *bus.Bus, logger *zap.Logger) *MessageService {
	return &MessageService{store: s, engine: e, bus: b, logger: logger}
}

// Post appends an own message to the chat and arms its delivery
// transitions. The posted event also feeds the scripted responder.
func (s *MessageService) Post(chatID int, text string) (store.Message, error) {
	msg, err := s.store.PostMessage(chatID, text)
	if err != nil {
		return store.Message{}, err
	}
	s.engine.Schedule(chatID, msg.ID)
	s.logger.Info("message posted", zap.Int("chat_id", chatID), zap.Int("msg_id", msg.ID))
	s.bus.Publish(bus.Event{Kind: bus.KindMessagePosted, Payload: msg})
	return msg, nil
}

// Delete removes a message if the actor is allowed to: the owner of an
// own message, or an admin/developer for any message. A missing
// message is a silent no-op.
func (s *MessageService) Delete(actor auth.Profile, chatID, msgID int) error {
	msg, found := s.store.GetMessage(chatID, msgID)
	if !found {
		return nil
	}
	if !policy.CanDelete(actor, msg) {
		return ErrNotAllowed
	}

	if s.store.DeleteMessage(chatID, msgID) {
		s.engine.Tombstone(chatID, msgID)
		s.logger.Info("message deleted", zap.Int("chat_id", chatID), zap.Int("msg_id", msgID))
		s.bus.Publish(bus.Event{Kind: bus.KindMessageDeleted, Payload: msg})
	}
	return nil
}

// TogglePin flips the pinned flag on a message.
func (s *MessageService) TogglePin(chatID, msgID int) {
	if s.store.TogglePin(chatID, msgID) {
		msg, _ := s.store.GetMessage(chatID, msgID)
		s.bus.Publish(bus.Event{Kind: bus.KindMessagePinToggled, Payload: msg})
	}
}

// AddReaction appends a reaction glyph to a message.
func (s *MessageService) AddReaction(chatID, msgID int, emoji string) {
	if s.store.AddReaction(chatID, msgID, emoji) {
		msg, _ := s.store.GetMessage(chatID, msgID)
		s.bus.Publish(bus.Event{Kind: bus.KindMessageReacted, Payload: msg})
	}
}

// List returns a snapshot of the chat's thread.
func (s *MessageService) List(chatID int) ([]store.Message, bool) {
	return s.store.Messages(chatID)
}
