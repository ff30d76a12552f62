package api

import (
	"github.com/dvolkov/dvchat/internal/bus"
	"github.com/dvolkov/dvchat/internal/store"
	"go.uber.org/zap"
)

// ChatService exposes the chat and contact registry to the UI.
type ChatService struct {
	store  *store.Store
	bus    *bus.Bus
	logger *zap.Logger
}

// NewChatService creates a chat service backed by the store.
func NewChatService(s *store.Store, b *bus.Bus, logger *zap.Logger) *ChatService {
	return &ChatService{store: s, bus: b, logger: logger}
}

// CreateChat registers a new group or channel chat.
func (s *ChatService) CreateChat(kind store.ChatKind, name, avatar, description string) (store.Chat, error) {
	chat, err := s.store.CreateChat(kind, name, avatar, description)
	if err != nil {
		return store.Chat{}, err
	}
	s.logger.Info("chat created",
		zap.Int("chat_id", chat.ID),
		zap.String("kind", string(chat.Kind)),
		zap.String("name", chat.Name))
	s.bus.Publish(bus.Event{Kind: bus.KindChatCreated, Payload: chat})
	return chat, nil
}

// AddContact stores a contact and its companion chat.
func (s *ChatService) AddContact(name, phone string) (store.Contact, error) {
	contact, err := s.store.AddContact(name, phone)
	if err != nil {
		return store.Contact{}, err
	}
	s.logger.Info("contact added", zap.Int("contact_id", contact.ID), zap.String("name", contact.Name))
	s.bus.Publish(bus.Event{Kind: bus.KindContactAdded, Payload: contact})
	return contact, nil
}

// ListChats returns all chats in insertion order.
func (s *ChatService) ListChats() []store.Chat {
	return s.store.ListChats()
}

// GetChat returns a chat by identifier.
func (s *ChatService) GetChat(chatID int) (store.Chat, bool) {
	return s.store.GetChat(chatID)
}

// ListContacts returns all contacts.
func (s *ChatService) ListContacts() []store.Contact {
	return s.store.ListContacts()
}

// Open marks a chat as opened, clearing its unread counter.
func (s *ChatService) Open(chatID int) {
	if s.store.OpenChat(chatID) {
		s.bus.Publish(bus.Event{Kind: bus.KindChatOpened, Payload: chatID})
	}
}
