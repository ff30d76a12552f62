package store

import (
	"strings"
	"sync"
	"time"
)

const (
	maxChatNameLen = 50
	minPhoneLen    = 10
	previewLen     = 100

	emptyPreview = "No messages yet"
)

// Store holds all chat, contact, and message state for one session.
// Everything lives in memory; nothing survives the process.
type Store struct {
	mu        sync.RWMutex
	chats     []Chat
	contacts  []Contact
	messages  map[int][]Message
	nextMsgID map[int]int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		messages:  make(map[int][]Message),
		nextMsgID: make(map[int]int),
	}
}

// NewSeeded creates a store pre-populated with the demo dataset,
// including the official welcome chat.
func NewSeeded() *Store {
	s := New()
	s.seed()
	return s
}

// Reset drops all state and re-seeds the demo dataset. Called on
// logout so the next session starts clean.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats = nil
	s.contacts = nil
	s.messages = make(map[int][]Message)
	s.nextMsgID = make(map[int]int)
	s.seed()
}

// CreateChat allocates the next chat identifier, appends the chat to
// the registry, and seeds its thread with a single system notice
// describing the creation.
func (s *Store) CreateChat(kind ChatKind, name, avatar, description string) (Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Chat{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len([]rune(name)) > maxChatNameLen {
		return Chat{}, &ValidationError{Field: "name", Reason: "too long"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	chat := Chat{
		ID:            s.nextChatIDLocked(),
		Kind:          kind,
		Name:          name,
		Avatar:        avatar,
		LastMessageAt: now,
	}

	notice := creationNotice(kind, name, description)
	msg := Message{
		ID:     s.allocMsgIDLocked(chat.ID),
		ChatID: chat.ID,
		Text:   notice,
		SentAt: now,
		Status: StatusRead,
	}
	chat.LastMessagePreview = truncate(notice, previewLen)

	s.chats = append(s.chats, chat)
	s.messages[chat.ID] = []Message{msg}
	return chat, nil
}

// AddContact validates and stores a contact, and materializes a
// companion user chat marked online with a placeholder preview.
func (s *Store) AddContact(name, phone string) (Contact, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return Contact{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if phone == "" {
		return Contact{}, &ValidationError{Field: "phone", Reason: "must not be empty"}
	}
	if len([]rune(phone)) < minPhoneLen {
		return Contact{}, &ValidationError{Field: "phone", Reason: "too short"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	contact := Contact{
		ID:     len(s.contacts) + 1,
		Name:   name,
		Phone:  phone,
		Avatar: "👤",
	}
	s.contacts = append(s.contacts, contact)

	chat := Chat{
		ID:                 s.nextChatIDLocked(),
		Kind:               KindUser,
		Name:               name,
		Avatar:             contact.Avatar,
		LastMessagePreview: emptyPreview,
		LastMessageAt:      time.Now(),
		Online:             true,
	}
	s.chats = append(s.chats, chat)
	s.messages[chat.ID] = nil
	return contact, nil
}

// PostMessage appends an own message with status sent to the chat's
// thread and updates the chat summary.
func (s *Store) PostMessage(chatID int, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, &ValidationError{Field: "text", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.chatIndexLocked(chatID)
	if idx < 0 {
		return Message{}, ErrChatNotFound
	}

	msg := Message{
		ID:     s.allocMsgIDLocked(chatID),
		ChatID: chatID,
		Text:   text,
		SentAt: time.Now(),
		FromMe: true,
		Status: StatusSent,
	}
	s.messages[chatID] = append(s.messages[chatID], msg)
	s.chats[idx].LastMessagePreview = truncate(text, previewLen)
	s.chats[idx].LastMessageAt = msg.SentAt
	return msg, nil
}

// InjectRemote appends a counterpart message to the chat's thread,
// bumping the unread counter. Used by the scripted responder and the
// seeded dataset.
func (s *Store) InjectRemote(chatID int, text string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.chatIndexLocked(chatID)
	if idx < 0 {
		return Message{}, ErrChatNotFound
	}

	msg := Message{
		ID:     s.allocMsgIDLocked(chatID),
		ChatID: chatID,
		Text:   text,
		SentAt: time.Now(),
		Status: StatusRead,
	}
	s.messages[chatID] = append(s.messages[chatID], msg)
	s.chats[idx].LastMessagePreview = truncate(text, previewLen)
	s.chats[idx].LastMessageAt = msg.SentAt
	s.chats[idx].UnreadCount++
	return msg, nil
}

// AdvanceStatus moves an own message's delivery status forward.
// Transitions never regress, and a missing message (deleted in the
// interim) is a no-op. Reports whether the status changed.
func (s *Store) AdvanceStatus(chatID, msgID int, to Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[chatID]
	for i := range msgs {
		if msgs[i].ID != msgID {
			continue
		}
		if !msgs[i].FromMe {
			return false
		}
		if statusRank[to] <= statusRank[msgs[i].Status] {
			return false
		}
		msgs[i].Status = to
		return true
	}
	return false
}

// DeleteMessage removes the message from its chat's thread. Missing
// messages are a silent no-op. The chat preview is refreshed so it
// keeps matching the thread's last element.
func (s *Store) DeleteMessage(chatID, msgID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[chatID]
	for i := range msgs {
		if msgs[i].ID != msgID {
			continue
		}
		s.messages[chatID] = append(msgs[:i:i], msgs[i+1:]...)
		if idx := s.chatIndexLocked(chatID); idx >= 0 {
			if rest := s.messages[chatID]; len(rest) > 0 {
				last := rest[len(rest)-1]
				s.chats[idx].LastMessagePreview = truncate(last.Text, previewLen)
				s.chats[idx].LastMessageAt = last.SentAt
			} else {
				s.chats[idx].LastMessagePreview = emptyPreview
				s.chats[idx].LastMessageAt = time.Time{}
			}
		}
		return true
	}
	return false
}

// TogglePin flips the pinned flag on a message. Missing messages are a
// silent no-op.
func (s *Store) TogglePin(chatID, msgID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[chatID]
	for i := range msgs {
		if msgs[i].ID == msgID {
			msgs[i].Pinned = !msgs[i].Pinned
			return true
		}
	}
	return false
}

// AddReaction appends a reaction glyph to a message. Duplicates are
// allowed; missing messages are a silent no-op.
func (s *Store) AddReaction(chatID, msgID int, emoji string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[chatID]
	for i := range msgs {
		if msgs[i].ID == msgID {
			msgs[i].Reactions = append(msgs[i].Reactions, emoji)
			return true
		}
	}
	return false
}

// OpenChat clears the chat's unread counter. Reports whether the chat
// exists.
func (s *Store) OpenChat(chatID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.chatIndexLocked(chatID)
	if idx < 0 {
		return false
	}
	s.chats[idx].UnreadCount = 0
	return true
}

// ListChats returns a snapshot of all chats in insertion order.
func (s *Store) ListChats() []Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Chat, len(s.chats))
	copy(out, s.chats)
	return out
}

// GetChat returns a chat by identifier.
func (s *Store) GetChat(chatID int) (Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.chatIndexLocked(chatID); idx >= 0 {
		return s.chats[idx], true
	}
	return Chat{}, false
}

// ListContacts returns a snapshot of all contacts.
func (s *Store) ListContacts() []Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Contact, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// Messages returns a snapshot of the chat's thread.
func (s *Store) Messages(chatID int) ([]Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.chatIndexLocked(chatID) < 0 {
		return nil, false
	}
	msgs := s.messages[chatID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, true
}

// GetMessage returns a single message by chat and message id.
func (s *Store) GetMessage(chatID, msgID int) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.messages[chatID] {
		if m.ID == msgID {
			return m, true
		}
	}
	return Message{}, false
}

func (s *Store) chatIndexLocked(chatID int) int {
	for i := range s.chats {
		if s.chats[i].ID == chatID {
			return i
		}
	}
	return -1
}

func (s *Store) nextChatIDLocked() int {
	max := 0
	for _, c := range s.chats {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

func (s *Store) allocMsgIDLocked(chatID int) int {
	s.nextMsgID[chatID]++
	return s.nextMsgID[chatID]
}

func creationNotice(kind ChatKind, name, description string) string {
	var label string
	switch kind {
	case KindChannel:
		label = "Channel"
	case KindGroup:
		label = "Group"
	default:
		label = "Chat"
	}
	notice := label + " \"" + name + "\" created"
	if d := strings.TrimSpace(description); d != "" {
		notice += ": " + d
	}
	return notice
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
