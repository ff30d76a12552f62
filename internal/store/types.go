package store

import "time"

// ChatKind classifies a chat thread.
type ChatKind string

const (
	KindUser     ChatKind = "user"
	KindGroup    ChatKind = "group"
	KindChannel  ChatKind = "channel"
	KindOfficial ChatKind = "official"
)

// Status is the delivery status of an own message.
type Status string

const (
	StatusSent      Status = "sent"
	StatusDelivered Status = "delivered"
	StatusRead      Status = "read"
)

// statusRank orders delivery statuses so transitions never regress.
var statusRank = map[Status]int{
	StatusSent:      1,
	StatusDelivered: 2,
	StatusRead:      3,
}

// OfficialChatID is the identifier of the pre-seeded welcome chat.
// Posting into it triggers the scripted counterpart reply.
const OfficialChatID = 1

// Chat is a thread summary shown in the chat list.
type Chat struct {
	ID                 int
	Kind               ChatKind
	Name               string
	Avatar             string
	LastMessagePreview string
	LastMessageAt      time.Time
	UnreadCount        int
	Online             bool
	Pinned             bool
	Premium            bool
}

// Message is a single entry in a chat's thread. Status is meaningful
// only when FromMe is true.
type Message struct {
	ID        int
	ChatID    int
	Text      string
	SentAt    time.Time
	FromMe    bool
	Status    Status
	Reactions []string
	Pinned    bool
}

// Contact is an address-book entry. Adding one also materializes a
// companion user chat.
type Contact struct {
	ID     int
	Name   string
	Phone  string
	Avatar string
}
