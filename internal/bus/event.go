package bus

import "time"

// Event kinds published by the core. Subscribers filter by namespace
// prefix, e.g. "message." matches every message event.
const (
	KindAuthStateChanged = "auth.state_changed"
	KindAuthLockedOut    = "auth.locked_out"

	KindChatCreated  = "chat.created"
	KindChatOpened   = "chat.opened"
	KindContactAdded = "contact.added"

	KindMessagePosted        = "message.posted"
	KindMessageStatusChanged = "message.status_changed"
	KindMessageDeleted       = "message.deleted"
	KindMessagePinToggled    = "message.pin_toggled"
	KindMessageReacted       = "message.reacted"

	KindThemeChanged = "theme.changed"
)

// Event represents a domain event published on the bus. ID is stamped
// by Publish.
type Event struct {
	ID        string
	Kind      string
	Timestamp time.Time
	Payload   any
}
