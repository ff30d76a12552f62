package store

import (
	"errors"
	"strings"
	"testing"
)

func TestCreateChatAllocatesIncreasingIDs(t *testing.T) {
	s := NewSeeded()

	first, err := s.CreateChat(KindGroup, "Weekend Plans", "🎮", "")
	if err != nil {
		t.Fatalf("CreateChat() error = %v", err)
	}
	second, err := s.CreateChat(KindChannel, "News", "📚", "")
	if err != nil {
		t.Fatalf("CreateChat() error = %v", err)
	}

	if second.ID <= first.ID {
		t.Errorf("ids not increasing: %d then %d", first.ID, second.ID)
	}
	seen := make(map[int]bool)
	for _, c := range s.ListChats() {
		if seen[c.ID] {
			t.Errorf("duplicate chat id %d", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestCreateChatValidation(t *testing.T) {
	tests := []struct {
		name     string
		chatName string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"too long", strings.Repeat("x", 51)},
	}
	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateChat(KindGroup, tt.chatName, "👥", "")
			if !IsValidation(err) {
				t.Errorf("CreateChat(%q) error = %v, want ValidationError", tt.chatName, err)
			}
		})
	}
}

func TestCreateChatSeedsSystemNotice(t *testing.T) {
	s := New()
	chat, err := s.CreateChat(KindGroup, "Book Club", "📚", "monthly reads")
	if err != nil {
		t.Fatal(err)
	}

	msgs, ok := s.Messages(chat.ID)
	if !ok || len(msgs) != 1 {
		t.Fatalf("got %d seeded messages, want 1", len(msgs))
	}
	if !strings.Contains(msgs[0].Text, "Book Club") {
		t.Errorf("notice %q does not echo the chat name", msgs[0].Text)
	}
	if !strings.Contains(msgs[0].Text, "monthly reads") {
		t.Errorf("notice %q does not echo the description", msgs[0].Text)
	}
	if chat.LastMessagePreview != msgs[0].Text {
		t.Errorf("preview %q != seeded notice %q", chat.LastMessagePreview, msgs[0].Text)
	}
}

func TestAddContactValidation(t *testing.T) {
	tests := []struct {
		name    string
		contact string
		phone   string
		wantErr bool
	}{
		{"valid", "Oleg", "9991234567", false},
		{"empty name", "", "9991234567", true},
		{"empty phone", "Oleg", "", true},
		{"short phone", "Oleg", "12345", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			_, err := s.AddContact(tt.contact, tt.phone)
			if tt.wantErr && !IsValidation(err) {
				t.Errorf("AddContact() error = %v, want ValidationError", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("AddContact() error = %v", err)
			}
		})
	}
}

func TestAddContactMaterializesChat(t *testing.T) {
	s := NewSeeded()
	before := len(s.ListChats())

	contact, err := s.AddContact("Oleg Orlov", "9991234567")
	if err != nil {
		t.Fatal(err)
	}

	chats := s.ListChats()
	if len(chats) != before+1 {
		t.Fatalf("got %d chats, want %d", len(chats), before+1)
	}
	companion := chats[len(chats)-1]
	if companion.Kind != KindUser {
		t.Errorf("companion chat kind = %q, want %q", companion.Kind, KindUser)
	}
	if companion.Name != contact.Name {
		t.Errorf("companion chat name = %q, want %q", companion.Name, contact.Name)
	}
	if !companion.Online {
		t.Error("companion chat should be marked online")
	}
	if msgs, _ := s.Messages(companion.ID); len(msgs) != 0 {
		t.Errorf("companion chat seeded with %d messages, want 0", len(msgs))
	}
}

func TestPostMessage(t *testing.T) {
	s := NewSeeded()

	msg, err := s.PostMessage(OfficialChatID, "hi")
	if err != nil {
		t.Fatalf("PostMessage() error = %v", err)
	}
	if !msg.FromMe {
		t.Error("posted message should be own")
	}
	if msg.Status != StatusSent {
		t.Errorf("status = %q, want %q", msg.Status, StatusSent)
	}

	chat, _ := s.GetChat(OfficialChatID)
	if chat.LastMessagePreview != "hi" {
		t.Errorf("preview = %q, want %q", chat.LastMessagePreview, "hi")
	}
}

func TestPostMessageValidation(t *testing.T) {
	s := NewSeeded()

	if _, err := s.PostMessage(OfficialChatID, "   "); !IsValidation(err) {
		t.Errorf("blank text error = %v, want ValidationError", err)
	}
	if _, err := s.PostMessage(9999, "hi"); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("unknown chat error = %v, want ErrChatNotFound", err)
	}
}

func TestPerChatMessageIDsAreMonotonic(t *testing.T) {
	s := NewSeeded()

	a, _ := s.PostMessage(OfficialChatID, "one")
	b, _ := s.PostMessage(OfficialChatID, "two")
	if b.ID != a.ID+1 {
		t.Errorf("ids = %d, %d; want consecutive", a.ID, b.ID)
	}

	// Deleting the latest message must not let its id be reused.
	s.DeleteMessage(OfficialChatID, b.ID)
	c, _ := s.PostMessage(OfficialChatID, "three")
	if c.ID <= b.ID {
		t.Errorf("id %d reused after delete of %d", c.ID, b.ID)
	}
}

func TestAdvanceStatus(t *testing.T) {
	s := NewSeeded()
	msg, _ := s.PostMessage(OfficialChatID, "hi")

	if !s.AdvanceStatus(OfficialChatID, msg.ID, StatusDelivered) {
		t.Fatal("sent -> delivered should succeed")
	}
	if !s.AdvanceStatus(OfficialChatID, msg.ID, StatusRead) {
		t.Fatal("delivered -> read should succeed")
	}
	// Irreversible: no going back.
	if s.AdvanceStatus(OfficialChatID, msg.ID, StatusDelivered) {
		t.Error("read -> delivered should be refused")
	}
	// Missing message is a no-op.
	if s.AdvanceStatus(OfficialChatID, 9999, StatusDelivered) {
		t.Error("advance on missing message should report false")
	}
}

func TestDeleteMessage(t *testing.T) {
	s := NewSeeded()
	keep, _ := s.PostMessage(OfficialChatID, "keep me")
	target, _ := s.PostMessage(OfficialChatID, "delete me")

	if !s.DeleteMessage(OfficialChatID, target.ID) {
		t.Fatal("delete should find the message")
	}
	if _, found := s.GetMessage(OfficialChatID, target.ID); found {
		t.Error("deleted message still present")
	}
	if _, found := s.GetMessage(OfficialChatID, keep.ID); !found {
		t.Error("sibling message was affected by delete")
	}
	// Second delete is a silent no-op.
	if s.DeleteMessage(OfficialChatID, target.ID) {
		t.Error("second delete should report false")
	}

	// The preview must keep matching the thread's last element.
	chat, _ := s.GetChat(OfficialChatID)
	msgs, _ := s.Messages(OfficialChatID)
	if last := msgs[len(msgs)-1]; chat.LastMessagePreview != last.Text {
		t.Errorf("preview %q != last message %q", chat.LastMessagePreview, last.Text)
	}
}

func TestDeleteLastMessageRestoresPlaceholder(t *testing.T) {
	s := NewSeeded()
	if _, err := s.AddContact("Oleg", "9991234567"); err != nil {
		t.Fatal(err)
	}
	chats := s.ListChats()
	chatID := chats[len(chats)-1].ID

	msg, _ := s.PostMessage(chatID, "only one")
	if !s.DeleteMessage(chatID, msg.ID) {
		t.Fatal("delete should find the message")
	}

	chat, _ := s.GetChat(chatID)
	if chat.LastMessagePreview != emptyPreview {
		t.Errorf("preview after emptying thread = %q, want %q", chat.LastMessagePreview, emptyPreview)
	}
	if !chat.LastMessageAt.IsZero() {
		t.Errorf("LastMessageAt after emptying thread = %v, want zero", chat.LastMessageAt)
	}
}

func TestTogglePinAndReactions(t *testing.T) {
	s := NewSeeded()
	msg, _ := s.PostMessage(OfficialChatID, "pin me")

	if !s.TogglePin(OfficialChatID, msg.ID) {
		t.Fatal("toggle should find the message")
	}
	got, _ := s.GetMessage(OfficialChatID, msg.ID)
	if !got.Pinned {
		t.Error("message not pinned after toggle")
	}
	s.TogglePin(OfficialChatID, msg.ID)
	got, _ = s.GetMessage(OfficialChatID, msg.ID)
	if got.Pinned {
		t.Error("message still pinned after second toggle")
	}
	if s.TogglePin(OfficialChatID, 9999) {
		t.Error("toggle on missing message should report false")
	}

	// Reactions append without dedup.
	s.AddReaction(OfficialChatID, msg.ID, "👍")
	s.AddReaction(OfficialChatID, msg.ID, "👍")
	got, _ = s.GetMessage(OfficialChatID, msg.ID)
	if len(got.Reactions) != 2 {
		t.Errorf("got %d reactions, want 2 (duplicates allowed)", len(got.Reactions))
	}
}

func TestOpenChatClearsUnread(t *testing.T) {
	s := NewSeeded()
	if _, err := s.InjectRemote(OfficialChatID, "ping"); err != nil {
		t.Fatal(err)
	}
	chat, _ := s.GetChat(OfficialChatID)
	if chat.UnreadCount == 0 {
		t.Fatal("unread counter should be positive after a remote message")
	}

	if !s.OpenChat(OfficialChatID) {
		t.Fatal("open should find the chat")
	}
	chat, _ = s.GetChat(OfficialChatID)
	if chat.UnreadCount != 0 {
		t.Errorf("unread = %d after open, want 0", chat.UnreadCount)
	}
	if s.OpenChat(9999) {
		t.Error("open on missing chat should report false")
	}
}

func TestChatsRenderInInsertionOrder(t *testing.T) {
	s := NewSeeded()
	s.CreateChat(KindGroup, "Late Arrival", "🌟", "")

	chats := s.ListChats()
	for i := 1; i < len(chats); i++ {
		if chats[i].ID < chats[i-1].ID {
			t.Fatalf("chats out of insertion order: %d before %d", chats[i-1].ID, chats[i].ID)
		}
	}
	if chats[len(chats)-1].Name != "Late Arrival" {
		t.Error("newest chat should be last")
	}
}

func TestResetReseeds(t *testing.T) {
	s := NewSeeded()
	s.CreateChat(KindGroup, "Transient", "👥", "")
	s.Reset()

	for _, c := range s.ListChats() {
		if c.Name == "Transient" {
			t.Fatal("reset did not drop session chats")
		}
	}
	if _, ok := s.GetChat(OfficialChatID); !ok {
		t.Error("official chat missing after reset")
	}
}
