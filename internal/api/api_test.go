package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvolkov/dvchat/internal/auth"
	"github.com/dvolkov/dvchat/internal/bus"
	"github.com/dvolkov/dvchat/internal/delivery"
	"github.com/dvolkov/dvchat/internal/responder"
	"github.com/dvolkov/dvchat/internal/store"
	"go.uber.org/zap"
)

// fixture wires the full core with fast simulated delays.
type fixture struct {
	bus      *bus.Bus
	store    *store.Store
	sessions *SessionService
	chats    *ChatService
	messages *MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	b := bus.New()
	s := store.NewSeeded()

	engine := delivery.NewEngine(s, b, logger, 20*time.Millisecond, 60*time.Millisecond)
	t.Cleanup(engine.Stop)

	r := responder.New(s, b, logger, 100*time.Millisecond)
	r.Start(context.Background())
	t.Cleanup(r.Stop)

	machine := auth.NewMachine(b, 50*time.Millisecond)
	return &fixture{
		bus:      b,
		store:    s,
		sessions: NewSessionService(machine, s, engine, r, logger),
		chats:    NewChatService(s, b, logger),
		messages: NewMessageService(s, engine, b, logger),
	}
}

// TestRegisterVerifyPostRead walks the happy path end to end:
// register, verify with the demo code, post into the official chat,
// and wait for the message to reach read.
func TestRegisterVerifyPostRead(t *testing.T) {
	f := newFixture(t)

	if err := f.sessions.Register("Ann", "a@b.com", "9991234567"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := f.sessions.Verify(f.sessions.DemoCode()); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if f.sessions.State() != auth.Authenticated {
		t.Fatalf("state = %s, want AUTHENTICATED", f.sessions.State())
	}

	msg, err := f.messages.Post(store.OfficialChatID, "hi")
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if msg.Status != store.StatusSent {
		t.Errorf("initial status = %q, want sent", msg.Status)
	}

	deadline := time.Now().Add(time.Second)
	for {
		got, _ := f.store.GetMessage(store.OfficialChatID, msg.ID)
		if got.Status == store.StatusRead {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("status = %q, want read", got.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPostTriggersScriptedReply(t *testing.T) {
	f := newFixture(t)

	before, _ := f.messages.List(store.OfficialChatID)
	if _, err := f.messages.Post(store.OfficialChatID, "hello there"); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		msgs, _ := f.messages.List(store.OfficialChatID)
		if len(msgs) == len(before)+2 {
			if reply := msgs[len(msgs)-1]; reply.FromMe {
				t.Error("reply should be authored by the remote party")
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("no reply arrived; %d messages", len(msgs))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDeleteAuthorization(t *testing.T) {
	f := newFixture(t)

	own, _ := f.messages.Post(store.OfficialChatID, "mine")
	remote, _ := f.store.InjectRemote(store.OfficialChatID, "theirs")

	regular := auth.Profile{Name: "User"}
	if err := f.messages.Delete(regular, store.OfficialChatID, own.ID); err != nil {
		t.Errorf("owner delete error = %v", err)
	}
	if err := f.messages.Delete(regular, store.OfficialChatID, remote.ID); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("regular delete of remote message error = %v, want ErrNotAllowed", err)
	}

	admin := auth.Profile{Name: "Admin", IsAdmin: true}
	if err := f.messages.Delete(admin, store.OfficialChatID, remote.ID); err != nil {
		t.Errorf("admin delete error = %v", err)
	}
	if _, found := f.store.GetMessage(store.OfficialChatID, remote.ID); found {
		t.Error("remote message still present after admin delete")
	}

	// Deleting a missing message is a silent no-op regardless of role.
	if err := f.messages.Delete(regular, store.OfficialChatID, 9999); err != nil {
		t.Errorf("delete of missing message error = %v", err)
	}
}

func TestDeletedMessageStaysSent(t *testing.T) {
	f := newFixture(t)

	msg, _ := f.messages.Post(store.OfficialChatID, "short lived")
	if err := f.messages.Delete(auth.Profile{}, store.OfficialChatID, msg.ID); err != nil {
		t.Fatal(err)
	}

	// The armed delivery timers must not resurrect or touch anything.
	ch, unsub := f.bus.Subscribe(bus.KindMessageStatusChanged, 10)
	defer unsub()
	select {
	case evt := <-ch:
		t.Errorf("unexpected status event after delete: %v", evt.Payload)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestLogoutResetsDataset(t *testing.T) {
	f := newFixture(t)

	if err := f.sessions.Login("9991234567", "pw"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.chats.CreateChat(store.KindGroup, "Ephemeral", "👥", ""); err != nil {
		t.Fatal(err)
	}

	f.sessions.Logout()
	if f.sessions.State() != auth.Unauthenticated {
		t.Errorf("state = %s after logout", f.sessions.State())
	}
	for _, c := range f.chats.ListChats() {
		if c.Name == "Ephemeral" {
			t.Error("session chat survived logout")
		}
	}
}

// TestMessageLifecycleSurvivesLogout exercises id reuse across a
// logout: the reseeded store hands out the same message id again, and
// the reused id must still walk sent -> delivered -> read even though
// its predecessor was deleted.
func TestMessageLifecycleSurvivesLogout(t *testing.T) {
	f := newFixture(t)

	first, err := f.messages.Post(store.OfficialChatID, "before logout")
	if err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(time.Second)
	for {
		got, _ := f.store.GetMessage(store.OfficialChatID, first.ID)
		if got.Status == store.StatusRead {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("first message status = %q, want read", got.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err := f.messages.Delete(auth.Profile{}, store.OfficialChatID, first.ID); err != nil {
		t.Fatal(err)
	}

	f.sessions.Logout()

	second, err := f.messages.Post(store.OfficialChatID, "after logout")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected reused id %d, got %d", first.ID, second.ID)
	}

	deadline = time.Now().Add(time.Second)
	for {
		got, _ := f.store.GetMessage(store.OfficialChatID, second.ID)
		if got.Status == store.StatusRead {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("reused-id message status = %q, want read", got.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// TestLogoutDropsPendingReply posts into the official chat and logs
// out before the scripted reply lands; the reply must not be injected
// into the reseeded thread.
func TestLogoutDropsPendingReply(t *testing.T) {
	f := newFixture(t)

	seed, _ := f.messages.List(store.OfficialChatID)
	if _, err := f.messages.Post(store.OfficialChatID, "fire and forget"); err != nil {
		t.Fatal(err)
	}
	// Give the responder time to consume the event and arm its timer,
	// but stay well under the fixture's 100ms reply delay.
	time.Sleep(20 * time.Millisecond)
	f.sessions.Logout()

	// Well past the fixture's 100ms reply delay.
	time.Sleep(250 * time.Millisecond)
	msgs, _ := f.messages.List(store.OfficialChatID)
	if len(msgs) != len(seed) {
		t.Errorf("official chat has %d messages after logout, want the %d seeded ones", len(msgs), len(seed))
	}
}

func TestCreateChatAndAddContactEvents(t *testing.T) {
	f := newFixture(t)

	chatCh, unsubChats := f.bus.Subscribe("chat.", 10)
	defer unsubChats()
	contactCh, unsubContacts := f.bus.Subscribe("contact.", 10)
	defer unsubContacts()

	if _, err := f.chats.CreateChat(store.KindChannel, "Announcements", "📢", "news only"); err != nil {
		t.Fatal(err)
	}
	select {
	case evt := <-chatCh:
		if evt.Kind != bus.KindChatCreated {
			t.Errorf("event kind = %q", evt.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for chat.created")
	}

	if _, err := f.chats.AddContact("Oleg", "9991234567"); err != nil {
		t.Fatal(err)
	}
	select {
	case evt := <-contactCh:
		if evt.Kind != bus.KindContactAdded {
			t.Errorf("event kind = %q", evt.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for contact.added")
	}
}
