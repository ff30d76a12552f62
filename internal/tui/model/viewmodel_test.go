package model

import (
	"context"
	"testing"
	"time"

	"github.com/dvolkov/dvchat/internal/api"
	"github.com/dvolkov/dvchat/internal/auth"
	"github.com/dvolkov/dvchat/internal/bus"
	"github.com/dvolkov/dvchat/internal/delivery"
	"github.com/dvolkov/dvchat/internal/responder"
	"github.com/dvolkov/dvchat/internal/store"
	"github.com/dvolkov/dvchat/internal/theme"
	"go.uber.org/zap"
)

func newViewModel(t *testing.T) *ViewModel {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	b := bus.New()
	s := store.NewSeeded()

	engine := delivery.NewEngine(s, b, logger, 20*time.Millisecond, 60*time.Millisecond)
	t.Cleanup(engine.Stop)

	rsp := responder.New(s, b, logger, 100*time.Millisecond)
	rsp.Start(context.Background())
	t.Cleanup(rsp.Stop)

	machine := auth.NewMachine(b, 50*time.Millisecond)
	vm := NewViewModel(
		api.NewSessionService(machine, s, engine, rsp, logger),
		api.NewChatService(s, b, logger),
		api.NewMessageService(s, engine, b, logger),
		theme.NewManager(b, ""),
		b, logger,
	)
	vm.Start()
	t.Cleanup(vm.Stop)
	return vm
}

// waitFor polls until cond holds, nudged along by refresh signals.
func waitFor(t *testing.T, vm *ViewModel, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-vm.RefreshCh():
		case <-time.After(10 * time.Millisecond):
		case <-deadline:
			t.Fatal(what)
		}
	}
}

func TestStartLoadsSnapshots(t *testing.T) {
	vm := newViewModel(t)

	if len(vm.Chats()) == 0 {
		t.Fatal("seeded chats should be visible after Start")
	}
	if len(vm.Contacts()) != 0 {
		t.Errorf("seed has no contacts, got %d", len(vm.Contacts()))
	}
}

func TestOpenChatTracksThread(t *testing.T) {
	vm := newViewModel(t)

	vm.OpenChat(store.OfficialChatID)
	waitFor(t, vm, "seed thread never loaded", func() bool {
		msgs, chatID := vm.Thread()
		return chatID == store.OfficialChatID && len(msgs) > 0
	})

	chat, ok := vm.ActiveChat()
	if !ok || chat.ID != store.OfficialChatID {
		t.Fatalf("ActiveChat = %+v, %v", chat, ok)
	}
	if chat.UnreadCount != 0 {
		t.Errorf("opening should clear unread, got %d", chat.UnreadCount)
	}
}

func TestPostRefreshesThread(t *testing.T) {
	vm := newViewModel(t)

	vm.OpenChat(2)
	waitFor(t, vm, "thread never loaded", func() bool {
		msgs, _ := vm.Thread()
		return len(msgs) > 0
	})
	before, _ := vm.Thread()

	if err := vm.Post("hello"); err != nil {
		t.Fatalf("Post: %v", err)
	}

	waitFor(t, vm, "posted message never appeared in the snapshot", func() bool {
		msgs, _ := vm.Thread()
		return len(msgs) == len(before)+1
	})
	msgs, _ := vm.Thread()
	last := msgs[len(msgs)-1]
	if !last.FromMe || last.Text != "hello" {
		t.Fatalf("unexpected last message %+v", last)
	}
}

func TestDeleteRequiresSignIn(t *testing.T) {
	vm := newViewModel(t)

	vm.OpenChat(2)
	waitFor(t, vm, "thread never loaded", func() bool {
		msgs, _ := vm.Thread()
		return len(msgs) > 0
	})

	msgs, _ := vm.Thread()
	if err := vm.DeleteMessage(msgs[0].ID); err != api.ErrNotAllowed {
		t.Errorf("delete without a session = %v, want ErrNotAllowed", err)
	}
}

func TestLogoutClearsActiveChat(t *testing.T) {
	vm := newViewModel(t)

	if err := vm.DevLogin("dvdev", "dvchat-dev"); err != nil {
		t.Fatalf("DevLogin: %v", err)
	}
	vm.OpenChat(2)
	waitFor(t, vm, "thread never loaded", func() bool {
		_, chatID := vm.Thread()
		return chatID == 2
	})

	vm.Logout()
	if _, chatID := vm.Thread(); chatID != 0 {
		t.Errorf("active chat after logout = %d", chatID)
	}
	if vm.AuthState() != auth.Unauthenticated {
		t.Errorf("state after logout = %s", vm.AuthState())
	}
}

func TestSelectThemeSetsFlash(t *testing.T) {
	vm := newViewModel(t)

	if err := vm.SelectTheme("ocean"); err != nil {
		t.Fatalf("SelectTheme: %v", err)
	}
	if vm.CurrentTheme().ID != "ocean" {
		t.Errorf("current theme = %s", vm.CurrentTheme().ID)
	}
	if vm.Flash.Get() == "" {
		t.Error("theme change should flash")
	}

	if err := vm.SelectTheme("nope"); err == nil {
		t.Error("unknown theme should error")
	}
}
