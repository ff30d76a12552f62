package model

import (
	"context"
	"sync"
	"time"

	"github.com/dvolkov/dvchat/internal/api"
	"github.com/dvolkov/dvchat/internal/auth"
	"github.com/dvolkov/dvchat/internal/bus"
	"github.com/dvolkov/dvchat/internal/store"
	"github.com/dvolkov/dvchat/internal/theme"
	"go.uber.org/zap"
)

// ViewModel mediates between the services and the terminal views. It
// keeps snapshots the draw loop can read without touching the store,
// refreshes them on bus events and nudges the UI through RefreshCh.
type ViewModel struct {
	sessions *api.SessionService
	chats    *api.ChatService
	messages *api.MessageService
	themes   *theme.Manager
	bus      *bus.Bus
	logger   *zap.Logger

	mu           sync.RWMutex
	chatList     []store.Chat
	contacts     []store.Contact
	thread       []store.Message
	activeChatID int

	Flash Flash

	refreshCh chan struct{}
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewViewModel(sessions *api.SessionService, chats *api.ChatService, messages *api.MessageService, themes *theme.Manager, b *bus.Bus, logger *zap.Logger) *ViewModel {
	return &ViewModel{
		sessions:  sessions,
		chats:     chats,
		messages:  messages,
		themes:    themes,
		bus:       b,
		logger:    logger.Named("viewmodel"),
		refreshCh: make(chan struct{}, 1),
	}
}

// RefreshCh signals that snapshots changed and the screen is stale.
func (vm *ViewModel) RefreshCh() <-chan struct{} { return vm.refreshCh }

// Start begins following bus events. The snapshots stay current until
// Stop is called.
func (vm *ViewModel) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	vm.cancel = cancel
	vm.done = make(chan struct{})

	events, unsub := vm.bus.Subscribe("", 64)
	go func() {
		defer close(vm.done)
		defer unsub()
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-events:
				vm.reload()
				vm.logger.Debug("refreshed on event", zap.String("kind", ev.Kind))
			}
		}
	}()

	vm.reload()
}

func (vm *ViewModel) Stop() {
	if vm.cancel == nil {
		return
	}
	vm.cancel()
	<-vm.done
}

func (vm *ViewModel) reload() {
	chats := vm.chats.ListChats()
	contacts := vm.chats.ListContacts()

	vm.mu.Lock()
	vm.chatList = chats
	vm.contacts = contacts
	if vm.activeChatID != 0 {
		if msgs, ok := vm.messages.List(vm.activeChatID); ok {
			vm.thread = msgs
		} else {
			vm.thread = nil
			vm.activeChatID = 0
		}
	}
	vm.mu.Unlock()

	vm.signalRefresh()
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// Chats returns the current chat list snapshot.
func (vm *ViewModel) Chats() []store.Chat {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.chatList
}

// Contacts returns the current contact snapshot.
func (vm *ViewModel) Contacts() []store.Contact {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.contacts
}

// Thread returns the open chat's messages and its id, or 0 when no
// chat is open.
func (vm *ViewModel) Thread() ([]store.Message, int) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.thread, vm.activeChatID
}

// ActiveChat returns the open chat, if any.
func (vm *ViewModel) ActiveChat() (store.Chat, bool) {
	vm.mu.RLock()
	id := vm.activeChatID
	vm.mu.RUnlock()
	if id == 0 {
		return store.Chat{}, false
	}
	return vm.chats.GetChat(id)
}

// OpenChat makes chatID the active thread and clears its unread count.
func (vm *ViewModel) OpenChat(chatID int) {
	vm.mu.Lock()
	vm.activeChatID = chatID
	vm.mu.Unlock()

	vm.chats.Open(chatID)
}

// CloseChat returns to the chat list.
func (vm *ViewModel) CloseChat() {
	vm.mu.Lock()
	vm.activeChatID = 0
	vm.thread = nil
	vm.mu.Unlock()
	vm.signalRefresh()
}

// Post sends text to the active chat.
func (vm *ViewModel) Post(text string) error {
	vm.mu.RLock()
	chatID := vm.activeChatID
	vm.mu.RUnlock()
	if chatID == 0 {
		return nil
	}
	_, err := vm.messages.Post(chatID, text)
	return err
}

// DeleteMessage removes msgID from the active chat if the signed-in
// profile may delete it.
func (vm *ViewModel) DeleteMessage(msgID int) error {
	profile, ok := vm.sessions.Profile()
	if !ok {
		return api.ErrNotAllowed
	}
	vm.mu.RLock()
	chatID := vm.activeChatID
	vm.mu.RUnlock()
	return vm.messages.Delete(profile, chatID, msgID)
}

// TogglePin flips the pin on msgID in the active chat.
func (vm *ViewModel) TogglePin(msgID int) {
	vm.mu.RLock()
	chatID := vm.activeChatID
	vm.mu.RUnlock()
	vm.messages.TogglePin(chatID, msgID)
}

// React appends an emoji reaction to msgID in the active chat.
func (vm *ViewModel) React(msgID int, emoji string) {
	vm.mu.RLock()
	chatID := vm.activeChatID
	vm.mu.RUnlock()
	vm.messages.AddReaction(chatID, msgID, emoji)
}

// CreateChat adds a group or channel and opens it.
func (vm *ViewModel) CreateChat(kind store.ChatKind, name, avatar, description string) error {
	chat, err := vm.chats.CreateChat(kind, name, avatar, description)
	if err != nil {
		return err
	}
	vm.OpenChat(chat.ID)
	return nil
}

// AddContact saves a contact and its companion chat.
func (vm *ViewModel) AddContact(name, phone string) error {
	_, err := vm.chats.AddContact(name, phone)
	return err
}

// Auth pass-throughs.

func (vm *ViewModel) Register(name, email, phone string) error {
	return vm.sessions.Register(name, email, phone)
}

func (vm *ViewModel) Verify(code string) error { return vm.sessions.Verify(code) }

func (vm *ViewModel) Login(phone, password string) error {
	return vm.sessions.Login(phone, password)
}

func (vm *ViewModel) DevLogin(login, password string) error {
	return vm.sessions.DevLogin(login, password)
}

func (vm *ViewModel) Logout() {
	vm.mu.Lock()
	vm.activeChatID = 0
	vm.thread = nil
	vm.mu.Unlock()
	vm.sessions.Logout()
}

func (vm *ViewModel) AuthState() auth.State         { return vm.sessions.State() }
func (vm *ViewModel) Profile() (auth.Profile, bool) { return vm.sessions.Profile() }
func (vm *ViewModel) DemoCode() string              { return vm.sessions.DemoCode() }
func (vm *ViewModel) AttemptsLeft() int             { return vm.sessions.AttemptsLeft() }

// Themes.

func (vm *ViewModel) Themes() []theme.Theme     { return vm.themes.List() }
func (vm *ViewModel) CurrentTheme() theme.Theme { return vm.themes.Current() }

func (vm *ViewModel) SelectTheme(id string) error {
	t, err := vm.themes.Select(id)
	if err != nil {
		return err
	}
	vm.Flash.Set("Theme: "+t.Name, 3*time.Second)
	return nil
}
