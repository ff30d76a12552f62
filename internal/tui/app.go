// Package tui is the terminal frontend. It renders the chat list,
// message threads and the auth flow, and redraws whenever the view
// model reports fresh state.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/dvolkov/dvchat/internal/apperr"
	"github.com/dvolkov/dvchat/internal/auth"
	"github.com/dvolkov/dvchat/internal/store"
	"github.com/dvolkov/dvchat/internal/tui/keys"
	"github.com/dvolkov/dvchat/internal/tui/model"
	"github.com/dvolkov/dvchat/internal/tui/ui"
	"github.com/dvolkov/dvchat/internal/tui/views"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var reactionChoices = []string{"👍", "❤️", "😂", "😮", "😢", "🔥"}

// App is the terminal application shell.
type App struct {
	app      *tview.Application
	pages    *tview.Pages
	vm       *model.ViewModel
	registry *keys.Registry

	statusBar  *views.StatusBar
	chatList   *views.ChatList
	thread     *views.MessageThread
	authView   *views.AuthView
	themePick  *views.ThemePicker
	chatDialog *views.CreateChatDialog
	contactDlg *views.AddContactDialog
	reactList  *tview.List

	ctx    context.Context
	cancel context.CancelFunc
}

func NewApp(vm *model.ViewModel, profileName string) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:        tview.NewApplication(),
		pages:      tview.NewPages(),
		vm:         vm,
		registry:   keys.NewRegistry(),
		statusBar:  views.NewStatusBar(profileName),
		chatList:   views.NewChatList(),
		thread:     views.NewMessageThread(),
		authView:   views.NewAuthView(),
		themePick:  views.NewThemePicker(),
		chatDialog: views.NewCreateChatDialog(),
		contactDlg: views.NewAddContactDialog(),
		ctx:        ctx,
		cancel:     cancel,
	}

	a.reactList = tview.NewList().ShowSecondaryText(false)
	a.reactList.SetBorder(true).SetTitle(" React ")

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	a.applyTheme()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() { a.app.Stop() },
	})

	a.registry.AddPage("chats", "theme", &keys.Action{
		Rune: 't', Key: tcell.KeyRune,
		Description: "t:theme", Visible: true,
		Handler: func() { a.showThemePicker() },
	})
	a.registry.AddPage("chats", "group", &keys.Action{
		Rune: 'g', Key: tcell.KeyRune,
		Description: "g:group", Visible: true,
		Handler: func() { a.showCreateChat(store.KindGroup) },
	})
	a.registry.AddPage("chats", "channel", &keys.Action{
		Rune: 'n', Key: tcell.KeyRune,
		Description: "n:channel", Visible: true,
		Handler: func() { a.showCreateChat(store.KindChannel) },
	})
	a.registry.AddPage("chats", "contact", &keys.Action{
		Rune: 'a', Key: tcell.KeyRune,
		Description: "a:contact", Visible: true,
		Handler: func() { a.showAddContact() },
	})
	a.registry.AddPage("chats", "logout", &keys.Action{
		Rune: 'x', Key: tcell.KeyRune,
		Description: "x:logout", Visible: true,
		Handler: func() { a.logout() },
	})

	a.registry.AddPage("chat", "delete", &keys.Action{
		Rune: 'd', Key: tcell.KeyRune,
		Description: "d:delete", Visible: true,
		Handler: func() { a.deleteSelected() },
	})
	a.registry.AddPage("chat", "pin", &keys.Action{
		Rune: 'p', Key: tcell.KeyRune,
		Description: "p:pin", Visible: true,
		Handler: func() {
			if id := a.thread.SelectedMessage(); id != 0 {
				a.vm.TogglePin(id)
			}
		},
	})
	a.registry.AddPage("chat", "react", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:react", Visible: true,
		Handler: func() { a.showReactions() },
	})
}

func (a *App) setupCallbacks() {
	a.chatList.SetOnOpen(func(chatID int) { a.openChat(chatID) })

	a.thread.SetOnSend(func(text string) {
		if err := a.vm.Post(text); err != nil {
			a.vm.Flash.Set("Send failed: "+err.Error(), 5*time.Second)
		}
	})

	a.authView.OnRegister = func(name, email, phone string) {
		if err := a.vm.Register(name, email, phone); err != nil {
			a.authView.SetStatus(err.Error())
			return
		}
		a.authView.ShowVerify(a.vm.DemoCode(), a.vm.AttemptsLeft())
	}
	a.authView.OnVerify = func(code string) {
		err := a.vm.Verify(code)
		switch {
		case err == nil:
			a.enterChats()
		case errors.As(err, new(*apperr.LockedOutError)):
			a.authView.ShowLockedOut()
		default:
			a.authView.SetStatus(err.Error())
		}
	}
	a.authView.OnLogin = func(phone, password string) {
		if err := a.vm.Login(phone, password); err != nil {
			a.authView.SetStatus(err.Error())
			return
		}
		a.enterChats()
	}
	a.authView.OnDevLogin = func(login, password string) {
		if err := a.vm.DevLogin(login, password); err != nil {
			a.authView.SetStatus(err.Error())
			return
		}
		a.enterChats()
	}

	a.themePick.SetOnSelect(func(id string) {
		if err := a.vm.SelectTheme(id); err != nil {
			a.vm.Flash.Set(err.Error(), 5*time.Second)
		}
		a.applyTheme()
		a.backToChats()
	})
	a.themePick.SetOnClose(func() { a.backToChats() })

	a.chatDialog.OnCreate = func(kind store.ChatKind, name, avatar, description string) {
		if err := a.vm.CreateChat(kind, name, avatar, description); err != nil {
			a.vm.Flash.Set(err.Error(), 5*time.Second)
			return
		}
		a.showThread()
	}
	a.chatDialog.OnCancel = func() { a.backToChats() }

	a.contactDlg.OnAdd = func(name, phone string) {
		if err := a.vm.AddContact(name, phone); err != nil {
			a.vm.Flash.Set(err.Error(), 5*time.Second)
			return
		}
		a.backToChats()
	}
	a.contactDlg.OnCancel = func() { a.backToChats() }
}

func (a *App) setupLayout() {
	reactFlex := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(a.reactList, 10, 0, true).
			AddItem(nil, 0, 1, false), 24, 0, true).
		AddItem(nil, 0, 1, false)

	a.pages.AddPage("auth", a.authView, true, true)
	a.pages.AddPage("chats", a.chatList, true, false)
	a.pages.AddPage("chat", a.thread, true, false)
	a.pages.AddPage("themes", a.themePick, true, false)
	a.pages.AddPage("newchat", a.chatDialog, true, false)
	a.pages.AddPage("contact", a.contactDlg, true, false)
	a.pages.AddPage("react", reactFlex, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		page, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch page {
			case "chat":
				a.vm.CloseChat()
				a.backToChats()
				return nil
			case "themes", "newchat", "contact":
				a.backToChats()
				return nil
			case "react":
				a.showThread()
				return nil
			}
		}

		// Text widgets get their keys untouched.
		focused := a.app.GetFocus()
		switch focused.(type) {
		case *tview.InputField, *tview.Button, *tview.DropDown:
			return event
		}

		if page == "chat" && event.Key() == tcell.KeyRune && event.Rune() == 'i' {
			a.app.SetFocus(a.thread.Composer())
			return nil
		}

		if a.registry.HandleEvent(page, event) {
			return nil
		}
		return event
	})
}

// Run starts the UI and blocks until quit.
func (a *App) Run() error {
	a.vm.Start()
	defer a.vm.Stop()
	defer a.cancel()

	if a.vm.AuthState() == auth.Authenticated {
		a.enterChats()
	}
	a.startRefreshLoop()

	return a.app.Run()
}

// Stop terminates the UI from outside the event loop.
func (a *App) Stop() {
	a.app.Stop()
}

// startRefreshLoop redraws on view-model changes and ticks the clock.
func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-a.ctx.Done():
				return
			case <-a.vm.RefreshCh():
			case <-ticker.C:
			}
			a.app.QueueUpdateDraw(func() { a.redraw() })
		}
	}()
}

func (a *App) redraw() {
	page, _ := a.pages.GetFrontPage()

	if page != "auth" && a.vm.AuthState() != auth.Authenticated {
		a.authView.ShowRegister()
		a.pages.SwitchToPage("auth")
		page = "auth"
	}

	switch page {
	case "chats":
		a.chatList.Update(a.vm.Chats())
	case "chat":
		msgs, chatID := a.vm.Thread()
		if chatID == 0 {
			a.backToChats()
			break
		}
		if chat, ok := a.vm.ActiveChat(); ok {
			a.thread.SetChatName(chat.Name)
		}
		a.thread.Update(msgs)
	}

	a.statusBar.SetHints(a.registry.Hints(page))
	profile, hasProfile := a.vm.Profile()
	a.statusBar.Update(a.vm.AuthState(), profile, hasProfile, a.vm.Flash.Get())
}

func (a *App) enterChats() {
	a.chatList.Update(a.vm.Chats())
	a.backToChats()
}

func (a *App) backToChats() {
	a.pages.SwitchToPage("chats")
	a.app.SetFocus(a.chatList)
}

func (a *App) openChat(chatID int) {
	a.vm.OpenChat(chatID)
	a.showThread()
}

func (a *App) showThread() {
	msgs, chatID := a.vm.Thread()
	if chatID == 0 {
		return
	}
	if chat, ok := a.vm.ActiveChat(); ok {
		a.thread.SetChatName(chat.Name)
	}
	a.thread.Update(msgs)
	a.pages.SwitchToPage("chat")
	a.app.SetFocus(a.thread.Table())
}

func (a *App) showThemePicker() {
	a.themePick.Update(a.vm.Themes(), a.vm.CurrentTheme().ID)
	a.pages.SwitchToPage("themes")
	a.app.SetFocus(a.themePick)
}

func (a *App) showCreateChat(kind store.ChatKind) {
	a.chatDialog.SetKind(kind)
	a.pages.SwitchToPage("newchat")
	a.app.SetFocus(a.chatDialog.Form())
}

func (a *App) showAddContact() {
	a.contactDlg.Reset()
	a.pages.SwitchToPage("contact")
	a.app.SetFocus(a.contactDlg.Form())
}

func (a *App) showReactions() {
	msgID := a.thread.SelectedMessage()
	if msgID == 0 {
		return
	}
	a.reactList.Clear()
	for _, emoji := range reactionChoices {
		e := emoji
		a.reactList.AddItem(e, "", 0, func() {
			a.vm.React(msgID, e)
			a.showThread()
		})
	}
	a.pages.SwitchToPage("react")
	a.app.SetFocus(a.reactList)
}

func (a *App) deleteSelected() {
	msgID := a.thread.SelectedMessage()
	if msgID == 0 {
		return
	}
	if err := a.vm.DeleteMessage(msgID); err != nil {
		a.vm.Flash.Set("Delete not allowed", 3*time.Second)
	}
}

func (a *App) logout() {
	a.vm.Logout()
	a.authView.ShowRegister()
	a.pages.SwitchToPage("auth")
	a.app.SetFocus(a.authView)
}

func (a *App) applyTheme() {
	p := ui.FromTheme(a.vm.CurrentTheme())

	a.chatList.ApplyPalette(p)
	a.thread.ApplyPalette(p)
	a.authView.ApplyPalette(p)
	a.themePick.ApplyPalette(p)
	a.chatDialog.ApplyPalette(p)
	a.contactDlg.ApplyPalette(p)
	a.statusBar.ApplyPalette(p)

	a.reactList.SetBackgroundColor(p.Bg)
	a.reactList.SetBorderColor(p.Border)
	a.reactList.SetTitleColor(p.Title)
	a.reactList.SetMainTextColor(p.Fg)
	a.reactList.SetSelectedBackgroundColor(p.Primary)
	a.reactList.SetSelectedTextColor(p.Bg)
}
