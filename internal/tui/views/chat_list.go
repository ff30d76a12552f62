package views

import (
	"fmt"
	"time"

	"github.com/dvolkov/dvchat/internal/store"
	"github.com/dvolkov/dvchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// ChatList is the main chat list table.
type ChatList struct {
	*tview.Table
	chats      []store.Chat
	onOpen     func(chatID int)
	selectedFn func() (int, int)
}

func NewChatList() *ChatList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" DVChat ")

	cl := &ChatList{Table: table}
	cl.selectedFn = table.GetSelection

	table.SetSelectedFunc(func(row, _ int) {
		if cl.onOpen == nil {
			return
		}
		if id := cl.rowChatID(row); id != 0 {
			cl.onOpen(id)
		}
	})
	return cl
}

// SetOnOpen sets the callback run when a chat row is activated.
func (cl *ChatList) SetOnOpen(fn func(chatID int)) {
	cl.onOpen = fn
}

// Update refreshes the table with a new chat snapshot.
func (cl *ChatList) Update(chats []store.Chat) {
	cl.chats = chats
	cl.Clear()

	headers := []string{" ", " Name", " Last Message", " Time", " "}
	for col, h := range headers {
		cl.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(tview.Styles.SecondaryTextColor))
	}

	for i, chat := range chats {
		row := i + 1

		name := chat.Name
		if chat.Pinned {
			name = "* " + name
		}
		if chat.UnreadCount > 0 {
			name = fmt.Sprintf("%s (%d)", name, chat.UnreadCount)
		}

		badge := ""
		switch {
		case chat.Online:
			badge = "on"
		case chat.Kind == store.KindGroup:
			badge = "grp"
		case chat.Kind == store.KindChannel:
			badge = "ch"
		case chat.Premium:
			badge = "pro"
		}

		cl.SetCell(row, 0, tview.NewTableCell(" "+sanitizeForTerminal(chat.Avatar)).SetMaxWidth(4))
		cl.SetCell(row, 1, tview.NewTableCell(" "+sanitizeForTerminal(name)).SetMaxWidth(30).SetExpansion(1))
		cl.SetCell(row, 2, tview.NewTableCell(" "+sanitizeForTerminal(chat.LastMessagePreview)).SetMaxWidth(40).SetExpansion(2))
		cl.SetCell(row, 3, tview.NewTableCell(" "+formatTimestamp(chat.LastMessageAt)).SetMaxWidth(12))
		cl.SetCell(row, 4, tview.NewTableCell(" "+badge).SetMaxWidth(5))
	}
}

// SelectedChat returns the id of the highlighted chat, or 0.
func (cl *ChatList) SelectedChat() int {
	row, _ := cl.selectedFn()
	return cl.rowChatID(row)
}

func (cl *ChatList) rowChatID(row int) int {
	idx := row - 1 // header row
	if idx >= 0 && idx < len(cl.chats) {
		return cl.chats[idx].ID
	}
	return 0
}

// ApplyPalette recolors the table for the active theme.
func (cl *ChatList) ApplyPalette(p *ui.Palette) {
	cl.SetBackgroundColor(p.Bg)
	cl.SetBorderColor(p.Border)
	cl.SetTitleColor(p.Title)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}
