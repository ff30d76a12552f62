package views

import (
	"fmt"

	"github.com/dvolkov/dvchat/internal/store"
	"github.com/dvolkov/dvchat/internal/tui/ui"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// MessageThread displays one chat's messages and a composer. Messages
// live in a selectable table so per-message actions (delete, pin,
// react) have a target.
type MessageThread struct {
	*tview.Flex
	table    *tview.Table
	composer *tview.InputField
	palette  *ui.Palette

	msgs     []store.Message
	chatName string
	onSend   func(text string)
}

func NewMessageThread() *MessageThread {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false)
	table.SetBorder(true).SetTitle(" Messages ")

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetTitle(" Compose (i to focus) ")

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(table, 0, 1, true).
		AddItem(composer, 3, 0, false)

	mt := &MessageThread{
		Flex:     flex,
		table:    table,
		composer: composer,
	}

	composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && mt.onSend != nil {
			text := composer.GetText()
			if text != "" {
				mt.onSend(text)
				composer.SetText("")
			}
		}
	})

	return mt
}

// SetChatName updates the thread title.
func (mt *MessageThread) SetChatName(name string) {
	mt.chatName = name
	mt.table.SetTitle(fmt.Sprintf(" %s ", sanitizeForTerminal(name)))
}

// SetOnSend sets the callback run when the composer submits.
func (mt *MessageThread) SetOnSend(fn func(text string)) {
	mt.onSend = fn
}

// Table returns the message table for focus handling.
func (mt *MessageThread) Table() *tview.Table { return mt.table }

// Composer returns the input field for focus handling.
func (mt *MessageThread) Composer() *tview.InputField { return mt.composer }

// SelectedMessage returns the id of the highlighted message, or 0.
func (mt *MessageThread) SelectedMessage() int {
	row, _ := mt.table.GetSelection()
	if row >= 0 && row < len(mt.msgs) {
		return mt.msgs[row].ID
	}
	return 0
}

// Update re-renders the thread from a message snapshot and keeps the
// selection pinned to the newest row.
func (mt *MessageThread) Update(msgs []store.Message) {
	mt.msgs = msgs
	mt.table.Clear()

	for row, m := range msgs {
		sender := mt.chatName
		if m.FromMe {
			sender = "You"
		}

		marks := ""
		if m.Pinned {
			marks = "* "
		}

		body := marks + m.Text
		if len(m.Reactions) > 0 {
			body += "  ["
			for i, r := range m.Reactions {
				if i > 0 {
					body += " "
				}
				body += sanitizeForTerminal(r)
			}
			body += "]"
		}

		status := ""
		statusColor := tview.Styles.PrimaryTextColor
		if mt.palette != nil {
			statusColor = mt.palette.Fg
		}
		if m.FromMe {
			switch m.Status {
			case store.StatusSent:
				status = "v"
			case store.StatusDelivered:
				status = "vv"
			case store.StatusRead:
				status = "vv"
				if mt.palette != nil {
					statusColor = mt.palette.Primary
				}
			}
		}

		mt.table.SetCell(row, 0, tview.NewTableCell(" "+sanitizeForTerminal(sender)).SetMaxWidth(16))
		mt.table.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(body))).SetExpansion(1))
		mt.table.SetCell(row, 2, tview.NewTableCell(" "+m.SentAt.Format("15:04")).SetMaxWidth(7))
		mt.table.SetCell(row, 3, tview.NewTableCell(" "+status).SetMaxWidth(4).SetTextColor(statusColor))
	}

	if len(msgs) > 0 {
		mt.table.Select(len(msgs)-1, 0)
		mt.table.ScrollToEnd()
	}
}

// ApplyPalette recolors the thread for the active theme.
func (mt *MessageThread) ApplyPalette(p *ui.Palette) {
	mt.palette = p
	mt.table.SetBackgroundColor(p.Bg)
	mt.table.SetBorderColor(p.Border)
	mt.table.SetTitleColor(p.Title)
	mt.composer.SetBackgroundColor(p.Bg)
	mt.composer.SetBorderColor(p.Border)
	mt.composer.SetTitleColor(p.Title)
	mt.composer.SetFieldBackgroundColor(p.Bg)
	mt.composer.SetFieldTextColor(p.Fg)
	mt.composer.SetLabelColor(p.Primary)
}
