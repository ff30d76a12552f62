package views

import (
	"github.com/dvolkov/dvchat/internal/theme"
	"github.com/dvolkov/dvchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// ThemePicker lists the selectable color themes.
type ThemePicker struct {
	*tview.List
	onSelect func(id string)
	onClose  func()
}

func NewThemePicker() *ThemePicker {
	list := tview.NewList().ShowSecondaryText(false)
	list.SetBorder(true).SetTitle(" Theme ")

	tp := &ThemePicker{List: list}
	list.SetDoneFunc(func() {
		if tp.onClose != nil {
			tp.onClose()
		}
	})
	return tp
}

func (tp *ThemePicker) SetOnSelect(fn func(id string)) { tp.onSelect = fn }
func (tp *ThemePicker) SetOnClose(fn func())           { tp.onClose = fn }

// Update rebuilds the list and highlights the active theme.
func (tp *ThemePicker) Update(themes []theme.Theme, currentID string) {
	tp.Clear()
	current := 0
	for i, t := range themes {
		id := t.ID
		label := sanitizeForTerminal(t.Preview) + " " + t.Name
		if id == currentID {
			label += " (current)"
			current = i
		}
		tp.AddItem(label, "", 0, func() {
			if tp.onSelect != nil {
				tp.onSelect(id)
			}
		})
	}
	tp.SetCurrentItem(current)
}

// ApplyPalette recolors the list for the active theme.
func (tp *ThemePicker) ApplyPalette(p *ui.Palette) {
	tp.SetBackgroundColor(p.Bg)
	tp.SetBorderColor(p.Border)
	tp.SetTitleColor(p.Title)
	tp.SetMainTextColor(p.Fg)
	tp.SetSelectedBackgroundColor(p.Primary)
	tp.SetSelectedTextColor(p.Bg)
}
