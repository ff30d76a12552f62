package views

import (
	"github.com/dvolkov/dvchat/internal/store"
	"github.com/dvolkov/dvchat/internal/tui/ui"
	"github.com/rivo/tview"
)

var avatarChoices = []string{"💬", "👥", "📢", "🚀", "🎨", "🎵", "📚", "⚽"}

// CreateChatDialog is the form for new groups and channels.
type CreateChatDialog struct {
	*tview.Flex
	form *tview.Form
	kind store.ChatKind

	OnCreate func(kind store.ChatKind, name, avatar, description string)
	OnCancel func()
}

func NewCreateChatDialog() *CreateChatDialog {
	d := &CreateChatDialog{}

	avatars := make([]string, len(avatarChoices))
	for i, a := range avatarChoices {
		avatars[i] = sanitizeForTerminal(a)
	}

	d.form = tview.NewForm().
		AddInputField("Name", "", 32, nil, nil).
		AddInputField("Description", "", 32, nil, nil).
		AddDropDown("Avatar", avatars, 0, nil)
	d.form.
		AddButton("Create", func() {
			name := fieldText(d.form, 0)
			description := fieldText(d.form, 1)
			avatarIdx, _ := d.form.GetFormItem(2).(*tview.DropDown).GetCurrentOption()
			if avatarIdx < 0 {
				avatarIdx = 0
			}
			if d.OnCreate != nil {
				d.OnCreate(d.kind, name, avatarChoices[avatarIdx], description)
			}
		}).
		AddButton("Cancel", func() {
			if d.OnCancel != nil {
				d.OnCancel()
			}
		})
	d.form.SetBorder(true)

	d.Flex = centerDialog(d.form, 52, 13)
	return d
}

// SetKind retargets the dialog at groups or channels and resets the
// fields.
func (d *CreateChatDialog) SetKind(kind store.ChatKind) {
	d.kind = kind
	title := " New group "
	if kind == store.KindChannel {
		title = " New channel "
	}
	d.form.SetTitle(title)
	setFieldText(d.form, 0, "")
	setFieldText(d.form, 1, "")
	d.form.SetFocus(0)
}

// Form returns the inner form for focus handling.
func (d *CreateChatDialog) Form() *tview.Form { return d.form }

// ApplyPalette recolors the dialog for the active theme.
func (d *CreateChatDialog) ApplyPalette(p *ui.Palette) {
	applyFormPalette(d.form, p)
}

// AddContactDialog is the form for saving a new contact.
type AddContactDialog struct {
	*tview.Flex
	form *tview.Form

	OnAdd    func(name, phone string)
	OnCancel func()
}

func NewAddContactDialog() *AddContactDialog {
	d := &AddContactDialog{}

	d.form = tview.NewForm().
		AddInputField("Name", "", 32, nil, nil).
		AddInputField("Phone", "", 32, nil, nil)
	d.form.
		AddButton("Add", func() {
			if d.OnAdd != nil {
				d.OnAdd(fieldText(d.form, 0), fieldText(d.form, 1))
			}
		}).
		AddButton("Cancel", func() {
			if d.OnCancel != nil {
				d.OnCancel()
			}
		})
	d.form.SetBorder(true).SetTitle(" New contact ")

	d.Flex = centerDialog(d.form, 52, 11)
	return d
}

// Reset clears the fields for a fresh entry.
func (d *AddContactDialog) Reset() {
	setFieldText(d.form, 0, "")
	setFieldText(d.form, 1, "")
	d.form.SetFocus(0)
}

// Form returns the inner form for focus handling.
func (d *AddContactDialog) Form() *tview.Form { return d.form }

// ApplyPalette recolors the dialog for the active theme.
func (d *AddContactDialog) ApplyPalette(p *ui.Palette) {
	applyFormPalette(d.form, p)
}

func centerDialog(form *tview.Form, width, height int) *tview.Flex {
	inner := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(form, height, 0, true).
		AddItem(nil, 0, 1, false)
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(inner, width, 0, true).
		AddItem(nil, 0, 1, false)
}

func fieldText(form *tview.Form, i int) string {
	field, ok := form.GetFormItem(i).(*tview.InputField)
	if !ok {
		return ""
	}
	return field.GetText()
}

func setFieldText(form *tview.Form, i int, text string) {
	if field, ok := form.GetFormItem(i).(*tview.InputField); ok {
		field.SetText(text)
	}
}

func applyFormPalette(form *tview.Form, p *ui.Palette) {
	form.SetBackgroundColor(p.Bg)
	form.SetBorderColor(p.Border)
	form.SetTitleColor(p.Title)
	form.SetFieldBackgroundColor(p.Bg)
	form.SetFieldTextColor(p.Fg)
	form.SetLabelColor(p.Secondary)
	form.SetButtonBackgroundColor(p.Primary)
	form.SetButtonTextColor(p.Bg)
}
