package views

import (
	"fmt"

	"github.com/dvolkov/dvchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// AuthView hosts the sign-in flow: a register form, the verification
// code form, a password login form and the developer backdoor.
type AuthView struct {
	*tview.Pages

	registerForm *tview.Form
	verifyForm   *tview.Form
	loginForm    *tview.Form
	devForm      *tview.Form

	status *tview.TextView
	frame  *tview.Flex

	OnRegister func(name, email, phone string)
	OnVerify   func(code string)
	OnLogin    func(phone, password string)
	OnDevLogin func(login, password string)
}

const (
	pageRegister = "register"
	pageVerify   = "verify"
	pageLogin    = "login"
	pageDev      = "dev"
)

func NewAuthView() *AuthView {
	av := &AuthView{Pages: tview.NewPages(), status: tview.NewTextView()}
	av.status.SetTextAlign(tview.AlignCenter)

	av.registerForm = tview.NewForm().
		AddInputField("Name", "", 32, nil, nil).
		AddInputField("Email", "", 32, nil, nil).
		AddInputField("Phone", "", 32, nil, nil)
	av.registerForm.
		AddButton("Register", func() {
			if av.OnRegister != nil {
				av.OnRegister(
					av.fieldText(av.registerForm, 0),
					av.fieldText(av.registerForm, 1),
					av.fieldText(av.registerForm, 2))
			}
		}).
		AddButton("Log in instead", func() { av.ShowLogin() }).
		AddButton("Developer", func() { av.ShowDev() })
	av.registerForm.SetBorder(true).SetTitle(" Create account ")

	av.verifyForm = tview.NewForm().
		AddInputField("Code", "", 10, nil, nil)
	av.verifyForm.
		AddButton("Verify", func() {
			if av.OnVerify != nil {
				av.OnVerify(av.fieldText(av.verifyForm, 0))
			}
		}).
		AddButton("Back", func() { av.ShowRegister() })
	av.verifyForm.SetBorder(true).SetTitle(" Enter code ")

	av.loginForm = tview.NewForm().
		AddInputField("Phone", "", 32, nil, nil).
		AddPasswordField("Password", "", 32, '*', nil)
	av.loginForm.
		AddButton("Log in", func() {
			if av.OnLogin != nil {
				av.OnLogin(av.fieldText(av.loginForm, 0), av.fieldText(av.loginForm, 1))
			}
		}).
		AddButton("Register instead", func() { av.ShowRegister() })
	av.loginForm.SetBorder(true).SetTitle(" Log in ")

	av.devForm = tview.NewForm().
		AddInputField("Login", "", 32, nil, nil).
		AddPasswordField("Password", "", 32, '*', nil)
	av.devForm.
		AddButton("Log in", func() {
			if av.OnDevLogin != nil {
				av.OnDevLogin(av.fieldText(av.devForm, 0), av.fieldText(av.devForm, 1))
			}
		}).
		AddButton("Back", func() { av.ShowRegister() })
	av.devForm.SetBorder(true).SetTitle(" Developer login ")

	av.AddPage(pageRegister, av.center(av.registerForm), true, true)
	av.AddPage(pageVerify, av.center(av.verifyForm), true, false)
	av.AddPage(pageLogin, av.center(av.loginForm), true, false)
	av.AddPage(pageDev, av.center(av.devForm), true, false)
	return av
}

// center wraps a form with the shared status line in a centered frame.
func (av *AuthView) center(form *tview.Form) tview.Primitive {
	inner := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(form, 15, 0, true).
		AddItem(av.status, 1, 0, false).
		AddItem(nil, 0, 1, false)
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(inner, 52, 0, true).
		AddItem(nil, 0, 1, false)
}

func (av *AuthView) fieldText(form *tview.Form, i int) string {
	field, ok := form.GetFormItem(i).(*tview.InputField)
	if !ok {
		return ""
	}
	return field.GetText()
}

// SetStatus shows a message below the active form. Pass "" to clear.
func (av *AuthView) SetStatus(msg string) {
	av.status.SetText(msg)
}

func (av *AuthView) ShowRegister() {
	av.SetStatus("")
	av.SwitchToPage(pageRegister)
}

// ShowVerify switches to the code form, surfacing the demo code the
// way the mockup does since no SMS ever goes out.
func (av *AuthView) ShowVerify(demoCode string, attemptsLeft int) {
	av.SetStatus(fmt.Sprintf("Demo code: %s   (%d attempts left)", demoCode, attemptsLeft))
	av.clearField(av.verifyForm, 0)
	av.SwitchToPage(pageVerify)
}

func (av *AuthView) ShowLogin() {
	av.SetStatus("")
	av.SwitchToPage(pageLogin)
}

func (av *AuthView) ShowDev() {
	av.SetStatus("")
	av.SwitchToPage(pageDev)
}

// ShowLockedOut keeps the verify page up with a lockout notice.
func (av *AuthView) ShowLockedOut() {
	av.SetStatus("Too many wrong codes. Try again in a few seconds.")
}

func (av *AuthView) clearField(form *tview.Form, i int) {
	if field, ok := form.GetFormItem(i).(*tview.InputField); ok {
		field.SetText("")
	}
}

// ApplyPalette recolors the forms for the active theme.
func (av *AuthView) ApplyPalette(p *ui.Palette) {
	av.status.SetTextColor(p.Secondary)
	av.status.SetBackgroundColor(p.Bg)
	for _, form := range []*tview.Form{av.registerForm, av.verifyForm, av.loginForm, av.devForm} {
		form.SetBackgroundColor(p.Bg)
		form.SetBorderColor(p.Border)
		form.SetTitleColor(p.Title)
		form.SetFieldBackgroundColor(p.Bg)
		form.SetFieldTextColor(p.Fg)
		form.SetLabelColor(p.Secondary)
		form.SetButtonBackgroundColor(p.Primary)
		form.SetButtonTextColor(p.Bg)
	}
}
