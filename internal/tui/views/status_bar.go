package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/dvolkov/dvchat/internal/auth"
	"github.com/dvolkov/dvchat/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatusBar is the single-line footer: profile, session, key hints,
// flash, clock.
type StatusBar struct {
	*tview.TextView
	profileName string
	hints       string
}

func NewStatusBar(profileName string) *StatusBar {
	tv := tview.NewTextView().SetDynamicColors(true)
	return &StatusBar{TextView: tv, profileName: profileName}
}

// SetHints sets the key hint segment shown for the current page.
func (sb *StatusBar) SetHints(hints []string) {
	sb.hints = strings.Join(hints, "  ")
}

// Update re-renders the footer.
func (sb *StatusBar) Update(state auth.State, profile auth.Profile, hasProfile bool, flash string) {
	who := "-"
	if hasProfile {
		who = profile.Name
		if profile.IsDev {
			who += " [dev]"
		} else if profile.IsAdmin {
			who += " [admin]"
		}
	}

	left := fmt.Sprintf(" %s | %s | %s", sb.profileName, state, sanitizeForTerminal(who))
	if sb.hints != "" {
		left += " | " + sb.hints
	}
	if flash != "" {
		left += " | " + flash
	}

	sb.SetText(fmt.Sprintf("%s  [::d]%s[-:-:-]", tview.Escape(left), time.Now().Format("15:04:05")))
}

// ApplyPalette recolors the footer for the active theme.
func (sb *StatusBar) ApplyPalette(p *ui.Palette) {
	sb.SetBackgroundColor(p.Bg)
	sb.SetTextColor(p.Secondary)
}
