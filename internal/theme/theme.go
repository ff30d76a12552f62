// Package theme holds the selectable color themes. A theme is three
// HSL color tokens plus display metadata; applying one is purely a
// presentation concern.
package theme

import (
	"fmt"
	"sync"

	"github.com/dvolkov/dvchat/internal/bus"
)

// Tokens are HSL color triples in "H S% L%" form, e.g. "263 70% 64%".
type Tokens struct {
	Primary    string
	Secondary  string
	Background string
}

// Theme is a selectable color scheme.
type Theme struct {
	ID      string
	Name    string
	Preview string
	Colors  Tokens
}

// DefaultThemeID is the theme active before any selection.
const DefaultThemeID = "purple-pink"

var themes = []Theme{
	{ID: "purple-pink", Name: "Purple Gradient", Preview: "🌸",
		Colors: Tokens{Primary: "263 70% 64%", Secondary: "199 89% 48%", Background: "222 47% 11%"}},
	{ID: "dark", Name: "Dark", Preview: "🌙",
		Colors: Tokens{Primary: "0 0% 98%", Secondary: "240 5% 26%", Background: "0 0% 7%"}},
	{ID: "light", Name: "Light", Preview: "☀️",
		Colors: Tokens{Primary: "222 47% 11%", Secondary: "199 89% 48%", Background: "0 0% 100%"}},
	{ID: "rainbow", Name: "Rainbow", Preview: "🌈",
		Colors: Tokens{Primary: "340 82% 52%", Secondary: "262 83% 58%", Background: "222 47% 11%"}},
	{ID: "ocean", Name: "Ocean", Preview: "🌊",
		Colors: Tokens{Primary: "199 89% 48%", Secondary: "171 77% 46%", Background: "222 47% 11%"}},
	{ID: "sunset", Name: "Sunset", Preview: "🌅",
		Colors: Tokens{Primary: "25 95% 54%", Secondary: "340 82% 52%", Background: "222 47% 11%"}},
	{ID: "forest", Name: "Forest", Preview: "🌲",
		Colors: Tokens{Primary: "142 76% 36%", Secondary: "84 81% 44%", Background: "222 47% 11%"}},
	{ID: "minimal", Name: "Minimal", Preview: "⚪",
		Colors: Tokens{Primary: "0 0% 20%", Secondary: "0 0% 40%", Background: "0 0% 98%"}},
}

// Manager tracks the selected theme.
type Manager struct {
	mu      sync.RWMutex
	current Theme
	bus     *bus.Bus
}

// NewManager creates a manager starting on initialID, or the default
// theme when initialID is empty or unknown.
func NewManager(b *bus.Bus, initialID string) *Manager {
	m := &Manager{bus: b}
	if t, ok := byID(initialID); ok {
		m.current = t
	} else {
		m.current, _ = byID(DefaultThemeID)
	}
	return m
}

// List returns all available themes.
func (m *Manager) List() []Theme {
	out := make([]Theme, len(themes))
	copy(out, themes)
	return out
}

// Current returns the active theme.
func (m *Manager) Current() Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Select activates the theme with the given id and publishes a
// theme.changed event.
func (m *Manager) Select(id string) (Theme, error) {
	t, ok := byID(id)
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q", id)
	}

	m.mu.Lock()
	m.current = t
	m.mu.Unlock()

	if m.bus != nil {
		m.bus.Publish(bus.Event{Kind: bus.KindThemeChanged, Payload: t})
	}
	return t, nil
}

func byID(id string) (Theme, bool) {
	for _, t := range themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}
