package theme

import (
	"testing"
	"time"

	"github.com/dvolkov/dvchat/internal/bus"
)

func TestDefaultTheme(t *testing.T) {
	m := NewManager(nil, "")
	if m.Current().ID != DefaultThemeID {
		t.Errorf("default theme = %q, want %q", m.Current().ID, DefaultThemeID)
	}
	// Unknown initial id falls back to the default too.
	m = NewManager(nil, "no-such-theme")
	if m.Current().ID != DefaultThemeID {
		t.Errorf("fallback theme = %q, want %q", m.Current().ID, DefaultThemeID)
	}
}

func TestSelect(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("theme.", 10)
	defer unsub()

	m := NewManager(b, "")
	selected, err := m.Select("ocean")
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if selected.Colors.Primary != "199 89% 48%" {
		t.Errorf("primary token = %q", selected.Colors.Primary)
	}
	if m.Current().ID != "ocean" {
		t.Errorf("current = %q, want ocean", m.Current().ID)
	}

	select {
	case evt := <-ch:
		if evt.Kind != bus.KindThemeChanged {
			t.Errorf("event kind = %q", evt.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for theme event")
	}
}

func TestSelectUnknown(t *testing.T) {
	m := NewManager(nil, "")
	if _, err := m.Select("neon"); err == nil {
		t.Error("Select() should fail for an unknown theme id")
	}
	if m.Current().ID != DefaultThemeID {
		t.Error("failed selection must not change the active theme")
	}
}

func TestListIsComplete(t *testing.T) {
	m := NewManager(nil, "")
	list := m.List()
	if len(list) != 8 {
		t.Fatalf("got %d themes, want 8", len(list))
	}
	seen := make(map[string]bool)
	for _, th := range list {
		if seen[th.ID] {
			t.Errorf("duplicate theme id %q", th.ID)
		}
		seen[th.ID] = true
		if th.Colors.Primary == "" || th.Colors.Secondary == "" || th.Colors.Background == "" {
			t.Errorf("theme %q missing color tokens", th.ID)
		}
	}
}
