package views

import "strings"

// sanitizeForTerminal strips emoji modifier sequences that most
// terminal emulators render with a wrong cell width, which corrupts
// tview's layout. Base emoji stay, skin tones and ZWJ joins go.
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	skipNext := false
	for _, r := range s {
		if skipNext {
			skipNext = false
			continue
		}
		switch {
		case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
			continue
		case r == 0x200D: // zero-width joiner, drop it and the joined rune
			skipNext = true
			continue
		case r == 0xFE0E || r == 0xFE0F: // variation selectors
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
