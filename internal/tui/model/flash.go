package model

import (
	"sync"
	"time"
)

// Flash is a transient status-bar message that expires on its own.
type Flash struct {
	mu      sync.Mutex
	text    string
	expires time.Time
}

func (f *Flash) Set(text string, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
	f.expires = time.Now().Add(ttl)
}

// Get returns the current message, or "" once it has expired.
func (f *Flash) Get() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if time.Now().After(f.expires) {
		return ""
	}
	return f.text
}
