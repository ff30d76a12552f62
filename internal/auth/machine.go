package auth

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/dvolkov/dvchat/internal/apperr"
	"github.com/dvolkov/dvchat/internal/bus"
)

// State represents a phase of the auth flow.
type State string

const (
	Unauthenticated State = "UNAUTHENTICATED"
	Registering     State = "REGISTERING"
	Verifying       State = "VERIFYING"
	LockedOut       State = "LOCKED_OUT"
	Authenticated   State = "AUTHENTICATED"
)

const (
	// maxVerifyAttempts is how many code mismatches are tolerated
	// before the flow locks itself out.
	maxVerifyAttempts = 10

	// defaultLockoutReset is how long a lockout lasts before the flow
	// returns to registering with a fresh attempt budget.
	defaultLockoutReset = 3 * time.Second

	// adminPhone is the reserved number that maps to an administrator
	// profile on login. There is no real credential check; this is a
	// demo.
	adminPhone = "+7000000000"

	devLogin    = "dvdev"
	devPassword = "dvchat-dev"

	minPhoneLen = 10
)

// Profile describes the authenticated user.
type Profile struct {
	Name    string
	Email   string
	Phone   string
	IsAdmin bool
	IsDev   bool
}

// StateChange is the payload of auth.state_changed events.
type StateChange struct {
	From State
	To   State
}

// Machine drives the session/auth flow:
// UNAUTHENTICATED -> REGISTERING -> VERIFYING -> AUTHENTICATED, with a
// LOCKED_OUT detour after too many bad codes, or a direct login path
// to AUTHENTICATED. A single Machine backs one UI session.
type Machine struct {
	mu           sync.Mutex
	state        State
	profile      Profile
	pendingName  string
	pendingEmail string
	pendingPhone string
	code         string
	attempts     int
	generation   int // invalidates a pending lockout reset timer
	lockoutReset time.Duration
	bus          *bus.Bus
}

// NewMachine creates a machine in the unauthenticated state.
// lockoutReset <= 0 selects the default delay.
func NewMachine(b *bus.Bus, lockoutReset time.Duration) *Machine {
	if lockoutReset <= 0 {
		lockoutReset = defaultLockoutReset
	}
	return &Machine{
		state:        Unauthenticated,
		lockoutReset: lockoutReset,
		bus:          b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Profile returns the authenticated profile, if any.
func (m *Machine) Profile() (Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile, m.state == Authenticated
}

// Register validates the registration input. On success the flow moves
// to VERIFYING with a freshly generated 6-digit code; on failure it
// stays in REGISTERING.
func (m *Machine) Register(name, email, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == LockedOut {
		return &apperr.LockedOutError{Attempts: m.attempts}
	}
	m.setStateLocked(Registering)

	if strings.TrimSpace(name) == "" {
		return &apperr.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(email) == "" {
		return &apperr.ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if !strings.Contains(email, "@") {
		return &apperr.ValidationError{Field: "email", Reason: "must contain @"}
	}
	if strings.TrimSpace(phone) == "" {
		return &apperr.ValidationError{Field: "phone", Reason: "must not be empty"}
	}
	if len([]rune(phone)) < minPhoneLen {
		return &apperr.ValidationError{Field: "phone", Reason: "too short"}
	}

	m.pendingName = name
	m.pendingEmail = email
	m.pendingPhone = phone
	m.code = generateCode()
	m.attempts = 0
	m.setStateLocked(Verifying)
	return nil
}

// Verify compares the user's code against the generated one. The tenth
// mismatch locks the flow out; the lockout clears itself back to
// REGISTERING after the reset delay.
func (m *Machine) Verify(code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case LockedOut:
		return &apperr.LockedOutError{Attempts: m.attempts}
	case Verifying:
	default:
		return fmt.Errorf("no verification in progress (state %s)", m.state)
	}

	if code == m.code {
		m.profile = Profile{
			Name:  m.pendingName,
			Email: m.pendingEmail,
			Phone: m.pendingPhone,
		}
		m.clearPendingLocked()
		m.setStateLocked(Authenticated)
		return nil
	}

	m.attempts++
	if m.attempts < maxVerifyAttempts {
		return &apperr.ValidationError{
			Field:  "code",
			Reason: fmt.Sprintf("wrong code, attempt %d of %d", m.attempts, maxVerifyAttempts),
		}
	}

	m.setStateLocked(LockedOut)
	if m.bus != nil {
		m.bus.Publish(bus.Event{Kind: bus.KindAuthLockedOut, Payload: m.attempts})
	}

	gen := m.generation
	time.AfterFunc(m.lockoutReset, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// A logout or a completed login in the meantime wins.
		if m.generation != gen || m.state != LockedOut {
			return
		}
		m.clearPendingLocked()
		m.setStateLocked(Registering)
	})
	return &apperr.LockedOutError{Attempts: m.attempts}
}

// Login accepts any phone/password pair as long as both are non-empty;
// the reserved admin number yields an administrator profile. This is
// explicitly a mock.
func (m *Machine) Login(phone, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == LockedOut {
		return &apperr.LockedOutError{Attempts: m.attempts}
	}
	if strings.TrimSpace(phone) == "" {
		return &apperr.ValidationError{Field: "phone", Reason: "must not be empty"}
	}
	if strings.TrimSpace(password) == "" {
		return &apperr.ValidationError{Field: "password", Reason: "must not be empty"}
	}

	if phone == adminPhone {
		m.profile = Profile{Name: "Administrator", Phone: phone, IsAdmin: true}
	} else {
		m.profile = Profile{Name: "User", Phone: phone}
	}
	m.clearPendingLocked()
	m.setStateLocked(Authenticated)
	return nil
}

// DevLogin compares the pair against the fixed developer credentials.
// A match grants both the developer and admin role flags.
func (m *Machine) DevLogin(login, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if login != devLogin || password != devPassword {
		return &apperr.InvalidCredentialsError{}
	}
	m.profile = Profile{Name: "Developer", IsAdmin: true, IsDev: true}
	m.clearPendingLocked()
	m.setStateLocked(Authenticated)
	return nil
}

// Logout clears the profile and returns to the unauthenticated state.
func (m *Machine) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profile = Profile{}
	m.clearPendingLocked()
	m.setStateLocked(Unauthenticated)
}

// DemoCode exposes the generated verification code so the UI can show
// it, since no SMS ever goes out.
func (m *Machine) DemoCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.code
}

// AttemptsLeft returns how many verification attempts remain.
func (m *Machine) AttemptsLeft() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maxVerifyAttempts - m.attempts
}

func (m *Machine) clearPendingLocked() {
	m.code = ""
	m.attempts = 0
	m.generation++
}

func (m *Machine) setStateLocked(to State) {
	if m.state == to {
		return
	}
	from := m.state
	m.state = to
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:    bus.KindAuthStateChanged,
			Payload: StateChange{From: from, To: to},
		})
	}
}

func generateCode() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}
