// Package api is the operation boundary the UI talks to: thin typed
// services over the auth machine, the store, and the delivery engine.
package api

import (
	"github.com/dvolkov/dvchat/internal/auth"
	"github.com/dvolkov/dvchat/internal/delivery"
	"github.com/dvolkov/dvchat/internal/responder"
	"github.com/dvolkov/dvchat/internal/store"
	"go.uber.org/zap"
)

// SessionService exposes the auth flow to the UI.
type SessionService struct {
	machine   *auth.Machine
	store     *store.Store
	engine    *delivery.Engine
	responder *responder.Responder
	logger    *zap.Logger
}

// NewSessionService creates a session service.
func NewSessionService(m *auth.Machine, s *store.Store, e *delivery.Engine, r *responder.Responder, logger *zap.Logger) *SessionService {
	return &SessionService{machine: m, store: s, engine: e, responder: r, logger: logger}
}

// Register starts a registration attempt.
func (s *SessionService) Register(name, email, phone string) error {
	if err := s.machine.Register(name, email, phone); err != nil {
		return err
	}
	s.logger.Info("registration started", zap.String("phone", phone))
	return nil
}

// Verify checks the confirmation code.
func (s *SessionService) Verify(code string) error {
	if err := s.machine.Verify(code); err != nil {
		return err
	}
	s.logger.Info("registration verified")
	return nil
}

// Login signs in by phone number.
func (s *SessionService) Login(phone, password string) error {
	if err := s.machine.Login(phone, password); err != nil {
		return err
	}
	s.logger.Info("logged in", zap.String("phone", phone))
	return nil
}

// DevLogin signs in with the fixed developer credentials.
func (s *SessionService) DevLogin(login, password string) error {
	if err := s.machine.DevLogin(login, password); err != nil {
		return err
	}
	s.logger.Info("developer logged in")
	return nil
}

// Logout ends the session and resets the in-memory dataset so the
// next session starts clean. Pending delivery timers and scripted
// replies are flushed with it: the reseeded store reuses message ids,
// so leftovers from the old session must not touch the new one.
func (s *SessionService) Logout() {
	s.machine.Logout()
	s.engine.Reset()
	s.responder.Flush()
	s.store.Reset()
	s.logger.Info("logged out")
}

// State returns the current auth state.
func (s *SessionService) State() auth.State {
	return s.machine.Current()
}

// Profile returns the authenticated profile, if any.
func (s *SessionService) Profile() (auth.Profile, bool) {
	return s.machine.Profile()
}

// DemoCode returns the verification code for display in the demo UI.
func (s *SessionService) DemoCode() string {
	return s.machine.DemoCode()
}

// AttemptsLeft returns the remaining verification attempts.
func (s *SessionService) AttemptsLeft() int {
	return s.machine.AttemptsLeft()
}
