// ABOUTME: Admin authentication store with bcrypt credentials and ULID session tokens
// ABOUTME: Holds a single admin session that expires after SessionTTL
package store

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/roofdesk/models"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

const authVersion = 1

// SessionTTL is how long a login stays valid.
const SessionTTL = 24 * time.Hour

// Credentials are the configured admin account.
type Credentials struct {
	Email        string
	Name         string
	PasswordHash string
}

// HashPassword returns a bcrypt hash suitable for Credentials.PasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

type AuthStore struct {
	observers
	mu        sync.RWMutex
	state     models.AuthState
	creds     Credentials
	persister Persister
}

func NewAuthStore(p Persister, creds Credentials) (*AuthStore, error) {
	s := &AuthStore{persister: p, creds: creds}

	var state models.AuthState
	ok, err := load(p, AuthKey, authVersion, &state)
	if err != nil {
		return nil, err
	}
	if ok {
		s.state = state
	}

	return s, nil
}

func (s *AuthStore) persistLocked() {
	save(s.persister, AuthKey, authVersion, s.state)
}

// Login checks the admin credentials and starts a new session.
func (s *AuthStore) Login(email, password string) (models.AuthState, error) {
	if s.creds.PasswordHash == "" || !strings.EqualFold(strings.TrimSpace(email), s.creds.Email) {
		return models.AuthState{}, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(password)); err != nil {
		return models.AuthState{}, ErrUnauthorized
	}

	token, err := ulid.New(ulid.Timestamp(timeNow()), rand.Reader)
	if err != nil {
		return models.AuthState{}, fmt.Errorf("failed to generate session token: %w", err)
	}
	expires := timeNow().Add(SessionTTL)

	name := s.creds.Name
	if name == "" {
		name = "Admin"
	}

	s.mu.Lock()
	s.state = models.AuthState{
		IsAuthenticated: true,
		User: &models.AdminUser{
			Email: s.creds.Email,
			Name:  name,
			Role:  "admin",
		},
		Token:     token.String(),
		ExpiresAt: &expires,
	}
	state := s.state
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: AuthKey, Action: "login"})
	return state, nil
}

func (s *AuthStore) Logout() {
	s.mu.Lock()
	s.state = models.AuthState{}
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: AuthKey, Action: "logout"})
}

// Validate returns ErrUnauthorized unless token matches a live session.
func (s *AuthStore) Validate(token string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.state.IsAuthenticated || token == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.state.Token)) != 1 {
		return ErrUnauthorized
	}
	if s.state.ExpiresAt != nil && timeNow().After(*s.state.ExpiresAt) {
		return ErrUnauthorized
	}
	return nil
}

// State returns the current session, reporting expired sessions as logged out.
func (s *AuthStore) State() models.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.ExpiresAt != nil && timeNow().After(*s.state.ExpiresAt) {
		return models.AuthState{}
	}
	return s.state
}
