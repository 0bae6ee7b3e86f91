// ABOUTME: Tests for admin authentication
// ABOUTME: Covers login, token validation, expiry, and logout
package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthStore(t *testing.T) *AuthStore {
	t.Helper()
	hash, err := HashPassword("shingles")
	require.NoError(t, err)

	s, err := NewAuthStore(nil, Credentials{
		Email:        "admin@roofdesk.test",
		Name:         "Office",
		PasswordHash: hash,
	})
	require.NoError(t, err)
	return s
}

func TestLoginSuccess(t *testing.T) {
	s := newTestAuthStore(t)

	state, err := s.Login("Admin@RoofDesk.test", "shingles")
	require.NoError(t, err)
	assert.True(t, state.IsAuthenticated)
	assert.NotEmpty(t, state.Token)
	require.NotNil(t, state.User)
	assert.Equal(t, "Office", state.User.Name)
	require.NotNil(t, state.ExpiresAt)

	assert.NoError(t, s.Validate(state.Token))
	assert.ErrorIs(t, s.Validate("wrong-token"), ErrUnauthorized)
	assert.ErrorIs(t, s.Validate(""), ErrUnauthorized)
}

func TestLoginFailures(t *testing.T) {
	s := newTestAuthStore(t)

	_, err := s.Login("admin@roofdesk.test", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.Login("someone@else.test", "shingles")
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.False(t, s.State().IsAuthenticated)
}

func TestLoginWithoutConfiguredPassword(t *testing.T) {
	s, err := NewAuthStore(nil, Credentials{Email: "admin@roofdesk.test"})
	require.NoError(t, err)

	_, err = s.Login("admin@roofdesk.test", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSessionExpires(t *testing.T) {
	s := newTestAuthStore(t)

	state, err := s.Login("admin@roofdesk.test", "shingles")
	require.NoError(t, err)

	orig := timeNow
	t.Cleanup(func() { timeNow = orig })
	timeNow = func() time.Time { return orig().Add(SessionTTL + time.Minute) }

	assert.ErrorIs(t, s.Validate(state.Token), ErrUnauthorized)
	assert.False(t, s.State().IsAuthenticated)
}

func TestLogout(t *testing.T) {
	s := newTestAuthStore(t)

	state, err := s.Login("admin@roofdesk.test", "shingles")
	require.NoError(t, err)

	s.Logout()
	assert.ErrorIs(t, s.Validate(state.Token), ErrUnauthorized)
	assert.False(t, s.State().IsAuthenticated)
}

func TestSessionSurvivesReopen(t *testing.T) {
	p := newTestKV(t)
	hash, err := HashPassword("shingles")
	require.NoError(t, err)
	creds := Credentials{Email: "admin@roofdesk.test", PasswordHash: hash}

	s, err := NewAuthStore(p, creds)
	require.NoError(t, err)
	state, err := s.Login("admin@roofdesk.test", "shingles")
	require.NoError(t, err)

	reopened, err := NewAuthStore(p, creds)
	require.NoError(t, err)
	assert.NoError(t, reopened.Validate(state.Token))
}
