// ABOUTME: Tests for UI preferences and toasts
// ABOUTME: Verifies theme validation, toast queue bounds, and that toasts are not persisted
package store

import (
	"fmt"
	"testing"

	"github.com/harperreed/roofdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIDefaults(t *testing.T) {
	s, err := NewUIStore(nil)
	require.NoError(t, err)

	state := s.State()
	assert.True(t, state.SidebarOpen)
	assert.Equal(t, models.ThemeLight, state.Theme)
	assert.Equal(t, "dashboard", state.ActiveSection)
	assert.Empty(t, state.Toasts)
}

func TestSetTheme(t *testing.T) {
	s, err := NewUIStore(nil)
	require.NoError(t, err)

	require.NoError(t, s.SetTheme(models.ThemeDark))
	assert.Equal(t, models.ThemeDark, s.State().Theme)

	assert.ErrorIs(t, s.SetTheme("neon"), ErrInvalidTheme)
	assert.Equal(t, models.ThemeDark, s.State().Theme)
}

func TestToggleSidebar(t *testing.T) {
	s, err := NewUIStore(nil)
	require.NoError(t, err)

	assert.False(t, s.ToggleSidebar())
	assert.True(t, s.ToggleSidebar())
}

func TestToasts(t *testing.T) {
	s, err := NewUIStore(nil)
	require.NoError(t, err)

	first := s.PushToast(models.ToastError, "Please enter your address")
	s.Notify(models.ToastSuccess, "Thanks!")

	toasts := s.Toasts()
	require.Len(t, toasts, 2)
	assert.Equal(t, "Please enter your address", toasts[0].Message)
	assert.Equal(t, models.ToastSuccess, toasts[1].Kind)

	assert.True(t, s.DismissToast(first.ID))
	assert.False(t, s.DismissToast(first.ID))
	assert.Len(t, s.Toasts(), 1)
}

func TestToastQueueIsBounded(t *testing.T) {
	s, err := NewUIStore(nil)
	require.NoError(t, err)

	for i := 0; i < maxToasts+3; i++ {
		s.PushToast(models.ToastInfo, fmt.Sprintf("toast %d", i))
	}

	toasts := s.Toasts()
	require.Len(t, toasts, maxToasts)
	assert.Equal(t, fmt.Sprintf("toast %d", maxToasts+2), toasts[maxToasts-1].Message)
}

func TestUIPersistsWithoutToasts(t *testing.T) {
	p := newTestKV(t)

	s, err := NewUIStore(p)
	require.NoError(t, err)
	require.NoError(t, s.SetTheme(models.ThemeDark))
	s.PushToast(models.ToastInfo, "transient")
	s.SetSection("images")

	reopened, err := NewUIStore(p)
	require.NoError(t, err)
	state := reopened.State()
	assert.Equal(t, models.ThemeDark, state.Theme)
	assert.Equal(t, "images", state.ActiveSection)
	assert.Empty(t, state.Toasts)
}
