// ABOUTME: Tests for config loading, saving, and environment overrides
// ABOUTME: Redirects XDG data home to a temp dir for isolation
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempHome(t *testing.T) string {
	t.Helper()
	orig := xdg.DataHome
	tmp := t.TempDir()
	xdg.DataHome = tmp
	t.Cleanup(func() { xdg.DataHome = orig })
	return tmp
}

func TestPath(t *testing.T) {
	home := useTempHome(t)
	assert.Equal(t, filepath.Join(home, "roofdesk", "config.json"), Path())
}

func TestLoadDefaults(t *testing.T) {
	home := useTempHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultAdminEmail, cfg.AdminEmail)
	assert.False(t, cfg.FormPhotoStep)

	assert.Equal(t, filepath.Join(home, "roofdesk", "leads.db"), cfg.ResolvedDBPath())
	assert.Equal(t, filepath.Join(home, "roofdesk", "state"), cfg.ResolvedKVDir())
}

func TestSaveAndLoad(t *testing.T) {
	useTempHome(t)

	cfg := defaults()
	cfg.APIBaseURL = "http://backend.test:9000"
	cfg.FormPhotoStep = true
	cfg.AdminPasswordHash = "$2a$10$hash"
	require.NoError(t, Save(cfg))

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://backend.test:9000", loaded.APIBaseURL)
	assert.True(t, loaded.FormPhotoStep)
	assert.Equal(t, "$2a$10$hash", loaded.AdminPasswordHash)
}

func TestEnvOverrides(t *testing.T) {
	useTempHome(t)
	t.Setenv("ROOFDESK_API_URL", "http://env.test")
	t.Setenv("ROOFDESK_PORT", "9191")
	t.Setenv("ROOFDESK_FORM_PHOTO_STEP", "1")
	t.Setenv("ROOFDESK_DATA_DIR", "/srv/roofdesk")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env.test", cfg.APIBaseURL)
	assert.Equal(t, 9191, cfg.Port)
	assert.True(t, cfg.FormPhotoStep)
	assert.Equal(t, "/srv/roofdesk/leads.db", cfg.ResolvedDBPath())
}

func TestInvalidPortIgnored(t *testing.T) {
	useTempHome(t)
	t.Setenv("ROOFDESK_PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
}

func TestCorruptConfig(t *testing.T) {
	useTempHome(t)
	require.NoError(t, os.MkdirAll(Dir(), 0700))
	require.NoError(t, os.WriteFile(Path(), []byte("{not json"), 0600))

	_, err := Load()
	assert.Error(t, err)
}
