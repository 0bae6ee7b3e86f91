// ABOUTME: Tests for the BadgerDB key-value store
// ABOUTME: Covers get/set/delete, prefix listing, and reopen persistence
package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = s.Get([]byte("missing"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set([]byte("leads-storage"), []byte(`{"version":1}`)))

	value, err := s.Get([]byte("leads-storage"))
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(value))

	require.NoError(t, s.Delete([]byte("leads-storage")))
	_, err = s.Get([]byte("leads-storage"))
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op
	assert.NoError(t, s.Delete([]byte("leads-storage")))
}

func TestKeysWithPrefix(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Set([]byte("form:a"), []byte("1")))
	require.NoError(t, s.Set([]byte("form:b"), []byte("2")))
	require.NoError(t, s.Set([]byte("ui-storage"), []byte("3")))

	keys, err := s.KeysWithPrefix([]byte("form:"))
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	all, err := s.Keys()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, s.Reset())
	all, err = s.Keys()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kv")

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set([]byte("content-storage"), []byte("pages")))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	value, err := s.Get([]byte("content-storage"))
	require.NoError(t, err)
	assert.Equal(t, "pages", string(value))
}
