// ABOUTME: Shared fixtures for web handler tests
// ABOUTME: Builds a server over a temp SQLite file and memory-only stores
package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/roofdesk/cache"
	"github.com/harperreed/roofdesk/db"
	"github.com/harperreed/roofdesk/leadform"
	"github.com/harperreed/roofdesk/models"
	"github.com/harperreed/roofdesk/store"
	"github.com/stretchr/testify/require"
)

const (
	testAdminEmail    = "admin@roofdesk.test"
	testAdminPassword = "shingles"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) GetJSON(_ context.Context, name string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[name]
	if !ok {
		return cache.ErrMiss
	}
	c.hits++
	return json.Unmarshal(raw, dest)
}

func (c *memCache) SetJSON(_ context.Context, name string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[name] = raw
	return nil
}

func (c *memCache) Invalidate(_ context.Context, names ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range names {
		delete(c.data, n)
	}
	return nil
}

type fakeRemote struct {
	mu      sync.Mutex
	leads   []models.Lead
	deleted []string
	err     error
}

func (f *fakeRemote) FetchLeads(context.Context) ([]models.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leads, f.err
}

func (f *fakeRemote) DeleteLead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.err
}

type testEnv struct {
	server *Server
	db     *sql.DB
	app    *store.App
	cache  *memCache
	remote *fakeRemote
}

func noReset(time.Duration, func()) func() { return func() {} }

func newTestEnv(t *testing.T, opts ...ServerOption) *testEnv {
	t.Helper()

	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	hash, err := store.HashPassword(testAdminPassword)
	require.NoError(t, err)
	app, err := store.Open(nil, store.Credentials{Email: testAdminEmail, Name: "Office", PasswordHash: hash})
	require.NoError(t, err)

	env := &testEnv{db: database, app: app, cache: newMemCache(), remote: &fakeRemote{}}
	base := []ServerOption{
		WithCache(env.cache),
		WithRemote(env.remote),
		WithFormOptions(leadform.WithScheduler(noReset)),
	}
	env.server, err = NewServer(database, app, append(base, opts...)...)
	require.NoError(t, err)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/admin/login", map[string]string{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var state models.AuthState
	decodeBody(t, rec, &state)
	require.NotEmpty(t, state.Token)
	return state.Token
}
