// ABOUTME: Tests for the backend lead API endpoints
// ABOUTME: Covers status codes, persistence, and cache invalidation
package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/harperreed/roofdesk/db"
	"github.com/harperreed/roofdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactCreatesLead(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/contact", models.Lead{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@x.com",
		Phone:     "7135550000",
		Service:   "roof-repair",
		ZipCode:   "77001",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Lead
	decodeBody(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusNew, created.Status)
	assert.False(t, created.Date.IsZero())

	stored, err := db.GetLead(env.db, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "roof-repair", stored.Service)
}

func TestContactValidation(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/contact", models.Lead{Email: "x@y.com"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/contact", models.Lead{FirstName: "X", Status: "lost"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/contact", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestContactDuplicateID(t *testing.T) {
	env := newTestEnv(t)

	lead := models.Lead{ID: "local-1", FirstName: "Jane"}
	rec := env.do(t, http.MethodPost, "/api/contact", lead, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/contact", lead, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteContact(t *testing.T) {
	env := newTestEnv(t)
	lead := &models.Lead{FirstName: "Jane"}
	require.NoError(t, db.CreateLead(env.db, lead))

	rec := env.do(t, http.MethodPost, "/api/deletecontact", map[string]string{"id": lead.ID}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/deletecontact", map[string]string{"id": lead.ID}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/deletecontact", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAllLeads(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/get-all-leads", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	for _, name := range []string{"Ann", "Bob"} {
		rec = env.do(t, http.MethodPost, "/api/contact", models.Lead{FirstName: name}, "")
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/get-all-leads", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var leads []models.Lead
	decodeBody(t, rec, &leads)
	assert.Len(t, leads, 2)
}

func TestGetAllLeadsCache(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, db.CreateLead(env.db, &models.Lead{FirstName: "Ann"}))

	rec := env.do(t, http.MethodGet, "/api/get-all-leads", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, env.cache.hits)

	// Written behind the API's back, so the cached list is stale
	require.NoError(t, db.CreateLead(env.db, &models.Lead{FirstName: "Bob"}))
	rec = env.do(t, http.MethodGet, "/api/get-all-leads", nil, "")
	var leads []models.Lead
	decodeBody(t, rec, &leads)
	assert.Len(t, leads, 1)
	assert.Equal(t, 1, env.cache.hits)

	// A write through the API invalidates
	rec = env.do(t, http.MethodPost, "/api/contact", models.Lead{FirstName: "Cy"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/get-all-leads", nil, "")
	decodeBody(t, rec, &leads)
	assert.Len(t, leads, 3)
}

func TestAPIOnlyServer(t *testing.T) {
	env := newTestEnv(t)
	srv, err := NewServer(env.db, nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/get-all-leads", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
