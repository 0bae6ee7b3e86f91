// ABOUTME: Tests for HTTP-driven lead form sessions
// ABOUTME: Walks the JSON and HTML flows through to a stored lead
package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/roofdesk/leadform"
	"github.com/harperreed/roofdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startForm(t *testing.T, env *testEnv) formView {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/form", map[string]string{}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view formView
	decodeBody(t, rec, &view)
	return view
}

func answer(t *testing.T, env *testEnv, id string, body answerRequest) (*httptest.ResponseRecorder, formView) {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/form/"+id+"/answer", body, "")
	var view formView
	if rec.Code == http.StatusOK {
		decodeBody(t, rec, &view)
	}
	return rec, view
}

func TestFormJSONFlow(t *testing.T) {
	env := newTestEnv(t)

	view := startForm(t, env)
	assert.Equal(t, 1, view.Step)
	assert.Equal(t, 5, view.Steps)
	assert.Equal(t, "service", view.Screen)
	assert.Equal(t, models.Services, view.Options)

	_, view = answer(t, env, view.ID, answerRequest{Value: "roof-repair"})
	assert.Equal(t, 2, view.Step)
	_, view = answer(t, env, view.ID, answerRequest{Value: "residential"})
	_, view = answer(t, env, view.ID, answerRequest{Value: "urgent"})
	assert.Equal(t, "address", view.Screen)
	_, view = answer(t, env, view.ID, answerRequest{Address: "1 Main St", ZipCode: "77001"})
	assert.Equal(t, "contact", view.Screen)

	rec := env.do(t, http.MethodPost, "/form/"+view.ID+"/submit", answerRequest{
		Name:  "Jane Doe",
		Phone: "7135550000",
		Email: "jane@x.com",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	decodeBody(t, rec, &view)
	assert.True(t, view.Complete)
	require.NotNil(t, view.Lead)
	assert.Equal(t, "Jane", view.Lead.FirstName)
	assert.Equal(t, "Doe", view.Lead.LastName)

	leads := env.app.Leads.All()
	require.Len(t, leads, 1)
	assert.Equal(t, models.StatusNew, leads[0].Status)
	assert.Equal(t, "77001", leads[0].ZipCode)

	rec = env.do(t, http.MethodPost, "/form/"+view.ID+"/submit", answerRequest{}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFormAddressValidation(t *testing.T) {
	env := newTestEnv(t)
	view := startForm(t, env)
	for _, v := range []string{"roof-repair", "residential", "urgent"} {
		_, view = answer(t, env, view.ID, answerRequest{Value: v})
	}

	rec, _ := answer(t, env, view.ID, answerRequest{Address: "1 Main St"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp errorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "zip code", resp.Field)
	assert.Equal(t, 4, resp.Step)

	rec = env.do(t, http.MethodGet, "/form/"+view.ID, nil, "")
	decodeBody(t, rec, &view)
	assert.Equal(t, 4, view.Step)
	assert.Empty(t, env.app.Leads.All())
	assert.NotEmpty(t, env.app.UI.Toasts())
}

func TestFormContactValidation(t *testing.T) {
	env := newTestEnv(t)
	view := startForm(t, env)
	for _, v := range []string{"roof-repair", "residential", "urgent"} {
		_, view = answer(t, env, view.ID, answerRequest{Value: v})
	}
	_, view = answer(t, env, view.ID, answerRequest{Address: "1 Main St", ZipCode: "77001"})

	rec := env.do(t, http.MethodPost, "/form/"+view.ID+"/submit", answerRequest{Name: "Jane Doe", Email: "jane@x.com"}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp errorResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "phone", resp.Field)
	assert.Empty(t, env.app.Leads.All())
}

func TestFormBackAndWrongStep(t *testing.T) {
	env := newTestEnv(t)
	view := startForm(t, env)
	_, view = answer(t, env, view.ID, answerRequest{Value: "gutters"})

	rec := env.do(t, http.MethodPost, "/form/"+view.ID+"/back", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &view)
	assert.Equal(t, 1, view.Step)
	assert.Equal(t, "gutters", view.Draft.Service)

	rec = env.do(t, http.MethodPost, "/form/"+view.ID+"/submit", answerRequest{}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFormUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/form/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFormPhotoStep(t *testing.T) {
	env := newTestEnv(t, WithFormOptions(leadform.WithPhotoStep()))
	view := startForm(t, env)
	assert.Equal(t, 6, view.Steps)

	for _, v := range []string{"storm-damage", "residential", "emergency"} {
		_, view = answer(t, env, view.ID, answerRequest{Value: v})
	}
	_, view = answer(t, env, view.ID, answerRequest{Address: "1 Main St", ZipCode: "77001"})
	assert.Equal(t, "photo", view.Screen)

	_, view = answer(t, env, view.ID, answerRequest{})
	assert.Equal(t, "contact", view.Screen)
	assert.Equal(t, 6, view.Step)
}

func TestFormResetRemovesSession(t *testing.T) {
	var fire func()
	capture := func(_ time.Duration, f func()) func() {
		fire = f
		return func() {}
	}
	env := newTestEnv(t, WithFormOptions(leadform.WithScheduler(capture)))

	view := startForm(t, env)
	for _, v := range []string{"roof-repair", "residential", "urgent"} {
		_, view = answer(t, env, view.ID, answerRequest{Value: v})
	}
	_, view = answer(t, env, view.ID, answerRequest{Address: "1 Main St", ZipCode: "77001"})
	rec := env.do(t, http.MethodPost, "/form/"+view.ID+"/submit", answerRequest{Name: "Jane", Phone: "1", Email: "j@x.com"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, fire)
	fire()
	assert.Zero(t, env.server.forms.count())
}

func TestFormHTMLFlow(t *testing.T) {
	env := newTestEnv(t)
	h := env.server.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/form/"))

	post := func(path string, values url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	req := httptest.NewRequest(http.MethodGet, location, nil)
	req.Header.Set("Accept", "text/html")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Step 1 of 5")
	assert.Contains(t, rec.Body.String(), "Roof Repair")

	for _, v := range []string{"roof-repair", "residential", "urgent"} {
		rec = post(location+"/answer", url.Values{"value": {v}})
		require.Equal(t, http.StatusSeeOther, rec.Code)
	}

	rec = post(location+"/answer", url.Values{"address": {""}, "zipCode": {"77001"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "address is required")

	rec = post(location+"/answer", url.Values{"address": {"1 Main St"}, "zipCode": {"77001"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = post(location+"/submit", url.Values{"name": {"Jane Doe"}, "phone": {"7135550000"}, "email": {"jane@x.com"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	req = httptest.NewRequest(http.MethodGet, location, nil)
	req.Header.Set("Accept", "text/html")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "Thank you, Jane!")
	assert.Len(t, env.app.Leads.All(), 1)
}
