// ABOUTME: Lead form sessions driven over HTTP
// ABOUTME: Each session wraps a leadform.Form and serves JSON or HTML
package web

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/harperreed/roofdesk/leadform"
	"github.com/harperreed/roofdesk/models"
	"github.com/oklog/ulid/v2"
)

const formSessionTTL = time.Hour

type formSession struct {
	id      string
	form    *leadform.Form
	created time.Time
}

type formSessions struct {
	mu       sync.Mutex
	sessions map[string]*formSession
}

func newFormSessions() *formSessions {
	return &formSessions{sessions: make(map[string]*formSession)}
}

func (fs *formSessions) add(sess *formSession) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	// Abandoned sessions never submit, so nothing else would remove them
	for id, old := range fs.sessions {
		if time.Since(old.created) > formSessionTTL {
			delete(fs.sessions, id)
		}
	}
	fs.sessions[sess.id] = sess
}

func (fs *formSessions) get(id string) (*formSession, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	sess, ok := fs.sessions[id]
	return sess, ok
}

func (fs *formSessions) remove(id string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.sessions, id)
}

func (fs *formSessions) count() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.sessions)
}

type formView struct {
	ID       string          `json:"id"`
	Step     int             `json:"step"`
	Steps    int             `json:"steps"`
	Screen   string          `json:"screen"`
	Options  []models.Option `json:"options,omitempty"`
	Draft    leadform.Draft  `json:"draft"`
	Complete bool            `json:"complete"`
	Lead     *models.Lead    `json:"lead,omitempty"`
}

type answerRequest struct {
	Value   string `json:"value"`
	Address string `json:"address"`
	ZipCode string `json:"zipCode"`
	Photo   string `json:"photo"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *Server) newFormSession() *formSession {
	id := ulid.Make().String()
	opts := []leadform.Option{leadform.WithNotifier(s.app.UI)}
	opts = append(opts, s.formOpts...)
	opts = append(opts, leadform.OnClose(func() { s.forms.remove(id) }))

	sess := &formSession{
		id:      id,
		form:    leadform.New(s.app.Leads, opts...),
		created: time.Now(),
	}
	s.forms.add(sess)
	return sess
}

func viewOf(sess *formSession) formView {
	f := sess.form
	view := formView{
		ID:       sess.id,
		Step:     f.Step(),
		Steps:    f.Steps(),
		Draft:    f.Draft(),
		Complete: f.IsComplete(),
	}
	screen := f.Current()
	view.Screen = screen.String()
	switch screen {
	case leadform.StepService:
		view.Options = models.Services
	case leadform.StepPropertyType:
		view.Options = models.PropertyTypes
	case leadform.StepUrgency:
		view.Options = models.Urgencies
	}
	if lead, ok := f.Submitted(); ok {
		view.Lead = &lead
	}
	return view
}

func (s *Server) handleFormStart(w http.ResponseWriter, r *http.Request) {
	sess := s.newFormSession()

	if r.Method == http.MethodGet || isFormPost(r) {
		http.Redirect(w, r, "/form/"+sess.id, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*formSession, bool) {
	sess, ok := s.forms.get(mux.Vars(r)["id"])
	if !ok {
		if wantsHTML(r) || isFormPost(r) {
			http.Redirect(w, r, "/form", http.StatusSeeOther)
		} else {
			writeError(w, http.StatusNotFound, "form session not found")
		}
		return nil, false
	}
	return sess, true
}

func (s *Server) handleFormGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	if wantsHTML(r) {
		s.renderForm(w, sess, http.StatusOK, "")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleFormAnswer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	ans, err := parseAnswer(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f := sess.form
	switch f.Current() {
	case leadform.StepService:
		err = f.SelectService(ans.Value)
	case leadform.StepPropertyType:
		err = f.SelectPropertyType(ans.Value)
	case leadform.StepUrgency:
		err = f.SelectUrgency(ans.Value)
	case leadform.StepAddress:
		f.SetAddress(ans.Address, ans.ZipCode)
		err = f.NextFromAddress()
	case leadform.StepPhoto:
		if ans.Photo == "" {
			err = f.SkipPhoto()
		} else {
			err = f.AttachPhoto(ans.Photo)
		}
	case leadform.StepContact:
		f.SetContact(ans.Name, ans.Phone, ans.Email, ans.Message)
	}

	s.respondForm(w, r, sess, http.StatusOK, err)
}

func (s *Server) handleFormBack(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	sess.form.Back()
	s.respondForm(w, r, sess, http.StatusOK, nil)
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	ans, err := parseAnswer(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f := sess.form
	if f.Current() == leadform.StepContact && !f.IsComplete() &&
		(ans.Name != "" || ans.Phone != "" || ans.Email != "" || ans.Message != "") {
		f.SetContact(ans.Name, ans.Phone, ans.Email, ans.Message)
	}

	_, err = f.Submit(r.Context())
	s.respondForm(w, r, sess, http.StatusCreated, err)
}

func parseAnswer(w http.ResponseWriter, r *http.Request) (answerRequest, error) {
	var ans answerRequest
	if isFormPost(r) {
		if err := r.ParseForm(); err != nil {
			return ans, err
		}
		ans = answerRequest{
			Value:   r.PostForm.Get("value"),
			Address: r.PostForm.Get("address"),
			ZipCode: r.PostForm.Get("zipCode"),
			Photo:   r.PostForm.Get("photo"),
			Name:    r.PostForm.Get("name"),
			Phone:   r.PostForm.Get("phone"),
			Email:   r.PostForm.Get("email"),
			Message: r.PostForm.Get("message"),
		}
		return ans, nil
	}

	err := decodeJSON(w, r, &ans)
	if errors.Is(err, io.EOF) {
		return ans, nil
	}
	return ans, err
}

// respondForm maps form errors to status codes; form posts get redirects or a re-rendered page.
func (s *Server) respondForm(w http.ResponseWriter, r *http.Request, sess *formSession, status int, err error) {
	var verr *leadform.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, leadform.ErrWrongStep), errors.Is(err, leadform.ErrAlreadySubmitted):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	if isFormPost(r) {
		if err != nil {
			s.renderForm(w, sess, status, err.Error())
			return
		}
		http.Redirect(w, r, "/form/"+sess.id, http.StatusSeeOther)
		return
	}

	if err != nil {
		resp := errorResponse{Error: err.Error()}
		if verr != nil {
			resp.Step = verr.Step
			resp.Field = verr.Field
		}
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, status, viewOf(sess))
}

func (s *Server) renderForm(w http.ResponseWriter, sess *formSession, status int, errMsg string) {
	data := map[string]interface{}{
		"Title":           "Free Estimate",
		"Path":            "/form",
		"Nav":             siteNav,
		"Form":            viewOf(sess),
		"Error":           errMsg,
		"ContentTemplate": "form-content",
	}
	s.renderTemplateStatus(w, status, "layout.html", data)
}
