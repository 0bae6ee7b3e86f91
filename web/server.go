// ABOUTME: HTTP server for the public site, lead API, form sessions, and admin API
// ABOUTME: Routes with gorilla/mux and renders embedded templates
package web

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/harperreed/roofdesk/leadform"
	"github.com/harperreed/roofdesk/models"
	"github.com/harperreed/roofdesk/store"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*
var templatesFS embed.FS

// LeadCache caches the backend lead list. *cache.Cache satisfies it.
type LeadCache interface {
	GetJSON(ctx context.Context, name string, dest interface{}) error
	SetJSON(ctx context.Context, name string, value interface{}) error
	Invalidate(ctx context.Context, names ...string) error
}

// RemoteLeads is the backend as seen from the admin. *apiclient.Client satisfies it.
type RemoteLeads interface {
	FetchLeads(ctx context.Context) ([]models.Lead, error)
	DeleteLead(ctx context.Context, id string) error
}

const allLeadsKey = "leads:all"

type Server struct {
	db        *sql.DB
	app       *store.App
	cache     LeadCache
	remote    RemoteLeads
	formOpts  []leadform.Option
	forms     *formSessions
	templates *template.Template
	markdown  goldmark.Markdown
	router    *mux.Router
}

type ServerOption func(*Server)

// WithCache caches GET /api/get-all-leads.
func WithCache(c LeadCache) ServerOption {
	return func(s *Server) { s.cache = c }
}

// WithRemote lets admin deletes and syncs reach the backend.
func WithRemote(r RemoteLeads) ServerOption {
	return func(s *Server) { s.remote = r }
}

// WithFormOptions configures every form session the site creates.
func WithFormOptions(opts ...leadform.Option) ServerOption {
	return func(s *Server) { s.formOpts = append(s.formOpts, opts...) }
}

// NewServer wires the backend database and the local stores. Either may be nil,
// in which case the routes that need it are not registered.
func NewServer(database *sql.DB, app *store.App, opts ...ServerOption) (*Server, error) {
	s := &Server{
		db:       database,
		app:      app,
		forms:    newFormSessions(),
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	for _, opt := range opts {
		opt(s)
	}

	funcMap := template.FuncMap{
		"markdown": s.renderMarkdown,
		"items":    settingItems,
		"label": func(kind, value string) string {
			switch kind {
			case "service":
				return models.LabelFor(models.Services, value)
			case "property":
				return models.LabelFor(models.PropertyTypes, value)
			case "urgency":
				return models.LabelFor(models.Urgencies, value)
			}
			return value
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = tmpl

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	if s.db != nil {
		api := r.PathPrefix("/api").Subrouter()
		api.HandleFunc("/contact", s.handleContact).Methods(http.MethodPost)
		api.HandleFunc("/deletecontact", s.handleDeleteContact).Methods(http.MethodPost)
		api.HandleFunc("/get-all-leads", s.handleGetAllLeads).Methods(http.MethodGet)
	}

	if s.app != nil {
		r.HandleFunc("/", s.handlePage("home")).Methods(http.MethodGet)
		r.HandleFunc("/services", s.handlePage("services")).Methods(http.MethodGet)
		r.HandleFunc("/gallery", s.handlePage("gallery")).Methods(http.MethodGet)
		r.HandleFunc("/testimonials", s.handlePage("testimonials")).Methods(http.MethodGet)

		r.HandleFunc("/form", s.handleFormStart).Methods(http.MethodGet, http.MethodPost)
		r.HandleFunc("/form/{id}", s.handleFormGet).Methods(http.MethodGet)
		r.HandleFunc("/form/{id}/answer", s.handleFormAnswer).Methods(http.MethodPost)
		r.HandleFunc("/form/{id}/back", s.handleFormBack).Methods(http.MethodPost)
		r.HandleFunc("/form/{id}/submit", s.handleFormSubmit).Methods(http.MethodPost)

		s.adminRoutes(r.PathPrefix("/admin").Subrouter())
	}

	return r
}

// Handler exposes the router for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Handler:      s.router,
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Printf("Starting web server at http://localhost%s", addr)
	return srv.ListenAndServe()
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	s.renderTemplateStatus(w, http.StatusOK, name, data)
}

func (s *Server) renderTemplateStatus(w http.ResponseWriter, status int, name string, data interface{}) {
	// Render into a buffer so a template error does not leave a half-written page
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("Template error rendering %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		log.Printf("warning: markdown render failed: %v", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// settingItems turns a settings "items" list into string maps for templates.
func settingItems(c models.ComponentContent) []map[string]string {
	raw, ok := c.Settings["items"].([]interface{})
	if !ok {
		return nil
	}
	var items []map[string]string
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		item := make(map[string]string, len(m))
		for k, v := range m {
			item[k] = fmt.Sprint(v)
		}
		items = append(items, item)
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("warning: failed to encode response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Step  int    `json:"step,omitempty"`
	Field string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func isFormPost(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
