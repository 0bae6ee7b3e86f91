// ABOUTME: Admin JSON API for leads, page content, images, and UI preferences
// ABOUTME: Every route except login requires a Bearer session token
package web

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/harperreed/roofdesk/db"
	"github.com/harperreed/roofdesk/models"
	"github.com/harperreed/roofdesk/store"
)

func (s *Server) adminRoutes(r *mux.Router) {
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	p := r.NewRoute().Subrouter()
	p.Use(s.requireAdmin)

	p.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	p.HandleFunc("/session", s.handleSession).Methods(http.MethodGet)

	p.HandleFunc("/leads", s.handleAdminLeads).Methods(http.MethodGet)
	p.HandleFunc("/leads/stats", s.handleAdminLeadStats).Methods(http.MethodGet)
	p.HandleFunc("/leads/sync", s.handleAdminLeadSync).Methods(http.MethodPost)
	p.HandleFunc("/leads/{id}", s.handleAdminLead).Methods(http.MethodGet)
	p.HandleFunc("/leads/{id}/status", s.handleAdminLeadStatus).Methods(http.MethodPut)
	p.HandleFunc("/leads/{id}/activity", s.handleAdminLeadActivity).Methods(http.MethodGet)
	p.HandleFunc("/leads/{id}", s.handleAdminLeadDelete).Methods(http.MethodDelete)

	p.HandleFunc("/content", s.handleAdminPages).Methods(http.MethodGet)
	p.HandleFunc("/content/reset", s.handleAdminContentReset).Methods(http.MethodPost)
	p.HandleFunc("/content/{page}", s.handleAdminPage).Methods(http.MethodGet)
	p.HandleFunc("/content/{page}/components", s.handleAdminAddComponent).Methods(http.MethodPost)
	p.HandleFunc("/content/{page}/components/{id}", s.handleAdminUpdateComponent).Methods(http.MethodPatch)
	p.HandleFunc("/content/{page}/components/{id}", s.handleAdminRemoveComponent).Methods(http.MethodDelete)
	p.HandleFunc("/content/{page}/components/{id}/move", s.handleAdminMoveComponent).Methods(http.MethodPost)

	p.HandleFunc("/images", s.handleAdminImages).Methods(http.MethodGet)
	p.HandleFunc("/images", s.handleAdminAddImage).Methods(http.MethodPost)
	p.HandleFunc("/images/categories", s.handleAdminImageCategories).Methods(http.MethodGet)
	p.HandleFunc("/images/{id}", s.handleAdminImage).Methods(http.MethodGet)
	p.HandleFunc("/images/{id}", s.handleAdminUpdateImage).Methods(http.MethodPatch)
	p.HandleFunc("/images/{id}", s.handleAdminDeleteImage).Methods(http.MethodDelete)

	p.HandleFunc("/ui", s.handleAdminUI).Methods(http.MethodGet)
	p.HandleFunc("/ui", s.handleAdminUpdateUI).Methods(http.MethodPatch)
	p.HandleFunc("/ui/toasts/{id}", s.handleAdminDismissToast).Methods(http.MethodDelete)
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if err := s.app.Auth.Validate(token); err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// storeStatus maps store sentinel errors to HTTP status codes.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidStatus),
		errors.Is(err, store.ErrInvalidCategory),
		errors.Is(err, store.ErrInvalidTheme):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}

func writeStoreError(w http.ResponseWriter, err error) {
	writeError(w, storeStatus(err), err.Error())
}

// Session

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := s.app.Auth.Login(body.Email, body.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.app.Auth.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Auth.State())
}

// Leads

func (s *Server) handleAdminLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.app.Leads.Filter(q.Get("q"), q.Get("status")))
}

func (s *Server) handleAdminLeadStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Leads.Stats())
}

func (s *Server) handleAdminLead(w http.ResponseWriter, r *http.Request) {
	lead, err := s.app.Leads.Get(mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleAdminLeadStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.app.Leads.UpdateStatus(id, body.Status); err != nil {
		writeStoreError(w, err)
		return
	}

	// The backend copy may be missing; the local store is authoritative for admins
	if s.db != nil {
		if err := db.UpdateLeadStatus(s.db, id, body.Status); err != nil && !errors.Is(err, db.ErrLeadNotFound) {
			log.Printf("warning: backend status update failed for %s: %v", id, err)
		} else if err == nil {
			s.invalidateLeads(r.Context())
		}
	}

	lead, err := s.app.Leads.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleAdminLeadActivity(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusNotImplemented, "backend database not configured")
		return
	}
	activity, err := db.GetLeadActivity(s.db, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if activity == nil {
		activity = []models.LeadActivity{}
	}
	writeJSON(w, http.StatusOK, activity)
}

func (s *Server) handleAdminLeadDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.app.Leads.Delete(id) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}

	if s.remote != nil {
		if err := s.remote.DeleteLead(r.Context(), id); err != nil {
			log.Printf("warning: remote delete failed for %s: %v", id, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleAdminLeadSync replaces the local lead list with the backend's.
func (s *Server) handleAdminLeadSync(w http.ResponseWriter, r *http.Request) {
	if s.remote == nil {
		writeError(w, http.StatusNotImplemented, "remote backend not configured")
		return
	}
	leads, err := s.remote.FetchLeads(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.app.Leads.Replace(leads)
	writeJSON(w, http.StatusOK, s.app.Leads.Stats())
}

// Content

func (s *Server) handleAdminPages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Content.Pages())
}

func (s *Server) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.app.Content.Page(mux.Vars(r)["page"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleAdminContentReset(w http.ResponseWriter, r *http.Request) {
	s.app.Content.ResetDefaults()
	writeJSON(w, http.StatusOK, s.app.Content.Pages())
}

func (s *Server) handleAdminAddComponent(w http.ResponseWriter, r *http.Request) {
	var c models.ComponentContent
	if err := decodeJSON(w, r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	added, err := s.app.Content.AddComponent(mux.Vars(r)["page"], c)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

type componentPatch struct {
	Name     *string                `json:"name"`
	IsActive *bool                  `json:"isActive"`
	Settings map[string]interface{} `json:"settings"`
}

func (s *Server) handleAdminUpdateComponent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page, id := vars["page"], vars["id"]

	var patch componentPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if patch.Settings != nil {
		if err := s.app.Content.UpdateSettings(page, id, patch.Settings); err != nil {
			writeStoreError(w, err)
			return
		}
	}
	if patch.Name != nil {
		if err := s.app.Content.Rename(page, id, *patch.Name); err != nil {
			writeStoreError(w, err)
			return
		}
	}
	if patch.IsActive != nil {
		if err := s.app.Content.SetActive(page, id, *patch.IsActive); err != nil {
			writeStoreError(w, err)
			return
		}
	}

	updated, err := s.app.Content.Page(page)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	for _, c := range updated.Components {
		if c.ID == id {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeError(w, http.StatusNotFound, "component not found")
}

func (s *Server) handleAdminRemoveComponent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.app.Content.RemoveComponent(vars["page"], vars["id"]); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAdminMoveComponent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var body struct {
		Index int `json:"index"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.app.Content.MoveComponent(vars["page"], vars["id"], body.Index); err != nil {
		writeStoreError(w, err)
		return
	}
	page, err := s.app.Content.Page(vars["page"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Images

func (s *Server) handleAdminImages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.app.Images.Search(q.Get("q"), q.Get("category")))
}

func (s *Server) handleAdminImageCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Images.Categories())
}

func (s *Server) handleAdminImage(w http.ResponseWriter, r *http.Request) {
	img, err := s.app.Images.Get(mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, img)
}

func (s *Server) handleAdminAddImage(w http.ResponseWriter, r *http.Request) {
	var img models.ManagedImage
	if err := decodeJSON(w, r, &img); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	added, err := s.app.Images.Add(img)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

type imagePatch struct {
	Title       *string  `json:"title"`
	Alt         *string  `json:"alt"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
	IsActive    *bool    `json:"isActive"`
	AddUsage    string   `json:"addUsage"`
	RemoveUsage string   `json:"removeUsage"`
}

func (s *Server) handleAdminUpdateImage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var patch imagePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := s.app.Images.Update(id, func(img *models.ManagedImage) {
		if patch.Title != nil {
			img.Title = *patch.Title
		}
		if patch.Alt != nil {
			img.Alt = *patch.Alt
		}
		if patch.Category != nil {
			img.Category = *patch.Category
		}
		if patch.Tags != nil {
			img.Tags = patch.Tags
		}
		if patch.IsActive != nil {
			img.IsActive = *patch.IsActive
		}
	})
	if err == nil && patch.AddUsage != "" {
		err = s.app.Images.AddUsage(id, patch.AddUsage)
	}
	if err == nil && patch.RemoveUsage != "" {
		err = s.app.Images.RemoveUsage(id, patch.RemoveUsage)
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}

	img, err := s.app.Images.Get(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, img)
}

func (s *Server) handleAdminDeleteImage(w http.ResponseWriter, r *http.Request) {
	if !s.app.Images.Delete(mux.Vars(r)["id"]) {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UI preferences

func (s *Server) handleAdminUI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.UI.State())
}

func (s *Server) handleAdminUpdateUI(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme         string `json:"theme"`
		ActiveSection string `json:"activeSection"`
		ToggleSidebar bool   `json:"toggleSidebar"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if body.Theme != "" {
		if err := s.app.UI.SetTheme(body.Theme); err != nil {
			writeStoreError(w, err)
			return
		}
	}
	if body.ActiveSection != "" {
		s.app.UI.SetSection(body.ActiveSection)
	}
	if body.ToggleSidebar {
		s.app.UI.ToggleSidebar()
	}
	writeJSON(w, http.StatusOK, s.app.UI.State())
}

func (s *Server) handleAdminDismissToast(w http.ResponseWriter, r *http.Request) {
	if !s.app.UI.DismissToast(mux.Vars(r)["id"]) {
		writeError(w, http.StatusNotFound, "toast not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
