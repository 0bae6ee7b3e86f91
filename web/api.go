// ABOUTME: Backend lead API handlers backed by SQLite
// ABOUTME: Implements /api/contact, /api/deletecontact, and /api/get-all-leads
package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/harperreed/roofdesk/cache"
	"github.com/harperreed/roofdesk/db"
	"github.com/harperreed/roofdesk/models"
)

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var lead models.Lead
	if err := decodeJSON(w, r, &lead); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(lead.FirstName) == "" {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "firstName is required", Field: "firstName"})
		return
	}
	if lead.Status != "" && !models.IsValidStatus(lead.Status) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid status", Field: "status"})
		return
	}

	if lead.ID != "" {
		existing, err := db.GetLead(s.db, lead.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if existing != nil {
			writeError(w, http.StatusConflict, "lead already exists")
			return
		}
	}

	if err := db.CreateLead(s.db, &lead); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.invalidateLeads(r.Context())

	writeJSON(w, http.StatusCreated, lead)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	deleted, err := db.DeleteLead(s.db, body.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	s.invalidateLeads(r.Context())

	writeJSON(w, http.StatusOK, map[string]interface{}{"id": body.ID, "deleted": true})
}

func (s *Server) handleGetAllLeads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.cache != nil {
		var cached []models.Lead
		err := s.cache.GetJSON(ctx, allLeadsKey, &cached)
		if err == nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("warning: lead cache read failed: %v", err)
		}
	}

	leads, err := db.FindLeads(s.db, "", "", 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, allLeadsKey, leads); err != nil {
			log.Printf("warning: lead cache write failed: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, leads)
}

func (s *Server) invalidateLeads(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, allLeadsKey); err != nil {
		log.Printf("warning: lead cache invalidate failed: %v", err)
	}
}
