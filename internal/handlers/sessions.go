package handlers

import (
	"net/http"

	"github.com/apexsim/pitwall/internal/services"
)

// handleCreateSession stores a new race session
func (h *Handlers) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	session, err := h.Session.CreateSession(r.Context(), req.Name, req.Track, req.TotalLaps)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, session)
}

// handleGetSession returns one stored race session
func (h *Handlers) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	session, err := h.Session.GetSession(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, session)
}

// handleListSessions returns all stored race sessions
func (h *Handlers) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Session.ListSessions(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, SessionListResponse{Sessions: sessions})
}

// handleDeleteSession removes a stored race session
func (h *Handlers) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Session.DeleteSession(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	respondDeleted(w)
}

// handleSeedDemoSession creates a demo session plus a ready-made grid
func (h *Handlers) handleSeedDemoSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.Session.SeedDemoSession(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, SeedDemoResponse{Session: session, Grid: services.DemoGrid()})
}
