package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleListSimulations returns recent saved simulations, newest first
func (h *Handlers) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, BadRequest("Invalid limit parameter"))
			return
		}
		limit = parsed
	}

	sims, err := h.Strategy.ListSimulations(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, SimulationListResponse{Simulations: sims})
}

// handleGetSimulation returns one saved simulation with its full result
func (h *Handlers) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, BadRequest("Missing id parameter"))
		return
	}

	outcome, err := h.Strategy.GetSimulation(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, outcome)
}

// handleGetSimulationQR returns a PNG QR code linking to a saved simulation
func (h *Handlers) handleGetSimulationQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, BadRequest("Missing id parameter"))
		return
	}

	png, err := h.Strategy.GenerateShareQR(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleReplaySimulation streams a saved simulation's lap-by-lap positions
// to connected WebSocket clients
func (h *Handlers) handleReplaySimulation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, BadRequest("Missing id parameter"))
		return
	}

	if err := h.Strategy.ReplaySimulation(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, ReplayResponse{ID: id, Status: "replaying"})
}
