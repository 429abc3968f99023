package handlers

import (
	"net/http"
)

// handleEvaluateUndercut runs an attacker-versus-defender undercut evaluation
func (h *Handlers) handleEvaluateUndercut(w http.ResponseWriter, r *http.Request) {
	var req UndercutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	in, err := req.ToInput()
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Strategy.EvaluateUndercut(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, result)
}

// handleAnalyzeSafetyCar produces pit/stay advice for the whole field
func (h *Handlers) handleAnalyzeSafetyCar(w http.ResponseWriter, r *http.Request) {
	var req SafetyCarRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	in, err := req.ToInput()
	if err != nil {
		respondError(w, err)
		return
	}

	analysis, err := h.Strategy.AnalyzeSafetyCar(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, analysis)
}

// handleSimulateRace runs a full race simulation and stores the result
func (h *Handlers) handleSimulateRace(w http.ResponseWriter, r *http.Request) {
	var req RaceSimulationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	raceReq, err := req.ToRequest()
	if err != nil {
		respondError(w, err)
		return
	}

	outcome, err := h.Strategy.SimulateRace(r.Context(), raceReq)
	if err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, outcome)
}
