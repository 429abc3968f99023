package handlers

import (
	"net/http"
)

// handleHealthz reports the health of the database and the prediction
// service. A failing check turns the overall status degraded but the
// endpoint still answers 200 so load balancers can read the detail.
func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: "ok",
		Checks: make(map[string]string, 2),
	}

	if h.DB != nil {
		if err := h.DB.Ping(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Checks["database"] = err.Error()
		} else {
			resp.Checks["database"] = "ok"
		}
	}

	if h.Model != nil {
		if err := h.Model.Ping(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Checks["model_service"] = err.Error()
		} else {
			resp.Checks["model_service"] = "ok"
		}
	}

	respondOK(w, resp)
}
