package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/swaggest/swgui/v5emb"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health & docs
	r.Get("/healthz", h.handleHealthz)
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Pitwall API", "/openapi.json", "/docs"))

	// WebSocket
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Strategy API (public)
	r.Post("/api/strategy/undercut", h.handleEvaluateUndercut)
	r.Post("/api/strategy/safety-car", h.handleAnalyzeSafetyCar)
	r.Post("/api/strategy/race-simulation", h.handleSimulateRace)

	// Saved simulations (public)
	r.Get("/api/simulations", h.handleListSimulations)
	r.Get("/api/simulations/{id}", h.handleGetSimulation)
	r.Get("/api/simulations/{id}/qr", h.handleGetSimulationQR)
	r.Post("/api/simulations/{id}/replay", h.handleReplaySimulation)

	// Sessions (public reads, admin writes)
	r.Get("/api/sessions", h.handleListSessions)
	r.Get("/api/sessions/{id}", h.handleGetSession)
	r.Post("/api/sessions", h.handleCreateSession)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)
		r.Delete("/api/sessions/{id}", h.handleDeleteSession)
		r.Post("/api/sessions/seed-demo", h.handleSeedDemoSession)
	})

	return r
}
