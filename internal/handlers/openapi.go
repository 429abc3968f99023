package handlers

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/apexsim/pitwall/internal/models"
	"github.com/apexsim/pitwall/internal/services"
	"github.com/apexsim/pitwall/internal/strategy"
)

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Pitwall API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Race strategy projection engine: undercut evaluation, safety-car advice and full race simulation.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports the health of the database and prediction service.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealthz)

	// GET /ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws")
	getWS.SetSummary("Live updates")
	getWS.SetDescription("Upgrades to a WebSocket connection carrying simulation results and playback frames.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// POST /api/strategy/undercut
	postUndercut, _ := r.NewOperationContext(http.MethodPost, "/api/strategy/undercut")
	postUndercut.SetSummary("Evaluate undercut")
	postUndercut.SetDescription("Compares attacker-versus-defender pit timing scenarios and returns the best one.")
	postUndercut.AddReqStructure(UndercutRequest{})
	postUndercut.AddRespStructure(strategy.UndercutResult{}, openapi.WithHTTPStatus(http.StatusOK))
	postUndercut.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postUndercut.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postUndercut)

	// POST /api/strategy/safety-car
	postSafetyCar, _ := r.NewOperationContext(http.MethodPost, "/api/strategy/safety-car")
	postSafetyCar.SetSummary("Safety-car advice")
	postSafetyCar.SetDescription("Produces a pit-or-stay decision per driver for a safety-car period.")
	postSafetyCar.AddReqStructure(SafetyCarRequest{})
	postSafetyCar.AddRespStructure(strategy.SafetyCarAnalysis{}, openapi.WithHTTPStatus(http.StatusOK))
	postSafetyCar.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSafetyCar.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postSafetyCar)

	// POST /api/strategy/race-simulation
	postSimulate, _ := r.NewOperationContext(http.MethodPost, "/api/strategy/race-simulation")
	postSimulate.SetSummary("Simulate race")
	postSimulate.SetDescription("Runs a full race to classification under explicit pit plans and stores the result.")
	postSimulate.AddReqStructure(RaceSimulationRequest{})
	postSimulate.AddRespStructure(services.SimulationOutcome{}, openapi.WithHTTPStatus(http.StatusCreated))
	postSimulate.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSimulate.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	_ = r.AddOperation(postSimulate)

	// GET /api/simulations
	listSims, _ := r.NewOperationContext(http.MethodGet, "/api/simulations")
	listSims.SetSummary("List simulations")
	listSims.SetDescription("Returns recent saved simulations, newest first. Accepts a limit query parameter.")
	listSims.AddRespStructure(SimulationListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listSims)

	// GET /api/simulations/{id}
	getSim, _ := r.NewOperationContext(http.MethodGet, "/api/simulations/{id}")
	getSim.SetSummary("Get simulation")
	getSim.SetDescription("Returns one saved simulation with its full result.")
	getSim.AddRespStructure(services.SimulationOutcome{}, openapi.WithHTTPStatus(http.StatusOK))
	getSim.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSim)

	// GET /api/simulations/{id}/qr
	getSimQR, _ := r.NewOperationContext(http.MethodGet, "/api/simulations/{id}/qr")
	getSimQR.SetSummary("Simulation share QR")
	getSimQR.SetDescription("Returns a PNG QR code linking to a saved simulation.")
	getSimQR.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("image/png"))
	getSimQR.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSimQR)

	// POST /api/simulations/{id}/replay
	postReplay, _ := r.NewOperationContext(http.MethodPost, "/api/simulations/{id}/replay")
	postReplay.SetSummary("Replay simulation")
	postReplay.SetDescription("Streams a saved simulation's lap-by-lap positions to WebSocket clients.")
	postReplay.AddRespStructure(ReplayResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReplay.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postReplay)

	// GET /api/sessions
	listSessions, _ := r.NewOperationContext(http.MethodGet, "/api/sessions")
	listSessions.SetSummary("List sessions")
	listSessions.SetDescription("Returns all stored race sessions.")
	listSessions.AddRespStructure(SessionListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listSessions)

	// POST /api/sessions
	createSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	createSession.SetSummary("Create session")
	createSession.SetDescription("Stores a new race session.")
	createSession.AddReqStructure(CreateSessionRequest{})
	createSession.AddRespStructure(models.RaceSession{}, openapi.WithHTTPStatus(http.StatusCreated))
	createSession.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createSession)

	// GET /api/sessions/{id}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}")
	getSession.SetSummary("Get session")
	getSession.SetDescription("Returns one stored race session.")
	getSession.AddRespStructure(models.RaceSession{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// DELETE /api/sessions/{id}
	deleteSession, _ := r.NewOperationContext(http.MethodDelete, "/api/sessions/{id}")
	deleteSession.SetSummary("Delete session")
	deleteSession.SetDescription("Removes a stored race session. Requires Bearer token.")
	deleteSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteSession.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusNotFound))
	deleteSession.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteSession)

	// POST /api/sessions/seed-demo
	seedDemo, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/seed-demo")
	seedDemo.SetSummary("Seed demo session")
	seedDemo.SetDescription("Creates a demo session plus a ready-made ten-car grid. Requires Bearer token.")
	seedDemo.AddRespStructure(SeedDemoResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	seedDemo.AddRespStructure(APIError{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(seedDemo)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
