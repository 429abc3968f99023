package handlers

import (
	"github.com/apexsim/pitwall/internal/models"
	"github.com/apexsim/pitwall/internal/strategy"
)

// HealthResponse reports the liveness of the service and its dependencies
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// SimulationListResponse wraps a page of saved simulations
type SimulationListResponse struct {
	Simulations []models.SimulationSummary `json:"simulations"`
}

// ReplayResponse acknowledges a playback stream being started
type ReplayResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// SessionListResponse wraps the list of stored race sessions
type SessionListResponse struct {
	Sessions []models.RaceSession `json:"sessions"`
}

// SeedDemoResponse is a freshly seeded demo session together with the grid
// that can be fed straight into a race simulation
type SeedDemoResponse struct {
	Session *models.RaceSession  `json:"session"`
	Grid    []strategy.GridEntry `json:"grid"`
}
