package repository

import (
	"context"

	"github.com/apexsim/pitwall/internal/models"
)

// SessionRepository defines race session data operations
type SessionRepository interface {
	CreateSession(ctx context.Context, name, track string, totalLaps int) (int64, error)
	GetSession(ctx context.Context, id int64) (*models.RaceSession, error)
	ListSessions(ctx context.Context) ([]models.RaceSession, error)
	DeleteSession(ctx context.Context, id int64) error
}

// SimulationRepository defines saved simulation data operations
type SimulationRepository interface {
	SaveSimulation(ctx context.Context, sim *models.SavedSimulation) error
	GetSimulation(ctx context.Context, id string) (*models.SavedSimulation, error)
	ListSimulations(ctx context.Context, limit int) ([]models.SimulationSummary, error)
}

// FullRepository combines all repository interfaces.
// Use this when a service needs access to multiple domains.
type FullRepository interface {
	SessionRepository
	SimulationRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
