package mock

import (
	"context"

	"github.com/apexsim/pitwall/internal/models"
	"github.com/apexsim/pitwall/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SaveSimulationError = errors.New("database error")
//	svc := services.NewStrategyService(log, cfg, client, mockRepo, hub)
//	_, err := svc.SimulateRace(ctx, input)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Session Errors =====
	CreateSessionError error
	GetSessionError    error
	ListSessionsError  error
	DeleteSessionError error

	// ===== Simulation Errors =====
	SaveSimulationError  error
	GetSimulationError   error
	ListSimulationsError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{FullRepository: real}
}

func (m *Repository) CreateSession(ctx context.Context, name, track string, totalLaps int) (int64, error) {
	if m.CreateSessionError != nil {
		return 0, m.CreateSessionError
	}
	return m.FullRepository.CreateSession(ctx, name, track, totalLaps)
}

func (m *Repository) GetSession(ctx context.Context, id int64) (*models.RaceSession, error) {
	if m.GetSessionError != nil {
		return nil, m.GetSessionError
	}
	return m.FullRepository.GetSession(ctx, id)
}

func (m *Repository) ListSessions(ctx context.Context) ([]models.RaceSession, error) {
	if m.ListSessionsError != nil {
		return nil, m.ListSessionsError
	}
	return m.FullRepository.ListSessions(ctx)
}

func (m *Repository) DeleteSession(ctx context.Context, id int64) error {
	if m.DeleteSessionError != nil {
		return m.DeleteSessionError
	}
	return m.FullRepository.DeleteSession(ctx, id)
}

func (m *Repository) SaveSimulation(ctx context.Context, sim *models.SavedSimulation) error {
	if m.SaveSimulationError != nil {
		return m.SaveSimulationError
	}
	return m.FullRepository.SaveSimulation(ctx, sim)
}

func (m *Repository) GetSimulation(ctx context.Context, id string) (*models.SavedSimulation, error) {
	if m.GetSimulationError != nil {
		return nil, m.GetSimulationError
	}
	return m.FullRepository.GetSimulation(ctx, id)
}

func (m *Repository) ListSimulations(ctx context.Context, limit int) ([]models.SimulationSummary, error) {
	if m.ListSimulationsError != nil {
		return nil, m.ListSimulationsError
	}
	return m.FullRepository.ListSimulations(ctx, limit)
}
