package services

import (
	"context"

	"github.com/apexsim/pitwall/internal/errors"
	"github.com/apexsim/pitwall/internal/logger"
	"github.com/apexsim/pitwall/internal/models"
	"github.com/apexsim/pitwall/internal/repository"
	"github.com/apexsim/pitwall/internal/strategy"
)

// SessionService handles race session business logic
type SessionService struct {
	log  logger.Logger
	repo repository.SessionRepository
	cfg  strategy.Config
}

// NewSessionService creates a new SessionService
func NewSessionService(log logger.Logger, repo repository.SessionRepository, cfg strategy.Config) *SessionService {
	return &SessionService{log: log, repo: repo, cfg: cfg}
}

// CreateSession validates and stores a new race session
func (s *SessionService) CreateSession(ctx context.Context, name, track string, totalLaps int) (*models.RaceSession, error) {
	switch {
	case name == "":
		return nil, errors.Validation("session name is required")
	case track == "":
		return nil, errors.Validation("track name is required")
	case totalLaps < 1:
		return nil, errors.Validationf("total laps %d must be at least 1", totalLaps)
	case totalLaps > s.cfg.MaxLaps:
		return nil, errors.Validationf("total laps %d exceeds the maximum of %d", totalLaps, s.cfg.MaxLaps)
	}

	id, err := s.repo.CreateSession(ctx, name, track, totalLaps)
	if err != nil {
		return nil, err
	}

	s.log.Info("session created", "id", id, "name", name, "track", track, "laps", totalLaps)
	return s.repo.GetSession(ctx, id)
}

// GetSession retrieves a race session by ID
func (s *SessionService) GetSession(ctx context.Context, id int64) (*models.RaceSession, error) {
	return s.repo.GetSession(ctx, id)
}

// ListSessions returns all stored race sessions
func (s *SessionService) ListSessions(ctx context.Context) ([]models.RaceSession, error) {
	return s.repo.ListSessions(ctx)
}

// DeleteSession removes a race session
func (s *SessionService) DeleteSession(ctx context.Context, id int64) error {
	return s.repo.DeleteSession(ctx, id)
}

// SeedDemoSession creates a ready-to-use demo session
func (s *SessionService) SeedDemoSession(ctx context.Context) (*models.RaceSession, error) {
	session, err := s.CreateSession(ctx, "Demo Grand Prix", "Silverstone", 52)
	if err != nil {
		return nil, err
	}
	s.log.Info("demo session seeded", "id", session.ID)
	return session, nil
}

// DemoGrid returns a ten-car starting grid for demo simulations
func DemoGrid() []strategy.GridEntry {
	return []strategy.GridEntry{
		{DriverID: "VER", Compound: models.CompoundMedium},
		{DriverID: "NOR", Compound: models.CompoundMedium},
		{DriverID: "LEC", Compound: models.CompoundSoft},
		{DriverID: "HAM", Compound: models.CompoundMedium},
		{DriverID: "RUS", Compound: models.CompoundSoft},
		{DriverID: "PIA", Compound: models.CompoundMedium},
		{DriverID: "SAI", Compound: models.CompoundHard},
		{DriverID: "ALO", Compound: models.CompoundMedium},
		{DriverID: "STR", Compound: models.CompoundHard},
		{DriverID: "GAS", Compound: models.CompoundSoft},
	}
}
