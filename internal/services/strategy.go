package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/apexsim/pitwall/internal/logger"
	"github.com/apexsim/pitwall/internal/models"
	"github.com/apexsim/pitwall/internal/repository"
	"github.com/apexsim/pitwall/internal/strategy"
	"github.com/apexsim/pitwall/pkg/mlmodel"
)

// RaceRequest is a race simulation request, optionally tied to a stored session
type RaceRequest struct {
	SessionID *int64
	Input     strategy.RaceInput
}

// SimulationOutcome is a simulation result together with its stored identity
type SimulationOutcome struct {
	ID        string               `json:"id"`
	SessionID *int64               `json:"session_id,omitempty"`
	Result    *strategy.RaceResult `json:"result"`
}

// StrategyService handles strategy-related business logic. The projection
// engine and its evaluators are built once around the prediction service
// client and shared across requests; they hold no per-request state.
type StrategyService struct {
	log         logger.Logger
	engine      *strategy.ProjectionEngine
	undercut    *strategy.UndercutEvaluator
	advisor     *strategy.SafetyCarAdvisor
	simulator   *strategy.RaceSimulator
	repo        repository.SimulationRepository
	broadcaster Broadcaster
	baseURL     string
}

// NewStrategyService creates a new StrategyService
func NewStrategyService(log logger.Logger, cfg strategy.Config, model mlmodel.Client, repo repository.SimulationRepository, baseURL string) *StrategyService {
	engine := strategy.NewProjectionEngine(cfg, strategy.NewTyreModel(cfg), model, log)
	return &StrategyService{
		log:       log,
		engine:    engine,
		undercut:  strategy.NewUndercutEvaluator(engine, model, log),
		advisor:   strategy.NewSafetyCarAdvisor(engine, log),
		simulator: strategy.NewRaceSimulator(engine, log),
		repo:      repo,
		baseURL:   baseURL,
	}
}

// SetBroadcaster sets the broadcaster for pushing results to clients
func (s *StrategyService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// EvaluateUndercut evaluates an attacker/defender pit-timing duel
func (s *StrategyService) EvaluateUndercut(ctx context.Context, in strategy.UndercutInput) (*strategy.UndercutResult, error) {
	return s.undercut.Evaluate(ctx, in)
}

// AnalyzeSafetyCar produces pit-or-stay advice for the whole field
func (s *StrategyService) AnalyzeSafetyCar(ctx context.Context, in strategy.SafetyCarInput) (*strategy.SafetyCarAnalysis, error) {
	return s.advisor.Advise(ctx, in)
}

// SimulateRace runs a full race simulation, persists the result for later
// playback and pushes it to connected clients.
func (s *StrategyService) SimulateRace(ctx context.Context, req RaceRequest) (*SimulationOutcome, error) {
	result, err := s.simulator.Simulate(ctx, req.Input)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode simulation result: %w", err)
	}

	sim := &models.SavedSimulation{
		ID:        uuid.NewString(),
		SessionID: req.SessionID,
		Summary:   result.Summary,
		Result:    payload,
	}
	if err := s.repo.SaveSimulation(ctx, sim); err != nil {
		return nil, fmt.Errorf("failed to save simulation: %w", err)
	}

	s.log.Info("race simulated", "id", sim.ID, "laps", req.Input.TotalLaps, "drivers", len(req.Input.Grid))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastSimulationResult(sim.ID, result.Summary)
	}

	return &SimulationOutcome{ID: sim.ID, SessionID: req.SessionID, Result: result}, nil
}

// GetSimulation loads a saved simulation and decodes its result
func (s *StrategyService) GetSimulation(ctx context.Context, id string) (*SimulationOutcome, error) {
	sim, err := s.repo.GetSimulation(ctx, id)
	if err != nil {
		return nil, err
	}

	var result strategy.RaceResult
	if err := json.Unmarshal(sim.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to decode simulation result: %w", err)
	}

	return &SimulationOutcome{ID: sim.ID, SessionID: sim.SessionID, Result: &result}, nil
}

// ListSimulations returns recent saved simulations
func (s *StrategyService) ListSimulations(ctx context.Context, limit int) ([]models.SimulationSummary, error) {
	return s.repo.ListSimulations(ctx, limit)
}

// ReplaySimulation streams a saved simulation's lap-by-lap positions to
// connected clients as playback frames.
func (s *StrategyService) ReplaySimulation(ctx context.Context, id string) error {
	outcome, err := s.GetSimulation(ctx, id)
	if err != nil {
		return err
	}
	if s.broadcaster == nil {
		return fmt.Errorf("no broadcaster configured")
	}

	s.broadcaster.StreamPlayback(outcome.ID, outcome.Result.LapByLapPositions)
	return nil
}

// GenerateShareQR generates a QR code PNG pointing at a saved simulation
func (s *StrategyService) GenerateShareQR(ctx context.Context, id string) ([]byte, error) {
	if _, err := s.repo.GetSimulation(ctx, id); err != nil {
		return nil, err
	}
	if s.baseURL == "" {
		return nil, fmt.Errorf("base_url not configured")
	}

	shareURL := fmt.Sprintf("%s/api/simulations/%s", strings.TrimSuffix(s.baseURL, "/"), id)
	return qrcode.Encode(shareURL, qrcode.Medium, 256)
}
