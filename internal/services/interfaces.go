package services

import (
	"context"

	"github.com/apexsim/pitwall/internal/models"
	"github.com/apexsim/pitwall/internal/strategy"
)

// StrategyServicer defines the interface for strategy operations
type StrategyServicer interface {
	EvaluateUndercut(ctx context.Context, in strategy.UndercutInput) (*strategy.UndercutResult, error)
	AnalyzeSafetyCar(ctx context.Context, in strategy.SafetyCarInput) (*strategy.SafetyCarAnalysis, error)
	SimulateRace(ctx context.Context, req RaceRequest) (*SimulationOutcome, error)
	GetSimulation(ctx context.Context, id string) (*SimulationOutcome, error)
	ListSimulations(ctx context.Context, limit int) ([]models.SimulationSummary, error)
	ReplaySimulation(ctx context.Context, id string) error
	GenerateShareQR(ctx context.Context, id string) ([]byte, error)
	SetBroadcaster(b Broadcaster)
}

// SessionServicer defines the interface for race session operations
type SessionServicer interface {
	CreateSession(ctx context.Context, name, track string, totalLaps int) (*models.RaceSession, error)
	GetSession(ctx context.Context, id int64) (*models.RaceSession, error)
	ListSessions(ctx context.Context) ([]models.RaceSession, error)
	DeleteSession(ctx context.Context, id int64) error
	SeedDemoSession(ctx context.Context) (*models.RaceSession, error)
}

// Broadcaster defines the interface for broadcasting messages to clients
type Broadcaster interface {
	BroadcastSimulationResult(id, summary string)
	StreamPlayback(id string, frames []map[string]int)
}
