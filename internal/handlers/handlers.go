package handlers

import (
	"context"

	"github.com/apexsim/pitwall/internal/auth"
	"github.com/apexsim/pitwall/internal/services"
	"github.com/apexsim/pitwall/internal/websocket"
)

// Pinger is anything whose liveness the health endpoint can check
type Pinger interface {
	Ping(ctx context.Context) error
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Strategy services.StrategyServicer
	Session  services.SessionServicer
	Auth     *auth.Auth
	Hub      *websocket.Hub
	DB       Pinger
	Model    Pinger
	Log      HTTPLogger
}

// New creates a new Handlers instance with all dependencies
func New(
	strategy services.StrategyServicer,
	session services.SessionServicer,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	db Pinger,
	model Pinger,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Strategy: strategy,
		Session:  session,
		Auth:     adminAuth,
		Hub:      hub,
		DB:       db,
		Model:    model,
		Log:      log,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance for exercising API endpoints
func NewForTesting(strategy services.StrategyServicer, session services.SessionServicer) *Handlers {
	return &Handlers{
		Strategy: strategy,
		Session:  session,
		Auth:     auth.New("test-token"),
		Log:      NoopHTTPLogger{},
	}
}
