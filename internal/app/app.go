package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/apexsim/pitwall/internal/auth"
	"github.com/apexsim/pitwall/internal/config"
	"github.com/apexsim/pitwall/internal/handlers"
	"github.com/apexsim/pitwall/internal/logger"
	"github.com/apexsim/pitwall/internal/repository"
	"github.com/apexsim/pitwall/internal/services"
	"github.com/apexsim/pitwall/internal/websocket"
	"github.com/apexsim/pitwall/pkg/mlmodel"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      *config.Config
	handlers *handlers.Handlers
	repo     *repository.Repository
	hub      *websocket.Hub
}

// New creates and initializes a new application instance. The prediction
// service client is injected so main can pick between the HTTP client and
// the built-in mock.
func New(log logger.Logger, cfg *config.Config, model mlmodel.Client) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	strategyCfg := cfg.StrategyConfig()
	strategySvc := services.NewStrategyService(log, strategyCfg, model, repo, cfg.BaseURL)
	sessionSvc := services.NewSessionService(log, repo, strategyCfg)

	hub := websocket.New(log, cfg.PlaybackInterval)
	hub.Start()
	strategySvc.SetBroadcaster(hub)

	token := cfg.AdminToken
	if token == "" {
		token = auth.GenerateToken()
		log.Info("Admin token generated", "token", token)
	}
	adminAuth := auth.New(token)

	h := handlers.New(strategySvc, sessionSvc, adminAuth, hub, repo, model, log)

	return &App{
		log:      log,
		cfg:      cfg,
		handlers: h,
		repo:     repo,
		hub:      hub,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close releases app resources
func (a *App) Close() error {
	return a.repo.Close()
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails. Shutdown drains in-flight requests for up to ten seconds.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	a.log.Info("Server starting", "addr", a.cfg.HTTPAddr, "docs", a.cfg.BaseURL+"/docs")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
