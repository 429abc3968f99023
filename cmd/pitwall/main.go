package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/apexsim/pitwall/internal/app"
	"github.com/apexsim/pitwall/internal/config"
	"github.com/apexsim/pitwall/internal/logger"
	"github.com/apexsim/pitwall/pkg/mlmodel"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.NewWithLevel(cfg.LogLevel)

	// MODEL_SERVICE_URL=mock runs against the built-in prediction model,
	// useful for demos and local development without the ML service.
	var model mlmodel.Client
	if cfg.ModelServiceURL == "mock" {
		model = mlmodel.NewMockClient()
		log.Info("Using built-in mock prediction model")
	} else {
		model = mlmodel.NewHTTPClient(cfg.ModelServiceURL, log)
	}

	a, err := app.New(log, cfg, model)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
