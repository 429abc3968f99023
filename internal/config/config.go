package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/apexsim/pitwall/internal/strategy"
)

// Config holds all runtime configuration, loaded from the environment
type Config struct {
	HTTPAddr        string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath          string     `env:"DB_PATH" envDefault:"data/pitwall.db"`
	LogLevel        slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	BaseURL         string     `env:"BASE_URL" envDefault:"http://localhost:8080"`
	ModelServiceURL string     `env:"MODEL_SERVICE_URL" envDefault:"http://localhost:8100"`
	AdminToken      string     `env:"ADMIN_TOKEN"`

	PlaybackInterval time.Duration `env:"PLAYBACK_INTERVAL" envDefault:"500ms"`

	// Engine constants, overridable per deployment
	PitLossSeconds       float64 `env:"PIT_LOSS_SECONDS" envDefault:"22.0"`
	SCPitLossSeconds     float64 `env:"SC_PIT_LOSS_SECONDS" envDefault:"18.0"`
	UndercutWindow       int     `env:"UNDERCUT_WINDOW" envDefault:"10"`
	UndercutLookahead    int     `env:"UNDERCUT_LOOKAHEAD" envDefault:"15"`
	ResponseDelayLaps    int     `env:"RESPONSE_DELAY_LAPS" envDefault:"3"`
	MaterialityPositions int     `env:"MATERIALITY_POSITIONS" envDefault:"1"`
	MaxDrivers           int     `env:"MAX_DRIVERS" envDefault:"24"`
	MaxLaps              int     `env:"MAX_LAPS" envDefault:"100"`
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// StrategyConfig builds the engine configuration from the loaded environment,
// keeping the defaults for the constants that are not exposed as env vars.
func (c *Config) StrategyConfig() strategy.Config {
	sc := strategy.DefaultConfig()
	sc.PitLossSeconds = c.PitLossSeconds
	sc.SCPitLossSeconds = c.SCPitLossSeconds
	sc.UndercutWindow = c.UndercutWindow
	sc.UndercutLookahead = c.UndercutLookahead
	sc.ResponseDelayLaps = c.ResponseDelayLaps
	sc.MaterialityPositions = c.MaterialityPositions
	sc.MaxDrivers = c.MaxDrivers
	sc.MaxLaps = c.MaxLaps
	return sc
}
