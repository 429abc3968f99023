package strategy

// Config holds the tunable constants of the projection engine and the
// services built on it. Values are externally tunable (env/config), not
// hard business logic.
type Config struct {
	// PitLossSeconds is the total time cost of a green-flag pit stop
	// relative to staying out (stationary time plus in/out lap cost).
	PitLossSeconds float64

	// SCPitLossSeconds is the reduced pit loss while the field runs
	// behind a safety car.
	SCPitLossSeconds float64

	// WarmupLaps is the number of laps a fresh tyre needs to reach
	// working temperature.
	WarmupLaps int

	// WarmupPenaltyPerLap is the penalty on the first warm-up lap,
	// decayed linearly to zero over WarmupLaps.
	WarmupPenaltyPerLap float64

	// ResponseDelayLaps is how many laps a reactive competitor needs to
	// answer an opponent's pit stop.
	ResponseDelayLaps int

	// UndercutWindow is the number of candidate pit laps the undercut
	// evaluator examines.
	UndercutWindow int

	// UndercutLookahead is how many laps each undercut scenario is
	// projected forward (clipped to race end).
	UndercutLookahead int

	// MaterialityPositions is the minimum predicted position change for
	// a safety-car recommendation to be PIT or STAY_OUT rather than RISKY.
	MaterialityPositions int

	// MaxDrivers and MaxLaps bound the compute budget of a single
	// projection; requests above them are rejected before projecting.
	MaxDrivers int
	MaxLaps    int
}

// DefaultConfig returns the standard engine constants
func DefaultConfig() Config {
	return Config{
		PitLossSeconds:       22.0,
		SCPitLossSeconds:     18.0,
		WarmupLaps:           2,
		WarmupPenaltyPerLap:  0.5,
		ResponseDelayLaps:    3,
		UndercutWindow:       10,
		UndercutLookahead:    15,
		MaterialityPositions: 1,
		MaxDrivers:           24,
		MaxLaps:              100,
	}
}
