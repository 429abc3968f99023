package strategy_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/apexsim/pitwall/internal/logger"
	"github.com/apexsim/pitwall/internal/models"
	"github.com/apexsim/pitwall/internal/strategy"
)

// flatOracle returns the same lap time for every driver and condition
func flatOracle(seconds float64) strategy.LapTimeOracle {
	return strategy.LapTimeFunc(func(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error) {
		return seconds, nil
	})
}

// degradingOracle returns a base lap time plus a linear tyre-age penalty
func degradingOracle(base, perLap float64) strategy.LapTimeOracle {
	return strategy.LapTimeFunc(func(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error) {
		return base + perLap*float64(tyreAge), nil
	})
}

// pacedOracle returns a fixed per-driver lap time
func pacedOracle(pace map[string]float64) strategy.LapTimeOracle {
	return strategy.LapTimeFunc(func(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error) {
		return pace[driverID], nil
	})
}

func newTestEngine(t *testing.T, oracle strategy.LapTimeOracle) *strategy.ProjectionEngine {
	t.Helper()
	cfg := strategy.DefaultConfig()
	return strategy.NewProjectionEngine(cfg, strategy.NewTyreModel(cfg), oracle, logger.New())
}

func mediumState(driverID string) *models.DriverRaceState {
	return &models.DriverRaceState{DriverID: driverID, Compound: models.CompoundMedium}
}

// TestProject_Determinism verifies that identical inputs produce identical traces
func TestProject_Determinism(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, degradingOracle(90, 0.05))
	plan := models.PitPlan{Stops: map[string][]int{"VER": {5}, "LEC": {8}}}

	run := func() []models.LapRecord {
		states := []*models.DriverRaceState{mediumState("VER"), mediumState("LEC"), mediumState("HAM")}
		records, err := engine.Project(ctx, states, plan, 1, 12, models.TrackGreen)
		if err != nil {
			t.Fatalf("Project failed: %v", err)
		}
		return records
	}

	first := run()
	second := run()

	if len(first) != len(second) {
		t.Fatalf("expected equal record counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("record %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

// TestProject_PositionTotality verifies positions are exactly {1..N} on every
// lap, including dead heats, which fall back to driver ID ordering.
func TestProject_PositionTotality(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, flatOracle(90)) // all drivers tie every lap
	states := []*models.DriverRaceState{mediumState("VER"), mediumState("ALO"), mediumState("LEC"), mediumState("HAM")}

	records, err := engine.Project(ctx, states, models.PitPlan{}, 1, 10, models.TrackGreen)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	byLap := make(map[int]map[int]string)
	for _, rec := range records {
		if byLap[rec.Lap] == nil {
			byLap[rec.Lap] = make(map[int]string)
		}
		if other, taken := byLap[rec.Lap][rec.Position]; taken {
			t.Fatalf("lap %d: position %d assigned to both %s and %s", rec.Lap, rec.Position, other, rec.DriverID)
		}
		byLap[rec.Lap][rec.Position] = rec.DriverID
	}
	for lap, positions := range byLap {
		for pos := 1; pos <= len(states); pos++ {
			if _, ok := positions[pos]; !ok {
				t.Errorf("lap %d: position %d not assigned", lap, pos)
			}
		}
	}

	// With identical cumulative times, the tie-break is driver ID order.
	if byLap[1][1] != "ALO" || byLap[1][4] != "VER" {
		t.Errorf("expected tie-break by driver ID, got lap 1 order %v", byLap[1])
	}
}

// TestProject_TyreAgeResetsOnPitLaps verifies the tyre reset invariant
func TestProject_TyreAgeResetsOnPitLaps(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, flatOracle(90))
	states := []*models.DriverRaceState{mediumState("VER")}
	states[0].TyreAge = 12
	plan := models.PitPlan{Stops: map[string][]int{"VER": {4, 9}}}

	records, err := engine.Project(ctx, states, plan, 1, 12, models.TrackGreen)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	for _, rec := range records {
		pitLap := rec.Lap == 4 || rec.Lap == 9
		if pitLap && rec.TyreAge != 0 {
			t.Errorf("lap %d: expected tyre age 0 on pit lap, got %d", rec.Lap, rec.TyreAge)
		}
		if pitLap != rec.Pitted {
			t.Errorf("lap %d: expected pitted=%v, got %v", rec.Lap, pitLap, rec.Pitted)
		}
	}

	// Ages grow by one per lap between stops.
	if got := records[4].TyreAge; got != 1 {
		t.Errorf("expected tyre age 1 on lap 5, got %d", got)
	}
}

// TestProject_CumulativeTimeStrictlyIncreasing verifies the monotonic time invariant
func TestProject_CumulativeTimeStrictlyIncreasing(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, degradingOracle(88, 0.1))
	states := []*models.DriverRaceState{mediumState("VER"), mediumState("LEC")}
	plan := models.PitPlan{Stops: map[string][]int{"VER": {6}}}

	records, err := engine.Project(ctx, states, plan, 1, 15, models.TrackGreen)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	last := make(map[string]float64)
	for _, rec := range records {
		if prev, ok := last[rec.DriverID]; ok && rec.CumulativeTime <= prev {
			t.Errorf("%s lap %d: cumulative time %.3f not greater than previous %.3f", rec.DriverID, rec.Lap, rec.CumulativeTime, prev)
		}
		last[rec.DriverID] = rec.CumulativeTime
	}
}

// TestProject_PitLapCarriesPitLossAndWarmup verifies the pit-lap time breakdown
func TestProject_PitLapCarriesPitLossAndWarmup(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, flatOracle(90))
	states := []*models.DriverRaceState{mediumState("VER")}
	plan := models.PitPlan{Stops: map[string][]int{"VER": {3}}}

	records, err := engine.Project(ctx, states, plan, 1, 6, models.TrackGreen)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	// Pit lap: base + pit loss + full warm-up penalty at age 0.
	if got, want := records[2].LapTime, 90.0+22.0+1.0; got != want {
		t.Errorf("expected pit lap time %.1f, got %.3f", want, got)
	}
	// One lap later the penalty has half decayed.
	if got, want := records[3].LapTime, 90.0+0.5; got != want {
		t.Errorf("expected first flying lap time %.1f, got %.3f", want, got)
	}
	// Two laps later the tyre is fully warm.
	if got, want := records[4].LapTime, 90.0; got != want {
		t.Errorf("expected warmed-up lap time %.1f, got %.3f", want, got)
	}
	// Tyres that never stopped carry no warm-up penalty.
	if got, want := records[0].LapTime, 90.0; got != want {
		t.Errorf("expected lap 1 time %.1f, got %.3f", want, got)
	}
}

// TestProject_SafetyCarPitLossReduced verifies the reduced stop cost under SC
func TestProject_SafetyCarPitLossReduced(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, flatOracle(110))
	states := []*models.DriverRaceState{mediumState("VER")}
	plan := models.PitPlan{Stops: map[string][]int{"VER": {2}}}

	records, err := engine.Project(ctx, states, plan, 1, 3, models.TrackSafetyCar)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	if got, want := records[1].LapTime, 110.0+18.0+1.0; got != want {
		t.Errorf("expected SC pit lap time %.1f, got %.3f", want, got)
	}
}

// TestProject_CompoundSwitchAtStop verifies per-stop compound changes
func TestProject_CompoundSwitchAtStop(t *testing.T) {
	ctx := context.Background()

	var sawHard bool
	oracle := strategy.LapTimeFunc(func(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error) {
		if compound == models.CompoundHard {
			sawHard = true
		}
		return 90, nil
	})

	engine := newTestEngine(t, oracle)
	states := []*models.DriverRaceState{mediumState("VER")}
	plan := models.PitPlan{
		Stops:     map[string][]int{"VER": {3}},
		Compounds: map[string][]models.Compound{"VER": {models.CompoundHard}},
	}

	if _, err := engine.Project(ctx, states, plan, 1, 5, models.TrackGreen); err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if !sawHard {
		t.Error("expected the oracle to see the hard compound after the stop")
	}
	if states[0].Compound != models.CompoundHard {
		t.Errorf("expected final compound HARD, got %s", states[0].Compound)
	}
}

// TestProject_EmptyField verifies the empty field failure mode
func TestProject_EmptyField(t *testing.T) {
	engine := newTestEngine(t, flatOracle(90))

	_, err := engine.Project(context.Background(), nil, models.PitPlan{}, 1, 10, models.TrackGreen)

	var emptyErr *strategy.EmptyFieldError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected EmptyFieldError, got %v", err)
	}
}

// TestProject_UnknownDriverInPlan verifies plans referencing unknown drivers are rejected
func TestProject_UnknownDriverInPlan(t *testing.T) {
	engine := newTestEngine(t, flatOracle(90))
	states := []*models.DriverRaceState{mediumState("VER")}
	plan := models.PitPlan{Stops: map[string][]int{"BOT": {3}}}

	_, err := engine.Project(context.Background(), states, plan, 1, 10, models.TrackGreen)

	var planErr *strategy.InvalidPlanError
	if !errors.As(err, &planErr) {
		t.Fatalf("expected InvalidPlanError, got %v", err)
	}
	if planErr.DriverID != "BOT" {
		t.Errorf("expected offending driver BOT, got %s", planErr.DriverID)
	}
}

// TestProject_PitLapOutsideRange verifies lap-range validation of plans
func TestProject_PitLapOutsideRange(t *testing.T) {
	engine := newTestEngine(t, flatOracle(90))

	for _, lap := range []int{0, 11} {
		states := []*models.DriverRaceState{mediumState("VER")}
		plan := models.PitPlan{Stops: map[string][]int{"VER": {lap}}}

		_, err := engine.Project(context.Background(), states, plan, 1, 10, models.TrackGreen)

		var planErr *strategy.InvalidPlanError
		if !errors.As(err, &planErr) {
			t.Fatalf("lap %d: expected InvalidPlanError, got %v", lap, err)
		}
		if planErr.Lap != lap {
			t.Errorf("expected offending lap %d, got %d", lap, planErr.Lap)
		}
	}
}

// TestProject_OracleRejectsBadValues verifies non-finite and non-positive
// predictions abort the projection instead of being clamped.
func TestProject_OracleRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"negative", -1.5},
		{"zero", 0},
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, flatOracle(tt.value))
			states := []*models.DriverRaceState{mediumState("VER")}

			_, err := engine.Project(context.Background(), states, models.PitPlan{}, 1, 5, models.TrackGreen)

			var oracleErr *strategy.OracleError
			if !errors.As(err, &oracleErr) {
				t.Fatalf("expected OracleError, got %v", err)
			}
			if oracleErr.DriverID != "VER" || oracleErr.Lap != 1 {
				t.Errorf("expected offending driver VER on lap 1, got %s lap %d", oracleErr.DriverID, oracleErr.Lap)
			}
		})
	}
}

// TestProject_OracleCallErrorPropagates verifies transport failures surface as OracleError
func TestProject_OracleCallErrorPropagates(t *testing.T) {
	sentinel := errors.New("model service unavailable")
	oracle := strategy.LapTimeFunc(func(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error) {
		return 0, sentinel
	})

	engine := newTestEngine(t, oracle)
	states := []*models.DriverRaceState{mediumState("VER")}

	_, err := engine.Project(context.Background(), states, models.PitPlan{}, 1, 5, models.TrackGreen)

	var oracleErr *strategy.OracleError
	if !errors.As(err, &oracleErr) {
		t.Fatalf("expected OracleError, got %v", err)
	}
	if !errors.Is(err, sentinel) {
		t.Error("expected the underlying oracle error to be wrapped")
	}
}
