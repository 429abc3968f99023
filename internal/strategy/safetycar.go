package strategy

import (
	"context"
	"fmt"
	"sort"

	"github.com/apexsim/pitwall/internal/errors"
	"github.com/apexsim/pitwall/internal/logger"
	"github.com/apexsim/pitwall/internal/models"
)

// SafetyCarDriverState is the observed state of one car when the safety car
// comes out. GapToLeader seeds the projection's cumulative time, so the
// bunched field is represented by small gaps.
type SafetyCarDriverState struct {
	DriverID    string          `json:"driver_id"`
	Position    int             `json:"position"`
	TyreAge     int             `json:"tyre_age"`
	Compound    models.Compound `json:"compound"`
	GapToLeader float64         `json:"gap_to_leader"`
	GapToNext   float64         `json:"gap_to_next"`
}

// SafetyCarInput describes a safety-car scenario for the whole field
type SafetyCarInput struct {
	SafetyCarLap int
	TotalLaps    int
	TrackStatus  models.TrackStatus
	TrackTempC   float64
	Drivers      []SafetyCarDriverState
}

// SafetyCarAnalysis is the complete advisory output for one scenario
type SafetyCarAnalysis struct {
	SafetyCarLap         int                 `json:"safety_car_lap"`
	LapsRemaining        int                 `json:"laps_remaining"`
	DriversWhoShouldPit  []string            `json:"drivers_who_should_pit"`
	DriversWhoShouldStay []string            `json:"drivers_who_should_stay"`
	Decisions            []models.Decision   `json:"decisions"`
	FieldSummary         models.FieldSummary `json:"field_summary"`
}

// SafetyCarAdvisor compares pit-now versus stay-out for every car in the
// field. Each driver's choice is isolated: their two projections hold every
// other driver on a no-stop plan, so the predicted positions measure only
// that driver's decision.
type SafetyCarAdvisor struct {
	engine *ProjectionEngine
	tyres  *TyreModel
	cfg    Config
	log    logger.Logger
}

// NewSafetyCarAdvisor creates a SafetyCarAdvisor
func NewSafetyCarAdvisor(engine *ProjectionEngine, log logger.Logger) *SafetyCarAdvisor {
	return &SafetyCarAdvisor{
		engine: engine,
		tyres:  engine.Tyres(),
		cfg:    engine.Config(),
		log:    log,
	}
}

// Advise produces a Decision per driver plus a field summary
func (a *SafetyCarAdvisor) Advise(ctx context.Context, in SafetyCarInput) (*SafetyCarAnalysis, error) {
	if err := a.validate(in); err != nil {
		return nil, err
	}

	lapsRemaining := in.TotalLaps - in.SafetyCarLap
	trackTemp := in.TrackTempC
	if trackTemp == 0 {
		trackTemp = 30.0
	}

	drivers := make([]SafetyCarDriverState, len(in.Drivers))
	copy(drivers, in.Drivers)
	sort.Slice(drivers, func(i, j int) bool { return drivers[i].Position < drivers[j].Position })

	var totalAge int
	for _, d := range drivers {
		totalAge += d.TyreAge
	}
	avgAge := float64(totalAge) / float64(len(drivers))

	seeds := make([]models.DriverRaceState, len(drivers))
	for i, d := range drivers {
		seeds[i] = models.DriverRaceState{
			DriverID:       d.DriverID,
			Lap:            in.SafetyCarLap - 1,
			Position:       d.Position,
			CumulativeTime: d.GapToLeader,
			Compound:       d.Compound,
			TyreAge:        d.TyreAge,
		}
	}

	// One shared stay-out baseline; pitting scenarios reuse it per driver.
	baseline, err := a.finalPositions(ctx, seeds, models.PitPlan{}, in)
	if err != nil {
		return nil, err
	}

	analysis := &SafetyCarAnalysis{
		SafetyCarLap:  in.SafetyCarLap,
		LapsRemaining: lapsRemaining,
		Decisions:     make([]models.Decision, 0, len(drivers)),
	}

	for _, d := range drivers {
		plan := models.PitPlan{Stops: map[string][]int{d.DriverID: {in.SafetyCarLap}}}
		pitted, err := a.finalPositions(ctx, seeds, plan, in)
		if err != nil {
			return nil, err
		}

		decision := a.decide(d, pitted[d.DriverID], baseline[d.DriverID], avgAge, lapsRemaining, trackTemp, in.TrackStatus)
		analysis.Decisions = append(analysis.Decisions, decision)

		switch decision.Recommendation {
		case models.RecommendPit:
			analysis.DriversWhoShouldPit = append(analysis.DriversWhoShouldPit, d.DriverID)
		case models.RecommendStayOut:
			analysis.DriversWhoShouldStay = append(analysis.DriversWhoShouldStay, d.DriverID)
		}
	}

	analysis.FieldSummary = a.summarize(drivers, avgAge, lapsRemaining, in.TrackStatus)

	a.log.Debug("safety car scenario analyzed",
		"safety_car_lap", in.SafetyCarLap,
		"laps_remaining", lapsRemaining,
		"should_pit", len(analysis.DriversWhoShouldPit),
		"should_stay", len(analysis.DriversWhoShouldStay))

	return analysis, nil
}

// finalPositions projects the field from the safety-car lap to the end under
// the given plan and returns each driver's final position.
func (a *SafetyCarAdvisor) finalPositions(ctx context.Context, seeds []models.DriverRaceState, plan models.PitPlan, in SafetyCarInput) (map[string]int, error) {
	states := cloneStates(seeds)
	if _, err := a.engine.Project(ctx, states, plan, in.SafetyCarLap, in.TotalLaps, in.TrackStatus); err != nil {
		return nil, err
	}
	positions := make(map[string]int, len(states))
	for _, st := range states {
		positions[st.DriverID] = st.Position
	}
	return positions, nil
}

func (a *SafetyCarAdvisor) decide(d SafetyCarDriverState, posIfPit, posIfStay int, avgAge float64, lapsRemaining int, trackTemp float64, status models.TrackStatus) models.Decision {
	posDelta := posIfStay - posIfPit // positive: pitting is better
	ageDelta := float64(d.TyreAge) - avgAge

	var rec models.Recommendation
	switch {
	case posDelta >= a.cfg.MaterialityPositions:
		rec = models.RecommendPit
	case -posDelta >= a.cfg.MaterialityPositions:
		rec = models.RecommendStayOut
	default:
		rec = models.RecommendRisky
	}

	decision := models.Decision{
		DriverID:                d.DriverID,
		CurrentPosition:         d.Position,
		Recommendation:          rec,
		PredictedPositionIfPit:  posIfPit,
		PredictedPositionIfStay: posIfStay,
		PositionGainIfPit:       max(0, d.Position-posIfPit),
		PositionLossIfPit:       max(0, posIfPit-d.Position),
		TyreAdvantage:           int(avgAge), // fresh tyre after the stop: avg field age minus zero
		Confidence:              a.confidence(rec, posDelta, ageDelta, lapsRemaining),
		Reasoning:               a.reasonFor(rec, d, posIfPit, posIfStay, ageDelta, lapsRemaining, status),
	}
	if rec == models.RecommendPit {
		decision.RecommendedCompound = a.tyres.RecommendCompound(lapsRemaining, trackTemp)
	}
	return decision
}

// confidence scales with the magnitude of the predicted position delta;
// near-zero deltas stay close to a coin flip. Tyre-age distance from the
// field average sharpens a consistent recommendation.
func (a *SafetyCarAdvisor) confidence(rec models.Recommendation, posDelta int, ageDelta float64, lapsRemaining int) float64 {
	delta := posDelta
	if delta < 0 {
		delta = -delta
	}
	if delta > 4 {
		delta = 4
	}

	conf := 0.35 + 0.12*float64(delta)
	switch rec {
	case models.RecommendPit:
		if ageDelta > 0 {
			conf += ageDelta / 60.0
		}
		conf += float64(lapsRemaining) / 200.0
	case models.RecommendStayOut:
		if ageDelta < 0 {
			conf += -ageDelta / 60.0
		}
	}

	if conf > 0.95 {
		conf = 0.95
	}
	if conf < 0.3 {
		conf = 0.3
	}
	return conf
}

// reasonFor templates a one-sentence explanation citing the dominant factor
func (a *SafetyCarAdvisor) reasonFor(rec models.Recommendation, d SafetyCarDriverState, posIfPit, posIfStay int, ageDelta float64, lapsRemaining int, status models.TrackStatus) string {
	switch rec {
	case models.RecommendPit:
		if ageDelta >= 8 {
			return fmt.Sprintf("tyres %d laps older than the field average; pitting predicts P%d versus P%d staying out", int(ageDelta), posIfPit, posIfStay)
		}
		if status.IsSafetyCar() {
			return fmt.Sprintf("pit loss drops to %.0fs under the safety car; pitting predicts P%d versus P%d staying out", a.cfg.SCPitLossSeconds, posIfPit, posIfStay)
		}
		return fmt.Sprintf("%d laps remain to use the fresh-tyre advantage; pitting predicts P%d versus P%d staying out", lapsRemaining, posIfPit, posIfStay)
	case models.RecommendStayOut:
		if ageDelta <= -5 {
			return fmt.Sprintf("tyres %d laps fresher than the field average; staying out predicts P%d versus P%d pitting", int(-ageDelta), posIfStay, posIfPit)
		}
		return fmt.Sprintf("track position is worth more with %d laps left; staying out predicts P%d versus P%d pitting", lapsRemaining, posIfStay, posIfPit)
	default:
		return fmt.Sprintf("projected positions are within the margin of error (P%d pitting versus P%d staying out)", posIfPit, posIfStay)
	}
}

// summarize aggregates the field. The pit window is advantageous when the
// laps remaining exceed the laps a fresh tyre needs to amortize the reduced
// pit loss against the field's average tyre age.
func (a *SafetyCarAdvisor) summarize(drivers []SafetyCarDriverState, avgAge float64, lapsRemaining int, status models.TrackStatus) models.FieldSummary {
	summary := models.FieldSummary{
		TotalDrivers:  len(drivers),
		AvgTyreAge:    avgAge,
		LapsRemaining: lapsRemaining,
	}

	var totalDeg float64
	for _, d := range drivers {
		if float64(d.TyreAge) > avgAge+5 {
			summary.DriversOnOldTyres++
		}
		if d.TyreAge < 5 {
			summary.DriversOnFreshTyres++
		}
		totalDeg += a.tyres.DegradationRate(d.Compound)
	}

	paceAdvantage := avgAge * totalDeg / float64(len(drivers))
	if paceAdvantage > 0 {
		amortization := a.tyres.PitLoss(status) / paceAdvantage
		summary.PitWindowAdvantage = float64(lapsRemaining) > amortization
	}

	return summary
}

func (a *SafetyCarAdvisor) validate(in SafetyCarInput) error {
	if len(in.Drivers) == 0 {
		return &EmptyFieldError{}
	}
	switch {
	case len(in.Drivers) > a.cfg.MaxDrivers:
		return errors.Validationf("%d drivers exceeds the maximum field size of %d", len(in.Drivers), a.cfg.MaxDrivers)
	case in.SafetyCarLap < 1:
		return errors.Validationf("safety car lap %d must be at least 1", in.SafetyCarLap)
	case in.TotalLaps <= in.SafetyCarLap:
		return errors.Validationf("total laps %d must be after the safety car lap %d", in.TotalLaps, in.SafetyCarLap)
	case in.TotalLaps > a.cfg.MaxLaps:
		return errors.Validationf("total laps %d exceeds the maximum of %d", in.TotalLaps, a.cfg.MaxLaps)
	case !in.TrackStatus.Valid():
		return errors.Validation("unknown track status")
	}

	seen := make(map[string]bool, len(in.Drivers))
	for _, d := range in.Drivers {
		if d.DriverID == "" {
			return errors.Validation("driver id is required")
		}
		if seen[d.DriverID] {
			return errors.Validationf("duplicate driver %s", d.DriverID)
		}
		seen[d.DriverID] = true
		if d.TyreAge < 0 {
			return errors.Validationf("tyre age for %s must not be negative", d.DriverID)
		}
		if !d.Compound.Valid() {
			return errors.Validationf("unknown tyre compound for %s", d.DriverID)
		}
	}
	return nil
}
