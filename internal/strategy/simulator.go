package strategy

import (
	"context"
	"fmt"

	"github.com/apexsim/pitwall/internal/errors"
	"github.com/apexsim/pitwall/internal/logger"
	"github.com/apexsim/pitwall/internal/models"
)

// GridEntry is one starting slot of a simulated race. Compound is the
// starting tyre; it is kept across stops unless the pit plan names a
// different compound for a stop.
type GridEntry struct {
	DriverID string          `json:"driver_id"`
	Compound models.Compound `json:"compound"`
}

// RaceInput describes a full race simulation: grid order, race length and
// an explicit pit plan for every driver who stops.
type RaceInput struct {
	TotalLaps   int
	Grid        []GridEntry
	Plan        models.PitPlan
	TrackStatus models.TrackStatus
}

// RaceResult is a complete simulated race classification
type RaceResult struct {
	FinalClassification map[string]int     `json:"final_classification"`
	LapByLapPositions   []map[string]int   `json:"lap_by_lap_positions"`
	TotalPitStops       map[string]int     `json:"total_pit_stops"`
	FastestLap          *models.LapRecord  `json:"fastest_lap"`
	Summary             string             `json:"summary"`
	LapRecords          []models.LapRecord `json:"lap_records"`
}

// RaceSimulator runs a full multi-driver race to classification under
// explicit pit plans for all drivers.
type RaceSimulator struct {
	engine *ProjectionEngine
	cfg    Config
	log    logger.Logger
}

// NewRaceSimulator creates a RaceSimulator
func NewRaceSimulator(engine *ProjectionEngine, log logger.Logger) *RaceSimulator {
	return &RaceSimulator{
		engine: engine,
		cfg:    engine.Config(),
		log:    log,
	}
}

// Simulate runs the race from lap 1 to TotalLaps and returns the final
// classification, the per-lap position maps for playback, pit-stop counts,
// the fastest lap and a textual summary. Laps with a pit stop are excluded
// from the fastest-lap computation since they carry the pit loss.
func (s *RaceSimulator) Simulate(ctx context.Context, in RaceInput) (*RaceResult, error) {
	if in.TrackStatus == "" {
		in.TrackStatus = models.TrackGreen
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}

	plan := in.Plan
	plan.Normalize()

	states := make([]*models.DriverRaceState, len(in.Grid))
	for i, entry := range in.Grid {
		compound := entry.Compound
		if compound == "" {
			compound = models.CompoundMedium
		}
		states[i] = &models.DriverRaceState{
			DriverID: entry.DriverID,
			Position: i + 1,
			Compound: compound,
		}
	}

	records, err := s.engine.Project(ctx, states, plan, 1, in.TotalLaps, in.TrackStatus)
	if err != nil {
		return nil, err
	}

	result := &RaceResult{
		FinalClassification: make(map[string]int, len(states)),
		LapByLapPositions:   make([]map[string]int, in.TotalLaps),
		TotalPitStops:       make(map[string]int, len(states)),
		LapRecords:          records,
	}

	for _, st := range states {
		result.FinalClassification[st.DriverID] = st.Position
		result.TotalPitStops[st.DriverID] = plan.StopCount(st.DriverID)
	}

	for i := range result.LapByLapPositions {
		result.LapByLapPositions[i] = make(map[string]int, len(states))
	}
	for _, rec := range records {
		result.LapByLapPositions[rec.Lap-1][rec.DriverID] = rec.Position
	}

	result.FastestLap = fastestLap(records)
	result.Summary = s.summarize(in, states, result.FastestLap)

	s.log.Debug("race simulated",
		"laps", in.TotalLaps,
		"drivers", len(in.Grid),
		"winner", winnerOf(states))

	return result, nil
}

// fastestLap returns the non-pit lap with the minimum lap time; earlier laps
// win ties. Nil only when every recorded lap was a pit lap.
func fastestLap(records []models.LapRecord) *models.LapRecord {
	var fastest *models.LapRecord
	for i := range records {
		rec := &records[i]
		if rec.Pitted {
			continue
		}
		if fastest == nil || rec.LapTime < fastest.LapTime {
			fastest = rec
		}
	}
	if fastest == nil {
		return nil
	}
	cp := *fastest
	return &cp
}

func winnerOf(states []*models.DriverRaceState) string {
	for _, st := range states {
		if st.Position == 1 {
			return st.DriverID
		}
	}
	return ""
}

func (s *RaceSimulator) summarize(in RaceInput, states []*models.DriverRaceState, fastest *models.LapRecord) string {
	summary := fmt.Sprintf("%s wins! Simulated %d laps with %d drivers.", winnerOf(states), in.TotalLaps, len(states))
	if fastest != nil {
		summary += fmt.Sprintf(" Fastest lap %.3fs by %s on lap %d.", fastest.LapTime, fastest.DriverID, fastest.Lap)
	}
	return summary
}

func (s *RaceSimulator) validate(in RaceInput) error {
	if len(in.Grid) == 0 {
		return &EmptyFieldError{}
	}
	switch {
	case len(in.Grid) > s.cfg.MaxDrivers:
		return errors.Validationf("%d drivers exceeds the maximum field size of %d", len(in.Grid), s.cfg.MaxDrivers)
	case in.TotalLaps < 1:
		return errors.Validationf("total laps %d must be at least 1", in.TotalLaps)
	case in.TotalLaps > s.cfg.MaxLaps:
		return errors.Validationf("total laps %d exceeds the maximum of %d", in.TotalLaps, s.cfg.MaxLaps)
	case !in.TrackStatus.Valid():
		return errors.Validation("unknown track status")
	}

	seen := make(map[string]bool, len(in.Grid))
	for _, entry := range in.Grid {
		if entry.DriverID == "" {
			return errors.Validation("driver id is required")
		}
		if seen[entry.DriverID] {
			return errors.Validationf("duplicate driver %s", entry.DriverID)
		}
		seen[entry.DriverID] = true
		if entry.Compound != "" && !entry.Compound.Valid() {
			return errors.Validationf("unknown tyre compound for %s", entry.DriverID)
		}
	}
	return nil
}
