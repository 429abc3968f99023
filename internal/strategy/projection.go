package strategy

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/apexsim/pitwall/internal/errors"
	"github.com/apexsim/pitwall/internal/logger"
	"github.com/apexsim/pitwall/internal/models"
)

// ProjectionEngine advances a set of driver states lap-by-lap under a pit
// plan, producing a full position trace. It is the shared primitive behind
// the undercut evaluator, the safety-car advisor and the race simulator.
//
// A projection is a pure, synchronous computation: the engine holds no
// mutable state of its own and a single engine value is safe for concurrent
// use, as long as each call gets its own states.
type ProjectionEngine struct {
	cfg    Config
	tyres  *TyreModel
	oracle LapTimeOracle
	log    logger.Logger
}

// NewProjectionEngine creates a ProjectionEngine
func NewProjectionEngine(cfg Config, tyres *TyreModel, oracle LapTimeOracle, log logger.Logger) *ProjectionEngine {
	return &ProjectionEngine{
		cfg:    cfg,
		tyres:  tyres,
		oracle: oracle,
		log:    log,
	}
}

// Tyres returns the engine's tyre model
func (e *ProjectionEngine) Tyres() *TyreModel {
	return e.tyres
}

// Config returns the engine's configuration
func (e *ProjectionEngine) Config() Config {
	return e.cfg
}

// Project simulates laps fromLap..toLap for every state, mutating the states
// in place, and returns one LapRecord per driver per lap ordered by lap then
// position. Every planned pit lap must lie within [fromLap, toLap].
//
// Per lap, a pitting driver pays the pit loss for the current track status
// and restarts their tyre age at zero; everyone else ages one lap. Positions
// are recomputed after each lap by ascending cumulative time, dead heats
// broken by driver ID ordering (the model carries no finer resolution, so
// the tie-break is deterministic rather than meaningful).
func (e *ProjectionEngine) Project(ctx context.Context, states []*models.DriverRaceState, plan models.PitPlan, fromLap, toLap int, status models.TrackStatus) ([]models.LapRecord, error) {
	if len(states) == 0 {
		return nil, &EmptyFieldError{}
	}
	if fromLap < 1 || toLap < fromLap {
		return nil, errors.Validationf("invalid lap range [%d, %d]", fromLap, toLap)
	}

	known := make(map[string]*models.DriverRaceState, len(states))
	for _, st := range states {
		known[st.DriverID] = st
	}

	pits, err := buildPitSchedule(plan, known, fromLap, toLap)
	if err != nil {
		return nil, err
	}

	// Seed positions from slice order when the caller left them unset.
	for i, st := range states {
		if st.Position == 0 {
			st.Position = i + 1
		}
	}

	records := make([]models.LapRecord, 0, len(states)*(toLap-fromLap+1))
	stopsTaken := make(map[string]int, len(states))

	for lap := fromLap; lap <= toLap; lap++ {
		for _, st := range states {
			pitting := pits[st.DriverID][lap]

			if pitting {
				st.PitCount++
				st.TyreAge = 0
				if next, ok := nextCompound(plan, st.DriverID, stopsTaken[st.DriverID]); ok {
					st.Compound = next
				}
				stopsTaken[st.DriverID]++
			} else {
				st.TyreAge++
			}

			base, err := e.oracle.PredictLapTime(ctx, st.DriverID, st.TyreAge, st.Compound, status, st.Position)
			if err != nil {
				return nil, &OracleError{DriverID: st.DriverID, Lap: lap, Err: err}
			}
			if math.IsNaN(base) || math.IsInf(base, 0) || base <= 0 {
				return nil, &OracleError{DriverID: st.DriverID, Lap: lap, Value: base}
			}

			lapTime := base + e.tyres.LapPenalty(st.TyreAge, st.PitCount > 0)
			if pitting {
				lapTime += e.tyres.PitLoss(status)
			}

			st.CumulativeTime += lapTime
			st.Lap = lap

			records = append(records, models.LapRecord{
				Lap:            lap,
				DriverID:       st.DriverID,
				LapTime:        lapTime,
				CumulativeTime: st.CumulativeTime,
				TyreAge:        st.TyreAge,
				Pitted:         pitting,
			})
		}

		rankPositions(states)

		// Backfill this lap's records with the recomputed positions and
		// keep them ordered by position within the lap.
		lapRecords := records[len(records)-len(states):]
		for i := range lapRecords {
			lapRecords[i].Position = known[lapRecords[i].DriverID].Position
		}
		sort.Slice(lapRecords, func(i, j int) bool {
			return lapRecords[i].Position < lapRecords[j].Position
		})
	}

	return records, nil
}

// buildPitSchedule validates a plan against the projected range and the
// known drivers, returning per-driver lap sets.
func buildPitSchedule(plan models.PitPlan, known map[string]*models.DriverRaceState, fromLap, toLap int) (map[string]map[int]bool, error) {
	pits := make(map[string]map[int]bool, len(plan.Stops))
	for driverID, laps := range plan.Stops {
		if _, ok := known[driverID]; !ok {
			return nil, &InvalidPlanError{DriverID: driverID, Reason: "unknown driver"}
		}
		set := make(map[int]bool, len(laps))
		for _, lap := range laps {
			if lap < fromLap || lap > toLap {
				return nil, &InvalidPlanError{
					DriverID: driverID,
					Lap:      lap,
					Reason:   fmt.Sprintf("is outside the projected range [%d, %d]", fromLap, toLap),
				}
			}
			set[lap] = true
		}
		pits[driverID] = set
	}
	return pits, nil
}

// nextCompound returns the compound for a driver's n-th stop, if the plan
// names one.
func nextCompound(plan models.PitPlan, driverID string, stop int) (models.Compound, bool) {
	compounds := plan.Compounds[driverID]
	if stop >= len(compounds) {
		return "", false
	}
	c := compounds[stop]
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// rankPositions recomputes every state's position by ascending cumulative
// time, ties broken by driver ID.
func rankPositions(states []*models.DriverRaceState) {
	ranked := make([]*models.DriverRaceState, len(states))
	copy(ranked, states)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CumulativeTime != ranked[j].CumulativeTime {
			return ranked[i].CumulativeTime < ranked[j].CumulativeTime
		}
		return ranked[i].DriverID < ranked[j].DriverID
	})
	for pos, st := range ranked {
		st.Position = pos + 1
	}
}

// cloneStates deep-copies seed states into fresh mutable projection states
func cloneStates(in []models.DriverRaceState) []*models.DriverRaceState {
	out := make([]*models.DriverRaceState, len(in))
	for i := range in {
		st := in[i]
		out[i] = &st
	}
	return out
}
