package strategy

import (
	"context"
	"math"

	"github.com/apexsim/pitwall/internal/errors"
	"github.com/apexsim/pitwall/internal/logger"
	"github.com/apexsim/pitwall/internal/models"
)

// UndercutInput describes an attacker/defender pit-timing duel
type UndercutInput struct {
	Attacker         string
	Defender         string
	CurrentLap       int
	TotalLaps        int
	GapSeconds       float64
	TyreAgeAttacker  int
	TyreAgeDefender  int
	AttackerCompound models.Compound
	DefenderCompound models.Compound
	TrackStatus      models.TrackStatus
}

// UndercutResult is the outcome of an undercut evaluation. TimeDelta is the
// signed gap at the end of the winning scenario, positive when the attacker
// ends ahead. LapByLap is the full trace of that scenario.
type UndercutResult struct {
	TimeDelta           float64            `json:"time_delta"`
	OptimalPitLap       int                `json:"optimal_pit_lap"`
	SuccessProbability  float64            `json:"success_probability"`
	AttackerOutlap      float64            `json:"attacker_outlap"`
	DefenderResponseLap int                `json:"defender_response_lap"`
	NetPositions        map[string]int     `json:"net_positions"`
	LapByLap            []models.LapRecord `json:"lap_by_lap"`
	ScenariosEvaluated  int                `json:"scenarios_evaluated"`
}

// UndercutEvaluator compares attacker-versus-defender pit timing scenarios
// using the projection engine. For every candidate attacker pit lap in the
// decision window the defender is assumed to respond a fixed number of laps
// later; the scenario that gains the attacker the most time wins.
type UndercutEvaluator struct {
	engine   *ProjectionEngine
	overtake OvertakeModel
	cfg      Config
	log      logger.Logger
}

// NewUndercutEvaluator creates an UndercutEvaluator
func NewUndercutEvaluator(engine *ProjectionEngine, overtake OvertakeModel, log logger.Logger) *UndercutEvaluator {
	return &UndercutEvaluator{
		engine:   engine,
		overtake: overtake,
		cfg:      engine.Config(),
		log:      log,
	}
}

// Evaluate runs every candidate scenario and returns the best one for the
// attacker. The defender starts GapSeconds ahead on the road.
func (u *UndercutEvaluator) Evaluate(ctx context.Context, in UndercutInput) (*UndercutResult, error) {
	if err := u.validate(in); err != nil {
		return nil, err
	}

	fromLap := in.CurrentLap
	toLap := in.CurrentLap + u.cfg.UndercutLookahead - 1
	if toLap > in.TotalLaps {
		toLap = in.TotalLaps
	}
	lastCandidate := in.CurrentLap + u.cfg.UndercutWindow - 1
	if lastCandidate > toLap {
		lastCandidate = toLap
	}

	var (
		best          *UndercutResult
		bestAttacker  *models.DriverRaceState
		bestDefender  *models.DriverRaceState
		bestTimeDelta = math.Inf(-1)
	)
	scenarios := 0

	for candidate := fromLap; candidate <= lastCandidate; candidate++ {
		responseLap := candidate + u.cfg.ResponseDelayLaps
		if responseLap > toLap {
			responseLap = toLap
		}

		defender := &models.DriverRaceState{
			DriverID: in.Defender,
			Lap:      in.CurrentLap - 1,
			Position: 1,
			Compound: in.DefenderCompound,
			TyreAge:  in.TyreAgeDefender,
		}
		attacker := &models.DriverRaceState{
			DriverID:       in.Attacker,
			Lap:            in.CurrentLap - 1,
			Position:       2,
			CumulativeTime: in.GapSeconds,
			Compound:       in.AttackerCompound,
			TyreAge:        in.TyreAgeAttacker,
		}

		plan := models.PitPlan{Stops: map[string][]int{
			in.Attacker: {candidate},
			in.Defender: {responseLap},
		}}

		records, err := u.engine.Project(ctx, []*models.DriverRaceState{defender, attacker}, plan, fromLap, toLap, in.TrackStatus)
		if err != nil {
			return nil, err
		}
		scenarios++

		timeDelta := defender.CumulativeTime - attacker.CumulativeTime
		if timeDelta > bestTimeDelta {
			bestTimeDelta = timeDelta
			best = &UndercutResult{
				TimeDelta:           timeDelta,
				OptimalPitLap:       candidate,
				AttackerOutlap:      outlapTime(records, in.Attacker, candidate),
				DefenderResponseLap: responseLap,
				LapByLap:            records,
			}
			bestAttacker = attacker
			bestDefender = defender
		}
	}

	best.ScenariosEvaluated = scenarios
	best.NetPositions = map[string]int{
		in.Attacker: bestAttacker.Position,
		in.Defender: bestDefender.Position,
	}

	probability, err := u.successProbability(ctx, in, best, bestAttacker, bestDefender, toLap)
	if err != nil {
		return nil, err
	}
	best.SuccessProbability = probability

	u.log.Debug("undercut evaluated",
		"attacker", in.Attacker,
		"defender", in.Defender,
		"optimal_pit_lap", best.OptimalPitLap,
		"time_delta", best.TimeDelta,
		"scenarios", scenarios)

	return best, nil
}

// successProbability hands the winning scenario's end conditions to the
// overtake probability collaborator.
func (u *UndercutEvaluator) successProbability(ctx context.Context, in UndercutInput, best *UndercutResult, attacker, defender *models.DriverRaceState, finalLap int) (float64, error) {
	finalGap := attacker.CumulativeTime - defender.CumulativeTime // positive: attacker still behind
	lapsRun := finalLap - in.CurrentLap + 1
	closingRate := (in.GapSeconds - finalGap) / float64(lapsRun)
	tyreAdvantage := defender.TyreAge - attacker.TyreAge
	drsAvailable := finalGap > 0 && finalGap < 1.0

	probability, err := u.overtake.PredictOvertakeProbability(ctx, finalGap, closingRate, tyreAdvantage, drsAvailable, finalLap)
	if err != nil {
		return 0, &OracleError{DriverID: in.Attacker, Lap: finalLap, Err: err}
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return 0, &OracleError{DriverID: in.Attacker, Lap: finalLap, Value: probability}
	}
	return probability, nil
}

func (u *UndercutEvaluator) validate(in UndercutInput) error {
	switch {
	case in.Attacker == "" || in.Defender == "":
		return errors.Validation("attacker and defender are required")
	case in.Attacker == in.Defender:
		return errors.Validation("attacker and defender must be different drivers")
	case in.CurrentLap < 1:
		return errors.Validationf("current lap %d must be at least 1", in.CurrentLap)
	case in.TotalLaps < in.CurrentLap:
		return errors.Validationf("total laps %d must not be before current lap %d", in.TotalLaps, in.CurrentLap)
	case in.TotalLaps > u.cfg.MaxLaps:
		return errors.Validationf("total laps %d exceeds the maximum of %d", in.TotalLaps, u.cfg.MaxLaps)
	case in.GapSeconds <= 0:
		return errors.Validationf("gap %.3fs must be positive", in.GapSeconds)
	case in.TyreAgeAttacker < 0 || in.TyreAgeDefender < 0:
		return errors.Validation("tyre ages must not be negative")
	case !in.AttackerCompound.Valid() || !in.DefenderCompound.Valid():
		return errors.Validation("unknown tyre compound")
	case !in.TrackStatus.Valid():
		return errors.Validation("unknown track status")
	}
	return nil
}

// outlapTime returns the attacker's lap time on their pit lap, which carries
// the pit loss and the first warm-up penalty combined.
func outlapTime(records []models.LapRecord, driverID string, pitLap int) float64 {
	for _, rec := range records {
		if rec.DriverID == driverID && rec.Lap == pitLap {
			return rec.LapTime
		}
	}
	return 0
}
