package handlers

import (
	"github.com/apexsim/pitwall/internal/models"
	"github.com/apexsim/pitwall/internal/services"
	"github.com/apexsim/pitwall/internal/strategy"
)

// UndercutRequest is the body for an undercut evaluation
type UndercutRequest struct {
	Attacker         string  `json:"attacker"`
	Defender         string  `json:"defender"`
	CurrentLap       int     `json:"current_lap"`
	TotalLaps        int     `json:"total_laps"`
	GapSeconds       float64 `json:"gap_seconds"`
	TyreAgeAttacker  int     `json:"tyre_age_attacker"`
	TyreAgeDefender  int     `json:"tyre_age_defender"`
	AttackerCompound string  `json:"attacker_compound"`
	DefenderCompound string  `json:"defender_compound"`
	TrackStatus      string  `json:"track_status"`
}

// ToInput converts the request into an engine input, applying defaults for
// omitted compounds and track status
func (req *UndercutRequest) ToInput() (strategy.UndercutInput, error) {
	attacker, err := models.ParseCompound(req.AttackerCompound)
	if err != nil {
		return strategy.UndercutInput{}, ValidationError(err.Error())
	}
	defender, err := models.ParseCompound(req.DefenderCompound)
	if err != nil {
		return strategy.UndercutInput{}, ValidationError(err.Error())
	}
	status, err := models.ParseTrackStatus(req.TrackStatus)
	if err != nil {
		return strategy.UndercutInput{}, ValidationError(err.Error())
	}

	return strategy.UndercutInput{
		Attacker:         req.Attacker,
		Defender:         req.Defender,
		CurrentLap:       req.CurrentLap,
		TotalLaps:        req.TotalLaps,
		GapSeconds:       req.GapSeconds,
		TyreAgeAttacker:  req.TyreAgeAttacker,
		TyreAgeDefender:  req.TyreAgeDefender,
		AttackerCompound: attacker,
		DefenderCompound: defender,
		TrackStatus:      status,
	}, nil
}

// SafetyCarDriverRequest is one car's observed state in a safety-car request
type SafetyCarDriverRequest struct {
	DriverID    string  `json:"driver_id"`
	Position    int     `json:"position"`
	TyreAge     int     `json:"tyre_age"`
	Compound    string  `json:"compound"`
	GapToLeader float64 `json:"gap_to_leader"`
	GapToNext   float64 `json:"gap_to_next"`
}

// SafetyCarRequest is the body for a safety-car advisory
type SafetyCarRequest struct {
	SafetyCarLap int                      `json:"safety_car_lap"`
	TotalLaps    int                      `json:"total_laps"`
	TrackStatus  string                   `json:"track_status"`
	TrackTempC   float64                  `json:"track_temp_c"`
	Drivers      []SafetyCarDriverRequest `json:"drivers"`
}

// ToInput converts the request into an engine input. An omitted track status
// defaults to SC since this endpoint only makes sense behind one.
func (req *SafetyCarRequest) ToInput() (strategy.SafetyCarInput, error) {
	status := models.TrackSafetyCar
	if req.TrackStatus != "" {
		parsed, err := models.ParseTrackStatus(req.TrackStatus)
		if err != nil {
			return strategy.SafetyCarInput{}, ValidationError(err.Error())
		}
		status = parsed
	}

	drivers := make([]strategy.SafetyCarDriverState, len(req.Drivers))
	for i, d := range req.Drivers {
		compound, err := models.ParseCompound(d.Compound)
		if err != nil {
			return strategy.SafetyCarInput{}, ValidationError(err.Error())
		}
		drivers[i] = strategy.SafetyCarDriverState{
			DriverID:    d.DriverID,
			Position:    d.Position,
			TyreAge:     d.TyreAge,
			Compound:    compound,
			GapToLeader: d.GapToLeader,
			GapToNext:   d.GapToNext,
		}
	}

	return strategy.SafetyCarInput{
		SafetyCarLap: req.SafetyCarLap,
		TotalLaps:    req.TotalLaps,
		TrackStatus:  status,
		TrackTempC:   req.TrackTempC,
		Drivers:      drivers,
	}, nil
}

// GridEntryRequest is one starting slot of a race simulation request
type GridEntryRequest struct {
	DriverID string `json:"driver_id"`
	Compound string `json:"compound"`
}

// PitPlanRequest is the explicit per-driver pit plan of a race simulation
type PitPlanRequest struct {
	Stops     map[string][]int    `json:"stops"`
	Compounds map[string][]string `json:"compounds,omitempty"`
}

// RaceSimulationRequest is the body for a full race simulation
type RaceSimulationRequest struct {
	SessionID   *int64             `json:"session_id,omitempty"`
	TotalLaps   int                `json:"total_laps"`
	Grid        []GridEntryRequest `json:"grid"`
	PitPlan     PitPlanRequest     `json:"pit_plan"`
	TrackStatus string             `json:"track_status"`
}

// ToRequest converts the request into a service-level race request
func (req *RaceSimulationRequest) ToRequest() (services.RaceRequest, error) {
	grid := make([]strategy.GridEntry, len(req.Grid))
	for i, entry := range req.Grid {
		compound, err := models.ParseCompound(entry.Compound)
		if err != nil {
			return services.RaceRequest{}, ValidationError(err.Error())
		}
		grid[i] = strategy.GridEntry{DriverID: entry.DriverID, Compound: compound}
	}

	plan := models.PitPlan{Stops: req.PitPlan.Stops}
	if len(req.PitPlan.Compounds) > 0 {
		plan.Compounds = make(map[string][]models.Compound, len(req.PitPlan.Compounds))
		for driverID, names := range req.PitPlan.Compounds {
			compounds := make([]models.Compound, len(names))
			for i, name := range names {
				compound, err := models.ParseCompound(name)
				if err != nil {
					return services.RaceRequest{}, ValidationError(err.Error())
				}
				compounds[i] = compound
			}
			plan.Compounds[driverID] = compounds
		}
	}

	status, err := models.ParseTrackStatus(req.TrackStatus)
	if err != nil {
		return services.RaceRequest{}, ValidationError(err.Error())
	}

	return services.RaceRequest{
		SessionID: req.SessionID,
		Input: strategy.RaceInput{
			TotalLaps:   req.TotalLaps,
			Grid:        grid,
			Plan:        plan,
			TrackStatus: status,
		},
	}, nil
}

// CreateSessionRequest is the body for creating a race session
type CreateSessionRequest struct {
	Name      string `json:"name"`
	Track     string `json:"track"`
	TotalLaps int    `json:"total_laps"`
}
