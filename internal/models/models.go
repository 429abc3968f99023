package models

import (
	"fmt"
	"sort"
	"time"
)

// Compound is a tyre compound. Each compound carries a distinct pace and
// degradation profile in the lap-time model.
type Compound string

const (
	CompoundSoft         Compound = "SOFT"
	CompoundMedium       Compound = "MEDIUM"
	CompoundHard         Compound = "HARD"
	CompoundIntermediate Compound = "INTERMEDIATE"
	CompoundWet          Compound = "WET"
)

// Valid reports whether c is a known compound
func (c Compound) Valid() bool {
	switch c {
	case CompoundSoft, CompoundMedium, CompoundHard, CompoundIntermediate, CompoundWet:
		return true
	}
	return false
}

// ParseCompound converts a string to a Compound, defaulting empty input to MEDIUM
func ParseCompound(s string) (Compound, error) {
	if s == "" {
		return CompoundMedium, nil
	}
	c := Compound(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown tyre compound: %q", s)
	}
	return c, nil
}

// TrackStatus is the race-control state of the track
type TrackStatus string

const (
	TrackGreen            TrackStatus = "GREEN"
	TrackYellow           TrackStatus = "YELLOW"
	TrackSafetyCar        TrackStatus = "SC"
	TrackVirtualSafetyCar TrackStatus = "VSC"
)

// Valid reports whether t is a known track status
func (t TrackStatus) Valid() bool {
	switch t {
	case TrackGreen, TrackYellow, TrackSafetyCar, TrackVirtualSafetyCar:
		return true
	}
	return false
}

// IsSafetyCar reports whether the field is running behind a (virtual) safety
// car, which reduces the relative cost of a pit stop.
func (t TrackStatus) IsSafetyCar() bool {
	return t == TrackSafetyCar || t == TrackVirtualSafetyCar
}

// ParseTrackStatus converts a string to a TrackStatus, defaulting empty input to GREEN
func ParseTrackStatus(s string) (TrackStatus, error) {
	if s == "" {
		return TrackGreen, nil
	}
	t := TrackStatus(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown track status: %q", s)
	}
	return t, nil
}

// DriverRaceState is the per-driver mutable state of one projection run.
// Lap is the last completed lap; CumulativeTime is the sum of all simulated
// lap durations including pit losses.
type DriverRaceState struct {
	DriverID       string   `json:"driver_id"`
	Lap            int      `json:"lap"`
	Position       int      `json:"position"`
	CumulativeTime float64  `json:"cumulative_time"`
	Compound       Compound `json:"compound"`
	TyreAge        int      `json:"tyre_age"`
	PitCount       int      `json:"pit_count"`
}

// PitPlan maps each driver to the future laps on which they pit. Compounds
// optionally lists, per driver, the compound fitted at each stop in order;
// a missing or short list keeps the current compound at that stop.
type PitPlan struct {
	Stops     map[string][]int      `json:"stops"`
	Compounds map[string][]Compound `json:"compounds,omitempty"`
}

// Normalize sorts and deduplicates every driver's stop list in place
func (p *PitPlan) Normalize() {
	for driver, laps := range p.Stops {
		sort.Ints(laps)
		deduped := laps[:0]
		prev := -1
		for _, lap := range laps {
			if lap != prev {
				deduped = append(deduped, lap)
			}
			prev = lap
		}
		p.Stops[driver] = deduped
	}
}

// StopCount returns the number of planned stops for a driver
func (p *PitPlan) StopCount(driverID string) int {
	return len(p.Stops[driverID])
}

// LapRecord is one immutable output row of a projection. Pitted marks laps
// on which the driver's stop was taken.
type LapRecord struct {
	Lap            int     `json:"lap"`
	DriverID       string  `json:"driver_id"`
	LapTime        float64 `json:"lap_time"`
	CumulativeTime float64 `json:"cumulative_time"`
	Position       int     `json:"position"`
	TyreAge        int     `json:"tyre_age"`
	Pitted         bool    `json:"pitted"`
}

// Recommendation is the advised action for a driver under a safety car
type Recommendation string

const (
	RecommendPit     Recommendation = "PIT"
	RecommendStayOut Recommendation = "STAY_OUT"
	RecommendRisky   Recommendation = "RISKY"
)

// Decision is the per-driver output of a safety-car analysis. It is derived
// on every request and never stored.
type Decision struct {
	DriverID                string         `json:"driver_id"`
	CurrentPosition         int            `json:"current_position"`
	Recommendation          Recommendation `json:"recommendation"`
	PredictedPositionIfPit  int            `json:"predicted_position_if_pit"`
	PredictedPositionIfStay int            `json:"predicted_position_if_stay"`
	PositionGainIfPit       int            `json:"position_gain_if_pit"`
	PositionLossIfPit       int            `json:"position_loss_if_pit"`
	TyreAdvantage           int            `json:"tyre_advantage"`
	Confidence              float64        `json:"confidence"`
	Reasoning               string         `json:"reasoning"`
	RecommendedCompound     Compound       `json:"recommended_compound,omitempty"`
}

// FieldSummary aggregates the whole field for a safety-car analysis
type FieldSummary struct {
	TotalDrivers        int     `json:"total_drivers"`
	AvgTyreAge          float64 `json:"avg_tyre_age"`
	DriversOnOldTyres   int     `json:"drivers_on_old_tyres"`
	DriversOnFreshTyres int     `json:"drivers_on_fresh_tyres"`
	PitWindowAdvantage  bool    `json:"pit_window_advantage"`
	LapsRemaining       int     `json:"laps_remaining"`
}

// RaceSession is a stored race session that strategy requests may reference
type RaceSession struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Track     string    `json:"track"`
	TotalLaps int       `json:"total_laps"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedSimulation is a persisted race simulation result, kept for playback
type SavedSimulation struct {
	ID        string    `json:"id"`
	SessionID *int64    `json:"session_id,omitempty"`
	Summary   string    `json:"summary"`
	Result    []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// SimulationSummary is the list row for saved simulations
type SimulationSummary struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
