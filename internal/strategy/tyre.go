package strategy

import "github.com/apexsim/pitwall/internal/models"

// degradationRates is the per-compound reference degradation in seconds of
// lap time per lap of tyre age. These are coarse planning references used
// for pit-window amortization, never injected into oracle output.
var degradationRates = map[models.Compound]float64{
	models.CompoundSoft:         0.08,
	models.CompoundMedium:       0.05,
	models.CompoundHard:         0.03,
	models.CompoundIntermediate: 0.10,
	models.CompoundWet:          0.12,
}

// TyreModel provides pit-stop and tyre constants for projections
type TyreModel struct {
	cfg Config
}

// NewTyreModel creates a TyreModel from engine configuration
func NewTyreModel(cfg Config) *TyreModel {
	return &TyreModel{cfg: cfg}
}

// PitLoss returns the time cost of a pit stop under the given track status.
// A stop under a safety car is cheaper because the field is bunched and slowed.
func (t *TyreModel) PitLoss(status models.TrackStatus) float64 {
	if status.IsSafetyCar() {
		return t.cfg.SCPitLossSeconds
	}
	return t.cfg.PitLossSeconds
}

// LapPenalty returns the warm-up penalty for a tyre of the given age.
// The penalty decays linearly to zero over WarmupLaps and applies only to
// tyres fitted at a pit stop; tyres warmed before the start carry none.
func (t *TyreModel) LapPenalty(tyreAge int, stopped bool) float64 {
	if !stopped {
		return 0
	}
	remaining := t.cfg.WarmupLaps - tyreAge
	if remaining <= 0 {
		return 0
	}
	return t.cfg.WarmupPenaltyPerLap * float64(remaining)
}

// DegradationRate returns the reference degradation for a compound in
// seconds per lap of age. Unknown compounds fall back to the medium rate.
func (t *TyreModel) DegradationRate(c models.Compound) float64 {
	if rate, ok := degradationRates[c]; ok {
		return rate
	}
	return degradationRates[models.CompoundMedium]
}

// AmortizationLaps estimates how many laps a fresh tyre needs for its pace
// advantage over a tyre of avgAge to pay back the pit loss under status.
// Returns a very large value when there is no pace advantage to amortize.
func (t *TyreModel) AmortizationLaps(avgAge float64, c models.Compound, status models.TrackStatus) float64 {
	paceAdvantage := avgAge * t.DegradationRate(c)
	if paceAdvantage <= 0 {
		return 1e9
	}
	return t.PitLoss(status) / paceAdvantage
}

// RecommendCompound picks a compound for a stop from the remaining race
// distance and track temperature: harder compounds for long stints, the
// softest for a short sprint to the flag.
func (t *TyreModel) RecommendCompound(lapsRemaining int, trackTempC float64) models.Compound {
	switch {
	case lapsRemaining > 25:
		if trackTempC > 35 {
			return models.CompoundMedium
		}
		return models.CompoundHard
	case lapsRemaining > 15:
		return models.CompoundMedium
	default:
		return models.CompoundSoft
	}
}
