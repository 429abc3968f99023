package strategy

import (
	"context"

	"github.com/apexsim/pitwall/internal/models"
)

// LapTimeOracle predicts the expected duration of one lap. It is a trained
// external collaborator; the engine treats it as a black box and rejects
// non-finite or non-positive values.
type LapTimeOracle interface {
	PredictLapTime(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error)
}

// OvertakeModel predicts the probability that a trailing car completes an
// overtake given the gap and conditions. Used by the undercut evaluator so
// success probabilities stay consistent with the platform's separately
// validated classifier.
type OvertakeModel interface {
	PredictOvertakeProbability(ctx context.Context, gapSeconds, closingRate float64, tyreAdvantage int, drsAvailable bool, lapNumber int) (float64, error)
}

// LapTimeFunc adapts a plain function to the LapTimeOracle interface
type LapTimeFunc func(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error)

func (f LapTimeFunc) PredictLapTime(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error) {
	return f(ctx, driverID, tyreAge, compound, status, position)
}

// OvertakeFunc adapts a plain function to the OvertakeModel interface
type OvertakeFunc func(ctx context.Context, gapSeconds, closingRate float64, tyreAdvantage int, drsAvailable bool, lapNumber int) (float64, error)

func (f OvertakeFunc) PredictOvertakeProbability(ctx context.Context, gapSeconds, closingRate float64, tyreAdvantage int, drsAvailable bool, lapNumber int) (float64, error) {
	return f(ctx, gapSeconds, closingRate, tyreAdvantage, drsAvailable, lapNumber)
}
