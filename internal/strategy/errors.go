package strategy

import "fmt"

// InvalidPlanError is returned when a pit plan references an unknown driver
// or a lap outside the projected range.
type InvalidPlanError struct {
	DriverID string
	Lap      int
	Reason   string
}

func (e *InvalidPlanError) Error() string {
	if e.Lap > 0 {
		return fmt.Sprintf("invalid pit plan for %s: lap %d %s", e.DriverID, e.Lap, e.Reason)
	}
	return fmt.Sprintf("invalid pit plan for %s: %s", e.DriverID, e.Reason)
}

// OracleError is returned when a collaborator model call fails or returns a
// value outside its documented range. Projections abort rather than clamp:
// a corrupted lap time would silently corrupt position ordering downstream.
type OracleError struct {
	DriverID string
	Lap      int
	Value    float64
	Err      error
}

func (e *OracleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oracle failed for %s on lap %d: %v", e.DriverID, e.Lap, e.Err)
	}
	return fmt.Sprintf("oracle returned invalid value %v for %s on lap %d", e.Value, e.DriverID, e.Lap)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}

// EmptyFieldError is returned when a projection is requested with no drivers
type EmptyFieldError struct{}

func (e *EmptyFieldError) Error() string {
	return "no drivers supplied"
}
