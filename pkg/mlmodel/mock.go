package mlmodel

import (
	"context"

	"github.com/apexsim/pitwall/internal/models"
)

// MockClient is a mock prediction service client for testing. By default it
// behaves like a plausible model: a compound-dependent base lap time plus a
// linear tyre-age penalty, and a gap-driven overtake probability.
type MockClient struct {
	baseURL     string
	baseLapTime float64
	degPerLap   float64
	lapTimeFn   func(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error)
	overtakeFn  func(ctx context.Context, gapSeconds, closingRate float64, tyreAdvantage int, drsAvailable bool, lapNumber int) (float64, error)
	lapTimeErr  error
	overtakeErr error
	pingErr     error
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithBaseLapTime sets the base lap time in seconds
func WithBaseLapTime(seconds float64) MockOption {
	return func(m *MockClient) {
		m.baseLapTime = seconds
	}
}

// WithDegradation sets the tyre-age penalty per lap of age
func WithDegradation(secondsPerLap float64) MockOption {
	return func(m *MockClient) {
		m.degPerLap = secondsPerLap
	}
}

// WithLapTimeFunc replaces the lap time model entirely
func WithLapTimeFunc(fn func(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error)) MockOption {
	return func(m *MockClient) {
		m.lapTimeFn = fn
	}
}

// WithOvertakeFunc replaces the overtake model entirely
func WithOvertakeFunc(fn func(ctx context.Context, gapSeconds, closingRate float64, tyreAdvantage int, drsAvailable bool, lapNumber int) (float64, error)) MockOption {
	return func(m *MockClient) {
		m.overtakeFn = fn
	}
}

// WithLapTimeError sets an error to return from PredictLapTime
func WithLapTimeError(err error) MockOption {
	return func(m *MockClient) {
		m.lapTimeErr = err
	}
}

// WithOvertakeError sets an error to return from PredictOvertakeProbability
func WithOvertakeError(err error) MockOption {
	return func(m *MockClient) {
		m.overtakeErr = err
	}
}

// WithPingError sets an error to return from Ping
func WithPingError(err error) MockOption {
	return func(m *MockClient) {
		m.pingErr = err
	}
}

// WithMockBaseURL sets the base URL
func WithMockBaseURL(url string) MockOption {
	return func(m *MockClient) {
		m.baseURL = url
	}
}

// NewMockClient creates a new mock prediction service client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		baseURL:     "http://mlmodel.test",
		baseLapTime: 90.0,
		degPerLap:   0.05,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// compoundOffsets shifts the base lap time per compound so mock races are
// not degenerate ties.
var compoundOffsets = map[models.Compound]float64{
	models.CompoundSoft:         -0.4,
	models.CompoundMedium:       0,
	models.CompoundHard:         0.4,
	models.CompoundIntermediate: 5.0,
	models.CompoundWet:          9.0,
}

// PredictLapTime returns the configured model's lap time
func (m *MockClient) PredictLapTime(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error) {
	if m.lapTimeErr != nil {
		return 0, m.lapTimeErr
	}
	if m.lapTimeFn != nil {
		return m.lapTimeFn(ctx, driverID, tyreAge, compound, status, position)
	}

	lapTime := m.baseLapTime + compoundOffsets[compound] + m.degPerLap*float64(tyreAge)
	if status.IsSafetyCar() {
		lapTime += 30.0 // field circulates slowly behind the safety car
	}
	return lapTime, nil
}

// PredictOvertakeProbability returns the configured model's probability
func (m *MockClient) PredictOvertakeProbability(ctx context.Context, gapSeconds, closingRate float64, tyreAdvantage int, drsAvailable bool, lapNumber int) (float64, error) {
	if m.overtakeErr != nil {
		return 0, m.overtakeErr
	}
	if m.overtakeFn != nil {
		return m.overtakeFn(ctx, gapSeconds, closingRate, tyreAdvantage, drsAvailable, lapNumber)
	}

	probability := 0.5
	if gapSeconds <= 0 {
		return 0.9, nil // attacker already ahead on time
	}
	probability -= gapSeconds * 0.1
	probability += closingRate * 0.5
	probability += float64(tyreAdvantage) * 0.01
	if drsAvailable {
		probability += 0.15
	}
	if probability < 0.05 {
		probability = 0.05
	}
	if probability > 0.95 {
		probability = 0.95
	}
	return probability, nil
}

// Ping returns the configured ping error, if any
func (m *MockClient) Ping(ctx context.Context) error {
	return m.pingErr
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	return m.baseURL
}

// SetBaseURL updates the base URL
func (m *MockClient) SetBaseURL(url string) {
	m.baseURL = url
}
