// Package mlmodel provides a client for the lap-time and overtake prediction service.
package mlmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apexsim/pitwall/internal/logger"
	"github.com/apexsim/pitwall/internal/models"
)

// LapTimeRequest is the request body for a lap time prediction
type LapTimeRequest struct {
	DriverID    string  `json:"driver_id"`
	TyreAge     int     `json:"tyre_age"`
	Compound    string  `json:"compound"`
	TrackStatus string  `json:"track_status"`
	Position    int     `json:"position"`
	FuelLoad    float64 `json:"fuel_load,omitempty"`
}

// LapTimeResponse is the response from the lap-time endpoint
type LapTimeResponse struct {
	PredictedLapTime float64 `json:"predicted_lap_time"`
	ModelVersion     string  `json:"model_version"`
}

// OvertakeRequest is the request body for an overtake probability prediction
type OvertakeRequest struct {
	GapSeconds    float64 `json:"gap_seconds"`
	ClosingRate   float64 `json:"closing_rate"`
	TyreAdvantage int     `json:"tyre_advantage"`
	DRSAvailable  bool    `json:"drs_available"`
	LapNumber     int     `json:"lap_number"`
}

// OvertakeResponse is the response from the overtake endpoint
type OvertakeResponse struct {
	OvertakeProbability float64 `json:"overtake_probability"`
	ModelVersion        string  `json:"model_version"`
}

// ErrorResponse is the error envelope returned by the prediction service
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// Client defines the interface for prediction service operations
type Client interface {
	// PredictLapTime asks the service for one driver's expected lap time
	PredictLapTime(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error)
	// PredictOvertakeProbability asks the service for the chance a trailing car gets past
	PredictOvertakeProbability(ctx context.Context, gapSeconds, closingRate float64, tyreAdvantage int, drsAvailable bool, lapNumber int) (float64, error)
	// Ping checks the service health endpoint
	Ping(ctx context.Context) error
	// BaseURL returns the configured service base URL
	BaseURL() string
	// SetBaseURL updates the service base URL
	SetBaseURL(url string)
}

// HTTPClient is a real HTTP client for the prediction service
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new prediction service HTTP client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates a new prediction service client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured service base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SetBaseURL updates the service base URL
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = url
}

// doPost executes a JSON POST to the prediction service and decodes the
// response, surfacing the service's error envelope on non-200 statuses.
func (c *HTTPClient) doPost(ctx context.Context, path string, request, response interface{}) error {
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := c.baseURL + path
	c.log.Debug("prediction service request", "method", "POST", "url", reqURL, "body", string(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to prediction service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("prediction service response", "status", resp.StatusCode, "body", string(respBody))

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("prediction service error: %s (%s)", errResp.Error, errResp.Detail)
		}
		return fmt.Errorf("prediction service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// PredictLapTime asks the service for one driver's expected lap time
func (c *HTTPClient) PredictLapTime(ctx context.Context, driverID string, tyreAge int, compound models.Compound, status models.TrackStatus, position int) (float64, error) {
	request := LapTimeRequest{
		DriverID:    driverID,
		TyreAge:     tyreAge,
		Compound:    string(compound),
		TrackStatus: string(status),
		Position:    position,
	}

	var response LapTimeResponse
	if err := c.doPost(ctx, "/api/v1/predictions/lap-time", request, &response); err != nil {
		return 0, err
	}
	return response.PredictedLapTime, nil
}

// PredictOvertakeProbability asks the service for the chance a trailing car gets past
func (c *HTTPClient) PredictOvertakeProbability(ctx context.Context, gapSeconds, closingRate float64, tyreAdvantage int, drsAvailable bool, lapNumber int) (float64, error) {
	request := OvertakeRequest{
		GapSeconds:    gapSeconds,
		ClosingRate:   closingRate,
		TyreAdvantage: tyreAdvantage,
		DRSAvailable:  drsAvailable,
		LapNumber:     lapNumber,
	}

	var response OvertakeResponse
	if err := c.doPost(ctx, "/api/v1/predictions/overtake", request, &response); err != nil {
		return 0, err
	}
	return response.OvertakeProbability, nil
}

// Ping checks the service health endpoint
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to prediction service: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("prediction service health check returned status %d", resp.StatusCode)
	}
	return nil
}
