package mlmodel

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/apexsim/pitwall/internal/logger"
	"github.com/apexsim/pitwall/internal/models"
)

// noopLogger implements logger.Logger but discards all output
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}
func (noopLogger) SetLevel(level slog.Level)     {}
func (noopLogger) GetLevel() slog.Level          { return slog.LevelInfo }
func (noopLogger) EnableHTTPLogging()            {}
func (noopLogger) DisableHTTPLogging()           {}
func (noopLogger) IsHTTPLoggingEnabled() bool    { return false }

var _ logger.Logger = noopLogger{}

func TestHTTPClient_PredictLapTime_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/predictions/lap-time" {
			t.Errorf("expected path /api/v1/predictions/lap-time, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}

		var req LapTimeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.DriverID != "VER" || req.TyreAge != 12 || req.Compound != "MEDIUM" || req.Position != 3 {
			t.Errorf("unexpected request: %+v", req)
		}

		json.NewEncoder(w).Encode(LapTimeResponse{PredictedLapTime: 91.234, ModelVersion: "lap-time-2.1"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, noopLogger{})
	lapTime, err := client.PredictLapTime(context.Background(), "VER", 12, models.CompoundMedium, models.TrackGreen, 3)
	if err != nil {
		t.Fatalf("PredictLapTime failed: %v", err)
	}

	if lapTime != 91.234 {
		t.Errorf("expected lap time 91.234, got %v", lapTime)
	}
}

func TestHTTPClient_PredictOvertakeProbability_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/predictions/overtake" {
			t.Errorf("expected path /api/v1/predictions/overtake, got %s", r.URL.Path)
		}

		var req OvertakeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.GapSeconds != 1.2 || !req.DRSAvailable || req.LapNumber != 34 {
			t.Errorf("unexpected request: %+v", req)
		}

		json.NewEncoder(w).Encode(OvertakeResponse{OvertakeProbability: 0.62})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, noopLogger{})
	probability, err := client.PredictOvertakeProbability(context.Background(), 1.2, 0.3, 8, true, 34)
	if err != nil {
		t.Fatalf("PredictOvertakeProbability failed: %v", err)
	}

	if probability != 0.62 {
		t.Errorf("expected probability 0.62, got %v", probability)
	}
}

func TestHTTPClient_ErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "unknown compound", Detail: "compound must be one of SOFT, MEDIUM, HARD, INTERMEDIATE, WET"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, noopLogger{})
	_, err := client.PredictLapTime(context.Background(), "VER", 0, "ULTRASOFT", models.TrackGreen, 1)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "unknown compound") {
		t.Errorf("expected the service error message, got: %v", err)
	}
}

func TestHTTPClient_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream timeout"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, noopLogger{})
	_, err := client.PredictOvertakeProbability(context.Background(), 1.0, 0, 0, false, 1)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("expected the status code in the error, got: %v", err)
	}
}

func TestHTTPClient_ConnectionRefused(t *testing.T) {
	client := NewHTTPClient("http://127.0.0.1:1", noopLogger{})

	_, err := client.PredictLapTime(context.Background(), "VER", 0, models.CompoundMedium, models.TrackGreen, 1)
	if err == nil {
		t.Fatal("expected a connection error")
	}
	if !strings.Contains(err.Error(), "failed to connect") {
		t.Errorf("expected a connection error, got: %v", err)
	}
}

func TestHTTPClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			t.Errorf("expected path /healthz, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, noopLogger{})
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestMockClient_DefaultsAreUsable(t *testing.T) {
	mock := NewMockClient()

	fresh, err := mock.PredictLapTime(context.Background(), "VER", 0, models.CompoundMedium, models.TrackGreen, 1)
	if err != nil {
		t.Fatalf("PredictLapTime failed: %v", err)
	}
	worn, err := mock.PredictLapTime(context.Background(), "VER", 20, models.CompoundMedium, models.TrackGreen, 1)
	if err != nil {
		t.Fatalf("PredictLapTime failed: %v", err)
	}
	if worn <= fresh {
		t.Errorf("expected worn tyres to be slower: fresh %.3f, worn %.3f", fresh, worn)
	}

	probability, err := mock.PredictOvertakeProbability(context.Background(), 0.5, 0.2, 10, true, 30)
	if err != nil {
		t.Fatalf("PredictOvertakeProbability failed: %v", err)
	}
	if probability < 0 || probability > 1 {
		t.Errorf("probability %.3f outside [0, 1]", probability)
	}
}

func TestMockClient_ConfiguredErrors(t *testing.T) {
	sentinel := errors.New("model offline")
	mock := NewMockClient(WithLapTimeError(sentinel), WithOvertakeError(sentinel))

	if _, err := mock.PredictLapTime(context.Background(), "VER", 0, models.CompoundMedium, models.TrackGreen, 1); !errors.Is(err, sentinel) {
		t.Errorf("expected the configured lap time error, got %v", err)
	}
	if _, err := mock.PredictOvertakeProbability(context.Background(), 1, 0, 0, false, 1); !errors.Is(err, sentinel) {
		t.Errorf("expected the configured overtake error, got %v", err)
	}
}

// Both client implementations must satisfy the Client interface.
var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*MockClient)(nil)
)
