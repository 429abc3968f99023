package services_test

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/apexsim/pitwall/internal/errors"
	"github.com/apexsim/pitwall/internal/logger"
	"github.com/apexsim/pitwall/internal/repository"
	"github.com/apexsim/pitwall/internal/services"
	"github.com/apexsim/pitwall/internal/strategy"
	"github.com/apexsim/pitwall/internal/testutil"
)

func newSessionService(t *testing.T) *services.SessionService {
	t.Helper()
	return services.NewSessionService(logger.New(), testutil.NewTestRepository(t), strategy.DefaultConfig())
}

func TestCreateSession_RoundTrip(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "Monaco GP", "Monte Carlo", 78)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.ID == 0 || session.Name != "Monaco GP" {
		t.Errorf("unexpected session: %+v", session)
	}

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Errorf("expected 1 session, got %d", len(sessions))
	}

	if err := svc.DeleteSession(ctx, session.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, session.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCreateSession_Validation(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		sessName  string
		track     string
		totalLaps int
	}{
		{"missing name", "", "Monza", 53},
		{"missing track", "Monza GP", "", 53},
		{"zero laps", "Monza GP", "Monza", 0},
		{"too many laps", "Monza GP", "Monza", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSession(ctx, tt.sessName, tt.track, tt.totalLaps)

			var appErr *apperrors.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperrors.ErrValidation {
				t.Fatalf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestSeedDemoSession(t *testing.T) {
	svc := newSessionService(t)

	session, err := svc.SeedDemoSession(context.Background())
	if err != nil {
		t.Fatalf("SeedDemoSession failed: %v", err)
	}
	if session.Track == "" || session.TotalLaps < 1 {
		t.Errorf("unexpected demo session: %+v", session)
	}
}

func TestDemoGrid(t *testing.T) {
	grid := services.DemoGrid()

	if len(grid) != 10 {
		t.Fatalf("expected a 10-car grid, got %d", len(grid))
	}
	seen := make(map[string]bool)
	for _, entry := range grid {
		if entry.DriverID == "" || !entry.Compound.Valid() {
			t.Errorf("invalid grid entry: %+v", entry)
		}
		if seen[entry.DriverID] {
			t.Errorf("duplicate driver %s", entry.DriverID)
		}
		seen[entry.DriverID] = true
	}
}
