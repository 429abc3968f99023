package repository

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/apexsim/pitwall/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// NewWithDB creates a Repository around an existing connection (for tests)
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			track TEXT NOT NULL,
			total_laps INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS simulations (
			id TEXT PRIMARY KEY,
			session_id INTEGER,
			summary TEXT NOT NULL,
			result BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE SET NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_simulations_session ON simulations(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_simulations_created ON simulations(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Session Methods ====================

// CreateSession stores a new race session and returns its ID
func (r *Repository) CreateSession(ctx context.Context, name, track string, totalLaps int) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (name, track, total_laps) VALUES (?, ?, ?)`,
		name, track, totalLaps)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetSession retrieves a race session by ID
func (r *Repository) GetSession(ctx context.Context, id int64) (*models.RaceSession, error) {
	var session models.RaceSession
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, track, total_laps, created_at FROM sessions WHERE id = ?`,
		id).Scan(&session.ID, &session.Name, &session.Track, &session.TotalLaps, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions returns all race sessions, newest first
func (r *Repository) ListSessions(ctx context.Context) ([]models.RaceSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, track, total_laps, created_at FROM sessions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.RaceSession
	for rows.Next() {
		var session models.RaceSession
		if err := rows.Scan(&session.ID, &session.Name, &session.Track, &session.TotalLaps, &session.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a race session
func (r *Repository) DeleteSession(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ==================== Simulation Methods ====================

// SaveSimulation stores a simulation result for later playback
func (r *Repository) SaveSimulation(ctx context.Context, sim *models.SavedSimulation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO simulations (id, session_id, summary, result) VALUES (?, ?, ?, ?)`,
		sim.ID, sim.SessionID, sim.Summary, sim.Result)
	return err
}

// GetSimulation retrieves a saved simulation by ID
func (r *Repository) GetSimulation(ctx context.Context, id string) (*models.SavedSimulation, error) {
	var sim models.SavedSimulation
	err := r.db.QueryRowContext(ctx,
		`SELECT id, session_id, summary, result, created_at FROM simulations WHERE id = ?`,
		id).Scan(&sim.ID, &sim.SessionID, &sim.Summary, &sim.Result, &sim.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sim, nil
}

// ListSimulations returns recent simulations without their result payloads
func (r *Repository) ListSimulations(ctx context.Context, limit int) ([]models.SimulationSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, summary, created_at FROM simulations ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.SimulationSummary
	for rows.Next() {
		var summary models.SimulationSummary
		if err := rows.Scan(&summary.ID, &summary.Summary, &summary.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}
