package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ObservationStoreImpl implements the ObservationStore interface on a SQL database.
type ObservationStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	gen     atomic.Uint64
}

var _ contract.ObservationStore = &ObservationStoreImpl{} // Compile-time check

// Add inserts or replaces an observation.
func (s *ObservationStoreImpl) Add(ctx context.Context, obs schema.Observation) (schema.Observation, error) {
	obs, err := prepareObservation(obs)
	if err != nil {
		return obs, err
	}
	metrics, err := json.Marshal(obs.Metrics)
	if err != nil {
		return obs, fmt.Errorf("failed to encode metrics: %w", err)
	}

	args := []any{obs.ID, formatDate(obs.Date), obs.Planned, obs.Sport, obs.Title, obs.Duration, string(metrics), formatTime(time.Now().UTC(), s.backend)}
	if _, err := s.db.ExecContext(ctx, s.getUpsertQuery(), args...); err != nil {
		return obs, fmt.Errorf("failed to store observation %s: %w", obs.ID, err)
	}
	s.gen.Add(1)
	return obs, nil
}

// Get returns the observation with the given ID.
func (s *ObservationStoreImpl) Get(ctx context.Context, id string) (schema.Observation, error) {
	query := bind(fmt.Sprintf(`SELECT id, obs_date, planned, sport, title, duration, metrics FROM %s WHERE id = ?`,
		quoteTableName(observationsTable, s.backend)), s.backend)
	obs, err := scanObservation(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Observation{}, fmt.Errorf("observation %s: %w", id, ErrNotFound)
	}
	return obs, err
}

// Delete removes the observation with the given ID.
func (s *ObservationStoreImpl) Delete(ctx context.Context, id string) error {
	query := bind(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, quoteTableName(observationsTable, s.backend)), s.backend)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete observation %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("observation %s: %w", id, ErrNotFound)
	}
	s.gen.Add(1)
	return nil
}

// List returns every observation ordered by date.
func (s *ObservationStoreImpl) List(ctx context.Context) ([]schema.Observation, error) {
	query := fmt.Sprintf(`SELECT id, obs_date, planned, sport, title, duration, metrics FROM %s ORDER BY obs_date, id`,
		quoteTableName(observationsTable, s.backend))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list observations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Observation
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read observations: %w", err)
	}
	return out, nil
}

// Generation changes after every successful mutation.
func (s *ObservationStoreImpl) Generation() uint64 {
	return s.gen.Load()
}

// Close closes the underlying DB connection.
func (s *ObservationStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the observation store.
func (s *ObservationStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}
	if s.db == nil {
		return status, nil
	}

	obsTable := quoteTableName(observationsTable, s.backend)
	row := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", obsTable))
	if err := row.Scan(&status.TotalObservations); err != nil {
		return status, fmt.Errorf("failed to get total observations: %w", err)
	}

	row = s.db.QueryRow(bind(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE planned = ?", obsTable), s.backend), true)
	if err := row.Scan(&status.PlannedObservations); err != nil {
		return status, fmt.Errorf("failed to get planned observations: %w", err)
	}

	row = s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(seasonsTable, s.backend)))
	if err := row.Scan(&status.TotalSeasons); err != nil {
		return status, fmt.Errorf("failed to get total seasons: %w", err)
	}

	if status.TotalObservations > 0 {
		var first, last string
		row = s.db.QueryRow(fmt.Sprintf("SELECT MIN(obs_date), MAX(obs_date) FROM %s", obsTable))
		if err := row.Scan(&first, &last); err != nil {
			return status, fmt.Errorf("failed to get observation dates: %w", err)
		}
		status.FirstObservation, _ = parseDate(first)
		status.LastObservation, _ = parseDate(last)
	}

	// Estimate table size (approximate)
	switch s.backend {
	case schema.SQLiteBackend:
		row = s.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = 0
		}
	case schema.PostgreSQLBackend:
		row = s.db.QueryRow("SELECT pg_total_relation_size($1)", observationsTable)
		if err := row.Scan(&status.TableSizeBytes); err != nil {
			status.TableSizeBytes = int64(status.TotalObservations) * 256 // Fallback rough estimate
		}
	default:
		status.TableSizeBytes = int64(status.TotalObservations) * 256 // Rough estimate
	}

	return status, nil
}

// getUpsertQuery returns the UPSERT query for the backend.
func (s *ObservationStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(observationsTable, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (id, obs_date, planned, sport, title, duration, metrics, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE obs_date = new.obs_date, planned = new.planned, sport = new.sport, title = new.title, duration = new.duration, metrics = new.metrics`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (id, obs_date, planned, sport, title, duration, metrics, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET obs_date = EXCLUDED.obs_date, planned = EXCLUDED.planned, sport = EXCLUDED.sport, title = EXCLUDED.title, duration = EXCLUDED.duration, metrics = EXCLUDED.metrics`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (id, obs_date, planned, sport, title, duration, metrics, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, quotedTableName)
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanObservation(row rowScanner) (schema.Observation, error) {
	var obs schema.Observation
	var date, metrics string
	if err := row.Scan(&obs.ID, &date, &obs.Planned, &obs.Sport, &obs.Title, &obs.Duration, &metrics); err != nil {
		return obs, err
	}
	d, err := parseDate(date)
	if err != nil {
		return obs, err
	}
	obs.Date = d
	obs.Metrics = map[string]float64{}
	if metrics != "" {
		if err := json.Unmarshal([]byte(metrics), &obs.Metrics); err != nil {
			return obs, fmt.Errorf("invalid metrics for observation %s: %w", obs.ID, err)
		}
	}
	return obs, nil
}

// prepareObservation validates an observation and fills in its ID.
func prepareObservation(obs schema.Observation) (schema.Observation, error) {
	if obs.Date.IsZero() {
		return obs, errors.New("observation date is required")
	}
	obs.Date = time.Date(obs.Date.Year(), obs.Date.Month(), obs.Date.Day(), 0, 0, 0, 0, time.UTC)
	if obs.ID == "" {
		obs.ID = uuid.NewString()
	}
	if obs.Metrics == nil {
		obs.Metrics = map[string]float64{}
	}
	return obs, nil
}
