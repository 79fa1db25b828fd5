package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
)

// SeasonStoreImpl implements the SeasonStore interface on a SQL database.
type SeasonStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	gen     atomic.Uint64
}

var _ contract.SeasonStore = &SeasonStoreImpl{} // Compile-time check

// AddSeason inserts or replaces a season.
func (s *SeasonStoreImpl) AddSeason(ctx context.Context, season schema.Season) (schema.Season, error) {
	season, err := prepareSeason(season)
	if err != nil {
		return season, err
	}

	var end sql.NullString
	if season.End != nil {
		end = sql.NullString{String: formatDate(*season.End), Valid: true}
	}
	var seed sql.NullFloat64
	if season.Seed != nil {
		seed = sql.NullFloat64{Float64: *season.Seed, Valid: true}
	}

	args := []any{season.ID, season.Name, formatDate(season.Start), end, seed, formatTime(time.Now().UTC(), s.backend)}
	if _, err := s.db.ExecContext(ctx, s.getUpsertQuery(), args...); err != nil {
		return season, fmt.Errorf("failed to store season %s: %w", season.ID, err)
	}
	s.gen.Add(1)
	return season, nil
}

// DeleteSeason removes the season with the given ID.
func (s *SeasonStoreImpl) DeleteSeason(ctx context.Context, id string) error {
	query := bind(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, quoteTableName(seasonsTable, s.backend)), s.backend)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete season %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("season %s: %w", id, ErrNotFound)
	}
	s.gen.Add(1)
	return nil
}

// ListSeasons returns every season ordered by start date, then creation.
func (s *SeasonStoreImpl) ListSeasons(ctx context.Context) ([]schema.Season, error) {
	query := fmt.Sprintf(`SELECT id, name, start_date, end_date, seed FROM %s ORDER BY start_date, created_at, id`,
		quoteTableName(seasonsTable, s.backend))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Season
	for rows.Next() {
		var season schema.Season
		var start string
		var end sql.NullString
		var seed sql.NullFloat64
		if err := rows.Scan(&season.ID, &season.Name, &start, &end, &seed); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		if season.Start, err = parseDate(start); err != nil {
			return nil, err
		}
		if end.Valid {
			e, err := parseDate(end.String)
			if err != nil {
				return nil, err
			}
			season.End = &e
		}
		if seed.Valid {
			v := seed.Float64
			season.Seed = &v
		}
		out = append(out, season)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seasons: %w", err)
	}
	return out, nil
}

// Generation changes after every successful mutation.
func (s *SeasonStoreImpl) Generation() uint64 {
	return s.gen.Load()
}

// Close closes the underlying DB connection.
func (s *SeasonStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// getUpsertQuery returns the UPSERT query for the backend.
func (s *SeasonStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(seasonsTable, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (id, name, start_date, end_date, seed, created_at) VALUES (?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE name = new.name, start_date = new.start_date, end_date = new.end_date, seed = new.seed`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (id, name, start_date, end_date, seed, created_at) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, start_date = EXCLUDED.start_date, end_date = EXCLUDED.end_date, seed = EXCLUDED.seed`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (id, name, start_date, end_date, seed, created_at) VALUES (?, ?, ?, ?, ?, ?)`, quotedTableName)
	}
}

// prepareSeason validates a season and fills in its ID.
func prepareSeason(season schema.Season) (schema.Season, error) {
	if season.Start.IsZero() {
		return season, errors.New("season start date is required")
	}
	season.Start = time.Date(season.Start.Year(), season.Start.Month(), season.Start.Day(), 0, 0, 0, 0, time.UTC)
	if season.End != nil {
		end := time.Date(season.End.Year(), season.End.Month(), season.End.Day(), 0, 0, 0, 0, time.UTC)
		if end.Before(season.Start) {
			return season, fmt.Errorf("season end %s is before start %s", formatDate(end), formatDate(season.Start))
		}
		season.End = &end
	}
	if season.ID == "" {
		season.ID = uuid.NewString()
	}
	season.Name = strings.TrimSpace(season.Name)
	if season.Name == "" {
		season.Name = "Season " + formatDate(season.Start)
	}
	return season, nil
}
