package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"

	"github.com/google/uuid"
)

// Fixed-width UTC layout so that text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite-backed implementation of the TripRepository port.
type SqliteTripRepository struct {
	DB  *sql.DB
	now func() time.Time
}

func NewSqliteTripRepository(db *sql.DB) *SqliteTripRepository {
	return &SqliteTripRepository{DB: db, now: time.Now}
}

func (s *SqliteTripRepository) CreateTrip(ctx context.Context, trip *domain.Trip) (err error) {
	defer obs.Time(ctx, "sqlite.CreateTrip")(&err)

	if s.DB == nil {
		return errors.New("sqlite trip repository: DB is nil")
	}
	if trip == nil {
		return errors.New("create trip: trip is nil")
	}

	plan, err := encodePlan(trip)
	if err != nil {
		return fmt.Errorf("create trip: %w", err)
	}

	var start any
	if trip.StartTime != nil {
		start = formatSqliteTime(*trip.StartTime)
	}

	id := uuid.NewString()
	now := s.now().UTC()

	query := `
	INSERT INTO trips (` + tripColumns + `
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(ctx, query,
		id,
		trip.CurrentLocation,
		trip.PickupLocation,
		trip.DropoffLocation,
		trip.CurrentCycleUsedHours,
		nullFloat(trip.RouteDistanceMiles),
		nullFloat(trip.RouteDurationHours),
		plan.geometry,
		start,
		plan.dailyLogs,
		plan.stops,
		nullFloat(trip.FinalCycleUsedHours),
		formatSqliteTime(now),
		formatSqliteTime(now),
	)
	if err != nil {
		return fmt.Errorf("create trip: insert into trips table: %w", err)
	}

	trip.ID = id
	trip.CreatedAt = now
	trip.UpdatedAt = now
	return nil
}

// Return all trips, newest first.
func (s *SqliteTripRepository) ListTrips(ctx context.Context) (_ []*domain.Trip, err error) {
	defer obs.Time(ctx, "sqlite.ListTrips")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	query := `
	SELECT` + tripColumns + `
	FROM trips
	ORDER BY created_at DESC, rowid DESC;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.Trip, 0, 16)
	for rows.Next() {
		t, err := scanSqliteTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("list trips: %w", err)
		}
		trips = append(trips, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return trips, nil
}

func (s *SqliteTripRepository) GetTrip(ctx context.Context, id string) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "sqlite.GetTrip")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite trip repository: DB is nil")
	}

	query := `
	SELECT` + tripColumns + `
	FROM trips
	WHERE id = ?;
	`
	t, err := scanSqliteTrip(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %q: %w", id, err)
	}
	return t, nil
}

func (s *SqliteTripRepository) DeleteTrip(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "sqlite.DeleteTrip")(&err)

	if s.DB == nil {
		return errors.New("sqlite trip repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM trips WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete trip %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trip %q: rows affected: %w", id, err)
	}
	if n == 0 {
		return ports.ErrTripNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSqliteTrip(row rowScanner) (*domain.Trip, error) {
	var (
		t                        domain.Trip
		miles, hours, finalCycle sql.NullFloat64
		geometry, logs, stops    sql.NullString
		start                    sql.NullString
		createdAt, updatedAt     string
	)
	err := row.Scan(
		&t.ID,
		&t.CurrentLocation,
		&t.PickupLocation,
		&t.DropoffLocation,
		&t.CurrentCycleUsedHours,
		&miles,
		&hours,
		&geometry,
		&start,
		&logs,
		&stops,
		&finalCycle,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan row: %w", err)
	}

	t.RouteDistanceMiles = floatPtr(miles)
	t.RouteDurationHours = floatPtr(hours)
	t.FinalCycleUsedHours = floatPtr(finalCycle)

	if start.Valid {
		st, err := time.Parse(sqliteTimeLayout, start.String)
		if err != nil {
			return nil, fmt.Errorf("parse start_time: %w", err)
		}
		t.StartTime = &st
	}
	if t.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	if err := decodePlan(&t, geometry, logs, stops); err != nil {
		return nil, err
	}
	return &t, nil
}

func formatSqliteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}
