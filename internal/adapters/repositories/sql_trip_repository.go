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

// PostgreSQL-backed implementation of the TripRepository port.
// Route geometry, daily logs and stops are stored as JSONB.
type SQLTripRepository struct {
	DB  *sql.DB
	now func() time.Time
}

func NewSQLTripRepository(db *sql.DB) *SQLTripRepository {
	return &SQLTripRepository{DB: db, now: time.Now}
}

func (s *SQLTripRepository) CreateTrip(ctx context.Context, trip *domain.Trip) (err error) {
	defer obs.Time(ctx, "postgres.CreateTrip")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}
	if trip == nil {
		return errors.New("create trip: trip is nil")
	}

	plan, err := encodePlan(trip)
	if err != nil {
		return fmt.Errorf("create trip: %w", err)
	}

	id := uuid.NewString()
	now := s.now().UTC()

	_, err = s.DB.ExecContext(ctx, sqlInsertTrip, sqlTripArgs(id, trip, plan, now)...)
	if err != nil {
		return fmt.Errorf("create trip: insert into trips table: %w", err)
	}

	trip.ID = id
	trip.CreatedAt = now
	trip.UpdatedAt = now
	return nil
}

const sqlInsertTrip = `
	INSERT INTO trips (` + tripColumns + `
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10::jsonb, $11::jsonb, $12, $13, $14);
	`

// sqlTripArgs lists the values for sqlInsertTrip in tripColumns order.
func sqlTripArgs(id string, trip *domain.Trip, plan encodedPlan, now time.Time) []any {
	var start any
	if trip.StartTime != nil {
		start = trip.StartTime.UTC()
	}
	return []any{
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
		now,
		now,
	}
}

// JSONB columns are read back as text.
const sqlTripSelect = `
	SELECT
		id,
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_used_hrs,
		route_distance_miles,
		route_duration_hours,
		route_geometry::text,
		start_time,
		daily_logs::text,
		stops::text,
		final_cycle_used_hrs,
		created_at,
		updated_at
	FROM trips`

func (s *SQLTripRepository) ListTrips(ctx context.Context) (_ []*domain.Trip, err error) {
	defer obs.Time(ctx, "postgres.ListTrips")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, sqlTripSelect+`
	ORDER BY created_at DESC, id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.Trip, 0, 16)
	for rows.Next() {
		t, err := scanSQLTrip(rows)
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

func (s *SQLTripRepository) GetTrip(ctx context.Context, id string) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "postgres.GetTrip")(&err)

	if s.DB == nil {
		return nil, errors.New("sql trip repository: DB is nil")
	}

	t, err := scanSQLTrip(s.DB.QueryRowContext(ctx, sqlTripSelect+`
	WHERE id = $1;
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trip %q: %w", id, err)
	}
	return t, nil
}

func (s *SQLTripRepository) DeleteTrip(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "postgres.DeleteTrip")(&err)

	if s.DB == nil {
		return errors.New("sql trip repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM trips WHERE id = $1;`, id)
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

func scanSQLTrip(row rowScanner) (*domain.Trip, error) {
	var (
		t                        domain.Trip
		miles, hours, finalCycle sql.NullFloat64
		geometry, logs, stops    sql.NullString
		start                    sql.NullTime
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
		&t.CreatedAt,
		&t.UpdatedAt,
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
		st := start.Time.UTC()
		t.StartTime = &st
	}

	if err := decodePlan(&t, geometry, logs, stops); err != nil {
		return nil, err
	}
	return &t, nil
}
