package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"
)

const sqlGetRoute = `
	SELECT distance_meters, duration_seconds, geometry::text, cached_at
	FROM route_cache
	WHERE origin = $1 AND destination = $2;
	`

const sqlPutRoute = `
	INSERT INTO route_cache (origin, destination, distance_meters, duration_seconds, geometry, cached_at)
	VALUES ($1, $2, $3, $4, $5::jsonb, $6)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		geometry = EXCLUDED.geometry,
		cached_at = EXCLUDED.cached_at;
	`

// SQLRouteCache is a PostgreSQL-backed cache for origin->destination routes.
type SQLRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
	now func() time.Time
}

func NewSQLRouteCache(db *sql.DB, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, TTL: ttl, now: time.Now}
}

func (s *SQLRouteCache) Get(
	ctx context.Context,
	origin string,
	destination string,
) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return ports.RouteResult{}, false, fmt.Errorf("route cache: %w", errNilDB)
	}
	if err := validateRouteKey(origin, destination); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: %w", err)
	}

	var meters, seconds float64
	var geometry sql.NullString
	var cachedAt int64
	err = s.DB.QueryRowContext(ctx, sqlGetRoute, origin, destination).Scan(&meters, &seconds, &geometry, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}
	if expired(cachedAt, s.TTL, s.now()) {
		return ports.RouteResult{}, false, nil
	}

	return routeFromRow(meters, seconds, geometry), true, nil
}

func (s *SQLRouteCache) Put(
	ctx context.Context,
	origin string,
	destination string,
	route ports.RouteResult,
) (err error) {
	defer obs.Time(ctx, "route.cache.Put")(&err)

	if s.DB == nil {
		return fmt.Errorf("route cache: %w", errNilDB)
	}
	if err := validateRouteKey(origin, destination); err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, sqlPutRoute,
		origin, destination, route.DistanceMeters, route.DurationSeconds, geometryArg(route.Geometry), s.now().Unix())
	if err != nil {
		return fmt.Errorf("insert route cache %q -> %q: %w", origin, destination, err)
	}
	return nil
}
