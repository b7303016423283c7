package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"trip-log-service/internal/ports"
)

// Default lifetime of cached routes; road networks change slowly.
const DefaultRouteTTL = 7 * 24 * time.Hour

func validateRouteKey(origin, destination string) error {
	if strings.TrimSpace(origin) == "" {
		return errors.New("origin must not be empty")
	}
	if strings.TrimSpace(destination) == "" {
		return errors.New("destination must not be empty")
	}
	return nil
}

// expired reports whether an entry stored at cachedAt (unix seconds) is past ttl.
// A non-positive ttl never expires.
func expired(cachedAt int64, ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(time.Unix(cachedAt, 0)) > ttl
}

func geometryArg(g json.RawMessage) any {
	if len(g) == 0 {
		return nil
	}
	return string(g)
}

func routeFromRow(meters, seconds float64, geometry sql.NullString) ports.RouteResult {
	r := ports.RouteResult{DistanceMeters: meters, DurationSeconds: seconds}
	if geometry.Valid && geometry.String != "" {
		r.Geometry = json.RawMessage(geometry.String)
	}
	return r
}
