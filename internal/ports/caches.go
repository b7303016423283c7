package ports

import (
	"context"
	"trip-log-service/internal/domain"
)

// Persistent address -> coordinate lookup used in front of geocoding APIs.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

// Persistent origin/destination -> route lookup used in front of routing APIs.
// Get reports ok=false on a miss.
type RouteCache interface {
	Get(ctx context.Context, origin string, destination string) (RouteResult, bool, error)
	Put(ctx context.Context, origin string, destination string, route RouteResult) error
}
