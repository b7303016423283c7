package ports

import (
	"context"
	"encoding/json"
)

const metersPerMile = 1609.34

// Distance, travel duration and path between two locations.
type RouteResult struct {
	DistanceMeters  float64
	DurationSeconds float64
	// GeoJSON LineString geometry, nil when the provider returned none.
	Geometry json.RawMessage
}

// Return the route length in miles.
func (r RouteResult) Miles() float64 { return r.DistanceMeters / metersPerMile }

// Return the driving duration in hours.
func (r RouteResult) Hours() float64 { return r.DurationSeconds / 3600 }

// Contract for retrieving a driving route between two addresses.
type RouteProvider interface {
	// Return distance, estimated duration and geometry from origin to destination.
	GetRoute(ctx context.Context, origin string, destination string) (RouteResult, error)
}
