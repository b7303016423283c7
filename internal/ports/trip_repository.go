package ports

import (
	"context"
	"errors"
	"trip-log-service/internal/domain"
)

var ErrTripNotFound = errors.New("trip not found")

// Port: a boundary for storing and retrieving Trip records.
type TripRepository interface {
	// Store a new trip. ID, CreatedAt and UpdatedAt are assigned by the repository.
	CreateTrip(ctx context.Context, trip *domain.Trip) error
	// Return all trips, newest first.
	ListTrips(ctx context.Context) ([]*domain.Trip, error)
	// Return one trip or ErrTripNotFound.
	GetTrip(ctx context.Context, id string) (*domain.Trip, error)
	// Remove one trip or return ErrTripNotFound.
	DeleteTrip(ctx context.Context, id string) error
}
