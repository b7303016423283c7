package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/obs"
	"trip-log-service/internal/ports"
)

type PlanTripRequest struct {
	CurrentLocation       string
	PickupLocation        string
	DropoffLocation       string
	CurrentCycleUsedHours float64
	// Zero means "now" (UTC).
	StartTime time.Time
}

// BuildTrip routes pickup -> dropoff and simulates the duty-status log for it.
//
// A failed route lookup is not an error: the trip is returned without route or
// plan fields so that it can still be stored, as the caller asked for it.
func BuildTrip(
	ctx context.Context,
	req PlanTripRequest,
	provider ports.RouteProvider,
	rules domain.HOSRules,
) (_ *domain.Trip, err error) {
	defer obs.Time(ctx, "services.BuildTrip")(&err)

	trip := &domain.Trip{
		CurrentLocation:       strings.TrimSpace(req.CurrentLocation),
		PickupLocation:        strings.TrimSpace(req.PickupLocation),
		DropoffLocation:       strings.TrimSpace(req.DropoffLocation),
		CurrentCycleUsedHours: req.CurrentCycleUsedHours,
	}

	switch {
	case trip.CurrentLocation == "":
		return nil, invalidInput("current_location", "must be non-empty")
	case trip.PickupLocation == "":
		return nil, invalidInput("pickup_location", "must be non-empty")
	case trip.DropoffLocation == "":
		return nil, invalidInput("dropoff_location", "must be non-empty")
	}
	if math.IsNaN(req.CurrentCycleUsedHours) || math.IsInf(req.CurrentCycleUsedHours, 0) || req.CurrentCycleUsedHours < 0 {
		return nil, invalidInput("current_cycle_used_hrs", "must be a finite, non-negative number")
	}

	route, err := provider.GetRoute(ctx, trip.PickupLocation, trip.DropoffLocation)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("build trip: get route: %w", ctx.Err())
		}
		log.Printf("build trip: route lookup failed, plan skipped: pickup=%q dropoff=%q err=%v",
			trip.PickupLocation, trip.DropoffLocation, err)
		return trip, nil
	}

	start := req.StartTime
	if start.IsZero() {
		start = time.Now().UTC()
	}

	miles, hours := route.Miles(), route.Hours()
	result, err := SimulateTrip(domain.TripPlan{
		StartTime:             start,
		TotalDrivingHours:     hours,
		TotalDistanceMiles:    miles,
		InitialCycleUsedHours: req.CurrentCycleUsedHours,
	}, rules)
	if err != nil {
		return nil, fmt.Errorf("build trip: simulate: %w", err)
	}

	trip.RouteDistanceMiles = &miles
	trip.RouteDurationHours = &hours
	trip.RouteGeometry = route.Geometry
	trip.StartTime = &start
	trip.DailyLogs = result.DailyLogs
	trip.Stops = result.Stops
	trip.FinalCycleUsedHours = &result.FinalCycleUsedHours

	return trip, nil
}

// PlanTrip builds a trip and stores it.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	repo ports.TripRepository,
	provider ports.RouteProvider,
	rules domain.HOSRules,
) (*domain.Trip, error) {
	trip, err := BuildTrip(ctx, req, provider, rules)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	if err := repo.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("plan trip: create trip: %w", err)
	}

	return trip, nil
}
