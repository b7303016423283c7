package services

import (
	"fmt"
	"math"
	"trip-log-service/internal/domain"
)

// simulation carries one forward walk through a trip. It is created per call to
// SimulateTrip and discarded afterwards.
type simulation struct {
	rules          domain.HOSRules
	plan           domain.TripPlan
	state          *simulationState
	log            *logWriter
	stops          *stopRegistry
	milesSinceFuel float64
}

// SimulateTrip produces the day-by-day duty-status log and stop list for a trip.
//
// The walk starts with the pickup, then repeatedly enforces the rest rules,
// drives the longest allowed step and stops for fuel when due, until the planned
// driving time is used up; it ends with the dropoff. The result depends only on
// its inputs. Limit breaches are resolved by inserting rest, never reported;
// the only error is an InvalidInputError for malformed input.
func SimulateTrip(plan domain.TripPlan, rules domain.HOSRules) (*domain.SimulationResult, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("simulate trip: %w", err)
	}

	state := &simulationState{
		currentTime:      plan.StartTime,
		cycleHoursUsed:   plan.InitialCycleUsedHours,
		cycleWindowHours: plan.InitialCycleUsedHours,
	}
	s := &simulation{
		rules: rules,
		plan:  plan,
		state: state,
		log:   newLogWriter(state, plan.StartTime),
		stops: &stopRegistry{},
	}

	s.run()

	return &domain.SimulationResult{
		DailyLogs:           s.log.dailyLogs(),
		Stops:               s.stops.list(),
		FinalCycleUsedHours: state.cycleHoursUsed,
	}, nil
}

func (s *simulation) run() {
	eps := s.rules.Epsilon

	s.onDutyActivity(s.rules.PickupHours, domain.StopPickup, "Pickup")

	remaining := s.plan.TotalDrivingHours
	for remaining > eps {
		s.enforceRules()

		next := s.nextDriveHours(remaining)
		if next <= eps {
			// An allowance is used up: the next pass through the rules rests.
			s.enforceRestReset()
			continue
		}

		s.drive(next)
		remaining -= next
		s.trackFuel(next)
	}

	s.onDutyActivity(s.rules.DropoffHours, domain.StopDropoff, "Dropoff")
}

func validatePlan(plan domain.TripPlan) error {
	if plan.StartTime.IsZero() {
		return invalidInput("start_time", "must be set")
	}

	fields := []struct {
		name string
		v    float64
	}{
		{"total_driving_hours", plan.TotalDrivingHours},
		{"total_distance_miles", plan.TotalDistanceMiles},
		{"initial_cycle_used_hours", plan.InitialCycleUsedHours},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalidInput(f.name, "must be a finite number")
		}
		if f.v < 0 {
			return invalidInput(f.name, "must not be negative")
		}
	}
	return nil
}
