package domain

import (
	"errors"
	"fmt"
	"math"
)

// HOSRules is a regulatory profile: every threshold and fixed duration the
// simulation uses. Values are hours unless the name says otherwise.
type HOSRules struct {
	MaxDrivingHoursDaily   float64 `yaml:"max_driving_hours_daily"`
	MaxOnDutyHoursDaily    float64 `yaml:"max_on_duty_hours_daily"`
	MaxCycleHours          float64 `yaml:"max_cycle_hours"`
	RestResetHours         float64 `yaml:"rest_reset_hours"`
	CycleRestartHours      float64 `yaml:"cycle_restart_hours"`
	BreakAfterDrivingHours float64 `yaml:"break_after_driving_hours"`
	BreakHours             float64 `yaml:"break_hours"`
	FuelIntervalMiles      float64 `yaml:"fuel_interval_miles"`
	FuelStopHours          float64 `yaml:"fuel_stop_hours"`
	PickupHours            float64 `yaml:"pickup_hours"`
	DropoffHours           float64 `yaml:"dropoff_hours"`
	StepHours              float64 `yaml:"step_hours"`
	Epsilon                float64 `yaml:"epsilon"`
}

// DefaultHOSRules returns the property-carrying driver profile (70 hours / 8 days).
func DefaultHOSRules() HOSRules {
	return HOSRules{
		MaxDrivingHoursDaily:   11,
		MaxOnDutyHoursDaily:    14,
		MaxCycleHours:          70,
		RestResetHours:         10,
		CycleRestartHours:      34,
		BreakAfterDrivingHours: 8,
		BreakHours:             0.5,
		FuelIntervalMiles:      1000,
		FuelStopHours:          0.5,
		PickupHours:            1,
		DropoffHours:           1,
		StepHours:              1,
		Epsilon:                0.001,
	}
}

func (r HOSRules) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"max_driving_hours_daily", r.MaxDrivingHoursDaily},
		{"max_on_duty_hours_daily", r.MaxOnDutyHoursDaily},
		{"max_cycle_hours", r.MaxCycleHours},
		{"rest_reset_hours", r.RestResetHours},
		{"cycle_restart_hours", r.CycleRestartHours},
		{"break_after_driving_hours", r.BreakAfterDrivingHours},
		{"break_hours", r.BreakHours},
		{"fuel_interval_miles", r.FuelIntervalMiles},
		{"fuel_stop_hours", r.FuelStopHours},
		{"step_hours", r.StepHours},
		{"epsilon", r.Epsilon},
	}
	for _, p := range positive {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) || p.v <= 0 {
			return fmt.Errorf("hos rules: %s must be a positive number, got %v", p.name, p.v)
		}
	}

	if !(r.PickupHours >= 0) || !(r.DropoffHours >= 0) {
		return errors.New("hos rules: pickup_hours and dropoff_hours must be >= 0")
	}
	for _, w := range []float64{r.PickupHours, r.DropoffHours, r.FuelStopHours} {
		if w > r.MaxOnDutyHoursDaily {
			return errors.New("hos rules: pickup, dropoff and fuel stop must each fit in max_on_duty_hours_daily")
		}
	}
	if r.MaxDrivingHoursDaily > r.MaxOnDutyHoursDaily {
		return errors.New("hos rules: max_driving_hours_daily must not exceed max_on_duty_hours_daily")
	}
	// A step at or below epsilon would never make progress.
	if r.StepHours <= r.Epsilon {
		return errors.New("hos rules: step_hours must be greater than epsilon")
	}
	return nil
}
