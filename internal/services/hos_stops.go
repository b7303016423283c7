package services

import (
	"time"
	"trip-log-service/internal/domain"
)

type stopRegistry struct {
	stops []domain.Stop
}

func (r *stopRegistry) record(kind domain.StopKind, at time.Time, d time.Duration, description string) {
	r.stops = append(r.stops, domain.Stop{Kind: kind, Time: at, Duration: d, Description: description})
}

func (r *stopRegistry) list() []domain.Stop {
	out := make([]domain.Stop, len(r.stops))
	copy(out, r.stops)
	return out
}

// onDutyActivity writes fixed-length on-duty-not-driving work (pickup, dropoff,
// fueling), records its stop and credits it to the daily and cycle counters.
func (s *simulation) onDutyActivity(hours float64, kind domain.StopKind, description string) {
	if hours <= 0 {
		s.stops.record(kind, s.state.currentTime, 0, description)
		return
	}
	s.ensureOnDutyRoom(hours)

	st := s.state
	start := st.currentTime
	d := hoursToDuration(hours)
	end := start.Add(d)

	today := s.log.write(start, end, domain.StatusOnDutyNotDriving, description)
	s.stops.record(kind, start, d, description)
	st.currentTime = end

	st.dayOnDutyHours += today
	st.creditCycle(hours)
}

// trackFuel apportions the driven distance and stops for fuel once the
// interval mileage is reached.
func (s *simulation) trackFuel(drivenHours float64) {
	if s.plan.TotalDrivingHours <= 0 {
		return
	}
	s.milesSinceFuel += drivenHours / s.plan.TotalDrivingHours * s.plan.TotalDistanceMiles
	if s.milesSinceFuel < s.rules.FuelIntervalMiles {
		return
	}

	s.onDutyActivity(s.rules.FuelStopHours, domain.StopFuel, "Fueling stop")
	s.milesSinceFuel = 0
}
