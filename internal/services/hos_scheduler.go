package services

import (
	"fmt"
	"math"
	"trip-log-service/internal/domain"
)

// nextDriveHours returns the longest drive allowed in the next step. It is the
// minimum of the remaining trip, the step size, and the daily driving, daily
// on-duty and cycle allowances. A result at or below epsilon means a rest is due.
func (s *simulation) nextDriveHours(remaining float64) float64 {
	r := s.rules
	st := s.state

	next := math.Min(remaining, r.StepHours)
	next = math.Min(next, r.MaxDrivingHoursDaily-st.dayDrivingHours)
	next = math.Min(next, r.MaxOnDutyHoursDaily-st.dayOnDutyHours)
	next = math.Min(next, r.MaxCycleHours-st.cycleWindowHours)
	return math.Max(next, 0)
}

// drive writes a driving interval of the given length and credits it.
func (s *simulation) drive(hours float64) {
	st := s.state
	start := st.currentTime
	end := start.Add(hoursToDuration(hours))

	today := s.log.write(start, end, domain.StatusDriving, fmt.Sprintf("Driving (%.2f hrs)", hours))
	st.currentTime = end

	st.dayDrivingHours += today
	st.dayOnDutyHours += today
	st.drivingSinceBreak += today
	st.creditCycle(hours)
}
