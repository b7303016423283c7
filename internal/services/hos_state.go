package services

import (
	"math"
	"time"
)

// simulationState is owned by a single run and mutated only by it.
type simulationState struct {
	currentTime time.Time
	// Total cycle hours reported to the caller; it never decreases.
	cycleHoursUsed float64
	// Hours counted against the cycle ceiling since the last cycle restart.
	cycleWindowHours  float64
	dayDrivingHours   float64
	dayOnDutyHours    float64
	drivingSinceBreak float64
	lastBreakTime     *time.Time
	lastActivityEnd   time.Time
}

func (s *simulationState) resetDay() {
	s.dayDrivingHours = 0
	s.dayOnDutyHours = 0
	s.drivingSinceBreak = 0
	s.lastBreakTime = nil
}

// creditCycle adds on-duty or driving hours to both cycle counters.
func (s *simulationState) creditCycle(hours float64) {
	s.cycleHoursUsed += hours
	s.cycleWindowHours += hours
}

// floatSlack absorbs rounding in accumulated hour sums.
const floatSlack = 1e-9

func hoursToDuration(h float64) time.Duration {
	return time.Duration(math.Round(h * float64(time.Hour)))
}
