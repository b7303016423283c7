package services

import (
	"fmt"
	"time"
	"trip-log-service/internal/domain"
)

// enforceRules runs the rest checks that gate the next driving step.
// A rest reset takes precedence; the break check then sees the cleared counters.
func (s *simulation) enforceRules() {
	s.enforceRestReset()
	s.enforceBreak()
}

// enforceRestReset inserts a long off-duty period when the daily driving or
// on-duty allowance is used up, or a cycle restart when the cycle ceiling is.
// Thresholds are compared with epsilon slack so that an allowance the scheduler
// treats as exhausted always triggers a reset here.
func (s *simulation) enforceRestReset() bool {
	r := s.rules
	st := s.state

	cycleExhausted := r.MaxCycleHours-st.cycleWindowHours <= r.Epsilon
	dayExhausted := st.dayDrivingHours >= r.MaxDrivingHoursDaily-r.Epsilon ||
		st.dayOnDutyHours >= r.MaxOnDutyHoursDaily-r.Epsilon

	switch {
	case cycleExhausted:
		s.restReset(r.CycleRestartHours, "cycle restart", true)
	case dayExhausted:
		s.restReset(r.RestResetHours, "reset", false)
	default:
		return false
	}
	return true
}

// enforceBreak inserts the short break once enough driving has accumulated
// since the last break or reset.
func (s *simulation) enforceBreak() bool {
	r := s.rules
	st := s.state

	if st.drivingSinceBreak < r.BreakAfterDrivingHours-r.Epsilon {
		return false
	}
	if st.lastBreakTime != nil &&
		st.currentTime.Sub(*st.lastBreakTime).Hours() < r.BreakAfterDrivingHours-r.Epsilon {
		return false
	}

	s.rest(r.BreakHours, domain.StopMandatoryBreak,
		fmt.Sprintf("Mandatory %d-min break", int(hoursToDuration(r.BreakHours).Minutes())))

	at := st.currentTime
	st.lastBreakTime = &at
	st.drivingSinceBreak = 0
	return true
}

// ensureOnDutyRoom takes a rest reset first when on-duty work of the given
// length would push today's on-duty time past its daily limit.
func (s *simulation) ensureOnDutyRoom(hours float64) {
	if s.state.dayOnDutyHours+hours <= s.rules.MaxOnDutyHoursDaily+floatSlack {
		return
	}
	if !s.enforceRestReset() {
		s.restReset(s.rules.RestResetHours, "reset", false)
	}
}

// restReset takes a long off-duty period, clears the daily accumulators and
// starts a new log sheet. A cycle restart also empties the cycle window.
func (s *simulation) restReset(hours float64, what string, restartCycle bool) {
	s.rest(hours, domain.StopRestReset,
		fmt.Sprintf("Required %s off-duty %s", formatHourSpan(hours), what))

	s.state.resetDay()
	if restartCycle {
		s.state.cycleWindowHours = 0
	}
	s.log.openSheet(s.state.currentTime)
}

// rest writes an off-duty interval at the current time, records the stop and
// advances the clock.
func (s *simulation) rest(hours float64, kind domain.StopKind, description string) {
	start := s.state.currentTime
	d := hoursToDuration(hours)
	end := start.Add(d)

	s.log.write(start, end, domain.StatusOffDuty, description)
	s.stops.record(kind, start, d, description)
	s.state.currentTime = end
}

func formatHourSpan(h float64) string {
	d := hoursToDuration(h)
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d-hour", int(d.Hours()))
	}
	return fmt.Sprintf("%.1f-hour", h)
}
