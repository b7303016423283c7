package domain

import "time"

// Duty status recorded on a driver's log sheet.
type DutyStatus string

const (
	StatusOffDuty          DutyStatus = "OFF"
	StatusDriving          DutyStatus = "DR"
	StatusOnDutyNotDriving DutyStatus = "ON"
	StatusSleeperBerth     DutyStatus = "SB"
)

// Represents one timed duty-status interval.
// Start is strictly before End for every entry the engine records.
type LogEntry struct {
	Start       time.Time
	End         time.Time
	Status      DutyStatus
	Description string
}

// Return the entry length in hours.
func (e LogEntry) Hours() float64 { return e.End.Sub(e.Start).Hours() }

// Represents the entries of a single log sheet. Every sheet is confined to one
// calendar day; entries are ordered, non-overlapping and contiguous.
type DailyLog struct {
	Date    time.Time
	Entries []LogEntry
}

// Return the total hours spent in status on this sheet.
func (d DailyLog) HoursIn(status DutyStatus) float64 {
	total := 0.0
	for _, e := range d.Entries {
		if e.Status == status {
			total += e.Hours()
		}
	}
	return total
}

// Return driving plus on-duty-not-driving hours on this sheet.
func (d DailyLog) OnDutyHours() float64 {
	return d.HoursIn(StatusDriving) + d.HoursIn(StatusOnDutyNotDriving)
}

type StopKind string

const (
	StopPickup         StopKind = "pickup"
	StopDropoff        StopKind = "dropoff"
	StopFuel           StopKind = "fuel_stop"
	StopMandatoryBreak StopKind = "mandatory_break"
	StopRestReset      StopKind = "rest_reset"
)

// Represents a discrete event along the trip (bookends, fueling, rest).
// Description matches the log entry written for the stop, which is how a
// 34-hour cycle restart is told apart from a 10-hour reset.
type Stop struct {
	Kind        StopKind
	Time        time.Time
	Duration    time.Duration
	Description string
}

// Immutable input of a single simulation run.
type TripPlan struct {
	StartTime             time.Time
	TotalDrivingHours     float64
	TotalDistanceMiles    float64
	InitialCycleUsedHours float64
}

// Output of a simulation run. It is not modified after it is returned.
type SimulationResult struct {
	DailyLogs           []DailyLog
	Stops               []Stop
	FinalCycleUsedHours float64
}
