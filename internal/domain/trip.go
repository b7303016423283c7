package domain

import (
	"encoding/json"
	"time"
)

// Trip is the stored record of one planned trip. Route and plan fields stay nil
// when the route lookup failed and no simulation was run.
type Trip struct {
	ID                    string
	CurrentLocation       string
	PickupLocation        string
	DropoffLocation       string
	CurrentCycleUsedHours float64

	RouteDistanceMiles *float64
	RouteDurationHours *float64
	RouteGeometry      json.RawMessage

	StartTime           *time.Time
	DailyLogs           []DailyLog
	Stops               []Stop
	FinalCycleUsedHours *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Return true when a duty-status plan is attached to the trip.
func (t *Trip) HasPlan() bool { return t.FinalCycleUsedHours != nil }
