package dto

import (
	"encoding/json"
	"time"
)

type CreateTripRequest struct {
	CurrentLocation     string     `json:"current_location"`
	PickupLocation      string     `json:"pickup_location"`
	DropoffLocation     string     `json:"dropoff_location"`
	CurrentCycleUsedHrs *float64   `json:"current_cycle_used_hrs"`
	StartTime           *time.Time `json:"start_time"`
}

type LogEntryResponse struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Status        string    `json:"status"`
	Description   string    `json:"description"`
	DurationHours float64   `json:"duration_hours"`
}

// One log sheet with its per-status totals (the grid's right-hand column).
// A new sheet opens after every rest reset, so when a reset ends before
// midnight two consecutive sheets carry the same Date. Sheet is the 1-based
// position in the trip and is unique.
type DailyLogResponse struct {
	Sheet             int                `json:"sheet"`
	Date              string             `json:"date"`
	Entries           []LogEntryResponse `json:"entries"`
	TotalOffDutyHours float64            `json:"total_off_duty_hours"`
	TotalSleeperHours float64            `json:"total_sleeper_berth_hours"`
	TotalDrivingHours float64            `json:"total_driving_hours"`
	TotalOnDutyHours  float64            `json:"total_on_duty_hours"`
}

// Type rest_reset covers both the 10-hour daily reset and the 34-hour cycle
// restart; Description and DurationHours tell them apart.
type StopResponse struct {
	Type          string    `json:"type"`
	Time          time.Time `json:"time"`
	DurationHours float64   `json:"duration_hours"`
	Description   string    `json:"description"`
}

type TripResponse struct {
	ID                  string             `json:"id"`
	CurrentLocation     string             `json:"current_location"`
	PickupLocation      string             `json:"pickup_location"`
	DropoffLocation     string             `json:"dropoff_location"`
	CurrentCycleUsedHrs float64            `json:"current_cycle_used_hrs"`
	RouteDistanceMiles  *float64           `json:"route_distance_miles"`
	RouteDurationHours  *float64           `json:"route_duration_hours"`
	RouteGeoJSON        json.RawMessage    `json:"route_geojson"`
	StartTime           *time.Time         `json:"start_time"`
	DailyLogs           []DailyLogResponse `json:"daily_logs"`
	Stops               []StopResponse     `json:"stops"`
	FinalCycleUsedHours *float64           `json:"final_cycle_used_hours"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

type ListTripsResponse struct {
	Trips []TripResponse `json:"trips"`
}
