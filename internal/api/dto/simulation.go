package dto

import "time"

// All fields are required; pointers distinguish "missing" from zero.
type SimulationRequest struct {
	StartTime             *time.Time `json:"start_time"`
	TotalDrivingHours     *float64   `json:"total_driving_hours"`
	TotalDistanceMiles    *float64   `json:"total_distance_miles"`
	InitialCycleUsedHours *float64   `json:"initial_cycle_used_hours"`
}

type SimulationResponse struct {
	DailyLogs           []DailyLogResponse `json:"daily_logs"`
	Stops               []StopResponse     `json:"stops"`
	FinalCycleUsedHours float64            `json:"final_cycle_used_hours"`
}
