package dto

import (
	"trip-log-service/internal/domain"
)

// FromDailyLogs converts engine log sheets to their JSON form.
func FromDailyLogs(logs []domain.DailyLog) []DailyLogResponse {
	out := make([]DailyLogResponse, 0, len(logs))
	for i, d := range logs {
		entries := make([]LogEntryResponse, 0, len(d.Entries))
		for _, e := range d.Entries {
			entries = append(entries, LogEntryResponse{
				Start:         e.Start,
				End:           e.End,
				Status:        string(e.Status),
				Description:   e.Description,
				DurationHours: e.Hours(),
			})
		}

		out = append(out, DailyLogResponse{
			Sheet:             i + 1,
			Date:              d.Date.Format("2006-01-02"),
			Entries:           entries,
			TotalOffDutyHours: d.HoursIn(domain.StatusOffDuty),
			TotalSleeperHours: d.HoursIn(domain.StatusSleeperBerth),
			TotalDrivingHours: d.HoursIn(domain.StatusDriving),
			TotalOnDutyHours:  d.HoursIn(domain.StatusOnDutyNotDriving),
		})
	}
	return out
}

func FromStops(stops []domain.Stop) []StopResponse {
	out := make([]StopResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, StopResponse{
			Type:          string(s.Kind),
			Time:          s.Time,
			DurationHours: s.Duration.Hours(),
			Description:   s.Description,
		})
	}
	return out
}

func FromTrip(t *domain.Trip) TripResponse {
	return TripResponse{
		ID:                  t.ID,
		CurrentLocation:     t.CurrentLocation,
		PickupLocation:      t.PickupLocation,
		DropoffLocation:     t.DropoffLocation,
		CurrentCycleUsedHrs: t.CurrentCycleUsedHours,
		RouteDistanceMiles:  t.RouteDistanceMiles,
		RouteDurationHours:  t.RouteDurationHours,
		RouteGeoJSON:        t.RouteGeometry,
		StartTime:           t.StartTime,
		DailyLogs:           FromDailyLogs(t.DailyLogs),
		Stops:               FromStops(t.Stops),
		FinalCycleUsedHours: t.FinalCycleUsedHours,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func FromSimulation(r *domain.SimulationResult) SimulationResponse {
	return SimulationResponse{
		DailyLogs:           FromDailyLogs(r.DailyLogs),
		Stops:               FromStops(r.Stops),
		FinalCycleUsedHours: r.FinalCycleUsedHours,
	}
}
