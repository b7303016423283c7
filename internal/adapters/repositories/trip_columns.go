package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"
	"trip-log-service/internal/domain"
)

const tripColumns = `
		id,
		current_location,
		pickup_location,
		dropoff_location,
		current_cycle_used_hrs,
		route_distance_miles,
		route_duration_hours,
		route_geometry,
		start_time,
		daily_logs,
		stops,
		final_cycle_used_hrs,
		created_at,
		updated_at`

// Persisted JSON shape of a log sheet.
type storedDailyLog struct {
	Date    time.Time     `json:"date"`
	Entries []storedEntry `json:"entries"`
}

type storedEntry struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
}

// Persisted JSON shape of a stop. Durations are kept in seconds.
type storedStop struct {
	Kind            string    `json:"kind"`
	Time            time.Time `json:"time"`
	DurationSeconds float64   `json:"duration_seconds"`
	Description     string    `json:"description,omitempty"`
}

// encodedPlan holds the JSON column values of a trip; nil fields are stored as NULL.
type encodedPlan struct {
	geometry  any
	dailyLogs any
	stops     any
}

func encodePlan(t *domain.Trip) (encodedPlan, error) {
	var out encodedPlan
	if len(t.RouteGeometry) > 0 {
		out.geometry = string(t.RouteGeometry)
	}
	if !t.HasPlan() {
		return out, nil
	}

	logs := make([]storedDailyLog, 0, len(t.DailyLogs))
	for _, d := range t.DailyLogs {
		sl := storedDailyLog{Date: d.Date, Entries: make([]storedEntry, 0, len(d.Entries))}
		for _, e := range d.Entries {
			sl.Entries = append(sl.Entries, storedEntry{
				Start:       e.Start,
				End:         e.End,
				Status:      string(e.Status),
				Description: e.Description,
			})
		}
		logs = append(logs, sl)
	}
	b, err := json.Marshal(logs)
	if err != nil {
		return out, fmt.Errorf("encode daily logs: %w", err)
	}
	out.dailyLogs = string(b)

	stops := make([]storedStop, 0, len(t.Stops))
	for _, s := range t.Stops {
		stops = append(stops, storedStop{
			Kind:            string(s.Kind),
			Time:            s.Time,
			DurationSeconds: s.Duration.Seconds(),
			Description:     s.Description,
		})
	}
	b, err = json.Marshal(stops)
	if err != nil {
		return out, fmt.Errorf("encode stops: %w", err)
	}
	out.stops = string(b)

	return out, nil
}

// decodePlan fills the JSON-backed fields of t from nullable column values.
func decodePlan(t *domain.Trip, geometry, dailyLogs, stops sql.NullString) error {
	if geometry.Valid && geometry.String != "" {
		t.RouteGeometry = json.RawMessage(geometry.String)
	}

	if dailyLogs.Valid && dailyLogs.String != "" {
		var logs []storedDailyLog
		if err := json.Unmarshal([]byte(dailyLogs.String), &logs); err != nil {
			return fmt.Errorf("decode daily logs: %w", err)
		}
		t.DailyLogs = make([]domain.DailyLog, 0, len(logs))
		for _, sl := range logs {
			d := domain.DailyLog{Date: sl.Date, Entries: make([]domain.LogEntry, 0, len(sl.Entries))}
			for _, e := range sl.Entries {
				d.Entries = append(d.Entries, domain.LogEntry{
					Start:       e.Start,
					End:         e.End,
					Status:      domain.DutyStatus(e.Status),
					Description: e.Description,
				})
			}
			t.DailyLogs = append(t.DailyLogs, d)
		}
	}

	if stops.Valid && stops.String != "" {
		var ss []storedStop
		if err := json.Unmarshal([]byte(stops.String), &ss); err != nil {
			return fmt.Errorf("decode stops: %w", err)
		}
		t.Stops = make([]domain.Stop, 0, len(ss))
		for _, s := range ss {
			t.Stops = append(t.Stops, domain.Stop{
				Kind:        domain.StopKind(s.Kind),
				Time:        s.Time,
				Duration:    time.Duration(math.Round(s.DurationSeconds * float64(time.Second))),
				Description: s.Description,
			})
		}
	}

	return nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
