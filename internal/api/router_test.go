package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"trip-log-service/internal/adapters/repositories"
	"trip-log-service/internal/adapters/routing"
	"trip-log-service/internal/api/dto"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/db"
	"trip-log-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, repositories.InitSchema(context.Background(), conn))

	provider := routing.NewMockRouteProvider()
	provider.Set("Gary, IN", "Columbus, OH", ports.RouteResult{
		DistanceMeters:  300 * 1609.34,
		DurationSeconds: 5 * 3600,
		Geometry:        json.RawMessage(`{"type":"LineString","coordinates":[[-87.3,41.6],[-83.0,39.9]]}`),
	})

	return NewRouter(Deps{
		Repo:     repositories.NewSqliteTripRepository(conn),
		Provider: provider,
		Rules:    domain.DefaultHOSRules(),
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

const validTripBody = `{
	"current_location": "Chicago, IL",
	"pickup_location": "Gary, IN",
	"dropoff_location": "Columbus, OH",
	"current_cycle_used_hrs": 10,
	"start_time": "2026-03-02T08:00:00Z"
}`

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestServer(t)

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCreateTrip(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/trips", validTripBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	trip := decode[dto.TripResponse](t, w)
	assert.NotEmpty(t, trip.ID)
	assert.Equal(t, "/api/trips/"+trip.ID, w.Header().Get("Location"))
	require.NotNil(t, trip.RouteDistanceMiles)
	assert.InDelta(t, 300, *trip.RouteDistanceMiles, 1e-9)
	require.NotNil(t, trip.FinalCycleUsedHours)
	assert.InDelta(t, 17, *trip.FinalCycleUsedHours, 1e-6)
	assert.NotEmpty(t, trip.RouteGeoJSON)

	require.Len(t, trip.DailyLogs, 1)
	day := trip.DailyLogs[0]
	assert.Equal(t, "2026-03-02", day.Date)
	assert.InDelta(t, 5, day.TotalDrivingHours, 1e-6)
	assert.InDelta(t, 2, day.TotalOnDutyHours, 1e-6)
	assert.Len(t, day.Entries, 7)

	require.Len(t, trip.Stops, 2)
	assert.Equal(t, "pickup", trip.Stops[0].Type)
	assert.Equal(t, "dropoff", trip.Stops[1].Type)
	assert.InDelta(t, 1, trip.Stops[0].DurationHours, 1e-9)
}

func TestCreateTripWithoutRoute(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/trips", `{
		"current_location": "A",
		"pickup_location": "Nowhere",
		"dropoff_location": "Elsewhere",
		"current_cycle_used_hrs": 0
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	trip := decode[dto.TripResponse](t, w)
	assert.Nil(t, trip.FinalCycleUsedHours)
	assert.Nil(t, trip.RouteDistanceMiles)
	assert.Empty(t, trip.DailyLogs)
	assert.Empty(t, trip.Stops)
}

func TestCreateTripValidation(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{"current_location":`, "invalid json body"},
		{"unknown field", `{"current_location":"A","pickup_location":"B","dropoff_location":"C","current_cycle_used_hrs":1,"extra":1}`, "invalid json body"},
		{"two objects", `{"current_location":"A","pickup_location":"B","dropoff_location":"C","current_cycle_used_hrs":1}{}`, "only one JSON object"},
		{"missing cycle", `{"current_location":"A","pickup_location":"B","dropoff_location":"C"}`, "current_cycle_used_hrs is required"},
		{"negative cycle", `{"current_location":"A","pickup_location":"B","dropoff_location":"C","current_cycle_used_hrs":-1}`, "current_cycle_used_hrs"},
		{"blank pickup", `{"current_location":"A","pickup_location":"  ","dropoff_location":"C","current_cycle_used_hrs":1}`, "pickup_location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/trips", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestTripLifecycle(t *testing.T) {
	h := newTestServer(t)

	first := decode[dto.TripResponse](t, do(t, h, http.MethodPost, "/api/trips", validTripBody))
	second := decode[dto.TripResponse](t, do(t, h, http.MethodPost, "/api/trips", validTripBody))

	w := do(t, h, http.MethodGet, "/api/trips", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.ListTripsResponse](t, w)
	require.Len(t, list.Trips, 2)
	ids := []string{list.Trips[0].ID, list.Trips[1].ID}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, ids)

	w = do(t, h, http.MethodGet, "/api/trips/"+first.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.TripResponse](t, w)
	assert.Equal(t, first.ID, got.ID)
	assert.Len(t, got.DailyLogs, len(first.DailyLogs))

	w = do(t, h, http.MethodDelete, "/api/trips/"+first.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/trips/"+first.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"trip not found"}`, w.Body.String())

	w = do(t, h, http.MethodDelete, "/api/trips/"+first.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPut, "/api/trips", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSimulate(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/simulations", `{
		"start_time": "2026-03-02T06:00:00Z",
		"total_driving_hours": 20,
		"total_distance_miles": 800,
		"initial_cycle_used_hours": 0
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode[dto.SimulationResponse](t, w)
	assert.InDelta(t, 22, res.FinalCycleUsedHours, 1e-6)
	require.Len(t, res.DailyLogs, 3)

	// The reset runs past midnight: the calendar day splits the sheet there and
	// the reset's end opens another sheet on the same date.
	var dates []string
	var sheets []int
	for _, d := range res.DailyLogs {
		dates = append(dates, d.Date)
		sheets = append(sheets, d.Sheet)
	}
	assert.Equal(t, []string{"2026-03-02", "2026-03-03", "2026-03-03"}, dates)
	assert.Equal(t, []int{1, 2, 3}, sheets)

	var kinds []string
	for _, s := range res.Stops {
		kinds = append(kinds, s.Type)
	}
	assert.Equal(t, []string{"pickup", "mandatory_break", "rest_reset", "mandatory_break", "dropoff"}, kinds)
	assert.Equal(t, "Required 10-hour off-duty reset", res.Stops[2].Description)
	assert.InDelta(t, 10, res.Stops[2].DurationHours, 1e-6)
}

func TestSimulateValidation(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing start", `{"total_driving_hours":1,"total_distance_miles":1,"initial_cycle_used_hours":0}`, "start_time is required"},
		{"missing hours", `{"start_time":"2026-03-02T06:00:00Z","total_distance_miles":1,"initial_cycle_used_hours":0}`, "total_driving_hours is required"},
		{"negative hours", `{"start_time":"2026-03-02T06:00:00Z","total_driving_hours":-1,"total_distance_miles":1,"initial_cycle_used_hours":0}`, "total_driving_hours"},
		{"negative miles", `{"start_time":"2026-03-02T06:00:00Z","total_driving_hours":1,"total_distance_miles":-1,"initial_cycle_used_hours":0}`, "total_distance_miles"},
		{"too many hours", `{"start_time":"2026-03-02T06:00:00Z","total_driving_hours":5000,"total_distance_miles":1,"initial_cycle_used_hours":0}`, "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/simulations", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t)

	r := httptest.NewRequest(http.MethodOptions, "/api/trips", nil)
	r.Header.Set("Origin", "http://localhost:5173")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoverPanic(t *testing.T) {
	h := recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "internal server error"))
}
