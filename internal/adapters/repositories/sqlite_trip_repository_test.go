package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/platform/db"
	"trip-log-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SqliteTripRepository {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, InitSchema(context.Background(), conn))

	repo := NewSqliteTripRepository(conn)
	clock := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return repo
}

func plannedTrip() *domain.Trip {
	miles, hours, final := 500.0, 8.25, 30.5
	start := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	return &domain.Trip{
		CurrentLocation:       "Chicago, IL",
		PickupLocation:        "Gary, IN",
		DropoffLocation:       "Columbus, OH",
		CurrentCycleUsedHours: 20,
		RouteDistanceMiles:    &miles,
		RouteDurationHours:    &hours,
		RouteGeometry:         json.RawMessage(`{"type":"LineString","coordinates":[[1,2],[3,4]]}`),
		StartTime:             &start,
		DailyLogs: []domain.DailyLog{{
			Date: day,
			Entries: []domain.LogEntry{
				{Start: day, End: start, Status: domain.StatusOffDuty, Description: "Off-duty"},
				{Start: start, End: start.Add(time.Hour), Status: domain.StatusOnDutyNotDriving, Description: "Pickup"},
			},
		}},
		Stops: []domain.Stop{
			{Kind: domain.StopPickup, Time: start, Duration: time.Hour, Description: "Pickup"},
			{Kind: domain.StopMandatoryBreak, Time: start.Add(9 * time.Hour), Duration: 30 * time.Minute, Description: "Mandatory 30-min break"},
		},
		FinalCycleUsedHours: &final,
	}
}

func TestSqliteTripRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	trip := plannedTrip()
	require.NoError(t, repo.CreateTrip(ctx, trip))
	require.NotEmpty(t, trip.ID)
	assert.False(t, trip.CreatedAt.IsZero())
	assert.Equal(t, trip.CreatedAt, trip.UpdatedAt)

	got, err := repo.GetTrip(ctx, trip.ID)
	require.NoError(t, err)

	assert.Equal(t, trip.ID, got.ID)
	assert.Equal(t, "Gary, IN", got.PickupLocation)
	require.NotNil(t, got.RouteDistanceMiles)
	assert.Equal(t, 500.0, *got.RouteDistanceMiles)
	require.NotNil(t, got.FinalCycleUsedHours)
	assert.Equal(t, 30.5, *got.FinalCycleUsedHours)
	require.NotNil(t, got.StartTime)
	assert.True(t, trip.StartTime.Equal(*got.StartTime))
	assert.True(t, trip.CreatedAt.Equal(got.CreatedAt))
	assert.JSONEq(t, string(trip.RouteGeometry), string(got.RouteGeometry))

	require.Len(t, got.DailyLogs, 1)
	require.Len(t, got.DailyLogs[0].Entries, 2)
	assert.Equal(t, domain.StatusOnDutyNotDriving, got.DailyLogs[0].Entries[1].Status)
	assert.True(t, trip.DailyLogs[0].Entries[1].End.Equal(got.DailyLogs[0].Entries[1].End))

	require.Len(t, got.Stops, 2)
	assert.Equal(t, domain.StopMandatoryBreak, got.Stops[1].Kind)
	assert.Equal(t, 30*time.Minute, got.Stops[1].Duration)
	assert.Equal(t, "Mandatory 30-min break", got.Stops[1].Description)
}

func TestSqliteTripRepositoryTripWithoutPlan(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	trip := &domain.Trip{
		CurrentLocation: "A",
		PickupLocation:  "B",
		DropoffLocation: "C",
	}
	require.NoError(t, repo.CreateTrip(ctx, trip))

	got, err := repo.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.False(t, got.HasPlan())
	assert.Nil(t, got.RouteDistanceMiles)
	assert.Nil(t, got.StartTime)
	assert.Nil(t, got.RouteGeometry)
	assert.Empty(t, got.DailyLogs)
	assert.Empty(t, got.Stops)
}

func TestSqliteTripRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	var ids []string
	for _, loc := range []string{"first", "second", "third"} {
		trip := &domain.Trip{CurrentLocation: loc, PickupLocation: loc, DropoffLocation: loc}
		require.NoError(t, repo.CreateTrip(ctx, trip))
		ids = append(ids, trip.ID)
	}

	trips, err := repo.ListTrips(ctx)
	require.NoError(t, err)
	require.Len(t, trips, 3)
	assert.Equal(t, ids[2], trips[0].ID)
	assert.Equal(t, ids[1], trips[1].ID)
	assert.Equal(t, ids[0], trips[2].ID)
}

func TestSqliteTripRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	trip := plannedTrip()
	require.NoError(t, repo.CreateTrip(ctx, trip))

	require.NoError(t, repo.DeleteTrip(ctx, trip.ID))

	_, err := repo.GetTrip(ctx, trip.ID)
	assert.ErrorIs(t, err, ports.ErrTripNotFound)
	assert.ErrorIs(t, repo.DeleteTrip(ctx, trip.ID), ports.ErrTripNotFound)
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, InitSchema(context.Background(), conn))
	require.NoError(t, InitSchema(context.Background(), conn))
	assert.Error(t, InitSchema(context.Background(), nil))
}
