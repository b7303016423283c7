package handlers

import (
	"net/http"
	"trip-log-service/internal/api/dto"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/services"
)

// Upper bounds on request values; the engine itself accepts any finite input.
const (
	maxSimulationHours = 1000
	maxCycleUsedHours  = 999.99
)

// SimulationHandler runs the duty-status engine on caller-supplied totals
// without routing or storage.
type SimulationHandler struct {
	Rules domain.HOSRules
}

func (h *SimulationHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch {
	case req.StartTime == nil:
		writeError(w, r, http.StatusBadRequest, "start_time is required")
		return
	case req.TotalDrivingHours == nil:
		writeError(w, r, http.StatusBadRequest, "total_driving_hours is required")
		return
	case req.TotalDistanceMiles == nil:
		writeError(w, r, http.StatusBadRequest, "total_distance_miles is required")
		return
	case req.InitialCycleUsedHours == nil:
		writeError(w, r, http.StatusBadRequest, "initial_cycle_used_hours is required")
		return
	case *req.TotalDrivingHours > maxSimulationHours:
		writeError(w, r, http.StatusBadRequest, "total_driving_hours is too large")
		return
	case *req.InitialCycleUsedHours > maxCycleUsedHours:
		writeError(w, r, http.StatusBadRequest, "initial_cycle_used_hours is too large")
		return
	}

	result, err := services.SimulateTrip(domain.TripPlan{
		StartTime:             *req.StartTime,
		TotalDrivingHours:     *req.TotalDrivingHours,
		TotalDistanceMiles:    *req.TotalDistanceMiles,
		InitialCycleUsedHours: *req.InitialCycleUsedHours,
	}, h.Rules)
	if err != nil {
		writeServiceError(w, r, "simulate trip", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromSimulation(result))
}
