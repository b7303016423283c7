package handlers

import (
	"net/http"
	"strings"
	"trip-log-service/internal/api/dto"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/ports"
	"trip-log-service/internal/services"
)

// TripHandler exposes trip planning and stored trip retrieval.
type TripHandler struct {
	Repo     ports.TripRepository
	Provider ports.RouteProvider
	Rules    domain.HOSRules
}

// Create routes the trip, simulates its duty-status log and stores the result.
// A failed route lookup still stores the trip, without a plan.
func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.CurrentCycleUsedHrs == nil {
		writeError(w, r, http.StatusBadRequest, "current_cycle_used_hrs is required")
		return
	}
	if *req.CurrentCycleUsedHrs > maxCycleUsedHours {
		writeError(w, r, http.StatusBadRequest, "current_cycle_used_hrs is too large")
		return
	}

	svcReq := services.PlanTripRequest{
		CurrentLocation:       req.CurrentLocation,
		PickupLocation:        req.PickupLocation,
		DropoffLocation:       req.DropoffLocation,
		CurrentCycleUsedHours: *req.CurrentCycleUsedHrs,
	}
	if req.StartTime != nil {
		svcReq.StartTime = req.StartTime.UTC()
	}

	trip, err := services.PlanTrip(r.Context(), svcReq, h.Repo, h.Provider, h.Rules)
	if err != nil {
		writeServiceError(w, r, "create trip", err)
		return
	}

	w.Header().Set("Location", "/api/trips/"+trip.ID)
	writeJSON(w, r, http.StatusCreated, dto.FromTrip(trip))
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Repo.ListTrips(r.Context())
	if err != nil {
		writeServiceError(w, r, "list trips", err)
		return
	}

	res := dto.ListTripsResponse{Trips: make([]dto.TripResponse, 0, len(trips))}
	for _, t := range trips {
		res.Trips = append(res.Trips, dto.FromTrip(t))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))

	trip, err := h.Repo.GetTrip(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get trip", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromTrip(trip))
}

func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))

	if err := h.Repo.DeleteTrip(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete trip", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
