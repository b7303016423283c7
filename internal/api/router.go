package api

import (
	"net/http"
	"trip-log-service/internal/api/handlers"
	"trip-log-service/internal/domain"
	"trip-log-service/internal/ports"

	"github.com/justinas/alice"
	"github.com/rs/cors"
)

// Deps are the collaborators the HTTP API needs.
type Deps struct {
	Repo           ports.TripRepository
	Provider       ports.RouteProvider
	Rules          domain.HOSRules
	AllowedOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	tripHandler := &handlers.TripHandler{
		Repo:     d.Repo,
		Provider: d.Provider,
		Rules:    d.Rules,
	}
	simHandler := &handlers.SimulationHandler{Rules: d.Rules}

	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("POST /api/trips", tripHandler.Create)
	mux.HandleFunc("GET /api/trips", tripHandler.List)
	mux.HandleFunc("GET /api/trips/{id}", tripHandler.Get)
	mux.HandleFunc("DELETE /api/trips/{id}", tripHandler.Delete)
	mux.HandleFunc("POST /api/simulations", simHandler.Simulate)

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Location"},
	})

	return alice.New(recoverPanic, requestID, loggingMiddleware, c.Handler).Then(mux)
}
