package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"trip-log-service/internal/api"
	"trip-log-service/internal/app"
	"trip-log-service/internal/config"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/PostgreSQL, Redis, Mapbox/ORS) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer svc.Close()

	router := api.NewRouter(api.Deps{
		Repo:           svc.Repo,
		Provider:       svc.Provider,
		Rules:          svc.Rules,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Timeouts are tuned for cold-cache trip planning (geocoding plus directions latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s db=%s provider=%s", cfg.Port, cfg.DBDriver, cfg.RoutingProvider)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}
