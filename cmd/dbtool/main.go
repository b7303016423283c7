package main

import (
	"context"
	"log"
	"strings"
	"time"
	"trip-log-service/internal/adapters/repositories"
	"trip-log-service/internal/config"
	"trip-log-service/internal/platform/db"

	"github.com/joho/godotenv"
)

// dbtool initialises the PostgreSQL schema ahead of a deployment.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
