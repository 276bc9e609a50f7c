package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/db"
)

func main() {
	log.Println("Portal storage migration - Starting")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	database, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("✓ portal_local_storage is ready")
	log.Println("Portal storage migration - Finished")
}
