package main

import (
	"fmt"
	"os"

	"github.com/carebridge/registry-backend/internal/db"
	"github.com/carebridge/registry-backend/internal/logger"
)

// Resets the registry schema: drops the three tables and recreates them
// empty. Run before a full reload; never part of normal batch ingestion.
func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dbService, err := db.NewService(log)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	defer dbService.Close()

	if err := dbService.DropAll(); err != nil {
		log.Fatal("Dropping tables failed", "error", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		log.Fatal("Creating tables failed", "error", err)
	}

	fmt.Println("Database schema reset successfully.")
}
