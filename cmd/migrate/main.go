package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/perfeval/backend/internal/config"
	"github.com/perfeval/backend/internal/db"
	"github.com/perfeval/backend/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Read()
	logger.Initialize(config.LoggingConfig{Level: cfg.Logging.Level, File: "-"})

	if !cfg.Database.Enabled() {
		log.Fatal("No database configured: set DATABASE_URL or DB_HOST")
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close(database)

	// Run migrations
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(database); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("✅ Database migrations completed successfully!")
}
