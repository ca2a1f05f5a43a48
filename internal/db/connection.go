package db

import (
	"context"
	"fmt"
	"time"

	"github.com/perfeval/backend/internal/config"
	"github.com/perfeval/backend/internal/logger"
	"github.com/perfeval/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the Postgres connection used for evaluation history and the
// pgvector store.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("✅ Database connected successfully", map[string]interface{}{
		"host": cfg.Host,
		"name": cfg.Name,
	})
	return database, nil
}

// AutoMigrate creates the vector extension and the application tables.
func AutoMigrate(database *gorm.DB) error {
	if err := database.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	for _, model := range []interface{}{&models.EvaluationRun{}, &models.LogSegmentVector{}} {
		if err := database.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration of %T failed: %w", model, err)
		}
		logger.Info("✅ Table migrated successfully", map[string]interface{}{"model": fmt.Sprintf("%T", model)})
	}

	logger.Info("✅ All database migrations completed successfully", nil)
	return nil
}

// Ping checks connectivity for the health endpoint.
func Ping(ctx context.Context, database *gorm.DB) error {
	if database == nil {
		return fmt.Errorf("database connection not initialized")
	}
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the pool.
func Close(database *gorm.DB) error {
	if database == nil {
		return nil
	}
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
