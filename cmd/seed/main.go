package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/perfeval/backend/internal/config"
	"github.com/perfeval/backend/internal/db"
	"github.com/perfeval/backend/internal/llm"
	"github.com/perfeval/backend/internal/logger"
	"github.com/perfeval/backend/internal/models"
	"github.com/perfeval/backend/internal/services"
	"github.com/perfeval/backend/internal/vectorstore"
	"github.com/perfeval/backend/internal/web"
	"gorm.io/gorm"
)

// Indexes the form's sample batches so every listed employee has stored logs.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Read()
	logger.Initialize(config.LoggingConfig{Level: cfg.Logging.Level, File: "-"})

	var database *gorm.DB
	var embedder vectorstore.Embedder
	if cfg.VectorStore.Backend == "pgvector" {
		var err error
		database, err = db.Connect(cfg.Database)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close(database)
		if err := db.AutoMigrate(database); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		embedder = llm.NewOllamaClient(llm.OllamaConfig{
			URL:        cfg.LLM.OllamaURL,
			EmbedModel: cfg.LLM.OllamaEmbedModel,
			Timeout:    cfg.LLM.Timeout,
		}, nil)
	}

	ctx := context.Background()
	store, err := vectorstore.New(ctx, cfg.VectorStore, database, embedder)
	if err != nil {
		log.Fatalf("Failed to create vector store: %v", err)
	}
	defer store.Close()

	byEmployee := make(map[string][]models.EmployeeSegment)
	for _, batch := range []string{web.SampleLogs1, web.SampleLogs2} {
		for _, seg := range services.SplitEmployeeLogs(batch) {
			byEmployee[seg.EmployeeID] = append(byEmployee[seg.EmployeeID], seg)
		}
	}

	indexer := services.NewIndexer(store)
	for _, employeeID := range web.Employees {
		segments := byEmployee[employeeID]
		if len(segments) == 0 {
			log.Printf("⚠️ No sample logs for %s", employeeID)
			continue
		}
		if _, err := indexer.Store(ctx, employeeID, segments); err != nil {
			log.Fatalf("Failed to seed %s: %v", employeeID, err)
		}
		log.Printf("✅ Seeded %d segment(s) for %s", len(segments), employeeID)
	}

	log.Printf("✅ Sample logs indexed into the %s store", store.Name())
}
