package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/perfeval/backend/internal/config"
	"github.com/perfeval/backend/internal/controllers"
	"github.com/perfeval/backend/internal/db"
	"github.com/perfeval/backend/internal/llm"
	"github.com/perfeval/backend/internal/logger"
	"github.com/perfeval/backend/internal/middleware"
	"github.com/perfeval/backend/internal/routes"
	"github.com/perfeval/backend/internal/services"
	"github.com/perfeval/backend/internal/vectorstore"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration:\n%v\n", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.Logging)
	if envErr != nil {
		logger.Warn("No .env file found, using environment variables", nil)
	}

	// Connect to database when configured
	var database *gorm.DB
	if cfg.Database.Enabled() {
		database, err = db.Connect(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
		}
		if err := db.AutoMigrate(database); err != nil {
			logger.Fatal("Database migration failed", map[string]interface{}{"error": err.Error()})
		}
	}

	tracker := llm.NewTracker()

	client, err := newLLMClient(cfg.LLM, tracker)
	if err != nil {
		logger.Fatal("Failed to create LLM client", map[string]interface{}{"error": err.Error()})
	}

	store, err := newVectorStore(context.Background(), cfg, database, tracker)
	if err != nil {
		logger.Fatal("Failed to create vector store", map[string]interface{}{"error": err.Error()})
	}

	var history services.HistoryRecorder = services.NoopHistory{}
	var ping func(ctx context.Context) error
	if database != nil {
		history = services.NewHistoryService(database)
		ping = func(ctx context.Context) error { return db.Ping(ctx, database) }
	}

	evaluator := services.NewEvaluationService(store, client, newBarrier(cfg), history, cfg.Pipeline.RetrievalTopK)

	// Set Gin mode
	if cfg.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router without default middleware
	r := gin.New()

	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	r.Use(middleware.RequestID())
	r.Use(middleware.CustomLoggerMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	r.Use(gin.Recovery())

	routes.SetupRoutes(r, routes.Dependencies{
		Evaluator: evaluator,
		History:   history,
		Tracker:   tracker,
		Health:    controllers.NewHealthController(ping, store.Name(), client.Provider(), client.Model()),
		Admin:     cfg.Admin,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	logger.Info("Starting performance evaluation server", map[string]interface{}{
		"port":         cfg.Server.Port,
		"gin_mode":     gin.Mode(),
		"vector_store": store.Name(),
		"llm_provider": client.Provider(),
		"llm_model":    client.Model(),
		"history":      database != nil,
		"admin_api":    cfg.Admin.Enabled(),
	})

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.Info("Shutting down server gracefully...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		logger.Info("Server exited gracefully", nil)
	}

	if err := store.Close(); err != nil {
		logger.Error("Failed to close vector store", map[string]interface{}{"error": err.Error()})
	}
	if err := db.Close(database); err != nil {
		logger.Error("Failed to close database", map[string]interface{}{"error": err.Error()})
	}
}

func newLLMClient(cfg config.LLMConfig, tracker *llm.Tracker) (llm.Client, error) {
	switch cfg.Provider {
	case "gemini":
		return llm.NewGeminiClient(llm.GeminiConfig{
			APIKey:  cfg.GoogleAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
			Timeout: cfg.Timeout,
		}, tracker)
	case "ollama":
		return newOllama(cfg, tracker), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

func newOllama(cfg config.LLMConfig, tracker *llm.Tracker) *llm.OllamaClient {
	return llm.NewOllamaClient(llm.OllamaConfig{
		URL:        cfg.OllamaURL,
		Model:      cfg.OllamaModel,
		EmbedModel: cfg.OllamaEmbedModel,
		Timeout:    cfg.Timeout,
	}, tracker)
}

func newVectorStore(ctx context.Context, cfg *config.Config, database *gorm.DB, tracker *llm.Tracker) (vectorstore.Store, error) {
	var embedder vectorstore.Embedder
	if cfg.VectorStore.Backend == "pgvector" {
		embedder = newOllama(cfg.LLM, tracker)
	}
	return vectorstore.New(ctx, cfg.VectorStore, database, embedder)
}

// newBarrier waits only for the eventually consistent hosted index.
func newBarrier(cfg *config.Config) services.ConsistencyBarrier {
	if vectorstore.EventuallyConsistent(cfg.VectorStore.Backend) {
		return services.FixedDelayBarrier{Delay: cfg.Pipeline.ConsistencyDelay}
	}
	return services.NoopBarrier{}
}
