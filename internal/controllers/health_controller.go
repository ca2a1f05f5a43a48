package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

// HealthController reports dependency status. Ping is nil when no database is configured.
type HealthController struct {
	ping        func(ctx context.Context) error
	vectorStore string
	llmProvider string
	llmModel    string
}

func NewHealthController(ping func(ctx context.Context) error, vectorStore, llmProvider, llmModel string) *HealthController {
	return &HealthController{
		ping:        ping,
		vectorStore: vectorStore,
		llmProvider: llmProvider,
		llmModel:    llmModel,
	}
}

// Health handles GET /health
func (hc *HealthController) Health(c *gin.Context) {
	dbStatus := "disabled"
	var dbError string

	if hc.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := hc.ping(ctx); err != nil {
			dbStatus = "error"
			dbError = err.Error()
		} else {
			dbStatus = "ok"
		}
	}

	// Determine overall health
	overallStatus := "ok"
	statusCode := http.StatusOK
	if dbStatus == "error" {
		overallStatus = "error"
		statusCode = http.StatusServiceUnavailable
	}

	database := gin.H{"status": dbStatus}
	if dbError != "" {
		database["error"] = dbError
	}

	c.JSON(statusCode, gin.H{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
		"services": gin.H{
			"database":     database,
			"vector_store": gin.H{"backend": hc.vectorStore},
			"llm":          gin.H{"provider": hc.llmProvider, "model": hc.llmModel},
		},
	})
}
