package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/perfeval/backend/internal/llm"
	"github.com/perfeval/backend/internal/services"
)

type AdminController struct {
	history services.HistoryRecorder
	tracker *llm.Tracker
}

func NewAdminController(history services.HistoryRecorder, tracker *llm.Tracker) *AdminController {
	return &AdminController{history: history, tracker: tracker}
}

// ListEvaluations handles GET /api/v1/admin/evaluations?employee=&limit=
func (ac *AdminController) ListEvaluations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := ac.history.List(c.Request.Context(), c.Query("employee"), limit)
	if err != nil {
		ac.historyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"evaluations": runs,
		"count":       len(runs),
	})
}

// GetEvaluation handles GET /api/v1/admin/evaluations/:id
func (ac *AdminController) GetEvaluation(c *gin.Context) {
	run, err := ac.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ac.historyError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (ac *AdminController) historyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrHistoryDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read evaluation history"})
	}
}

// GetLLMAPICalls returns the most recent model calls
func (ac *AdminController) GetLLMAPICalls(c *gin.Context) {
	calls := ac.tracker.Calls()
	if calls == nil {
		calls = []llm.APICall{}
	}
	c.JSON(http.StatusOK, gin.H{
		"calls": calls,
		"count": len(calls),
	})
}

// ClearLLMAPICalls drops the tracked model calls
func (ac *AdminController) ClearLLMAPICalls(c *gin.Context) {
	ac.tracker.Clear()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "LLM API call history cleared",
	})
}
