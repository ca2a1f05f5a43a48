package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/perfeval/backend/internal/logger"
	"github.com/perfeval/backend/internal/middleware"
	"github.com/perfeval/backend/internal/models"
	"github.com/perfeval/backend/internal/pdf"
	"github.com/perfeval/backend/internal/services"
	"github.com/perfeval/backend/internal/web"
)

// Evaluator runs the report pipeline for one employee.
type Evaluator interface {
	Evaluate(ctx context.Context, employeeID, rawLogs string) (*models.Report, error)
}

type ReportController struct {
	evaluator Evaluator
	now       func() time.Time
}

func NewReportController(evaluator Evaluator) *ReportController {
	return &ReportController{evaluator: evaluator, now: time.Now}
}

// Both fields must be present; logs may be empty.
type GenerateReportRequest struct {
	EmployeeName *string `json:"employee_name" binding:"required"`
	Logs         *string `json:"logs" binding:"required"`
}

type RenderPDFRequest struct {
	EmployeeName string  `json:"employee_name" binding:"required"`
	Report       *string `json:"report" binding:"required"`
}

// GenerateReport handles POST /generate_report
func (rc *ReportController) GenerateReport(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employeeID := strings.TrimSpace(*req.EmployeeName)
	if employeeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee_name must not be empty"})
		return
	}

	report, err := rc.evaluator.Evaluate(c.Request.Context(), employeeID, *req.Logs)
	if err != nil {
		if errors.Is(err, services.ErrInputFailure) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.WithError(err, "report_controller").WithFields(map[string]interface{}{
			"employee_id":  employeeID,
			"failure_kind": services.FailureKind(err),
			"request_id":   middleware.GetRequestID(c),
		}).Error("Report generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// RenderPDF handles POST /generate_report/pdf
func (rc *ReportController) RenderPDF(c *gin.Context) {
	var req RenderPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := pdf.Render(req.EmployeeName, *req.Report)
	if err != nil {
		logger.WithError(err, "report_controller").Error("PDF rendering failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+pdf.Filename(req.EmployeeName, rc.now())+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// Index serves the evaluation form
func (rc *ReportController) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", web.NewIndexData())
}
