package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/perfeval/backend/internal/config"
	"github.com/perfeval/backend/internal/controllers"
	"github.com/perfeval/backend/internal/llm"
	"github.com/perfeval/backend/internal/middleware"
	"github.com/perfeval/backend/internal/services"
	"github.com/perfeval/backend/internal/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the process-wide handles the handlers share.
type Dependencies struct {
	Evaluator controllers.Evaluator
	History   services.HistoryRecorder
	Tracker   *llm.Tracker
	Health    *controllers.HealthController
	Admin     config.AdminConfig
}

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, deps Dependencies) {
	r.SetHTMLTemplate(web.Templates())

	// Initialize controllers
	reportController := controllers.NewReportController(deps.Evaluator)
	adminController := controllers.NewAdminController(deps.History, deps.Tracker)
	authController := controllers.NewAuthController(deps.Admin)

	r.GET("/", reportController.Index)
	r.GET("/health", deps.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/generate_report", reportController.GenerateReport)
	r.POST("/generate_report/pdf", reportController.RenderPDF)

	// API routes
	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authController.Login)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware([]byte(deps.Admin.JWTSecret)))
		{
			admin.GET("/evaluations", adminController.ListEvaluations)
			admin.GET("/evaluations/:id", adminController.GetEvaluation)
			admin.GET("/llm-api-calls", adminController.GetLLMAPICalls)
			admin.DELETE("/llm-api-calls", adminController.ClearLLMAPICalls)
		}
	}
}
